package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var userList = listQuery{
	searchColumns: []string{"email", "name"},
	filterColumns: map[string]string{"role": "role"},
	sortFields:    userSort,
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the users among ids that exist
func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]identity.User, error) {
	users := make([]identity.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []models.UserModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	err := dbFromContext(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindIDsByRole returns the ids of every user holding role
func (r *GormUserRepository) FindIDsByRole(ctx context.Context, role identity.Role) ([]uint, error) {
	ids := make([]uint, 0)
	err := dbFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("role = ?", role).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// FindAll lists users. Supported filter: role.
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var rows []models.UserModel
	query := userList.page(dbFromContext(ctx, r.db).Model(&models.UserModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := userList.where(dbFromContext(ctx, r.db).Model(&models.UserModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByEmail checks for another user with this email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.UserModel{}, "email", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

// CountByRole counts users holding role
func (r *GormUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.UserModel{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// SaveWithLock saves a user with optimistic locking
func (r *GormUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	return saveWithLock(ctx, r.db, models.UserModelFromDomain(user), user.ID, user.Version)
}

// DeleteByIDs removes users together with their notifications
func (r *GormUserRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return r.deleteUsers(ctx, ids)
}

// SaveKeepingAdmin saves a user leaving the admin role while another
// administrator remains at write time
func (r *GormUserRepository) SaveKeepingAdmin(ctx context.Context, user *identity.User) error {
	if err := lockAdmins(dbFromContext(ctx, r.db)); err != nil {
		return err
	}
	err := saveWithLock(ctx, r.db, models.UserModelFromDomain(user), user.ID, user.Version, adminOutside([]uint{user.ID}))
	if errors.Is(err, errGuardRejected) {
		return identity.ErrNoAdminRemains
	}
	return err
}

// DeleteKeepingAdmin removes users while an administrator outside ids
// remains. Call it inside a transaction scope: a rejected batch returns
// ErrNoAdminRemains after the notifications are gone and relies on the
// rollback to restore them.
func (r *GormUserRepository) DeleteKeepingAdmin(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	if err := lockAdmins(dbFromContext(ctx, r.db)); err != nil {
		return err
	}
	return r.deleteUsers(ctx, ids, adminOutside(ids))
}

func (r *GormUserRepository) deleteUsers(ctx context.Context, ids []uint, guards ...func(*gorm.DB) *gorm.DB) error {
	if len(ids) == 0 {
		return nil
	}
	db := dbFromContext(ctx, r.db)
	if err := db.Where("user_id IN ?", ids).Delete(&models.NotificationModel{}).Error; err != nil {
		return err
	}
	result := db.Where("id IN ?", ids).Scopes(guards...).Delete(&models.UserModel{})
	if result.Error != nil {
		return result.Error
	}
	if len(guards) > 0 && result.RowsAffected == 0 {
		return identity.ErrNoAdminRemains
	}
	return nil
}

// adminOutside restricts a write to the case where some administrator not in
// ids survives it. The count runs in the same statement as the write.
func adminOutside(ids []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		others := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.UserModel{}).
			Select("COUNT(*)").
			Where("role = ? AND id NOT IN ?", identity.RoleAdmin, ids)
		return db.Where("(?) > 0", others)
	}
}

// lockAdmins holds row locks on every administrator until the surrounding
// transaction ends, so concurrent demotions and deletions run one after the
// other and each sees the previous one's result. SQLite has no row locks and
// serializes writers on its own.
func lockAdmins(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	var ids []uint
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&models.UserModel{}).
		Where("role = ?", identity.RoleAdmin).
		Pluck("id", &ids).Error
}
