package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User error codes
const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeSomeUsersNotFound  = "SOME_USERS_NOT_FOUND"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidImageType   = "INVALID_IMAGE_TYPE"
	CodeImageTooLarge      = "IMAGE_TOO_LARGE"
	CodeImageNotFound      = "IMAGE_NOT_FOUND"
)

// Profile image limits
const (
	DefaultImageURLTTLMinutes = 60
	MaxImageURLTTLMinutes     = 1440
	DefaultMaxImageSize       = 5 << 20
	profileImagePrefix        = "profile-images"
)

// allowedImageTypes maps accepted content types to the object key extension
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStorage stores profile images.
// It is implemented by the infrastructure layer (S3 or the in-memory stub).
type ImageStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	// GenerateDownloadURL returns a presigned URL and its expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
}

// UserServiceConfig holds tunables for the user service
type UserServiceConfig struct {
	MaxImageSize int64
	// TokenRevocationTTL must cover the longest token lifetime
	TokenRevocationTTL time.Duration
}

// UserService handles user administration and profile operations
type UserService struct {
	userRepo  identity.UserRepository
	images    ImageStorage
	blacklist auth.TokenBlacklist
	txScope   shared.TransactionScope
	events    shared.EventPublisher
	config    UserServiceConfig
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	images ImageStorage,
	blacklist auth.TokenBlacklist,
	txScope shared.TransactionScope,
	config UserServiceConfig,
	logger *zap.Logger,
) *UserService {
	if config.MaxImageSize <= 0 {
		config.MaxImageSize = DefaultMaxImageSize
	}
	if config.TokenRevocationTTL <= 0 {
		config.TokenRevocationTTL = 7 * 24 * time.Hour
	}
	return &UserService{
		userRepo:  userRepo,
		images:    images,
		blacklist: blacklist,
		txScope:   txScope,
		config:    config,
		logger:    logger,
	}
}

// SetEventPublisher sets the publisher for user events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// List returns a page of users. Supported filters: role.
func (s *UserService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[UserResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToUserResponses(users), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Create creates a user with an explicit role
func (s *UserService) Create(ctx context.Context, actor shared.Actor, req *CreateUserRequest) (*UserResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	user, err := identity.NewUserWithRole(req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	user.MarkCreatedBy(actor)

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailAvailable(ctx, user.Email, 0); err != nil {
			return err
		}
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, translateUserWriteError(err, user.Email)
	}

	s.logger.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role.String()),
		zap.Uint("actor_id", actor.UserID))

	response := ToUserResponse(user)
	return &response, nil
}

// UpdateProfile changes the email and name of a user
func (s *UserService) UpdateProfile(ctx context.Context, actor shared.Actor, id uint, req *UpdateProfileRequest) (*UserResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	var user *identity.User
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.find(ctx, id)
		if err != nil {
			return err
		}
		if err := user.CheckVersion(req.Version); err != nil {
			return err
		}
		if err := user.UpdateProfile(req.Email, req.Name); err != nil {
			return err
		}
		if err := s.ensureEmailAvailable(ctx, user.Email, id); err != nil {
			return err
		}
		user.MarkUpdatedBy(actor)
		return s.userRepo.SaveWithLock(ctx, user)
	})
	if err != nil {
		return nil, translateUserWriteError(err, req.Email)
	}

	s.logger.Info("User profile updated", zap.Uint("user_id", id), zap.Uint("actor_id", actor.UserID))

	response := ToUserResponse(user)
	return &response, nil
}

// UpdateRole assigns a new role. The last administrator cannot be demoted.
// A role change revokes every token issued to the user.
func (s *UserService) UpdateRole(ctx context.Context, actor shared.Actor, id uint, req *UpdateRoleRequest) (*UserResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	role := identity.Role(req.Role)

	var (
		user *identity.User
		from identity.Role
	)
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.find(ctx, id)
		if err != nil {
			return err
		}
		if err := user.CheckVersion(req.Version); err != nil {
			return err
		}
		from = user.Role
		demoting := user.IsAdmin() && role != identity.RoleAdmin
		if demoting {
			admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
			if err != nil {
				return err
			}
			if err := identity.EnsureAdminsRemain(admins, []identity.User{*user}, identity.CodeCannotEditLastAdminRole); err != nil {
				s.logger.Warn("User rule rejected", zap.String("code", identity.CodeCannotEditLastAdminRole))
				return err
			}
		}
		if err := user.ChangeRole(role); err != nil {
			return err
		}
		user.MarkUpdatedBy(actor)
		if !demoting {
			return s.userRepo.SaveWithLock(ctx, user)
		}
		// another request may have demoted or removed the other admins since the count
		err = s.userRepo.SaveKeepingAdmin(ctx, user)
		if errors.Is(err, identity.ErrNoAdminRemains) {
			s.logger.Warn("User rule rejected at write", zap.String("code", identity.CodeCannotEditLastAdminRole))
			return identity.LastAdminError(identity.CodeCannotEditLastAdminRole)
		}
		return err
	})
	if err != nil {
		return nil, translateUserWriteError(err, "")
	}

	s.logger.Info("User role updated",
		zap.Uint("user_id", id),
		zap.String("from_role", from.String()),
		zap.String("to_role", user.Role.String()),
		zap.Uint("actor_id", actor.UserID))

	if from != user.Role {
		s.revokeTokens(ctx, id)
		if s.events != nil {
			if err := s.events.Publish(ctx, identity.NewUserRoleChangedEvent(user, from, actor)); err != nil {
				s.logger.Error("Failed to publish user role changed event", zap.Error(err))
			}
		}
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete deletes a single user
func (s *UserService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	return s.deleteMany(ctx, actor, []uint{id}, shared.EntityNotFound(CodeUserNotFound, "User"))
}

// BulkDelete deletes a set of users atomically. At least one administrator must remain.
func (s *UserService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	return s.deleteMany(ctx, actor, ids, shared.SomeNotFound(CodeSomeUsersNotFound, "users"))
}

func (s *UserService) deleteMany(ctx context.Context, actor shared.Actor, ids []uint, notFound *shared.DomainError) error {
	unique, err := shared.UniqueIDs(ids)
	if err != nil {
		return err
	}
	if len(unique) == 0 {
		return nil
	}

	var users []identity.User
	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		users, err = s.userRepo.FindByIDs(ctx, unique)
		if err != nil {
			return err
		}
		found := make([]uint, len(users))
		for i := range users {
			found[i] = users[i].ID
		}
		if len(shared.MissingIDs(unique, found)) > 0 {
			return notFound
		}
		admins, err := s.userRepo.CountByRole(ctx, identity.RoleAdmin)
		if err != nil {
			return err
		}
		if err := identity.EnsureAdminsRemain(admins, users, identity.CodeCannotDeleteAllAdmins); err != nil {
			s.logger.Warn("User rule rejected", zap.String("code", identity.CodeCannotDeleteAllAdmins))
			return err
		}
		if !slices.ContainsFunc(users, func(u identity.User) bool { return u.IsAdmin() }) {
			return s.userRepo.DeleteByIDs(ctx, unique)
		}
		err = s.userRepo.DeleteKeepingAdmin(ctx, unique)
		if errors.Is(err, identity.ErrNoAdminRemains) {
			s.logger.Warn("User rule rejected at write", zap.String("code", identity.CodeCannotDeleteAllAdmins))
			return identity.LastAdminError(identity.CodeCannotDeleteAllAdmins)
		}
		return err
	})
	if err != nil {
		return err
	}

	for i := range users {
		s.revokeTokens(ctx, users[i].ID)
		if users[i].ImageKey != "" {
			s.deleteObject(ctx, users[i].ImageKey)
		}
	}
	s.logger.Info("Users deleted", zap.Uints("user_ids", unique), zap.Uint("actor_id", actor.UserID))
	return nil
}

// UploadImage stores a new profile image for the actor and removes the previous one
func (s *UserService) UploadImage(ctx context.Context, actor shared.Actor, req *UploadImageRequest) (*UserResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	ext, ok := allowedImageTypes[req.ContentType]
	if !ok {
		return nil, shared.NewValidationError(CodeInvalidImageType, "Only JPEG, PNG and WEBP images are allowed")
	}
	if len(req.Data) == 0 {
		return nil, shared.NewValidationError(CodeInvalidImageType, "Image file is empty")
	}
	if int64(len(req.Data)) > s.config.MaxImageSize {
		return nil, shared.NewValidationError(CodeImageTooLarge,
			fmt.Sprintf("Image cannot exceed %d MB", s.config.MaxImageSize>>20))
	}

	user, err := s.find(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%d/%s%s", profileImagePrefix, user.ID, uuid.New().String(), ext)
	if err := s.images.Upload(ctx, key, req.Data, req.ContentType); err != nil {
		return nil, fmt.Errorf("failed to upload profile image: %w", err)
	}

	previous := user.SetImage(key)
	user.MarkUpdatedBy(actor)
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		s.deleteObject(ctx, key)
		return nil, translateUserWriteError(err, "")
	}
	if previous != "" {
		s.deleteObject(ctx, previous)
	}

	s.logger.Info("Profile image uploaded", zap.Uint("user_id", user.ID), zap.String("key", key))

	response := ToUserResponse(user)
	return &response, nil
}

// DeleteImage removes the actor's profile image
func (s *UserService) DeleteImage(ctx context.Context, actor shared.Actor) error {
	user, err := s.find(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if user.ImageKey == "" {
		return shared.EntityNotFound(CodeImageNotFound, "Profile image")
	}

	previous := user.SetImage("")
	user.MarkUpdatedBy(actor)
	if err := s.userRepo.SaveWithLock(ctx, user); err != nil {
		return translateUserWriteError(err, "")
	}
	s.deleteObject(ctx, previous)

	s.logger.Info("Profile image deleted", zap.Uint("user_id", user.ID))
	return nil
}

// GetImageURL returns a signed URL for the profile image of userID.
// ttlMinutes defaults to 60 and is capped at 1440.
func (s *UserService) GetImageURL(ctx context.Context, userID uint, ttlMinutes int) (*ImageURLResponse, error) {
	if ttlMinutes <= 0 {
		ttlMinutes = DefaultImageURLTTLMinutes
	}
	if ttlMinutes > MaxImageURLTTLMinutes {
		ttlMinutes = MaxImageURLTTLMinutes
	}

	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ImageKey == "" {
		return nil, shared.EntityNotFound(CodeImageNotFound, "Profile image")
	}

	url, expiresAt, err := s.images.GenerateDownloadURL(ctx, user.ImageKey, time.Duration(ttlMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to sign profile image url: %w", err)
	}
	return &ImageURLResponse{URL: url, ExpiresAt: expiresAt}, nil
}

func (s *UserService) find(ctx context.Context, id uint) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeUserNotFound, "User"))
	}
	return user, nil
}

func (s *UserService) ensureEmailAvailable(ctx context.Context, email string, excludeID uint) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Warn("User rule rejected", zap.String("code", CodeEmailAlreadyExists))
		return emailTaken(email)
	}
	return nil
}

// revokeTokens is best effort; a failure is logged and the request still succeeds
func (s *UserService) revokeTokens(ctx context.Context, userID uint) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID, s.config.TokenRevocationTTL); err != nil {
		s.logger.Error("Failed to revoke user tokens", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *UserService) deleteObject(ctx context.Context, key string) {
	if err := s.images.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete profile image", zap.String("key", key), zap.Error(err))
	}
}

func translateUserWriteError(err error, email string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateKey):
		return emailTaken(email)
	case errors.Is(err, shared.ErrNotFound):
		return shared.EntityNotFound(CodeUserNotFound, "User")
	}
	return err
}

func emailTaken(email string) *shared.DomainError {
	return shared.AlreadyExists(CodeEmailAlreadyExists, "user", "email", email)
}
