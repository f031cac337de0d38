package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var adminActor = shared.NewActor(1, string(identity.RoleAdmin))

// MockImageStorage is a mock implementation of ImageStorage
type MockImageStorage struct {
	mock.Mock
}

func (m *MockImageStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	return m.Called(ctx, storageKey, data, contentType).Error(0)
}

func (m *MockImageStorage) DeleteObject(ctx context.Context, storageKey string) error {
	return m.Called(ctx, storageKey).Error(0)
}

func (m *MockImageStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type userServiceFixture struct {
	svc       *UserService
	users     *testutil.MockUserRepository
	images    *MockImageStorage
	blacklist *auth.InMemoryTokenBlacklist
	events    *testutil.MockEventPublisher
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:     new(testutil.MockUserRepository),
		images:    new(MockImageStorage),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		events:    new(testutil.MockEventPublisher),
	}
	f.svc = NewUserService(f.users, f.images, f.blacklist, shared.NoOpTransactionScope{}, UserServiceConfig{}, zap.NewNop())
	f.svc.SetEventPublisher(f.events)
	return f
}

// storedUser builds a persisted user without hashing a password
func storedUser(id uint, email string, role identity.Role) *identity.User {
	u := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              strings.Split(email, "@")[0],
		Role:              role,
	}
	u.ID = id
	return u
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func assertRevoked(t *testing.T, blacklist auth.TokenBlacklist, userID uint, want bool) {
	t.Helper()
	revoked, err := blacklist.IsUserTokenInvalidated(context.Background(), userID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, want, revoked)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with role", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByEmail", ctx, "ops@example.com", uint(0)).Return(false, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 5
		}).Return(nil)

		resp, err := f.svc.Create(ctx, adminActor, &CreateUserRequest{
			Email: " OPS@example.com ", Name: "Ops", Password: "secret123", Role: "Logistics",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(5), resp.ID)
		assert.Equal(t, "ops@example.com", resp.Email)
		assert.Equal(t, "Logistics", resp.Role)
		assert.False(t, resp.HasImage)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByEmail", ctx, "ops@example.com", uint(0)).Return(true, nil)

		_, err := f.svc.Create(ctx, adminActor, &CreateUserRequest{
			Email: "ops@example.com", Name: "Ops", Password: "secret123", Role: "Logistics",
		})

		assertDomainCode(t, err, CodeEmailAlreadyExists)
		assert.Equal(t, "A user with the email 'ops@example.com' already exists", err.Error())
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("database unique constraint", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("ExistsByEmail", ctx, "ops@example.com", uint(0)).Return(false, nil)
		f.users.On("Create", ctx, mock.Anything).Return(shared.ErrDuplicateKey)

		_, err := f.svc.Create(ctx, adminActor, &CreateUserRequest{
			Email: "ops@example.com", Name: "Ops", Password: "secret123", Role: "Admin",
		})

		assertDomainCode(t, err, CodeEmailAlreadyExists)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	})

	t.Run("invalid role", func(t *testing.T) {
		f := newUserServiceFixture()

		_, err := f.svc.Create(ctx, adminActor, &CreateUserRequest{
			Email: "ops@example.com", Name: "Ops", Password: "secret123", Role: "Root",
		})

		assertDomainCode(t, err, "INVALID_ROLE")
	})

	t.Run("nil request", func(t *testing.T) {
		f := newUserServiceFixture()

		_, err := f.svc.Create(ctx, adminActor, nil)

		assert.ErrorIs(t, err, shared.ErrArgumentNull)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps own email", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.users.On("ExistsByEmail", ctx, "ana@example.com", uint(4)).Return(false, nil)
		f.users.On("SaveWithLock", ctx, user).Return(nil)

		resp, err := f.svc.UpdateProfile(ctx, shared.NewActor(4, "Logistics"), 4, &UpdateProfileRequest{
			Email: "ana@example.com", Name: "Ana María", Version: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, "Ana María", resp.Name)
		assert.Equal(t, 2, resp.Version)
	})

	t.Run("stale version", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		user.Version = 3
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)

		_, err := f.svc.UpdateProfile(ctx, adminActor, 4, &UpdateProfileRequest{
			Email: "ana@example.com", Name: "Ana", Version: 2,
		})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.users.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, uint(40)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.UpdateProfile(ctx, adminActor, 40, &UpdateProfileRequest{
			Email: "x@example.com", Name: "X", Version: 1,
		})

		assertDomainCode(t, err, CodeUserNotFound)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes user, revokes tokens and publishes event", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RolePending)
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.users.On("SaveWithLock", ctx, user).Return(nil)
		f.events.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			e, ok := events[0].(*identity.UserRoleChangedEvent)
			return ok && e.FromRole == identity.RolePending && e.ToRole == identity.RoleLogistics
		})).Return(nil)

		resp, err := f.svc.UpdateRole(ctx, adminActor, 4, &UpdateRoleRequest{Role: "Logistics", Version: 1})

		require.NoError(t, err)
		assert.Equal(t, "Logistics", resp.Role)
		assertRevoked(t, f.blacklist, 4, true)
		f.events.AssertExpectations(t)
		f.users.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
	})

	t.Run("cannot demote last admin", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(1, "root@example.com", identity.RoleAdmin)
		f.users.On("FindByID", ctx, uint(1)).Return(user, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(1), nil)

		_, err := f.svc.UpdateRole(ctx, adminActor, 1, &UpdateRoleRequest{Role: "Payments", Version: 1})

		assertDomainCode(t, err, identity.CodeCannotEditLastAdminRole)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		f.users.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		assertRevoked(t, f.blacklist, 1, false)
	})

	t.Run("demotes admin when another remains", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(2, "second@example.com", identity.RoleAdmin)
		f.users.On("FindByID", ctx, uint(2)).Return(user, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(2), nil)
		f.users.On("SaveKeepingAdmin", ctx, user).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.UpdateRole(ctx, adminActor, 2, &UpdateRoleRequest{Role: "Payments", Version: 1})

		require.NoError(t, err)
		assert.Equal(t, "Payments", resp.Role)
		f.users.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("other admin demoted in the meantime", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(2, "second@example.com", identity.RoleAdmin)
		f.users.On("FindByID", ctx, uint(2)).Return(user, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(2), nil)
		f.users.On("SaveKeepingAdmin", ctx, user).Return(identity.ErrNoAdminRemains)

		_, err := f.svc.UpdateRole(ctx, adminActor, 2, &UpdateRoleRequest{Role: "Payments", Version: 1})

		assertDomainCode(t, err, identity.CodeCannotEditLastAdminRole)
		assertRevoked(t, f.blacklist, 2, false)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("same role keeps tokens", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.users.On("SaveWithLock", ctx, user).Return(nil)

		_, err := f.svc.UpdateRole(ctx, adminActor, 4, &UpdateRoleRequest{Role: "Logistics", Version: 1})

		require.NoError(t, err)
		assertRevoked(t, f.blacklist, 4, false)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("concurrent save", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RolePending)
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.users.On("SaveWithLock", ctx, user).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.UpdateRole(ctx, adminActor, 4, &UpdateRoleRequest{Role: "Logistics", Version: 1})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assertRevoked(t, f.blacklist, 4, false)
	})
}

func TestUserService_BulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes users and their images", func(t *testing.T) {
		f := newUserServiceFixture()
		withImage := storedUser(4, "ana@example.com", identity.RoleLogistics)
		withImage.ImageKey = "profile-images/4/a.png"
		f.users.On("FindByIDs", ctx, []uint{4, 5}).Return([]identity.User{
			*withImage,
			*storedUser(5, "bob@example.com", identity.RolePayments),
		}, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(1), nil)
		f.users.On("DeleteByIDs", ctx, []uint{4, 5}).Return(nil)
		f.images.On("DeleteObject", ctx, "profile-images/4/a.png").Return(nil)

		err := f.svc.BulkDelete(ctx, adminActor, []uint{4, 5, 4})

		require.NoError(t, err)
		f.images.AssertExpectations(t)
		assertRevoked(t, f.blacklist, 4, true)
		assertRevoked(t, f.blacklist, 5, true)
	})

	t.Run("cannot delete all admins", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByIDs", ctx, []uint{1, 2}).Return([]identity.User{
			*storedUser(1, "a@example.com", identity.RoleAdmin),
			*storedUser(2, "b@example.com", identity.RoleAdmin),
		}, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(2), nil)

		err := f.svc.BulkDelete(ctx, adminActor, []uint{1, 2})

		assertDomainCode(t, err, identity.CodeCannotDeleteAllAdmins)
		f.users.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("admin delete uses the guarded write", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByIDs", ctx, []uint{2}).Return([]identity.User{
			*storedUser(2, "b@example.com", identity.RoleAdmin),
		}, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(2), nil)
		f.users.On("DeleteKeepingAdmin", ctx, []uint{2}).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, adminActor, 2))
		f.users.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
		assertRevoked(t, f.blacklist, 2, true)
	})

	t.Run("other admin removed in the meantime", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByIDs", ctx, []uint{2}).Return([]identity.User{
			*storedUser(2, "b@example.com", identity.RoleAdmin),
		}, nil)
		f.users.On("CountByRole", ctx, identity.RoleAdmin).Return(int64(2), nil)
		f.users.On("DeleteKeepingAdmin", ctx, []uint{2}).Return(identity.ErrNoAdminRemains)

		err := f.svc.Delete(ctx, adminActor, 2)

		assertDomainCode(t, err, identity.CodeCannotDeleteAllAdmins)
		assertRevoked(t, f.blacklist, 2, false)
	})

	t.Run("missing id deletes nothing", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByIDs", ctx, []uint{4, 99}).Return([]identity.User{
			*storedUser(4, "ana@example.com", identity.RoleLogistics),
		}, nil)

		err := f.svc.BulkDelete(ctx, adminActor, []uint{4, 99})

		assertDomainCode(t, err, CodeSomeUsersNotFound)
		assert.Equal(t, "Some of the specified users were not found", err.Error())
		f.users.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything)
	})

	t.Run("single delete of unknown user", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByIDs", ctx, []uint{99}).Return([]identity.User{}, nil)

		err := f.svc.Delete(ctx, adminActor, 99)

		assertDomainCode(t, err, CodeUserNotFound)
	})

	t.Run("empty and nil", func(t *testing.T) {
		f := newUserServiceFixture()

		assert.NoError(t, f.svc.BulkDelete(ctx, adminActor, []uint{}))
		assert.ErrorIs(t, f.svc.BulkDelete(ctx, adminActor, nil), shared.ErrArgumentNull)
		f.users.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})
}

func TestUserService_UploadImage(t *testing.T) {
	ctx := context.Background()
	actor := shared.NewActor(4, "Logistics")

	t.Run("replaces previous image", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		user.ImageKey = "profile-images/4/old.png"
		data := []byte("png-bytes")
		var uploadedKey string
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.images.On("Upload", ctx, mock.AnythingOfType("string"), data, "image/png").Run(func(args mock.Arguments) {
			uploadedKey = args.String(1)
		}).Return(nil)
		f.users.On("SaveWithLock", ctx, user).Return(nil)
		f.images.On("DeleteObject", ctx, "profile-images/4/old.png").Return(nil)

		resp, err := f.svc.UploadImage(ctx, actor, &UploadImageRequest{ContentType: "image/png", Data: data})

		require.NoError(t, err)
		assert.True(t, resp.HasImage)
		assert.True(t, strings.HasPrefix(uploadedKey, "profile-images/4/"))
		assert.True(t, strings.HasSuffix(uploadedKey, ".png"))
		assert.Equal(t, uploadedKey, user.ImageKey)
		f.images.AssertExpectations(t)
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		f := newUserServiceFixture()

		_, err := f.svc.UploadImage(ctx, actor, &UploadImageRequest{ContentType: "image/gif", Data: []byte("gif")})

		assertDomainCode(t, err, CodeInvalidImageType)
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	})

	t.Run("rejects images over the size limit", func(t *testing.T) {
		f := newUserServiceFixture()

		_, err := f.svc.UploadImage(ctx, actor, &UploadImageRequest{
			ContentType: "image/jpeg",
			Data:        make([]byte, DefaultMaxImageSize+1),
		})

		assertDomainCode(t, err, CodeImageTooLarge)
	})

	t.Run("removes uploaded object when save fails", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.images.On("Upload", ctx, mock.Anything, mock.Anything, "image/webp").Return(nil)
		f.users.On("SaveWithLock", ctx, user).Return(shared.ErrConcurrencyConflict)
		f.images.On("DeleteObject", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".webp")
		})).Return(nil)

		_, err := f.svc.UploadImage(ctx, actor, &UploadImageRequest{ContentType: "image/webp", Data: []byte("w")})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.images.AssertExpectations(t)
	})
}

func TestUserService_ImageURLAndDelete(t *testing.T) {
	ctx := context.Background()
	actor := shared.NewActor(4, "Logistics")
	expires := time.Now().Add(time.Hour)

	t.Run("default ttl", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		user.ImageKey = "profile-images/4/a.png"
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.images.On("GenerateDownloadURL", ctx, "profile-images/4/a.png", 60*time.Minute).
			Return("https://signed", expires, nil)

		resp, err := f.svc.GetImageURL(ctx, 4, 0)

		require.NoError(t, err)
		assert.Equal(t, "https://signed", resp.URL)
		assert.Equal(t, expires, resp.ExpiresAt)
	})

	t.Run("ttl is capped", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		user.ImageKey = "profile-images/4/a.png"
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.images.On("GenerateDownloadURL", ctx, "profile-images/4/a.png", 1440*time.Minute).
			Return("https://signed", expires, nil)

		_, err := f.svc.GetImageURL(ctx, 4, 5000)

		require.NoError(t, err)
		f.images.AssertExpectations(t)
	})

	t.Run("no image", func(t *testing.T) {
		f := newUserServiceFixture()
		f.users.On("FindByID", ctx, uint(4)).Return(storedUser(4, "ana@example.com", identity.RoleLogistics), nil)

		_, err := f.svc.GetImageURL(ctx, 4, 30)

		assertDomainCode(t, err, CodeImageNotFound)
	})

	t.Run("delete image", func(t *testing.T) {
		f := newUserServiceFixture()
		user := storedUser(4, "ana@example.com", identity.RoleLogistics)
		user.ImageKey = "profile-images/4/a.png"
		f.users.On("FindByID", ctx, uint(4)).Return(user, nil)
		f.users.On("SaveWithLock", ctx, user).Return(nil)
		f.images.On("DeleteObject", ctx, "profile-images/4/a.png").Return(errors.New("storage down"))

		err := f.svc.DeleteImage(ctx, actor)

		require.NoError(t, err, "object cleanup failures are logged only")
		assert.Empty(t, user.ImageKey)
	})
}
