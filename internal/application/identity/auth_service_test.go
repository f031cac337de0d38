package identity

import (
	"context"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authServiceFixture struct {
	svc       *AuthService
	users     *testutil.MockUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	events    *testutil.MockEventPublisher
}

func newAuthServiceFixture() *authServiceFixture {
	f := &authServiceFixture{
		users: new(testutil.MockUserRepository),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "fletes-test",
			MaxRefreshCount:        5,
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		events:    new(testutil.MockEventPublisher),
	}
	f.svc = NewAuthService(f.users, f.jwt, f.blacklist, shared.NoOpTransactionScope{}, zap.NewNop())
	f.svc.SetEventPublisher(f.events)
	return f
}

func registeredUser(t *testing.T, id uint, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUserWithRole("ana@example.com", "Ana", "secret123", role)
	require.NoError(t, err)
	u.ID = id
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens carrying the role", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(registeredUser(t, 4, identity.RoleLogistics), nil)

		resp, err := f.svc.Login(ctx, &LoginRequest{Email: "Ana@Example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		require.NotNil(t, resp.User)
		assert.Equal(t, uint(4), resp.User.ID)

		claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(4), claims.UserID)
		assert.Equal(t, "Logistics", claims.Role)
	})

	t.Run("pending users can log in", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(registeredUser(t, 4, identity.RolePending), nil)

		resp, err := f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "Pending", resp.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("FindByEmail", ctx, "ana@example.com").Return(registeredUser(t, 4, identity.RoleAdmin), nil)

		_, err := f.svc.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "wrong-pass1"})

		assertDomainCode(t, err, CodeInvalidCredentials)
		assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))
	})

	t.Run("unknown email has the same answer", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("FindByEmail", ctx, "nobody@example.com").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})

		assertDomainCode(t, err, CodeInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("reloads the current role", func(t *testing.T) {
		f := newAuthServiceFixture()
		pair, err := f.jwt.GenerateTokenPair(auth.TokenSubject{UserID: 4, Email: "ana@example.com", Role: "Pending"})
		require.NoError(t, err)
		f.users.On("FindByID", ctx, uint(4)).Return(registeredUser(t, 4, identity.RolePayments), nil)

		resp, err := f.svc.Refresh(ctx, &RefreshRequest{RefreshToken: pair.RefreshToken})

		require.NoError(t, err)
		claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "Payments", claims.Role)
	})

	t.Run("revoked user tokens", func(t *testing.T) {
		f := newAuthServiceFixture()
		pair, err := f.jwt.GenerateTokenPair(auth.TokenSubject{UserID: 4, Role: "Pending"})
		require.NoError(t, err)
		require.NoError(t, f.blacklist.AddUserTokensToBlacklist(ctx, 4, time.Hour))

		_, err = f.svc.Refresh(ctx, &RefreshRequest{RefreshToken: pair.RefreshToken})

		assertDomainCode(t, err, CodeTokenRevoked)
		f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("deleted user", func(t *testing.T) {
		f := newAuthServiceFixture()
		pair, err := f.jwt.GenerateTokenPair(auth.TokenSubject{UserID: 4, Role: "Admin"})
		require.NoError(t, err)
		f.users.On("FindByID", ctx, uint(4)).Return(nil, shared.ErrNotFound)

		_, err = f.svc.Refresh(ctx, &RefreshRequest{RefreshToken: pair.RefreshToken})

		assertDomainCode(t, err, CodeTokenInvalid)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		f := newAuthServiceFixture()
		pair, err := f.jwt.GenerateTokenPair(auth.TokenSubject{UserID: 4, Role: "Admin"})
		require.NoError(t, err)

		_, err = f.svc.Refresh(ctx, &RefreshRequest{RefreshToken: pair.AccessToken})

		assertDomainCode(t, err, CodeTokenInvalid)
		assert.Equal(t, shared.KindUnauthorized, shared.KindOf(err))
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthServiceFixture()

	err := f.svc.Logout(ctx, shared.NewActor(4, "Admin"), &LogoutRequest{
		TokenJTI:       "jti-1",
		TokenExpiresAt: time.Now().Add(10 * time.Minute),
	})

	require.NoError(t, err)
	revoked, err := f.blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, f.svc.Logout(ctx, shared.NewActor(4, "Admin"), &LogoutRequest{TokenJTI: "old", TokenExpiresAt: time.Now().Add(-time.Minute)}))
	revoked, err = f.blacklist.IsBlacklisted(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending user and publishes event", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("ExistsByEmail", ctx, "new@example.com", uint(0)).Return(false, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
			args.Get(1).(*identity.User).ID = 12
		}).Return(nil)
		f.events.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			e, ok := events[0].(*identity.UserRegisteredEvent)
			return ok && e.Email == "new@example.com" && e.AggregateID() == 12
		})).Return(nil)

		resp, err := f.svc.Register(ctx, &RegisterRequest{Email: "new@example.com", Name: "New", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "Pending", resp.Role)
		f.events.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("ExistsByEmail", ctx, "new@example.com", uint(0)).Return(true, nil)

		_, err := f.svc.Register(ctx, &RegisterRequest{Email: "new@example.com", Name: "New", Password: "secret123"})

		assertDomainCode(t, err, CodeEmailAlreadyExists)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("weak password", func(t *testing.T) {
		f := newAuthServiceFixture()

		_, err := f.svc.Register(ctx, &RegisterRequest{Email: "new@example.com", Name: "New", Password: "onlyletters"})

		assertDomainCode(t, err, "INVALID_PASSWORD")
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the actor's user", func(t *testing.T) {
		f := newAuthServiceFixture()
		f.users.On("FindByID", ctx, uint(4)).Return(storedUser(4, "ana@example.com", identity.RoleLogistics), nil)

		resp, err := f.svc.Me(ctx, shared.NewActor(4, "Logistics"))

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", resp.Email)
	})

	t.Run("anonymous actor", func(t *testing.T) {
		f := newAuthServiceFixture()

		_, err := f.svc.Me(ctx, shared.Actor{})

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})
}
