package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Auth error codes
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	CodeTokenRevoked       = "TOKEN_REVOKED"
)

var errInvalidCredentials = shared.NewUnauthorizedError(CodeInvalidCredentials, "Invalid email or password")

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	txScope    shared.TransactionScope
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	txScope shared.TransactionScope,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		txScope:    txScope,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for registration events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// Login authenticates a user and returns a token pair.
// Pending users may log in; route guards restrict what they can reach.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Login failed: unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Login failed: wrong password", zap.Uint("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(subjectOf(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role.String()))

	response := toTokenResponse(pair)
	profile := ToUserResponse(user)
	response.User = &profile
	return response, nil
}

// Refresh exchanges a refresh token for a new pair carrying the user's current role
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*TokenResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	if err := s.ensureNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	var user *identity.User
	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken, func(userID uint) (auth.TokenSubject, error) {
		var err error
		user, err = s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return auth.TokenSubject{}, err
		}
		return subjectOf(user), nil
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewUnauthorizedError(CodeTokenInvalid, "User no longer exists")
		}
		if isTokenError(err) {
			s.logger.Warn("Token refresh failed", zap.Error(err))
			return nil, mapTokenError(err)
		}
		return nil, err
	}

	s.logger.Info("Token refreshed", zap.Uint("user_id", user.ID))

	response := toTokenResponse(pair)
	profile := ToUserResponse(user)
	response.User = &profile
	return response, nil
}

// Logout revokes the access token identified by req until it would have expired
func (s *AuthService) Logout(ctx context.Context, actor shared.Actor, req *LogoutRequest) error {
	if req == nil {
		return shared.ErrArgumentNull
	}
	ttl := time.Until(req.TokenExpiresAt)
	if req.TokenJTI == "" || ttl <= 0 || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, req.TokenJTI, ttl); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.Uint("user_id", actor.UserID))
	return nil
}

// Register creates a self-registered user in the Pending role and notifies administrators
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	user, err := identity.NewUser(req.Email, req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByEmail(ctx, user.Email, 0)
		if err != nil {
			return err
		}
		if exists {
			return emailTaken(user.Email)
		}
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, translateUserWriteError(err, user.Email)
	}

	s.logger.Info("User registered", zap.Uint("user_id", user.ID))

	if s.events != nil {
		if err := s.events.Publish(ctx, identity.NewUserRegisteredEvent(user)); err != nil {
			s.logger.Error("Failed to publish user registered event", zap.Error(err))
		}
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, actor shared.Actor) (*UserResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeUserNotFound, "User"))
	}
	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) ensureNotRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return shared.NewUnauthorizedError(CodeTokenRevoked, "Token has been revoked. Please log in again")
	}
	return nil
}

func subjectOf(u *identity.User) auth.TokenSubject {
	return auth.TokenSubject{UserID: u.ID, Email: u.Email, Role: u.Role.String()}
}

func toTokenResponse(pair *auth.TokenPair) *TokenResponse {
	return &TokenResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}
}

func isTokenError(err error) bool {
	for _, target := range []error{
		auth.ErrInvalidToken, auth.ErrExpiredToken, auth.ErrInvalidTokenType, auth.ErrInvalidClaims,
		auth.ErrTokenNotYetValid, auth.ErrMissingUserID, auth.ErrMaxRefreshExceeded, auth.ErrTokenBlacklisted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// mapTokenError converts JWT validation errors to unauthorized domain errors
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewUnauthorizedError(CodeTokenExpired, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewUnauthorizedError(CodeTokenMaxRefresh, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewUnauthorizedError(CodeTokenRevoked, "Token has been revoked. Please log in again")
	default:
		return shared.NewUnauthorizedError(CodeTokenInvalid, "Invalid refresh token")
	}
}
