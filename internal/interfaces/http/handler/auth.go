package handler

import (
	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService}
}

// Login godoc
// @ID           login
// @Summary      User login
// @Description  Exchange email and password for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identityapp.TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse "INVALID_CREDENTIALS"
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new pair; the role is reloaded from the user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.TokenResponse]
// @Failure      401 {object} ErrorResponse "TOKEN_EXPIRED, TOKEN_INVALID, TOKEN_REVOKED or TOKEN_MAX_REFRESH"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Refresh(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Register godoc
// @ID           register
// @Summary      Register
// @Description  Creates a user in role Pending; administrators are notified
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "New user"
// @Success      201 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "EMAIL_ALREADY_EXISTS"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Revokes the access token used for this request
// @Tags         auth
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	req := identityapp.LogoutRequest{
		TokenJTI:       claims.ID,
		TokenExpiresAt: claims.GetExpiresAtTime(),
	}
	if err := h.authService.Logout(c.Request.Context(), actor, &req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
