package identity

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginRequest contains the credentials for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest contains the input for self registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RefreshRequest contains the refresh token to exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	AccessToken           string        `json:"access_token"`
	RefreshToken          string        `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time     `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time     `json:"refresh_token_expires_at"`
	TokenType             string        `json:"token_type"`
	User                  *UserResponse `json:"user,omitempty"`
}

// LogoutRequest identifies the access token being revoked
type LogoutRequest struct {
	TokenJTI       string
	TokenExpiresAt time.Time
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest is used by admins to create a user with a role
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,user_role"`
}

// UpdateProfileRequest updates a user's own profile
type UpdateProfileRequest struct {
	Email   string `json:"email" binding:"required,email,max=200"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Version int    `json:"version" binding:"required,min=1"`
}

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	Role    string `json:"role" binding:"required,user_role"`
	Version int    `json:"version" binding:"required,min=1"`
}

// UploadImageRequest carries a profile image upload
type UploadImageRequest struct {
	ContentType string
	Data        []byte
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	HasImage  bool      `json:"has_image"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageURLResponse is a time-limited link to a profile image
type ImageURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.String(),
		HasImage:  u.ImageKey != "",
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain Users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}

// =============================================================================
// Notification DTOs
// =============================================================================

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse carries the number of unread notifications
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// NotificationMessage is the content delivered to one or more users
type NotificationMessage struct {
	Title   string
	Message string
	Link    string
}

// ToNotificationResponse converts a domain Notification
func ToNotificationResponse(n *identity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of domain Notifications
func ToNotificationResponses(notifications []identity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = ToNotificationResponse(&notifications[i])
	}
	return responses
}
