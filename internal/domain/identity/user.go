package identity

import (
	"errors"
	"regexp"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// AggregateTypeUser names the user aggregate
const AggregateTypeUser = "User"

// Last-admin codes
const (
	CodeCannotDeleteAllAdmins   = "CANNOT_DELETE_ALL_ADMINS"
	CodeCannotEditLastAdminRole = "CANNOT_EDIT_LAST_ADMIN_ROLE"
)

// ErrNoAdminRemains is returned by guarded writes that would leave the system
// without an administrator
var ErrNoAdminRemains = errors.New("no administrator would remain")

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)
)

// User is an operator of the system
type User struct {
	shared.BaseAggregateRoot
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	ImageKey     string
}

// NewUser creates a user awaiting role assignment
func NewUser(email, name, password string) (*User, error) {
	return NewUserWithRole(email, name, password, RolePending)
}

// NewUserWithRole creates a user with an explicit role
func NewUserWithRole(email, name, password string, role Role) (*User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid role: "+string(role))
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		Role:              role,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile replaces the editable profile fields
func (u *User) UpdateProfile(email, name string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validateUserName(name); err != nil {
		return err
	}
	u.Email = email
	u.Name = name
	return nil
}

// ChangeRole assigns a new role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewValidationError("INVALID_ROLE", "Invalid role: "+string(role))
	}
	u.Role = role
	return nil
}

// IsAdmin reports whether the user holds the Admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetImage records the storage key of the profile image and returns the previous key
func (u *User) SetImage(key string) string {
	previous := u.ImageKey
	u.ImageKey = key
	return previous
}

// EnsureAdminsRemain fails when removing the given users, or demoting them, would leave no admin.
// totalAdmins is the current number of admins; affected are the users being removed or demoted.
func EnsureAdminsRemain(totalAdmins int64, affected []User, code string) error {
	var removed int64
	for _, u := range affected {
		if u.IsAdmin() {
			removed++
		}
	}
	if removed > 0 && totalAdmins-removed < 1 {
		return LastAdminError(code)
	}
	return nil
}

// LastAdminError is the conflict raised under code when no administrator would remain
func LastAdminError(code string) *shared.DomainError {
	if code == CodeCannotEditLastAdminRole {
		return shared.NewConflictError(code, "The role of the last administrator cannot be changed")
	}
	return shared.NewConflictError(CodeCannotDeleteAllAdmins, "At least one administrator must remain")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateUserName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}
