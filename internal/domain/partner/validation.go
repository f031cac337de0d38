package partner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
)

func validateName(entity, name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot be empty", entity))
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", fmt.Sprintf("%s name cannot exceed 100 characters", entity))
	}
	return nil
}

func validateContact(email, phone string) error {
	if email != "" {
		if len(email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailPattern.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if phone != "" {
		if len(phone) > 50 {
			return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
		}
		if !phonePattern.MatchString(phone) {
			return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
		}
	}
	return nil
}
