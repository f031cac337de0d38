package dto

import (
	"errors"
	"net/http"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// Codes produced by the HTTP layer itself. Domain codes pass through unchanged.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// InternalErrorMessage is the only message clients see for unexpected failures.
const InternalErrorMessage = "An unexpected error occurred"

var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindConflict:     http.StatusConflict,
	shared.KindUnauthorized: http.StatusUnauthorized,
	shared.KindForbidden:    http.StatusForbidden,
	shared.KindInternal:     http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for an error kind. Unknown kinds are 500.
func GetHTTPStatus(kind shared.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorBody translates err into a status and problem body. ok is false when err
// is not a DomainError and the caller must treat it as an internal failure.
func ErrorBody(err error, requestID string) (status int, body Response, ok bool) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError,
			NewErrorResponseWithRequestID(ErrCodeInternal, InternalErrorMessage, requestID),
			false
	}
	return GetHTTPStatus(domainErr.Kind),
		NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID),
		true
}
