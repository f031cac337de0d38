package shared

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a DomainError so transports can map it to a status
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindInternal     ErrorKind = "internal"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches two domain errors by code, so sentinel comparisons survive message changes
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a validation-kind domain error.
// Entity invariants use it; services pick an explicit kind.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates an error for malformed or missing input
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message}
}

// NewNotFoundError creates an error for a referenced id that does not resolve
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewConflictError creates an error for a business-rule violation
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewUnauthorizedError creates an authentication error
func NewUnauthorizedError(code, message string) *DomainError {
	return &DomainError{Kind: KindUnauthorized, Code: code, Message: message}
}

// NewForbiddenError creates an authorization error
func NewForbiddenError(code, message string) *DomainError {
	return &DomainError{Kind: KindForbidden, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrArgumentNull        = NewValidationError("ARGUMENT_NULL", "Request cannot be null")
	ErrInvalidInput        = NewValidationError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "The record was modified by another user. Please reload and try again")
	ErrDuplicateKey        = NewConflictError("DUPLICATE_KEY", "A record with the same unique key already exists")
	ErrUnauthorized        = NewUnauthorizedError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewForbiddenError("FORBIDDEN", "Access to this resource is forbidden")
)

// Standard codes shared by every aggregate
const (
	CodeClosedOrRejectedOrder = "CLOSED_OR_REJECTED_ORDER"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
)

// EntityNotFound builds the "X not found" error for a single id lookup
func EntityNotFound(code, entity string) *DomainError {
	return NewNotFoundError(code, fmt.Sprintf("%s not found", entity))
}

// SomeNotFound builds the bulk-lookup error raised when any requested id is missing
func SomeNotFound(code, plural string) *DomainError {
	return NewNotFoundError(code, fmt.Sprintf("Some of the specified %s were not found", plural))
}

// HasAssociations builds the restrict-delete conflict
func HasAssociations(code, plural string) *DomainError {
	return NewConflictError(code, fmt.Sprintf("One or more %s cannot be deleted due to existing associations", plural))
}

// AlreadyExists builds the duplicate-key conflict naming the offending value
func AlreadyExists(code, entity, field, value string) *DomainError {
	article := "A"
	if entity != "" && strings.ContainsRune("aeiouAEIOU", rune(entity[0])) {
		article = "An"
	}
	return NewConflictError(code, fmt.Sprintf("%s %s with the %s '%s' already exists", article, entity, field, value))
}

// KindOf returns the kind of a domain error, or KindInternal for anything else
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		if de.Kind == "" {
			return KindValidation
		}
		return de.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a conflict domain error
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// NotFoundAs replaces a not-found error with a more specific one and leaves other errors untouched
func NotFoundAs(err error, replacement *DomainError) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return replacement
	}
	return err
}
