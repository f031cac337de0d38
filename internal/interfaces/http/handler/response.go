package handler

import "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"

// APIResponse documents the success envelope with a typed data field
// @Description Standard API response wrapper
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse documents the error envelope
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
