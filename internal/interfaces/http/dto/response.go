package dto

import (
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// Response is the envelope of every API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Debug     string             `json:"debug,omitempty"`
}

// ValidationDetail points at one invalid request field.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination data for list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewPagedResponse wraps a page of results with its pagination meta.
func NewPagedResponse[T any](page *shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    page.Items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

func NewErrorResponse(code, message string) Response {
	return NewErrorResponseWithRequestID(code, message, "")
}

func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, RequestID: requestID},
	}
}

func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   message,
			RequestID: requestID,
			Details:   details,
		},
	}
}

// ListRequest holds the common list query parameters. Both pageSize and
// page_size are accepted; the camelCase spelling wins when both are sent.
type ListRequest struct {
	Page        int    `form:"page"`
	PageSize    *int   `form:"pageSize"`
	PageSizeAlt *int   `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderByAlt  string `form:"orderBy"`
	OrderDir    string `form:"order_dir"`
	OrderDirAlt string `form:"orderDir"`
	Search      string `form:"search"`
}

// ToFilter converts the request into a domain filter. An absent page size
// takes defaultPageSize; explicit values are clamped later by the services.
func (r ListRequest) ToFilter(defaultPageSize int) *shared.Filter {
	pageSize := defaultPageSize
	switch {
	case r.PageSize != nil:
		pageSize = *r.PageSize
	case r.PageSizeAlt != nil:
		pageSize = *r.PageSizeAlt
	}
	return &shared.Filter{
		Page:     r.Page,
		PageSize: pageSize,
		OrderBy:  firstString(r.OrderBy, r.OrderByAlt),
		OrderDir: strings.ToLower(firstString(r.OrderDir, r.OrderDirAlt)),
		Search:   strings.TrimSpace(r.Search),
		Filters:  map[string]interface{}{},
	}
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IDsRequest is the body of bulk-delete endpoints. A missing ids field binds
// to nil and is rejected by the service as a null argument.
type IDsRequest struct {
	IDs []uint `json:"ids"`
}
