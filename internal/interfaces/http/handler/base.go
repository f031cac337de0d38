package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// BaseHandler provides the response and request helpers shared by handlers
type BaseHandler struct {
	// Debug adds the underlying error text to internal error bodies
	Debug           bool
	DefaultPageSize int
}

// NewBaseHandler returns helpers configured for the current environment
func NewBaseHandler(debug bool, defaultPageSize int) BaseHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = shared.DefaultPageSize
	}
	return BaseHandler{Debug: debug, DefaultPageSize: defaultPageSize}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(logger.RequestIDKey)
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respondPaged[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPagedResponse(page))
}

// Error sends an error body with an explicit status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// HandleError maps err onto the error envelope. Domain errors keep their
// code and message; anything else becomes a 500 whose cause is only logged.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	status, body, ok := dto.ErrorBody(err, getRequestID(c))
	log := logger.GetGinLogger(c)
	switch {
	case !ok || status >= http.StatusInternalServerError:
		log.Error("Request failed", zap.Error(err))
		if h.Debug {
			body.Error.Debug = err.Error()
		}
	default:
		log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

// bindJSON decodes the body into req. Validation failures produce
// VALIDATION_ERROR with field details, malformed JSON produces INVALID_JSON.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		middleware.HandleValidationError(c, err)
		return false
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
	return false
}

// actor returns the authenticated caller or answers 401
func (h *BaseHandler) actor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
	}
	return actor, ok
}

// pathID parses the :id path parameter or answers 400
func (h *BaseHandler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.BadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// listFilter reads the paging, sorting and search query parameters
func (h *BaseHandler) listFilter(c *gin.Context) (*shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	pageSize := h.DefaultPageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}
	return req.ToFilter(pageSize), true
}

// uintFilter copies the first present query parameter among names into
// filter.Filters[key]. Non-numeric values answer 400.
func (h *BaseHandler) uintFilter(c *gin.Context, filter *shared.Filter, key string, names ...string) bool {
	for _, name := range names {
		raw, present := c.GetQuery(name)
		if !present || raw == "" {
			continue
		}
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid "+name)
			return false
		}
		filter.Filters[key] = uint(v)
		return true
	}
	return true
}

// bulkIDs decodes the bulk-delete body
func (h *BaseHandler) bulkIDs(c *gin.Context) ([]uint, bool) {
	var req dto.IDsRequest
	if !h.bindJSON(c, &req) {
		return nil, false
	}
	return req.IDs, true
}
