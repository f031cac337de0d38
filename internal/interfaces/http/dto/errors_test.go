package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		kind shared.ErrorKind
		want int
	}{
		{shared.KindValidation, http.StatusBadRequest},
		{shared.KindNotFound, http.StatusNotFound},
		{shared.KindConflict, http.StatusConflict},
		{shared.KindUnauthorized, http.StatusUnauthorized},
		{shared.KindForbidden, http.StatusForbidden},
		{shared.KindInternal, http.StatusInternalServerError},
		{shared.ErrorKind("bogus"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.kind))
		})
	}
}

func TestErrorBody(t *testing.T) {
	t.Run("wrapped domain error keeps its code", func(t *testing.T) {
		err := fmt.Errorf("update order: %w", shared.NewConflictError(shared.CodeClosedOrRejectedOrder, "Order is closed"))

		status, body, ok := ErrorBody(err, "req-1")

		assert.True(t, ok)
		assert.Equal(t, http.StatusConflict, status)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, shared.CodeClosedOrRejectedOrder, body.Error.Code)
		assert.Equal(t, "Order is closed", body.Error.Message)
		assert.Equal(t, "req-1", body.Error.RequestID)
	})

	t.Run("sentinels map by kind", func(t *testing.T) {
		status, body, _ := ErrorBody(shared.ErrNotFound, "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)

		status, _, _ = ErrorBody(shared.ErrArgumentNull, "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("unknown error is opaque", func(t *testing.T) {
		status, body, ok := ErrorBody(errors.New("pq: connection refused"), "req-2")

		assert.False(t, ok)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, body.Error.Code)
		assert.Equal(t, InternalErrorMessage, body.Error.Message)
		assert.NotContains(t, body.Error.Message, "pq")
	})
}

func TestNewPagedResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 5)

	resp := NewPagedResponse(&page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 5, resp.Meta.PageSize)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{{Field: "name", Message: "This field is required"}}

	resp := NewValidationErrorResponse("Request validation failed", "req-3", details)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
	assert.Equal(t, "req-3", resp.Error.RequestID)
}

func TestListRequest_ToFilter(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	t.Run("defaults", func(t *testing.T) {
		f := ListRequest{}.ToFilter(10)
		assert.Equal(t, 0, f.Page)
		assert.Equal(t, 10, f.PageSize)
		assert.Empty(t, f.Search)
		assert.NotNil(t, f.Filters)
	})

	t.Run("camelCase wins over snake_case", func(t *testing.T) {
		f := ListRequest{Page: 3, PageSize: intPtr(25), PageSizeAlt: intPtr(40)}.ToFilter(10)
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 25, f.PageSize)
	})

	t.Run("snake_case alone", func(t *testing.T) {
		f := ListRequest{PageSizeAlt: intPtr(0)}.ToFilter(10)
		assert.Equal(t, 0, f.PageSize)
	})

	t.Run("ordering and search", func(t *testing.T) {
		f := ListRequest{OrderByAlt: "name", OrderDir: "ASC", Search: "  acme "}.ToFilter(10)
		assert.Equal(t, "name", f.OrderBy)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, "acme", f.Search)
	})
}
