package shared

import (
	"context"
)

// Pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Repository is the base interface for all repositories
type Repository[T any] interface {
	FindByID(ctx context.Context, id uint) (*T, error)
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// NormalizeFilter clamps page to >= 1 and page size to [1, MaxPageSize].
// Out of range values snap to the nearest bound. Ordering defaults to newest first.
func NormalizeFilter(f *Filter) (Filter, error) {
	if f == nil {
		return Filter{}, ErrArgumentNull
	}
	out := *f
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = 1
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	if out.OrderBy == "" {
		out.OrderBy = "created_at"
	}
	if out.OrderDir != "asc" {
		out.OrderDir = "desc"
	}
	if out.Filters == nil {
		out.Filters = make(map[string]interface{})
	}
	return out, nil
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = make([]T, 0)
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// MapPaginated converts the items of a page, keeping its metadata
func MapPaginated[T, R any](p Paginated[T], fn func(T) R) Paginated[R] {
	items := make([]R, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Paginated[R]{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// UniqueIDs de-duplicates ids preserving first occurrence order.
// A nil slice is rejected; an empty one yields an empty result.
func UniqueIDs(ids []uint) ([]uint, error) {
	if ids == nil {
		return nil, ErrArgumentNull
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// MissingIDs returns the requested ids that are absent from found
func MissingIDs(requested, found []uint) []uint {
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	missing := make([]uint, 0)
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
