package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// listQuery describes how one table is searched, filtered and sorted
type listQuery struct {
	searchColumns []string
	// filterColumns maps a shared.Filter.Filters key onto a column
	filterColumns map[string]string
	sortFields    sortColumns
}

// where applies search and filters, without paging
func (q listQuery) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(q.searchColumns) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		clauses := make([]string, len(q.searchColumns))
		args := make([]any, len(q.searchColumns))
		for i, col := range q.searchColumns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		col, ok := q.filterColumns[key]
		if !ok || value == nil {
			continue
		}
		query = query.Where(col+" = ?", value)
	}
	return query
}

// page applies where, ordering and offset/limit. Ties on the sort column
// fall back to id so pages are stable.
func (q listQuery) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = q.where(query, filter)

	orderBy := q.sortFields.resolve(filter.OrderBy)
	dir := sortDirection(filter.OrderDir)
	query = query.Order(orderBy + " " + dir)
	if orderBy != "id" {
		query = query.Order("id " + dir)
	}

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// existsExcluding reports whether a row other than excludeID has column = value
func existsExcluding(ctx context.Context, db *gorm.DB, model any, column string, value any, excludeID uint) (bool, error) {
	var count int64
	query := dbFromContext(ctx, db).Model(model).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// errGuardRejected means the row matched its id and version but one of the
// guards passed to saveWithLock held the write back
var errGuardRejected = errors.New("write guard rejected")

// saveWithLock updates every mutable column of model when the stored version
// is version-1 and every guard scope matches. RowsAffected 0 means the row
// vanished, another writer got there first, or a guard failed; a second lookup
// tells them apart.
func saveWithLock(ctx context.Context, db *gorm.DB, model any, id uint, version int, guards ...func(*gorm.DB) *gorm.DB) error {
	tx := dbFromContext(ctx, db)
	result := tx.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Scopes(guards...).
		Select("*").
		Omit("id", "created_at", "created_by").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var stored []int
	if err := tx.Model(model).Where("id = ?", id).Pluck("version", &stored).Error; err != nil {
		return err
	}
	switch {
	case len(stored) == 0:
		return shared.ErrNotFound
	case len(guards) > 0 && stored[0] == version-1:
		return errGuardRejected
	default:
		return shared.ErrConcurrencyConflict
	}
}

// deleteByIDs removes rows by primary key. An empty list is a no-op.
func deleteByIDs(ctx context.Context, db *gorm.DB, model any, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFromContext(ctx, db).Where("id IN ?", ids).Delete(model).Error
}

// existingIDs returns which of ids are present in model's table
func existingIDs(ctx context.Context, db *gorm.DB, model any, ids []uint) ([]uint, error) {
	found := make([]uint, 0, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	err := dbFromContext(ctx, db).Model(model).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

type groupCount struct {
	OwnerID uint
	Total   int64
}

// countBy counts rows of model grouped by fkColumn for the given owner ids
func countBy(ctx context.Context, db *gorm.DB, model any, fkColumn string, ids []uint) (map[uint]int64, error) {
	var rows []groupCount
	err := dbFromContext(ctx, db).Model(model).
		Select(fmt.Sprintf("%s AS owner_id, COUNT(*) AS total", fkColumn)).
		Where(fkColumn+" IN ?", ids).
		Group(fkColumn).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.OwnerID] = r.Total
	}
	return counts, nil
}

// dependentSource is one association category counted by findDependents
type dependentSource struct {
	category string
	model    any
	fkColumn string
}

// findDependents loads the existing ids among ids and counts their dependents
// with one grouped query per category
func findDependents(ctx context.Context, db *gorm.DB, owner any, ids []uint, sources ...dependentSource) ([]shared.Dependents, error) {
	found, err := existingIDs(ctx, db, owner, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return []shared.Dependents{}, nil
	}

	result := make([]shared.Dependents, len(found))
	for i, id := range found {
		result[i] = shared.Dependents{ID: id, Counts: make(map[string]int64, len(sources))}
	}
	for _, src := range sources {
		counts, err := countBy(ctx, db, src.model, src.fkColumn, found)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", src.category, err)
		}
		for i := range result {
			result[i].Counts[src.category] = counts[result[i].ID]
		}
	}
	return result, nil
}
