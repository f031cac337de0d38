package shared

import "context"

// Dependents holds the number of records per association category that
// reference one aggregate. Any non-zero count blocks deletion.
type Dependents struct {
	ID     uint
	Counts map[string]int64
}

// HasAny reports whether at least one dependent record exists
func (d Dependents) HasAny() bool {
	for _, n := range d.Counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// DeletableRepository is implemented by repositories of restrict-delete aggregates
type DeletableRepository interface {
	// FindDependents loads every existing aggregate among ids together with its
	// dependent record counts in one batch. Unknown ids are absent from the result.
	FindDependents(ctx context.Context, ids []uint) ([]Dependents, error)
	// DeleteByIDs removes the given aggregates
	DeleteByIDs(ctx context.Context, ids []uint) error
}

// BulkDeleteErrors names the errors raised by BulkDelete for one aggregate type
type BulkDeleteErrors struct {
	NotFound        *DomainError
	HasAssociations *DomainError
}

// BulkDelete removes a set of aggregates all-or-nothing inside scope.
// A nil ids slice is rejected, an empty one is a no-op and duplicates collapse.
// Any unknown id fails the batch with NotFound; any aggregate with dependents fails
// it with HasAssociations. It returns the de-duplicated ids that were deleted.
func BulkDelete(ctx context.Context, scope TransactionScope, repo DeletableRepository, ids []uint, errs BulkDeleteErrors) ([]uint, error) {
	unique, err := UniqueIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(unique) == 0 {
		return unique, nil
	}

	err = scope.Execute(ctx, func(ctx context.Context) error {
		found, err := repo.FindDependents(ctx, unique)
		if err != nil {
			return err
		}
		foundIDs := make([]uint, 0, len(found))
		for _, d := range found {
			foundIDs = append(foundIDs, d.ID)
		}
		if len(MissingIDs(unique, foundIDs)) > 0 {
			return errs.NotFound
		}
		for _, d := range found {
			if d.HasAny() {
				return errs.HasAssociations
			}
		}
		return repo.DeleteByIDs(ctx, unique)
	})
	if err != nil {
		return nil, err
	}
	return unique, nil
}
