package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeletable struct {
	rows     map[uint]map[string]int64
	deleted  []uint
	findErr  error
	findCall int
}

func (f *fakeDeletable) FindDependents(_ context.Context, ids []uint) ([]Dependents, error) {
	f.findCall++
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []Dependents
	for _, id := range ids {
		if counts, ok := f.rows[id]; ok {
			out = append(out, Dependents{ID: id, Counts: counts})
		}
	}
	return out, nil
}

func (f *fakeDeletable) DeleteByIDs(_ context.Context, ids []uint) error {
	f.deleted = append(f.deleted, ids...)
	return nil
}

var testDeleteErrors = BulkDeleteErrors{
	NotFound:        SomeNotFound("SOME_THINGS_NOT_FOUND", "things"),
	HasAssociations: HasAssociations("THING_HAS_ASSOCIATIONS", "things"),
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()
	newRepo := func() *fakeDeletable {
		return &fakeDeletable{rows: map[uint]map[string]int64{
			1: {"orders": 0},
			2: {"orders": 0, "invoices": 0},
			3: {"orders": 2},
		}}
	}

	t.Run("nil ids is rejected", func(t *testing.T) {
		_, err := BulkDelete(ctx, NoOpTransactionScope{}, newRepo(), nil, testDeleteErrors)
		assert.ErrorIs(t, err, ErrArgumentNull)
	})

	t.Run("empty ids is a no-op", func(t *testing.T) {
		repo := newRepo()
		deleted, err := BulkDelete(ctx, NoOpTransactionScope{}, repo, []uint{}, testDeleteErrors)
		require.NoError(t, err)
		assert.Empty(t, deleted)
		assert.Zero(t, repo.findCall)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		repo := newRepo()
		deleted, err := BulkDelete(ctx, NoOpTransactionScope{}, repo, []uint{1, 2, 1}, testDeleteErrors)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, deleted)
		assert.Equal(t, []uint{1, 2}, repo.deleted)
	})

	t.Run("unknown id fails the whole batch", func(t *testing.T) {
		repo := newRepo()
		_, err := BulkDelete(ctx, NoOpTransactionScope{}, repo, []uint{1, 99}, testDeleteErrors)
		assert.ErrorIs(t, err, testDeleteErrors.NotFound)
		assert.Empty(t, repo.deleted)
	})

	t.Run("any dependent fails the whole batch", func(t *testing.T) {
		repo := newRepo()
		_, err := BulkDelete(ctx, NoOpTransactionScope{}, repo, []uint{1, 3}, testDeleteErrors)
		assert.ErrorIs(t, err, testDeleteErrors.HasAssociations)
		assert.Empty(t, repo.deleted)
	})

	t.Run("repository errors propagate", func(t *testing.T) {
		repo := newRepo()
		repo.findErr = errors.New("db down")
		_, err := BulkDelete(ctx, NoOpTransactionScope{}, repo, []uint{1}, testDeleteErrors)
		assert.EqualError(t, err, "db down")
	})
}
