package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseAggregateRoot_Version(t *testing.T) {
	agg := NewBaseAggregateRoot()
	assert.Equal(t, 1, agg.GetVersion())

	assert.NoError(t, agg.CheckVersion(1))
	assert.ErrorIs(t, agg.CheckVersion(0), ErrConcurrencyConflict)

	before := agg.UpdatedAt
	agg.MarkUpdatedBy(NewActor(9, "Admin"))
	assert.Equal(t, 2, agg.Version)
	require.NotNil(t, agg.UpdatedBy)
	assert.Equal(t, uint(9), *agg.UpdatedBy)
	assert.False(t, agg.UpdatedAt.Before(before))
}

func TestBaseAggregateRoot_Audit(t *testing.T) {
	agg := NewBaseAggregateRoot()
	agg.MarkCreatedBy(SystemActor())
	assert.Nil(t, agg.CreatedBy, "system actor leaves no audit id")

	agg.MarkCreatedBy(NewActor(4, "Logistics"))
	require.NotNil(t, agg.CreatedBy)
	assert.Equal(t, uint(4), *agg.CreatedBy)
	assert.Equal(t, uint(4), *agg.UpdatedBy)

	agg.MarkUpdatedBy(SystemActor())
	assert.Equal(t, uint(4), *agg.UpdatedBy, "anonymous update keeps the last known editor")
}

type recordingPublisher struct {
	events []DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type testEvent struct {
	BaseDomainEvent
}

func TestPublishAndClear(t *testing.T) {
	agg := NewBaseAggregateRoot()
	agg.AddDomainEvent(&testEvent{NewBaseDomainEvent("Tested", "Thing", 1, SystemActor())})

	pub := &recordingPublisher{}
	require.NoError(t, PublishAndClear(context.Background(), pub, &agg))
	assert.Len(t, pub.events, 1)
	assert.Empty(t, agg.GetDomainEvents())

	agg.AddDomainEvent(&testEvent{NewBaseDomainEvent("Tested", "Thing", 1, SystemActor())})
	require.NoError(t, PublishAndClear(context.Background(), nil, &agg))
	assert.Empty(t, agg.GetDomainEvents(), "events are dropped without a publisher")
}

func TestActor(t *testing.T) {
	a := NewActor(3, "Payments")
	assert.True(t, a.IsAuthenticated())
	assert.True(t, a.HasRole("Admin", "Payments"))
	assert.False(t, a.HasRole("Admin"))
	assert.False(t, SystemActor().IsAuthenticated())

	ctx := WithActor(context.Background(), a)
	got, ok := ActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = ActorFromContext(context.Background())
	assert.False(t, ok)
}
