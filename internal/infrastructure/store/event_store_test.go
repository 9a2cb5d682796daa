package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ EventStoreInterface = (*EventStore)(nil)

func TestEventStore_AppendAssignsSequentialVersions(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	e1, err := es.Append(ctx, "prod-1", "Product", "ProductCreated", map[string]string{"name": "Oak Bowl"})
	require.NoError(t, err)
	e2, err := es.Append(ctx, "prod-1", "Product", "ProductUpdated", map[string]string{"name": "Walnut Bowl"})
	require.NoError(t, err)

	assert.Equal(t, 1, e1.Version)
	assert.Equal(t, 2, e2.Version)
	assert.NotEmpty(t, e1.ID)
	assert.Equal(t, "Product", e1.AggregateType)
}

func TestEventStore_VersionsAreScopedPerAggregate(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	_, err := es.Append(ctx, "prod-1", "Product", "ProductCreated", nil)
	require.NoError(t, err)
	other, err := es.Append(ctx, "prod-2", "Product", "ProductCreated", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, other.Version)
	assert.Len(t, es.GetEvents("prod-1"), 1)
	assert.Len(t, es.GetEvents("prod-2"), 1)
	assert.Len(t, es.GetAllEvents(), 2)
}

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := es.Append(ctx, "cart-1", "Cart", "ItemAdded", nil)
		require.NoError(t, err)
	}

	tail := es.GetEventsFromVersion(ctx, "cart-1", 2)
	require.Len(t, tail, 2)
	assert.Equal(t, 3, tail[0].Version)
	assert.Equal(t, 4, tail[1].Version)
}

func TestEventStore_Snapshots(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	got, err := es.GetSnapshot(ctx, "cart-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	snap := &Snapshot{
		AggregateID:   "cart-1",
		AggregateType: "Cart",
		Version:       10,
		State:         []byte(`{"items":[]}`),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, es.SaveSnapshot(ctx, snap))

	got, err = es.GetSnapshot(ctx, "cart-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Version)
}
