package engagement

import (
	"context"
	"testing"

	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngagementService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

// ============================================
// RecordView Tests
// ============================================

func TestService_RecordView_EmitsEvent(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.RecordView(context.Background(), "product-1", "user-1")

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	call := eventStore.AppendCalls[0]
	assert.Equal(t, "engagement-product-1", call.AggregateID)
	assert.Equal(t, AggregateType, call.AggregateType)
	assert.Equal(t, EventProductViewed, call.EventType)

	data, ok := call.Data.(ProductViewed)
	require.True(t, ok)
	assert.Equal(t, "product-1", data.ProductID)
	assert.Equal(t, "user-1", data.ViewerID)
	assert.False(t, data.ViewedAt.IsZero())
}

func TestService_RecordView_AnonymousViewer(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.RecordView(context.Background(), "product-1", "")

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	data := eventStore.AppendCalls[0].Data.(ProductViewed)
	assert.Empty(t, data.ViewerID)
}

func TestService_RecordView_MissingProduct(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.RecordView(context.Background(), "", "user-1")

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Like / Unlike Tests
// ============================================

func TestService_Like_EmitsEvent(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.Like(context.Background(), "product-1", "user-1")

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	call := eventStore.AppendCalls[0]
	assert.Equal(t, "engagement-product-1", call.AggregateID)
	assert.Equal(t, EventProductLiked, call.EventType)

	data := call.Data.(ProductLiked)
	assert.Equal(t, "user-1", data.UserID)
}

func TestService_Like_RequiresUser(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.Like(context.Background(), "product-1", "")

	assert.ErrorIs(t, err, ErrInvalidUser)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Unlike_EmitsEvent(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.Unlike(context.Background(), "product-1", "user-1")

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductUnliked, eventStore.AppendCalls[0].EventType)
}

func TestService_Unlike_RequiresUser(t *testing.T) {
	service, eventStore := newTestEngagementService()

	err := service.Unlike(context.Background(), "product-1", "")

	assert.ErrorIs(t, err, ErrInvalidUser)
	assert.Empty(t, eventStore.AppendCalls)
}
