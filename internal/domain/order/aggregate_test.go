package order

import (
	"context"
	"testing"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func sampleItems() []OrderItem {
	return []OrderItem{
		{ProductID: "prod-1", ProductName: "Clay Bowl", ArtisanID: "artisan-1", Quantity: 2, Price: catalog.ParseDecimal("500.00")},
		{ProductID: "prod-2", ProductName: "Silk Scarf", ArtisanID: "artisan-2", Quantity: 1, Price: catalog.ParseDecimal("1200.00")},
	}
}

// ============================================
// Place Tests
// ============================================

func TestService_Place_Success(t *testing.T) {
	service, eventStore := newTestOrderService()

	order, err := service.Place(context.Background(), "user-123", "12 Pottery Lane, Jaipur", sampleItems())

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "user-123", order.UserID)
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "12 Pottery Lane, Jaipur", order.ShippingAddress)

	// Total: 2*500.00 + 1*1200.00 = 2200.00
	assert.Equal(t, catalog.ParseDecimal("2200.00"), order.Total)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventOrderPlaced, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, order.ID, eventStore.AppendCalls[0].AggregateID)
}

func TestService_Place_EmptyItems(t *testing.T) {
	service, eventStore := newTestOrderService()

	order, err := service.Place(context.Background(), "user-123", "", nil)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, order)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// Pay Tests
// ============================================

func TestService_Pay_Success(t *testing.T) {
	service, eventStore := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)

	err = service.Pay(ctx, order.ID)

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, EventOrderPaid, eventStore.AppendCalls[1].EventType)
}

func TestService_Pay_NotFound(t *testing.T) {
	service, _ := newTestOrderService()

	err := service.Pay(context.Background(), "missing-order")

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_Pay_AlreadyPaid(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Pay(ctx, order.ID))

	err = service.Pay(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderAlreadyPaid)
}

func TestService_Pay_CancelledOrder(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Cancel(ctx, order.ID, "changed my mind"))

	err = service.Pay(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderCancelled)
}

// ============================================
// Ship Tests
// ============================================

func TestService_Ship_Success(t *testing.T) {
	service, eventStore := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Pay(ctx, order.ID))

	err = service.Ship(ctx, order.ID)

	require.NoError(t, err)
	assert.Equal(t, EventOrderShipped, eventStore.AppendCalls[2].EventType)
}

func TestService_Ship_BeforePay(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)

	err = service.Ship(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotPaid)
}

// ============================================
// Cancel Tests
// ============================================

func TestService_Cancel_PendingOrder(t *testing.T) {
	service, eventStore := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)

	err = service.Cancel(ctx, order.ID, "changed my mind")

	require.NoError(t, err)
	data := eventStore.AppendCalls[1].Data.(OrderCancelled)
	assert.Equal(t, "changed my mind", data.Reason)
}

func TestService_Cancel_PaidOrder(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Pay(ctx, order.ID))

	// Paid but not shipped orders can still be cancelled (refund flow).
	err = service.Cancel(ctx, order.ID, "out of stock")
	require.NoError(t, err)
}

func TestService_Cancel_ShippedOrder(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Pay(ctx, order.ID))
	require.NoError(t, service.Ship(ctx, order.ID))

	err = service.Cancel(ctx, order.ID, "too late")
	assert.ErrorIs(t, err, ErrOrderShipped)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	order, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Cancel(ctx, order.ID, "first"))

	err = service.Cancel(ctx, order.ID, "second")
	assert.ErrorIs(t, err, ErrOrderCancelled)
}

// ============================================
// Transition Table Tests
// ============================================

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPaid, StatusShipped, true},
		{StatusPaid, StatusCancelled, true},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusPaid, false},
		{StatusCancelled, StatusPaid, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.from}
		assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

// ============================================
// Replay Tests
// ============================================

func TestService_LoadOrder_ReplaysFullHistory(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()

	placed, err := service.Place(ctx, "user-123", "", sampleItems())
	require.NoError(t, err)
	require.NoError(t, service.Pay(ctx, placed.ID))
	require.NoError(t, service.Ship(ctx, placed.ID))

	order, err := service.loadOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
	assert.Equal(t, placed.Total, order.Total)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Version)
}
