package command

import (
	"context"
	"testing"
	"time"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/engagement"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/example/artisan-market/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *mocks.MockEventStore, *mocks.MockReadStore) {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()

	h := NewHandler(
		product.NewService(eventStore),
		engagement.NewService(eventStore),
		cart.NewService(eventStore),
		wishlist.NewService(eventStore),
		order.NewService(eventStore),
		inventory.NewService(eventStore),
		artisan.NewService(eventStore),
		readStore,
	)
	return h, eventStore, readStore
}

func seedArtisan(readStore *mocks.MockReadStore, id, name, location string) {
	readStore.SetData(store.CollectionArtisans, id, &readmodel.Artisan{
		ID:          id,
		DisplayName: name,
		Location:    location,
	})
}

func seedProduct(readStore *mocks.MockReadStore, id, name, artisanID string, price catalog.Decimal) {
	readStore.SetData(store.CollectionProducts, id, &catalog.Product{
		ID:        id,
		Name:      name,
		ArtisanID: artisanID,
		Price:     price,
		Status:    catalog.StatusActive,
		IsActive:  true,
		CreatedAt: time.Now(),
	})
}

// ============================================
// CreateProduct Tests
// ============================================

func TestHandler_CreateProduct_DenormalizesArtisanProfile(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedArtisan(readStore, "artisan-1", "Meera Ceramics", "Jaipur")

	p, err := h.CreateProduct(context.Background(), CreateProduct{
		ArtisanID: "artisan-1",
		Input: product.CreateInput{
			Name:     "Clay Bowl",
			Category: "Pottery",
			Price:    catalog.ParseDecimal("500.00"),
			Stock:    5,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Meera Ceramics", p.ArtisanName)
	assert.Equal(t, "Jaipur", p.Location)

	// ProductCreated followed by StockAdded.
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, product.EventProductCreated, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, inventory.EventStockAdded, eventStore.AppendCalls[1].EventType)
	assert.Equal(t, "inventory-"+p.ID, eventStore.AppendCalls[1].AggregateID)
}

func TestHandler_CreateProduct_ZeroStockSkipsInventory(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedArtisan(readStore, "artisan-1", "Meera Ceramics", "Jaipur")

	_, err := h.CreateProduct(context.Background(), CreateProduct{
		ArtisanID: "artisan-1",
		Input: product.CreateInput{
			Name:     "Clay Bowl",
			Category: "Pottery",
			Price:    catalog.ParseDecimal("500.00"),
		},
	})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
}

func TestHandler_CreateProduct_FallsBackToEventStream(t *testing.T) {
	h, eventStore, _ := newTestHandler()

	// Profile exists only in the event store, not yet projected.
	require.NoError(t, eventStore.AddEvent("artisan-1", artisan.AggregateType, artisan.EventArtisanRegistered, artisan.ArtisanRegistered{
		ArtisanID:   "artisan-1",
		UserID:      "user-1",
		DisplayName: "Meera Ceramics",
		Location:    "Jaipur",
	}))

	p, err := h.CreateProduct(context.Background(), CreateProduct{
		ArtisanID: "artisan-1",
		Input: product.CreateInput{
			Name:     "Clay Bowl",
			Category: "Pottery",
			Price:    catalog.ParseDecimal("500.00"),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Meera Ceramics", p.ArtisanName)
}

func TestHandler_CreateProduct_UnknownArtisan(t *testing.T) {
	h, _, _ := newTestHandler()

	_, err := h.CreateProduct(context.Background(), CreateProduct{
		ArtisanID: "missing",
		Input:     product.CreateInput{Name: "Clay Bowl", Category: "Pottery"},
	})

	assert.ErrorIs(t, err, artisan.ErrArtisanNotFound)
}

// ============================================
// Ownership Tests
// ============================================

func TestHandler_UpdateProduct_WrongArtisan(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)

	name := "New Name"
	err := h.UpdateProduct(context.Background(), UpdateProduct{
		ProductID: "prod-1",
		ArtisanID: "artisan-2",
		Changes:   product.Changes{Name: &name},
	})

	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestHandler_UpdateProduct_UnknownProduct(t *testing.T) {
	h, _, _ := newTestHandler()

	name := "New Name"
	err := h.UpdateProduct(context.Background(), UpdateProduct{
		ProductID: "missing",
		ArtisanID: "artisan-1",
		Changes:   product.Changes{Name: &name},
	})

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestHandler_DeleteProduct_AdminSkipsOwnershipCheck(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)
	// Product events must exist for the domain service's NotFound check.
	require.NoError(t, eventStore.AddEvent("prod-1", product.AggregateType, product.EventProductCreated, product.ProductCreated{}))

	err := h.DeleteProduct(context.Background(), DeleteProduct{ProductID: "prod-1", ArtisanID: ""})

	require.NoError(t, err)
}

// ============================================
// Engagement Tests
// ============================================

func TestHandler_RecordProductView_UnknownProduct(t *testing.T) {
	h, _, _ := newTestHandler()

	err := h.RecordProductView(context.Background(), RecordProductView{ProductID: "missing"})

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestHandler_LikeProduct_Success(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)

	err := h.LikeProduct(context.Background(), LikeProduct{ProductID: "prod-1", UserID: "user-1"})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, engagement.EventProductLiked, eventStore.AppendCalls[0].EventType)
}

// ============================================
// Cart Tests
// ============================================

func TestHandler_AddToCart_SnapshotsNameAndPrice(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", catalog.ParseDecimal("500.00"))

	err := h.AddToCart(context.Background(), AddToCart{UserID: "user-1", ProductID: "prod-1", Quantity: 2})

	require.NoError(t, err)
	data := eventStore.AppendCalls[0].Data.(cart.ItemAddedToCart)
	assert.Equal(t, "Clay Bowl", data.ProductName)
	assert.Equal(t, catalog.ParseDecimal("500.00"), data.Price)
}

func TestHandler_AddToCart_UnknownProduct(t *testing.T) {
	h, _, _ := newTestHandler()

	err := h.AddToCart(context.Background(), AddToCart{UserID: "user-1", ProductID: "missing", Quantity: 1})

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

// ============================================
// Wishlist Tests
// ============================================

func TestHandler_AddToWishlist_Success(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)

	err := h.AddToWishlist(context.Background(), AddToWishlist{UserID: "user-1", ProductID: "prod-1"})

	require.NoError(t, err)
	data := eventStore.AppendCalls[0].Data.(wishlist.ItemAddedToWishlist)
	assert.Equal(t, "Clay Bowl", data.ProductName)
}

// ============================================
// PlaceOrder Tests
// ============================================

func seedCart(readStore *mocks.MockReadStore, userID string, items []readmodel.CartItem) {
	cartID := cart.GetCartID(userID)
	readStore.SetData(store.CollectionCarts, cartID, &readmodel.Cart{
		ID:     cartID,
		UserID: userID,
		Items:  items,
	})
}

func TestHandler_PlaceOrder_Success(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", catalog.ParseDecimal("500.00"))
	seedCart(readStore, "user-1", []readmodel.CartItem{
		{ProductID: "prod-1", Name: "Clay Bowl", Quantity: 2, Price: catalog.ParseDecimal("500.00")},
	})
	// Stock must exist for the reservation.
	require.NoError(t, eventStore.AddEvent("inventory-prod-1", inventory.AggregateType, inventory.EventStockAdded, inventory.StockAdded{
		ProductID: "prod-1",
		Quantity:  10,
	}))

	o, err := h.PlaceOrder(context.Background(), PlaceOrder{UserID: "user-1", ShippingAddress: "12 Pottery Lane"})

	require.NoError(t, err)
	assert.Equal(t, catalog.ParseDecimal("1000.00"), o.Total)
	assert.Equal(t, "artisan-1", o.Items[0].ArtisanID)

	// OrderPlaced, StockReserved, CartCleared.
	require.Len(t, eventStore.AppendCalls, 3)
	assert.Equal(t, order.EventOrderPlaced, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, inventory.EventStockReserved, eventStore.AppendCalls[1].EventType)
	assert.Equal(t, cart.EventCartCleared, eventStore.AppendCalls[2].EventType)
}

func TestHandler_PlaceOrder_EmptyCart(t *testing.T) {
	h, _, readStore := newTestHandler()
	seedCart(readStore, "user-1", nil)

	_, err := h.PlaceOrder(context.Background(), PlaceOrder{UserID: "user-1"})

	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestHandler_PlaceOrder_NoCart(t *testing.T) {
	h, _, _ := newTestHandler()

	_, err := h.PlaceOrder(context.Background(), PlaceOrder{UserID: "user-1"})

	assert.ErrorIs(t, err, order.ErrEmptyOrder)
}

func TestHandler_PlaceOrder_InsufficientStock(t *testing.T) {
	h, _, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)
	seedCart(readStore, "user-1", []readmodel.CartItem{
		{ProductID: "prod-1", Name: "Clay Bowl", Quantity: 2, Price: 500},
	})

	_, err := h.PlaceOrder(context.Background(), PlaceOrder{UserID: "user-1"})

	assert.ErrorIs(t, err, inventory.ErrInsufficientStock)
}

// ============================================
// PayOrder / CancelOrder Tests
// ============================================

func seedOrder(readStore *mocks.MockReadStore, eventStore *mocks.MockEventStore, t *testing.T, orderID, status string, items []readmodel.OrderItem) {
	t.Helper()
	readStore.SetData(store.CollectionOrders, orderID, &readmodel.Order{
		ID:     orderID,
		UserID: "user-1",
		Items:  items,
		Status: status,
	})
	var orderItems []order.OrderItem
	for _, it := range items {
		orderItems = append(orderItems, order.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	require.NoError(t, eventStore.AddEvent(orderID, order.AggregateType, order.EventOrderPlaced, order.OrderPlaced{
		OrderID: orderID,
		UserID:  "user-1",
		Items:   orderItems,
	}))
	if status == string(order.StatusPaid) {
		require.NoError(t, eventStore.AddEvent(orderID, order.AggregateType, order.EventOrderPaid, order.OrderPaid{OrderID: orderID}))
	}
}

func TestHandler_PayOrder_DeductsStock(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	items := []readmodel.OrderItem{{ProductID: "prod-1", Quantity: 2, Price: 500}}
	seedOrder(readStore, eventStore, t, "order-1", string(order.StatusPending), items)
	require.NoError(t, eventStore.AddEvent("inventory-prod-1", inventory.AggregateType, inventory.EventStockAdded, inventory.StockAdded{
		ProductID: "prod-1",
		Quantity:  10,
	}))

	err := h.PayOrder(context.Background(), PayOrder{OrderID: "order-1"})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, order.EventOrderPaid, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, inventory.EventStockDeducted, eventStore.AppendCalls[1].EventType)
}

func TestHandler_PayOrder_NotFound(t *testing.T) {
	h, _, _ := newTestHandler()

	err := h.PayOrder(context.Background(), PayOrder{OrderID: "missing"})

	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestHandler_CancelOrder_PendingReleasesStock(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	items := []readmodel.OrderItem{{ProductID: "prod-1", Quantity: 2, Price: 500}}
	seedOrder(readStore, eventStore, t, "order-1", string(order.StatusPending), items)

	err := h.CancelOrder(context.Background(), CancelOrder{OrderID: "order-1", Reason: "changed my mind"})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 2)
	assert.Equal(t, order.EventOrderCancelled, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, inventory.EventStockReleased, eventStore.AppendCalls[1].EventType)
}

func TestHandler_CancelOrder_PaidDoesNotRelease(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	items := []readmodel.OrderItem{{ProductID: "prod-1", Quantity: 2, Price: 500}}
	seedOrder(readStore, eventStore, t, "order-1", string(order.StatusPaid), items)

	err := h.CancelOrder(context.Background(), CancelOrder{OrderID: "order-1", Reason: "refund"})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, order.EventOrderCancelled, eventStore.AppendCalls[0].EventType)
}

// ============================================
// AddStock Tests
// ============================================

func TestHandler_AddStock_OwnerOnly(t *testing.T) {
	h, _, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)

	err := h.AddStock(context.Background(), AddStock{ProductID: "prod-1", ArtisanID: "artisan-2", Quantity: 5})

	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestHandler_AddStock_Success(t *testing.T) {
	h, eventStore, readStore := newTestHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "artisan-1", 500)

	err := h.AddStock(context.Background(), AddStock{ProductID: "prod-1", ArtisanID: "artisan-1", Quantity: 5})

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, inventory.EventStockAdded, eventStore.AppendCalls[0].EventType)
}

// ============================================
// Artisan Tests
// ============================================

func TestHandler_RegisterArtisan_Success(t *testing.T) {
	h, eventStore, _ := newTestHandler()

	a, err := h.RegisterArtisan(context.Background(), RegisterArtisan{
		UserID:      "user-1",
		DisplayName: "Meera Ceramics",
		Location:    "Jaipur",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, artisan.EventArtisanRegistered, eventStore.AppendCalls[0].EventType)
}
