package query

import (
	"context"
	"testing"
	"time"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/infrastructure/store/mocks"
	"github.com/example/artisan-market/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueryHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	handler := NewHandler(readStore, nil)
	return handler, readStore
}

func seedProduct(readStore *mocks.MockReadStore, id, name, category string, price catalog.Decimal, createdAt time.Time) {
	readStore.SetData(store.CollectionProducts, id, &catalog.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		Status:    catalog.StatusActive,
		IsActive:  true,
		CreatedAt: createdAt,
	})
}

// ============================================
// GetProduct Tests
// ============================================

func TestHandler_GetProduct_Found(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "Pottery", 500, time.Now())

	p, ok := handler.GetProduct("prod-1")

	require.True(t, ok)
	assert.Equal(t, "Clay Bowl", p.Name)
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()

	_, ok := handler.GetProduct("missing")

	assert.False(t, ok)
}

// ============================================
// SearchProducts Tests
// ============================================

func TestHandler_SearchProducts_FiltersAndSorts(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	base := time.Now()
	seedProduct(readStore, "prod-1", "Clay Bowl", "Pottery", catalog.ParseDecimal("500.00"), base)
	seedProduct(readStore, "prod-2", "Clay Vase", "Pottery", catalog.ParseDecimal("900.00"), base.Add(time.Minute))
	seedProduct(readStore, "prod-3", "Silk Scarf", "Textiles", catalog.ParseDecimal("1200.00"), base.Add(2*time.Minute))

	result := handler.SearchProducts(context.Background(), &catalog.Query{
		Category: "pottery",
		SortBy:   catalog.SortPrice,
	})

	require.Equal(t, 2, result.Total)
	require.Len(t, result.Products, 2)
	// Default sort order is descending.
	assert.Equal(t, "prod-2", result.Products[0].ID)
	assert.Equal(t, "prod-1", result.Products[1].ID)
}

func TestHandler_SearchProducts_NilQueryDefaults(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	base := time.Now()
	seedProduct(readStore, "prod-1", "Clay Bowl", "Pottery", 500, base)
	seedProduct(readStore, "prod-2", "Clay Vase", "Pottery", 900, base.Add(time.Minute))

	result := handler.SearchProducts(context.Background(), nil)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, catalog.DefaultPage, result.Page)
	assert.Equal(t, catalog.DefaultLimit, result.Limit)
	// Newest first.
	assert.Equal(t, "prod-2", result.Products[0].ID)
}

func TestHandler_SearchProducts_Pagination(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	base := time.Now()
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		seedProduct(readStore, id, "Bowl "+id, "Pottery", 500, base.Add(time.Duration(i)*time.Minute))
	}

	result := handler.SearchProducts(context.Background(), &catalog.Query{Page: 2, Limit: 2})

	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Products, 2)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.Limit)
}

func TestHandler_SearchProducts_LimitClamped(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	seedProduct(readStore, "prod-1", "Clay Bowl", "Pottery", 500, time.Now())

	result := handler.SearchProducts(context.Background(), &catalog.Query{Limit: 10_000})

	assert.Equal(t, catalog.MaxLimit, result.Limit)
}

// ============================================
// Cart / Wishlist Tests
// ============================================

func TestHandler_GetCart_MissingReturnsEmpty(t *testing.T) {
	handler, _ := newTestQueryHandler()

	c := handler.GetCart("user-1")

	require.NotNil(t, c)
	assert.Equal(t, "cart-user-1", c.ID)
	assert.Empty(t, c.Items)
}

func TestHandler_GetCart_Found(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionCarts, "cart-user-1", &readmodel.Cart{
		ID:     "cart-user-1",
		UserID: "user-1",
		Items:  []readmodel.CartItem{{ProductID: "prod-1", Quantity: 2}},
	})

	c := handler.GetCart("user-1")

	require.Len(t, c.Items, 1)
	assert.Equal(t, "prod-1", c.Items[0].ProductID)
}

func TestHandler_GetWishlist_MissingReturnsEmpty(t *testing.T) {
	handler, _ := newTestQueryHandler()

	w := handler.GetWishlist("user-1")

	require.NotNil(t, w)
	assert.Equal(t, "wishlist-user-1", w.ID)
	assert.Empty(t, w.Items)
}

// ============================================
// Order Tests
// ============================================

func TestHandler_ListOrdersByUser_FiltersOwner(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionOrders, "order-1", &readmodel.Order{ID: "order-1", UserID: "user-1"})
	readStore.SetData(store.CollectionOrders, "order-2", &readmodel.Order{ID: "order-2", UserID: "user-2"})
	readStore.SetData(store.CollectionOrders, "order-3", &readmodel.Order{ID: "order-3", UserID: "user-1"})

	orders := handler.ListOrdersByUser("user-1")

	assert.Len(t, orders, 2)
	assert.Len(t, handler.ListAllOrders(), 3)
}

func TestHandler_GetOrder_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()

	_, ok := handler.GetOrder("missing")

	assert.False(t, ok)
}

// ============================================
// Inventory Tests
// ============================================

func TestHandler_GetInventory(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionInventory, "prod-1", &readmodel.Inventory{
		ProductID:      "prod-1",
		TotalStock:     10,
		ReservedStock:  3,
		AvailableStock: 7,
	})

	inv, ok := handler.GetInventory("prod-1")

	require.True(t, ok)
	assert.Equal(t, 7, inv.AvailableStock)
}

// ============================================
// User / Artisan Tests
// ============================================

func TestHandler_GetUserByEmail(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionUsers, "user-1", &readmodel.User{ID: "user-1", Email: "meera@example.com"})
	readStore.SetData(store.CollectionUsers, "user-2", &readmodel.User{ID: "user-2", Email: "sam@example.com"})

	u, ok := handler.GetUserByEmail("sam@example.com")

	require.True(t, ok)
	assert.Equal(t, "user-2", u.ID)

	_, ok = handler.GetUserByEmail("missing@example.com")
	assert.False(t, ok)
}

func TestHandler_GetArtisanByUser(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	readStore.SetData(store.CollectionArtisans, "artisan-1", &readmodel.Artisan{ID: "artisan-1", UserID: "user-1"})

	a, ok := handler.GetArtisanByUser("user-1")

	require.True(t, ok)
	assert.Equal(t, "artisan-1", a.ID)

	_, ok = handler.GetArtisanByUser("user-2")
	assert.False(t, ok)
}

func TestHandler_ListCategories(t *testing.T) {
	handler, readStore := newTestQueryHandler()
	seedProduct(readStore, "p1", "Clay Bowl", "Pottery", 500, time.Now())
	seedProduct(readStore, "p2", "Clay Vase", "Pottery", 900, time.Now())
	seedProduct(readStore, "p3", "Silver Ring", "Jewelry", 2500, time.Now())
	readStore.SetData(store.CollectionProducts, "p4", &catalog.Product{
		ID: "p4", Name: "Retired Mug", Category: "Pottery", Status: catalog.StatusSold,
	})

	categories := handler.ListCategories()

	require.Len(t, categories, 2)
	assert.Equal(t, CategoryCount{Name: "Jewelry", Count: 1}, categories[0])
	assert.Equal(t, CategoryCount{Name: "Pottery", Count: 2}, categories[1])
}
