// Package query implements the read side. All queries are served from
// the in-memory read store that the projector keeps current; catalog
// searches additionally pass through the in-memory query engine and an
// optional Redis result cache.
package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sort"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/cache"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/metrics"
	"github.com/example/artisan-market/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
	cache     *cache.Cache // nil disables caching
}

func NewHandler(readStore store.ReadStoreInterface, c *cache.Cache) *Handler {
	return &Handler{readStore: readStore, cache: c}
}

// SearchResult is a page of catalog matches. Total is the match count
// before pagination.
type SearchResult struct {
	Products []*catalog.Product `json:"products"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	Limit    int                `json:"limit"`
}

// ============================================
// Products
// ============================================

func (h *Handler) GetProduct(id string) (*catalog.Product, bool) {
	data, ok := h.readStore.Get(store.CollectionProducts, id)
	if !ok {
		return nil, false
	}
	return data.(*catalog.Product), true
}

// SearchProducts runs the catalog query engine over the current read
// store contents.
func (h *Handler) SearchProducts(ctx context.Context, q *catalog.Query) *SearchResult {
	if q == nil {
		q = &catalog.Query{}
	}

	cacheKey := searchCacheKey(q)
	if h.cache != nil {
		var cached SearchResult
		if h.cache.Get(ctx, cacheKey, &cached) {
			metrics.SearchCacheHits.Inc()
			return &cached
		}
		metrics.SearchCacheMisses.Inc()
	}

	items := h.readStore.GetAll(store.CollectionProducts)
	products := make([]*catalog.Product, 0, len(items))
	for _, item := range items {
		products = append(products, item.(*catalog.Product))
	}

	matched := catalog.Search(products, q)

	page := q.Page
	if page < 1 {
		page = catalog.DefaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = catalog.DefaultLimit
	}
	if limit > catalog.MaxLimit {
		limit = catalog.MaxLimit
	}

	result := &SearchResult{
		Products: catalog.Paginate(matched, page, limit),
		Total:    len(matched),
		Page:     page,
		Limit:    limit,
	}

	if h.cache != nil {
		h.cache.Set(ctx, cacheKey, result)
	}
	return result
}

// CategoryCount is one entry of the category index.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ListCategories returns the distinct categories across active products,
// alphabetically, with the number of active listings in each.
func (h *Handler) ListCategories() []CategoryCount {
	counts := make(map[string]int)
	for _, item := range h.readStore.GetAll(store.CollectionProducts) {
		p := item.(*catalog.Product)
		if p.Status != catalog.StatusActive || p.Category == "" {
			continue
		}
		counts[p.Category]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]CategoryCount, len(names))
	for i, name := range names {
		categories[i] = CategoryCount{Name: name, Count: counts[name]}
	}
	return categories
}

func searchCacheKey(q *catalog.Query) string {
	raw, err := json.Marshal(q)
	if err != nil {
		log.Printf("[Query] Failed to build cache key: %v", err)
		return "search:invalid"
	}
	sum := sha256.Sum256(raw)
	return "search:" + hex.EncodeToString(sum[:8])
}

// ============================================
// Carts / Wishlists
// ============================================

// GetCart never reports a missing cart; a user who has added nothing
// simply has an empty one.
func (h *Handler) GetCart(userID string) *readmodel.Cart {
	cartID := cart.GetCartID(userID)
	data, ok := h.readStore.Get(store.CollectionCarts, cartID)
	if !ok {
		return &readmodel.Cart{
			ID:     cartID,
			UserID: userID,
			Items:  []readmodel.CartItem{},
		}
	}
	return data.(*readmodel.Cart)
}

func (h *Handler) GetWishlist(userID string) *readmodel.Wishlist {
	wishlistID := wishlist.GetWishlistID(userID)
	data, ok := h.readStore.Get(store.CollectionWishlists, wishlistID)
	if !ok {
		return &readmodel.Wishlist{
			ID:     wishlistID,
			UserID: userID,
			Items:  []readmodel.WishlistItem{},
		}
	}
	return data.(*readmodel.Wishlist)
}

// ============================================
// Orders
// ============================================

func (h *Handler) GetOrder(id string) (*readmodel.Order, bool) {
	data, ok := h.readStore.Get(store.CollectionOrders, id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.Order), true
}

func (h *Handler) ListOrdersByUser(userID string) []*readmodel.Order {
	orders := make([]*readmodel.Order, 0)
	for _, item := range h.readStore.GetAll(store.CollectionOrders) {
		o := item.(*readmodel.Order)
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders
}

// ListAllOrders returns all orders (for admin use)
func (h *Handler) ListAllOrders() []*readmodel.Order {
	items := h.readStore.GetAll(store.CollectionOrders)
	orders := make([]*readmodel.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, item.(*readmodel.Order))
	}
	return orders
}

// ============================================
// Inventory
// ============================================

func (h *Handler) GetInventory(productID string) (*readmodel.Inventory, bool) {
	data, ok := h.readStore.Get(store.CollectionInventory, productID)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.Inventory), true
}

// ============================================
// Users / Artisans
// ============================================

func (h *Handler) GetUser(id string) (*readmodel.User, bool) {
	data, ok := h.readStore.Get(store.CollectionUsers, id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.User), true
}

// GetUserByEmail scans the users collection. Login is rare enough that
// a linear scan over the in-memory models is fine.
func (h *Handler) GetUserByEmail(email string) (*readmodel.User, bool) {
	for _, item := range h.readStore.GetAll(store.CollectionUsers) {
		u := item.(*readmodel.User)
		if u.Email == email {
			return u, true
		}
	}
	return nil, false
}

func (h *Handler) GetArtisan(id string) (*readmodel.Artisan, bool) {
	data, ok := h.readStore.Get(store.CollectionArtisans, id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.Artisan), true
}

// GetArtisanByUser finds the seller profile belonging to an account.
func (h *Handler) GetArtisanByUser(userID string) (*readmodel.Artisan, bool) {
	for _, item := range h.readStore.GetAll(store.CollectionArtisans) {
		a := item.(*readmodel.Artisan)
		if a.UserID == userID {
			return a, true
		}
	}
	return nil, false
}
