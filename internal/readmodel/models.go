// Package readmodel holds the projection-side models served by the query
// handler. The product read model lives in internal/catalog, since it is
// also the record the query engine operates over.
package readmodel

import (
	"time"

	"github.com/example/artisan-market/internal/catalog"
)

// CartItem is one line of a shopping cart.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     catalog.Decimal `json:"price"`
}

// Cart is the read model for a customer's shopping cart.
type Cart struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	Items  []CartItem      `json:"items"`
	Total  catalog.Decimal `json:"total"`
}

// WishlistItem is one saved product on a wishlist.
type WishlistItem struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	AddedAt   time.Time `json:"added_at"`
}

// Wishlist is the read model for a customer's wishlist.
type Wishlist struct {
	ID     string         `json:"id"`
	UserID string         `json:"user_id"`
	Items  []WishlistItem `json:"items"`
}

// OrderItem is one line of a placed order. ArtisanID is carried so
// seller dashboards can attribute revenue without loading products.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ArtisanID   string          `json:"artisan_id"`
	Quantity    int             `json:"quantity"`
	Price       catalog.Decimal `json:"price"`
}

// Order is the read model for orders.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Items     []OrderItem     `json:"items"`
	Total     catalog.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Inventory is the read model for per-product stock levels.
type Inventory struct {
	ProductID      string `json:"product_id"`
	TotalStock     int    `json:"total_stock"`
	ReservedStock  int    `json:"reserved_stock"`
	AvailableStock int    `json:"available_stock"`
}

// User is the read model for accounts.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never exposed in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Artisan is the read model for seller profiles. DisplayName and Location
// are the values denormalized onto products at creation time.
type Artisan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Location    string    `json:"location"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
