package command

import (
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/product"
)

// Product Commands

type CreateProduct struct {
	ArtisanID string
	Input     product.CreateInput
}

type UpdateProduct struct {
	ProductID string
	ArtisanID string
	Changes   product.Changes
}

type DeleteProduct struct {
	ProductID string
	ArtisanID string
}

type AddProductImage struct {
	ProductID string
	ArtisanID string
	ImageURL  string
}

// Engagement Commands

type RecordProductView struct {
	ProductID string
	ViewerID  string // empty for anonymous visitors
}

type LikeProduct struct {
	ProductID string
	UserID    string
}

type UnlikeProduct struct {
	ProductID string
	UserID    string
}

// Cart Commands

type AddToCart struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type RemoveFromCart struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type ClearCart struct {
	UserID string `json:"user_id"`
}

// Wishlist Commands

type AddToWishlist struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type RemoveFromWishlist struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

// Order Commands

type PlaceOrder struct {
	UserID          string `json:"user_id"`
	ShippingAddress string `json:"shipping_address"`
}

type PayOrder struct {
	OrderID string `json:"order_id"`
}

type ShipOrder struct {
	OrderID string `json:"order_id"`
}

type CancelOrder struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// Inventory Commands

type AddStock struct {
	ProductID string `json:"product_id"`
	ArtisanID string `json:"artisan_id"`
	Quantity  int    `json:"quantity"`
}

// Artisan Commands

type RegisterArtisan struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Location    string `json:"location"`
	Bio         string `json:"bio"`
}

type UpdateArtisanProfile struct {
	ArtisanID string
	Changes   artisan.Changes
}
