package wishlist

import "time"

const (
	EventItemAdded   = "ItemAddedToWishlist"
	EventItemRemoved = "ItemRemovedFromWishlist"
)

type ItemAddedToWishlist struct {
	WishlistID  string    `json:"wishlist_id"`
	UserID      string    `json:"user_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	AddedAt     time.Time `json:"added_at"`
}

type ItemRemovedFromWishlist struct {
	WishlistID string    `json:"wishlist_id"`
	UserID     string    `json:"user_id"`
	ProductID  string    `json:"product_id"`
	RemovedAt  time.Time `json:"removed_at"`
}
