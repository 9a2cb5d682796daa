package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/artisan-market/internal/infrastructure/store"
)

const AggregateType = "Wishlist"

var (
	ErrInvalidProduct    = errors.New("product_id is required")
	ErrAlreadyInWishlist = errors.New("product is already in wishlist")
	ErrNotInWishlist     = errors.New("product is not in wishlist")
)

// GetWishlistID returns the wishlist ID for a user. Like carts, each
// customer has exactly one wishlist.
func GetWishlistID(userID string) string {
	return "wishlist-" + userID
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// currentItems replays the wishlist's events into the set of product
// IDs currently on it. Wishlists stay small, no snapshotting.
func (s *Service) currentItems(wishlistID string) (map[string]bool, error) {
	items := make(map[string]bool)
	for _, event := range s.eventStore.GetEvents(wishlistID) {
		switch event.EventType {
		case EventItemAdded:
			var data ItemAddedToWishlist
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, fmt.Errorf("failed to apply event: %w", err)
			}
			items[data.ProductID] = true
		case EventItemRemoved:
			var data ItemRemovedFromWishlist
			if err := json.Unmarshal(event.Data, &data); err != nil {
				return nil, fmt.Errorf("failed to apply event: %w", err)
			}
			delete(items, data.ProductID)
		}
	}
	return items, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID, productName string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	wishlistID := GetWishlistID(userID)
	items, err := s.currentItems(wishlistID)
	if err != nil {
		return err
	}
	if items[productID] {
		return ErrAlreadyInWishlist
	}

	event := ItemAddedToWishlist{
		WishlistID:  wishlistID,
		UserID:      userID,
		ProductID:   productID,
		ProductName: productName,
		AddedAt:     time.Now(),
	}

	_, err = s.eventStore.Append(ctx, wishlistID, AggregateType, EventItemAdded, event)
	return err
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	wishlistID := GetWishlistID(userID)
	items, err := s.currentItems(wishlistID)
	if err != nil {
		return err
	}
	if !items[productID] {
		return ErrNotInWishlist
	}

	event := ItemRemovedFromWishlist{
		WishlistID: wishlistID,
		UserID:     userID,
		ProductID:  productID,
		RemovedAt:  time.Now(),
	}

	_, err = s.eventStore.Append(ctx, wishlistID, AggregateType, EventItemRemoved, event)
	return err
}
