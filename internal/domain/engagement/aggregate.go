// Package engagement tracks the view/like counters on catalog records.
// Counters are mutated exclusively through these events; the query
// engine and the product service never touch them. Sales counts come
// from order events instead.
package engagement

import (
	"context"
	"errors"
	"time"

	"github.com/example/artisan-market/internal/infrastructure/store"
)

const AggregateType = "Engagement"

var (
	ErrInvalidProduct = errors.New("product_id is required")
	ErrInvalidUser    = errors.New("user_id is required")
)

// GetEngagementID keys engagement events separately from the product's
// own aggregate so counter churn never inflates product versions.
func GetEngagementID(productID string) string {
	return "engagement-" + productID
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// RecordView emits a view event. ViewerID may be empty for anonymous
// visitors.
func (s *Service) RecordView(ctx context.Context, productID, viewerID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}

	event := ProductViewed{
		ProductID: productID,
		ViewerID:  viewerID,
		ViewedAt:  time.Now(),
	}

	_, err := s.eventStore.Append(ctx, GetEngagementID(productID), AggregateType, EventProductViewed, event)
	return err
}

func (s *Service) Like(ctx context.Context, productID, userID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if userID == "" {
		return ErrInvalidUser
	}

	event := ProductLiked{
		ProductID: productID,
		UserID:    userID,
		LikedAt:   time.Now(),
	}

	_, err := s.eventStore.Append(ctx, GetEngagementID(productID), AggregateType, EventProductLiked, event)
	return err
}

func (s *Service) Unlike(ctx context.Context, productID, userID string) error {
	if productID == "" {
		return ErrInvalidProduct
	}
	if userID == "" {
		return ErrInvalidUser
	}

	event := ProductUnliked{
		ProductID: productID,
		UserID:    userID,
		UnlikedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, GetEngagementID(productID), AggregateType, EventProductUnliked, event)
	return err
}
