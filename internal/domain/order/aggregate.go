package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/domain/aggregate"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Order"

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyOrder       = errors.New("order must have at least one item")
	ErrInvalidStatus    = errors.New("invalid order status transition")
	ErrOrderAlreadyPaid = errors.New("order is already paid")
	ErrOrderNotPaid     = errors.New("order must be paid before shipping")
	ErrOrderShipped     = errors.New("cannot cancel shipped order")
	ErrOrderCancelled   = errors.New("order is already cancelled")
)

// validTransitions defines allowed state transitions
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {}, // terminal state
	StatusCancelled: {}, // terminal state
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Total           catalog.Decimal `json:"total"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

func (o *Order) GetID() string    { return o.ID }
func (o *Order) GetVersion() int  { return o.Version }
func (o *Order) SetVersion(v int) { o.Version = v }

// CanTransitionTo checks if the order can transition to the target status
func (o *Order) CanTransitionTo(target Status) bool {
	for _, s := range validTransitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// transitionError returns an appropriate error for an invalid transition
func (o *Order) transitionError(target Status) error {
	switch {
	case o.Status == StatusCancelled:
		return ErrOrderCancelled
	case o.Status == StatusShipped && target == StatusCancelled:
		return ErrOrderShipped
	case (o.Status == StatusPaid || o.Status == StatusShipped) && target == StatusPaid:
		return ErrOrderAlreadyPaid
	case o.Status == StatusPending && target == StatusShipped:
		return ErrOrderNotPaid
	default:
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStatus, o.Status, target)
	}
}

// ApplyEvent applies a single event to the order state
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.UserID = data.UserID
		o.Items = data.Items
		o.Total = data.Total
		o.ShippingAddress = data.ShippingAddress
		o.Status = StatusPending
		o.CreatedAt = data.PlacedAt
		o.UpdatedAt = data.PlacedAt
	case EventOrderPaid:
		var data OrderPaid
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusPaid
		o.UpdatedAt = data.PaidAt
	case EventOrderShipped:
		var data OrderShipped
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusShipped
		o.UpdatedAt = data.ShippedAt
	case EventOrderCancelled:
		var data OrderCancelled
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.Status = StatusCancelled
		o.UpdatedAt = data.CancelledAt
	}
	o.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadOrder(ctx context.Context, orderID string) (*Order, error) {
	order, found, err := aggregate.Load(ctx, s.eventStore, orderID, func() *Order {
		return &Order{}
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) Place(ctx context.Context, userID, shippingAddress string, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	orderID := uuid.New().String()
	now := time.Now()

	var total catalog.Decimal
	for _, item := range items {
		total += item.Price * catalog.Decimal(item.Quantity)
	}

	event := OrderPlaced{
		OrderID:         orderID,
		UserID:          userID,
		Items:           items,
		Total:           total,
		ShippingAddress: shippingAddress,
		PlacedAt:        now,
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event)
	if err != nil {
		return nil, err
	}

	version := 0
	if storedEvent != nil {
		version = storedEvent.Version
	}

	order := &Order{
		ID:              orderID,
		UserID:          userID,
		Items:           items,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         version,
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return order, nil
}

// transition validates and appends a status-change event.
func (s *Service) transition(ctx context.Context, orderID string, target Status, eventType string, data any) error {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.CanTransitionTo(target) {
		return order.transitionError(target)
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	order.Status = target
	if storedEvent != nil {
		order.Version = storedEvent.Version
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, order, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", order.ID, err)
	}

	return nil
}

func (s *Service) Pay(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, StatusPaid, EventOrderPaid, OrderPaid{
		OrderID: orderID,
		PaidAt:  time.Now(),
	})
}

func (s *Service) Ship(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, StatusShipped, EventOrderShipped, OrderShipped{
		OrderID:   orderID,
		ShippedAt: time.Now(),
	})
}

func (s *Service) Cancel(ctx context.Context, orderID, reason string) error {
	return s.transition(ctx, orderID, StatusCancelled, EventOrderCancelled, OrderCancelled{
		OrderID:     orderID,
		Reason:      reason,
		CancelledAt: time.Now(),
	})
}
