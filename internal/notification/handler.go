// Package notification consumes order events from Kafka and sends the
// matching customer emails.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/email"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/readmodel"
)

type Handler struct {
	emailService *email.Service
	readStore    store.ReadStoreInterface
}

func NewHandler(emailSvc *email.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleMessage processes one event from Kafka. Events other than the
// order lifecycle ones are skipped.
func (h *Handler) HandleMessage(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event)
	case order.EventOrderShipped:
		return h.handleOrderShipped(event)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced: %v", err)
		return err
	}

	userModel, ok := h.lookupUser(e.UserID)
	if !ok {
		return nil
	}

	items := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		items[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.emailService.SendOrderConfirmation(userModel.Email, e.OrderID, e.Total, items); err != nil {
		log.Printf("[Notifier] Failed to send confirmation to %s: %v", userModel.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", userModel.Email, e.OrderID)
	return nil
}

func (h *Handler) handleOrderShipped(event store.Event) error {
	var e order.OrderShipped
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderShipped: %v", err)
		return err
	}

	o, ok := h.readStore.Get(store.CollectionOrders, e.OrderID)
	if !ok {
		log.Printf("[Notifier] Order not found: %s", e.OrderID)
		return nil
	}
	orderModel := o.(*readmodel.Order)

	userModel, ok := h.lookupUser(orderModel.UserID)
	if !ok {
		return nil
	}

	if err := h.emailService.SendOrderShipped(userModel.Email, e.OrderID); err != nil {
		log.Printf("[Notifier] Failed to send shipping notice to %s: %v", userModel.Email, err)
		return err
	}

	log.Printf("[Notifier] Shipping notice sent to %s for order %s", userModel.Email, e.OrderID)
	return nil
}

// lookupUser is tolerant of projection lag; a missing user model skips
// the mail rather than erroring the consumer into a retry loop.
func (h *Handler) lookupUser(userID string) (*readmodel.User, bool) {
	data, ok := h.readStore.Get(store.CollectionUsers, userID)
	if !ok {
		log.Printf("[Notifier] User not found: %s", userID)
		return nil, false
	}
	return data.(*readmodel.User), true
}
