package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/artisan-market/internal/domain/aggregate"
	"github.com/example/artisan-market/internal/infrastructure/store"
)

const AggregateType = "Inventory"

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// GetInventoryID keys stock events separately from the product's own
// event stream.
func GetInventoryID(productID string) string {
	return "inventory-" + productID
}

type Inventory struct {
	ProductID     string `json:"product_id"`
	TotalStock    int    `json:"total_stock"`
	ReservedStock int    `json:"reserved_stock"`
	Version       int    `json:"version"`
}

func (i *Inventory) AvailableStock() int {
	return i.TotalStock - i.ReservedStock
}

func (i *Inventory) GetID() string    { return GetInventoryID(i.ProductID) }
func (i *Inventory) GetVersion() int  { return i.Version }
func (i *Inventory) SetVersion(v int) { i.Version = v }

// ApplyEvent applies a single event to the inventory state
func (i *Inventory) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventStockAdded:
		var data StockAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.ProductID = data.ProductID
		i.TotalStock += data.Quantity
	case EventStockReserved:
		var data StockReserved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.ReservedStock += data.Quantity
	case EventStockReleased:
		var data StockReleased
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.ReservedStock -= data.Quantity
		if i.ReservedStock < 0 {
			i.ReservedStock = 0
		}
	case EventStockDeducted:
		var data StockDeducted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		i.TotalStock -= data.Quantity
		i.ReservedStock -= data.Quantity
		if i.TotalStock < 0 {
			i.TotalStock = 0
		}
		if i.ReservedStock < 0 {
			i.ReservedStock = 0
		}
	}
	i.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadInventory(ctx context.Context, productID string) (*Inventory, error) {
	inv, _, err := aggregate.Load(ctx, s.eventStore, GetInventoryID(productID), func() *Inventory {
		return &Inventory{ProductID: productID}
	})
	if err != nil {
		return nil, err
	}
	inv.ProductID = productID
	return inv, nil
}

// emit appends a stock event and runs the snapshot check.
func (s *Service) emit(ctx context.Context, inv *Inventory, eventType string, data any) error {
	storedEvent, err := s.eventStore.Append(ctx, GetInventoryID(inv.ProductID), AggregateType, eventType, data)
	if err != nil {
		return err
	}
	if storedEvent != nil {
		if applyErr := inv.ApplyEvent(*storedEvent); applyErr != nil {
			return applyErr
		}
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, inv, AggregateType); err != nil {
		log.Printf("[Inventory] Failed to create snapshot for product %s: %v", inv.ProductID, err)
	}
	return nil
}

func (s *Service) AddStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	inv, err := s.loadInventory(ctx, productID)
	if err != nil {
		return err
	}

	return s.emit(ctx, inv, EventStockAdded, StockAdded{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	})
}

// Reserve holds stock for a pending order. Fails when the requested
// quantity exceeds what is available (total minus already reserved).
func (s *Service) Reserve(ctx context.Context, productID, orderID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	inv, err := s.loadInventory(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > inv.AvailableStock() {
		return ErrInsufficientStock
	}

	return s.emit(ctx, inv, EventStockReserved, StockReserved{
		ProductID:  productID,
		OrderID:    orderID,
		Quantity:   quantity,
		ReservedAt: time.Now(),
	})
}

// Release returns a reservation to the available pool, e.g. when an
// order is cancelled before payment.
func (s *Service) Release(ctx context.Context, productID, orderID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	inv, err := s.loadInventory(ctx, productID)
	if err != nil {
		return err
	}

	return s.emit(ctx, inv, EventStockReleased, StockReleased{
		ProductID:  productID,
		OrderID:    orderID,
		Quantity:   quantity,
		ReleasedAt: time.Now(),
	})
}

// Deduct converts a reservation into a permanent stock decrease once
// an order is paid.
func (s *Service) Deduct(ctx context.Context, productID, orderID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	inv, err := s.loadInventory(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > inv.TotalStock {
		return ErrInsufficientStock
	}

	return s.emit(ctx, inv, EventStockDeducted, StockDeducted{
		ProductID:  productID,
		OrderID:    orderID,
		Quantity:   quantity,
		DeductedAt: time.Now(),
	})
}
