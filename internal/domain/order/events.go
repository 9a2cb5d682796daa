package order

import (
	"time"

	"github.com/example/artisan-market/internal/catalog"
)

const (
	EventOrderPlaced    = "OrderPlaced"
	EventOrderPaid      = "OrderPaid"
	EventOrderShipped   = "OrderShipped"
	EventOrderCancelled = "OrderCancelled"
)

type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ArtisanID   string          `json:"artisan_id"`
	Quantity    int             `json:"quantity"`
	Price       catalog.Decimal `json:"price"`
}

type OrderPlaced struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	Total           catalog.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	PlacedAt        time.Time       `json:"placed_at"`
}

type OrderPaid struct {
	OrderID string    `json:"order_id"`
	PaidAt  time.Time `json:"paid_at"`
}

type OrderShipped struct {
	OrderID   string    `json:"order_id"`
	ShippedAt time.Time `json:"shipped_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}
