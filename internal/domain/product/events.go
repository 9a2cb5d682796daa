package product

import (
	"time"

	"github.com/example/artisan-market/internal/catalog"
)

const (
	EventProductCreated    = "ProductCreated"
	EventProductUpdated    = "ProductUpdated"
	EventProductDeleted    = "ProductDeleted"
	EventProductImageAdded = "ProductImageAdded"
)

// ProductCreated carries the full catalog record: the service builds the
// record server-side with every default filled in, so the projector can
// store it as-is.
type ProductCreated struct {
	Product catalog.Product `json:"product"`
}

// ProductUpdated carries only the fields that changed. Nil fields leave
// the read model untouched; UpdatedAt is always refreshed.
type ProductUpdated struct {
	ProductID string    `json:"product_id"`
	Changes   Changes   `json:"changes"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductDeleted struct {
	ProductID string    `json:"product_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type ProductImageAdded struct {
	ProductID string    `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}
