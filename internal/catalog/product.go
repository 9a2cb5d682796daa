package catalog

import "time"

// Status is the listing state of a product. Only active products are
// eligible for customer-facing results.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusSold     Status = "sold"
)

// Dimensions describes the physical size of a piece in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Product is the catalog record for one item an artisan offers for sale.
// It is the read model the query engine operates over: built by the
// projector from domain events, never mutated by the engine itself.
//
// ArtisanName and Location are denormalized from the artisan profile at
// creation time so that text filters run without a join.
type Product struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Subcategory   string      `json:"subcategory,omitempty"`
	Price         Decimal     `json:"price"`
	OriginalPrice Decimal     `json:"original_price,omitempty"`
	Images        []string    `json:"images"`
	Model3D       string      `json:"model_3d,omitempty"`
	ArtisanID     string      `json:"artisan_id"`
	ArtisanName   string      `json:"artisan_name"`
	Location      string      `json:"location"`
	Status        Status      `json:"status"`
	Stock         int         `json:"stock"`
	Weight        float64     `json:"weight,omitempty"`
	Dimensions    *Dimensions `json:"dimensions,omitempty"`
	Materials     []string    `json:"materials,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	IsFeatured    bool        `json:"is_featured"`
	IsActive      bool        `json:"is_active"`
	Views         int         `json:"views"`
	Likes         int         `json:"likes"`
	Sales         int         `json:"sales"`
	Rating        Decimal     `json:"rating"`
	MaterialCost  Decimal     `json:"material_cost,omitempty"`
	LaborCost     Decimal     `json:"labor_cost,omitempty"`
	OverheadCost  Decimal     `json:"overhead_cost,omitempty"`
	TotalCost     Decimal     `json:"total_cost,omitempty"`
	ProfitMargin  Decimal     `json:"profit_margin,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
