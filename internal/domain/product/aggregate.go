package product

import (
	"context"
	"errors"
	"time"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Product"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidCategory = errors.New("category is required")
	ErrInvalidLocation = errors.New("location is required")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// CreateInput is the artisan's submission. Everything absent from it is
// defaulted server-side when the full record is built.
type CreateInput struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Category      string              `json:"category"`
	Subcategory   string              `json:"subcategory"`
	Price         catalog.Decimal     `json:"price"`
	OriginalPrice catalog.Decimal     `json:"original_price"`
	Images        []string            `json:"images"`
	Model3D       string              `json:"model_3d"`
	Location      string              `json:"location"` // defaults to the artisan's profile location
	Stock         int                 `json:"stock"`
	Weight        float64             `json:"weight"`
	Dimensions    *catalog.Dimensions `json:"dimensions"`
	Materials     []string            `json:"materials"`
	Tags          []string            `json:"tags"`
	IsFeatured    bool                `json:"is_featured"`
	MaterialCost  catalog.Decimal     `json:"material_cost"`
	LaborCost     catalog.Decimal     `json:"labor_cost"`
	OverheadCost  catalog.Decimal     `json:"overhead_cost"`
}

// Changes is a partial update; nil fields are left as they are.
type Changes struct {
	Name          *string             `json:"name,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Category      *string             `json:"category,omitempty"`
	Subcategory   *string             `json:"subcategory,omitempty"`
	Price         *catalog.Decimal    `json:"price,omitempty"`
	OriginalPrice *catalog.Decimal    `json:"original_price,omitempty"`
	Images        *[]string           `json:"images,omitempty"`
	Model3D       *string             `json:"model_3d,omitempty"`
	Location      *string             `json:"location,omitempty"`
	Status        *catalog.Status     `json:"status,omitempty"`
	Stock         *int                `json:"stock,omitempty"`
	Weight        *float64            `json:"weight,omitempty"`
	Dimensions    *catalog.Dimensions `json:"dimensions,omitempty"`
	Materials     *[]string           `json:"materials,omitempty"`
	Tags          *[]string           `json:"tags,omitempty"`
	IsFeatured    *bool               `json:"is_featured,omitempty"`
	IsActive      *bool               `json:"is_active,omitempty"`
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Create builds the full catalog record from an artisan submission and
// emits ProductCreated. ArtisanName and location are denormalized from
// the seller's profile at this point and never re-synced afterwards.
func (s *Service) Create(ctx context.Context, artisanID, artisanName, artisanLocation string, in CreateInput) (*catalog.Product, error) {
	if in.Name == "" {
		return nil, ErrInvalidName
	}
	if in.Category == "" {
		return nil, ErrInvalidCategory
	}
	if in.Price < 0 {
		return nil, ErrNegativePrice
	}

	location := in.Location
	if location == "" {
		location = artisanLocation
	}
	if location == "" {
		return nil, ErrInvalidLocation
	}

	now := time.Now()
	totalCost := in.MaterialCost + in.LaborCost + in.OverheadCost

	p := catalog.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Subcategory:   in.Subcategory,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Images:        in.Images,
		Model3D:       in.Model3D,
		ArtisanID:     artisanID,
		ArtisanName:   artisanName,
		Location:      location,
		Status:        catalog.StatusActive,
		Stock:         in.Stock,
		Weight:        in.Weight,
		Dimensions:    in.Dimensions,
		Materials:     in.Materials,
		Tags:          in.Tags,
		IsFeatured:    in.IsFeatured,
		IsActive:      true,
		Rating:        0,
		MaterialCost:  in.MaterialCost,
		LaborCost:     in.LaborCost,
		OverheadCost:  in.OverheadCost,
		TotalCost:     totalCost,
		ProfitMargin:  in.Price - totalCost,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err := s.eventStore.Append(ctx, p.ID, AggregateType, EventProductCreated, ProductCreated{Product: p})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Update emits ProductUpdated with the partial merge. The projector
// applies it and refreshes updatedAt.
func (s *Service) Update(ctx context.Context, productID string, changes Changes) error {
	if changes.Name != nil && *changes.Name == "" {
		return ErrInvalidName
	}
	if changes.Category != nil && *changes.Category == "" {
		return ErrInvalidCategory
	}
	if changes.Price != nil && *changes.Price < 0 {
		return ErrNegativePrice
	}

	if len(s.eventStore.GetEvents(productID)) == 0 {
		return ErrProductNotFound
	}

	event := ProductUpdated{
		ProductID: productID,
		Changes:   changes,
		UpdatedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductUpdated, event)
	return err
}

// Delete emits ProductDeleted; the projector removes the record from the
// active set entirely.
func (s *Service) Delete(ctx context.Context, productID string) error {
	if len(s.eventStore.GetEvents(productID)) == 0 {
		return ErrProductNotFound
	}

	event := ProductDeleted{
		ProductID: productID,
		DeletedAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductDeleted, event)
	return err
}

// AddImage appends an uploaded image URL to the product.
func (s *Service) AddImage(ctx context.Context, productID, imageURL string) error {
	if len(s.eventStore.GetEvents(productID)) == 0 {
		return ErrProductNotFound
	}

	event := ProductImageAdded{
		ProductID: productID,
		ImageURL:  imageURL,
		AddedAt:   time.Now(),
	}

	_, err := s.eventStore.Append(ctx, productID, AggregateType, EventProductImageAdded, event)
	return err
}
