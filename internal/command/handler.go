// Package command implements the write side. Handlers validate against
// the read store where cross-aggregate checks are needed, then delegate
// to the domain services, which emit events. Read models catch up
// asynchronously via the projector.
package command

import (
	"context"
	"errors"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/engagement"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/readmodel"
)

// ErrNotOwner is returned when an artisan tries to modify a listing
// that belongs to another seller.
var ErrNotOwner = errors.New("product does not belong to this artisan")

var ErrArtisanNotFound = artisan.ErrArtisanNotFound

type Handler struct {
	productSvc    *product.Service
	engagementSvc *engagement.Service
	cartSvc       *cart.Service
	wishlistSvc   *wishlist.Service
	orderSvc      *order.Service
	inventorySvc  *inventory.Service
	artisanSvc    *artisan.Service
	readStore     store.ReadStoreInterface
}

func NewHandler(
	productSvc *product.Service,
	engagementSvc *engagement.Service,
	cartSvc *cart.Service,
	wishlistSvc *wishlist.Service,
	orderSvc *order.Service,
	inventorySvc *inventory.Service,
	artisanSvc *artisan.Service,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		productSvc:    productSvc,
		engagementSvc: engagementSvc,
		cartSvc:       cartSvc,
		wishlistSvc:   wishlistSvc,
		orderSvc:      orderSvc,
		inventorySvc:  inventorySvc,
		artisanSvc:    artisanSvc,
		readStore:     readStore,
	}
}

// lookupProduct fetches the catalog record for cross-aggregate checks.
func (h *Handler) lookupProduct(productID string) (*catalog.Product, error) {
	v, ok := h.readStore.Get(store.CollectionProducts, productID)
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return v.(*catalog.Product), nil
}

// requireOwner verifies the product belongs to the acting artisan. An
// empty artisanID skips the check (admin paths).
func (h *Handler) requireOwner(productID, artisanID string) (*catalog.Product, error) {
	p, err := h.lookupProduct(productID)
	if err != nil {
		return nil, err
	}
	if artisanID != "" && p.ArtisanID != artisanID {
		return nil, ErrNotOwner
	}
	return p, nil
}

// ============================================
// Product Commands
// ============================================

// CreateProduct lists a new product. The seller's display name and
// location are read from their profile and stamped onto the record.
func (h *Handler) CreateProduct(ctx context.Context, cmd CreateProduct) (*catalog.Product, error) {
	var artisanName, artisanLocation string
	if v, ok := h.readStore.Get(store.CollectionArtisans, cmd.ArtisanID); ok {
		profile := v.(*readmodel.Artisan)
		artisanName = profile.DisplayName
		artisanLocation = profile.Location
	} else {
		// Fall back to the event stream; the projection may lag a
		// freshly registered profile.
		profile, err := h.artisanSvc.Load(ctx, cmd.ArtisanID)
		if err != nil {
			return nil, err
		}
		artisanName = profile.DisplayName
		artisanLocation = profile.Location
	}

	p, err := h.productSvc.Create(ctx, cmd.ArtisanID, artisanName, artisanLocation, cmd.Input)
	if err != nil {
		return nil, err
	}

	if cmd.Input.Stock > 0 {
		if err := h.inventorySvc.AddStock(ctx, p.ID, cmd.Input.Stock); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (h *Handler) UpdateProduct(ctx context.Context, cmd UpdateProduct) error {
	if _, err := h.requireOwner(cmd.ProductID, cmd.ArtisanID); err != nil {
		return err
	}
	return h.productSvc.Update(ctx, cmd.ProductID, cmd.Changes)
}

func (h *Handler) DeleteProduct(ctx context.Context, cmd DeleteProduct) error {
	if _, err := h.requireOwner(cmd.ProductID, cmd.ArtisanID); err != nil {
		return err
	}
	return h.productSvc.Delete(ctx, cmd.ProductID)
}

func (h *Handler) AddProductImage(ctx context.Context, cmd AddProductImage) error {
	if _, err := h.requireOwner(cmd.ProductID, cmd.ArtisanID); err != nil {
		return err
	}
	return h.productSvc.AddImage(ctx, cmd.ProductID, cmd.ImageURL)
}

// ============================================
// Engagement Commands
// ============================================

func (h *Handler) RecordProductView(ctx context.Context, cmd RecordProductView) error {
	if _, err := h.lookupProduct(cmd.ProductID); err != nil {
		return err
	}
	return h.engagementSvc.RecordView(ctx, cmd.ProductID, cmd.ViewerID)
}

func (h *Handler) LikeProduct(ctx context.Context, cmd LikeProduct) error {
	if _, err := h.lookupProduct(cmd.ProductID); err != nil {
		return err
	}
	return h.engagementSvc.Like(ctx, cmd.ProductID, cmd.UserID)
}

func (h *Handler) UnlikeProduct(ctx context.Context, cmd UnlikeProduct) error {
	if _, err := h.lookupProduct(cmd.ProductID); err != nil {
		return err
	}
	return h.engagementSvc.Unlike(ctx, cmd.ProductID, cmd.UserID)
}

// ============================================
// Cart Commands
// ============================================

// AddToCart snapshots the product's current name and price into the
// cart line.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	p, err := h.lookupProduct(cmd.ProductID)
	if err != nil {
		return err
	}
	return h.cartSvc.AddItem(ctx, cmd.UserID, cmd.ProductID, p.Name, cmd.Quantity, p.Price)
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.cartSvc.RemoveItem(ctx, cmd.UserID, cmd.ProductID)
}

func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.UserID)
}

// ============================================
// Wishlist Commands
// ============================================

func (h *Handler) AddToWishlist(ctx context.Context, cmd AddToWishlist) error {
	p, err := h.lookupProduct(cmd.ProductID)
	if err != nil {
		return err
	}
	return h.wishlistSvc.AddItem(ctx, cmd.UserID, cmd.ProductID, p.Name)
}

func (h *Handler) RemoveFromWishlist(ctx context.Context, cmd RemoveFromWishlist) error {
	return h.wishlistSvc.RemoveItem(ctx, cmd.UserID, cmd.ProductID)
}

// ============================================
// Order Commands
// ============================================

// PlaceOrder turns the user's cart into an order, reserves stock for
// every line, then clears the cart.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	cartID := cart.GetCartID(cmd.UserID)
	c, ok := h.readStore.Get(store.CollectionCarts, cartID)
	if !ok {
		return nil, order.ErrEmptyOrder
	}
	cartModel := c.(*readmodel.Cart)
	if len(cartModel.Items) == 0 {
		return nil, order.ErrEmptyOrder
	}

	var items []order.OrderItem
	for _, item := range cartModel.Items {
		artisanID := ""
		if p, err := h.lookupProduct(item.ProductID); err == nil {
			artisanID = p.ArtisanID
		}
		items = append(items, order.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			ArtisanID:   artisanID,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	o, err := h.orderSvc.Place(ctx, cmd.UserID, cmd.ShippingAddress, items)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if err := h.inventorySvc.Reserve(ctx, item.ProductID, o.ID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := h.cartSvc.Clear(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	return o, nil
}

// PayOrder marks the order paid and converts its reservations into
// permanent deductions.
func (h *Handler) PayOrder(ctx context.Context, cmd PayOrder) error {
	o, ok := h.readStore.Get(store.CollectionOrders, cmd.OrderID)
	if !ok {
		return order.ErrOrderNotFound
	}
	orderModel := o.(*readmodel.Order)

	if err := h.orderSvc.Pay(ctx, cmd.OrderID); err != nil {
		return err
	}

	for _, item := range orderModel.Items {
		if err := h.inventorySvc.Deduct(ctx, item.ProductID, cmd.OrderID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) ShipOrder(ctx context.Context, cmd ShipOrder) error {
	return h.orderSvc.Ship(ctx, cmd.OrderID)
}

// CancelOrder cancels the order. Reservations are only released for
// orders that were still pending; paid orders already had their stock
// deducted.
func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) error {
	o, ok := h.readStore.Get(store.CollectionOrders, cmd.OrderID)
	if !ok {
		return order.ErrOrderNotFound
	}
	orderModel := o.(*readmodel.Order)
	wasPending := orderModel.Status == string(order.StatusPending)

	if err := h.orderSvc.Cancel(ctx, cmd.OrderID, cmd.Reason); err != nil {
		return err
	}

	if wasPending {
		for _, item := range orderModel.Items {
			if err := h.inventorySvc.Release(ctx, item.ProductID, cmd.OrderID, item.Quantity); err != nil {
				return err
			}
		}
	}
	return nil
}

// ============================================
// Inventory Commands
// ============================================

func (h *Handler) AddStock(ctx context.Context, cmd AddStock) error {
	if _, err := h.requireOwner(cmd.ProductID, cmd.ArtisanID); err != nil {
		return err
	}
	return h.inventorySvc.AddStock(ctx, cmd.ProductID, cmd.Quantity)
}

// ============================================
// Artisan Commands
// ============================================

func (h *Handler) RegisterArtisan(ctx context.Context, cmd RegisterArtisan) (*artisan.Artisan, error) {
	return h.artisanSvc.Register(ctx, cmd.UserID, cmd.DisplayName, cmd.Location, cmd.Bio)
}

func (h *Handler) UpdateArtisanProfile(ctx context.Context, cmd UpdateArtisanProfile) error {
	return h.artisanSvc.UpdateProfile(ctx, cmd.ArtisanID, cmd.Changes)
}
