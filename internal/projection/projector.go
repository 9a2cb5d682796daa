// Package projection folds domain events into the read store. The
// projector is the only writer of read models; it consumes from Kafka
// in the running system and replays the event log directly at boot.
package projection

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/engagement"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/user"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/cache"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/metrics"
	"github.com/example/artisan-market/internal/readmodel"
)

type Projector struct {
	readStore   store.ReadStoreInterface
	searchCache *cache.Cache
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// SetSearchCache attaches the search-result cache so catalog-changing
// events can drop stale entries.
func (p *Projector) SetSearchCache(c *cache.Cache) {
	p.searchCache = c
}

// HandleMessage is the Kafka consumer entry point.
func (p *Projector) HandleMessage(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	if err := p.Apply(event); err != nil {
		return err
	}
	p.invalidateSearch(ctx, event)
	return nil
}

// invalidateSearch drops cached catalog searches when an event changed a
// filterable or sortable product field. Engagement events are excluded
// on purpose: flushing on every page view would defeat the cache, and
// view/like ordering can tolerate the TTL lag.
func (p *Projector) invalidateSearch(ctx context.Context, event store.Event) {
	if p.searchCache == nil {
		return
	}
	switch event.AggregateType {
	case product.AggregateType, inventory.AggregateType:
		p.searchCache.DeletePrefix(ctx, "search:")
	}
}

// Replay folds a complete event log into the read store, in order.
// Used at boot to rebuild the in-memory state.
func (p *Projector) Replay(events []store.Event) error {
	for _, event := range events {
		if err := p.Apply(event); err != nil {
			return err
		}
	}
	log.Printf("[Projector] Replayed %d events", len(events))
	return nil
}

// Apply folds a single event into the read store.
func (p *Projector) Apply(event store.Event) error {
	metrics.EventsProjected.WithLabelValues(event.AggregateType).Inc()

	switch event.AggregateType {
	case product.AggregateType:
		return p.applyProductEvent(event)
	case engagement.AggregateType:
		return p.applyEngagementEvent(event)
	case cart.AggregateType:
		return p.applyCartEvent(event)
	case wishlist.AggregateType:
		return p.applyWishlistEvent(event)
	case order.AggregateType:
		return p.applyOrderEvent(event)
	case inventory.AggregateType:
		return p.applyInventoryEvent(event)
	case user.AggregateType:
		return p.applyUserEvent(event)
	case artisan.AggregateType:
		return p.applyArtisanEvent(event)
	}
	return nil
}

// ============================================
// Products
// ============================================

func (p *Projector) applyProductEvent(event store.Event) error {
	switch event.EventType {
	case product.EventProductCreated:
		var e product.ProductCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		record := e.Product
		p.readStore.Set(store.CollectionProducts, record.ID, &record)

	case product.EventProductUpdated:
		var e product.ProductUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionProducts, e.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			applyChanges(record, e.Changes)
			record.UpdatedAt = e.UpdatedAt
			return record
		})

	case product.EventProductDeleted:
		var e product.ProductDeleted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Delete(store.CollectionProducts, e.ProductID)

	case product.EventProductImageAdded:
		var e product.ProductImageAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionProducts, e.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			record.Images = append(record.Images, e.ImageURL)
			record.UpdatedAt = e.AddedAt
			return record
		})
	}
	return nil
}

func applyChanges(record *catalog.Product, c product.Changes) {
	if c.Name != nil {
		record.Name = *c.Name
	}
	if c.Description != nil {
		record.Description = *c.Description
	}
	if c.Category != nil {
		record.Category = *c.Category
	}
	if c.Subcategory != nil {
		record.Subcategory = *c.Subcategory
	}
	if c.Price != nil {
		record.Price = *c.Price
		record.ProfitMargin = record.Price - record.TotalCost
	}
	if c.OriginalPrice != nil {
		record.OriginalPrice = *c.OriginalPrice
	}
	if c.Images != nil {
		record.Images = *c.Images
	}
	if c.Model3D != nil {
		record.Model3D = *c.Model3D
	}
	if c.Location != nil {
		record.Location = *c.Location
	}
	if c.Status != nil {
		record.Status = *c.Status
	}
	if c.Stock != nil {
		record.Stock = *c.Stock
	}
	if c.Weight != nil {
		record.Weight = *c.Weight
	}
	if c.Dimensions != nil {
		record.Dimensions = c.Dimensions
	}
	if c.Materials != nil {
		record.Materials = *c.Materials
	}
	if c.Tags != nil {
		record.Tags = *c.Tags
	}
	if c.IsFeatured != nil {
		record.IsFeatured = *c.IsFeatured
	}
	if c.IsActive != nil {
		record.IsActive = *c.IsActive
	}
}

// ============================================
// Engagement
// ============================================

// applyEngagementEvent mutates the counters on the product record.
// These events are the only writers of views and likes.
func (p *Projector) applyEngagementEvent(event store.Event) error {
	switch event.EventType {
	case engagement.EventProductViewed:
		var e engagement.ProductViewed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionProducts, e.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			record.Views++
			return record
		})

	case engagement.EventProductLiked:
		var e engagement.ProductLiked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionProducts, e.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			record.Likes++
			return record
		})

	case engagement.EventProductUnliked:
		var e engagement.ProductUnliked
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionProducts, e.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			if record.Likes > 0 {
				record.Likes--
			}
			return record
		})
	}
	return nil
}

// ============================================
// Carts
// ============================================

func (p *Projector) applyCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		if _, ok := p.readStore.Get(store.CollectionCarts, e.CartID); !ok {
			p.readStore.Set(store.CollectionCarts, e.CartID, &readmodel.Cart{
				ID:     e.CartID,
				UserID: e.UserID,
				Items: []readmodel.CartItem{
					{ProductID: e.ProductID, Name: e.ProductName, Quantity: e.Quantity, Price: e.Price},
				},
				Total: e.Price * catalog.Decimal(e.Quantity),
			})
			return nil
		}
		p.readStore.Update(store.CollectionCarts, e.CartID, func(current any) any {
			c := current.(*readmodel.Cart)
			found := false
			for i, item := range c.Items {
				if item.ProductID == e.ProductID {
					c.Items[i].Quantity += e.Quantity
					c.Items[i].Price = e.Price
					found = true
					break
				}
			}
			if !found {
				c.Items = append(c.Items, readmodel.CartItem{
					ProductID: e.ProductID,
					Name:      e.ProductName,
					Quantity:  e.Quantity,
					Price:     e.Price,
				})
			}
			c.Total = cartTotal(c.Items)
			return c
		})

	case cart.EventItemRemoved:
		var e cart.ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionCarts, e.CartID, func(current any) any {
			c := current.(*readmodel.Cart)
			items := make([]readmodel.CartItem, 0, len(c.Items))
			for _, item := range c.Items {
				if item.ProductID != e.ProductID {
					items = append(items, item)
				}
			}
			c.Items = items
			c.Total = cartTotal(c.Items)
			return c
		})

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(store.CollectionCarts, e.CartID, &readmodel.Cart{
			ID:     e.CartID,
			UserID: e.UserID,
			Items:  []readmodel.CartItem{},
			Total:  0,
		})
	}
	return nil
}

func cartTotal(items []readmodel.CartItem) catalog.Decimal {
	var total catalog.Decimal
	for _, item := range items {
		total += item.Price * catalog.Decimal(item.Quantity)
	}
	return total
}

// ============================================
// Wishlists
// ============================================

func (p *Projector) applyWishlistEvent(event store.Event) error {
	switch event.EventType {
	case wishlist.EventItemAdded:
		var e wishlist.ItemAddedToWishlist
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if _, ok := p.readStore.Get(store.CollectionWishlists, e.WishlistID); !ok {
			p.readStore.Set(store.CollectionWishlists, e.WishlistID, &readmodel.Wishlist{
				ID:     e.WishlistID,
				UserID: e.UserID,
				Items: []readmodel.WishlistItem{
					{ProductID: e.ProductID, Name: e.ProductName, AddedAt: e.AddedAt},
				},
			})
			return nil
		}
		p.readStore.Update(store.CollectionWishlists, e.WishlistID, func(current any) any {
			w := current.(*readmodel.Wishlist)
			for _, item := range w.Items {
				if item.ProductID == e.ProductID {
					return w
				}
			}
			w.Items = append(w.Items, readmodel.WishlistItem{
				ProductID: e.ProductID,
				Name:      e.ProductName,
				AddedAt:   e.AddedAt,
			})
			return w
		})

	case wishlist.EventItemRemoved:
		var e wishlist.ItemRemovedFromWishlist
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionWishlists, e.WishlistID, func(current any) any {
			w := current.(*readmodel.Wishlist)
			items := make([]readmodel.WishlistItem, 0, len(w.Items))
			for _, item := range w.Items {
				if item.ProductID != e.ProductID {
					items = append(items, item)
				}
			}
			w.Items = items
			return w
		})
	}
	return nil
}

// ============================================
// Orders
// ============================================

func (p *Projector) applyOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.OrderItem, len(e.Items))
		for i, item := range e.Items {
			items[i] = readmodel.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				ArtisanID:   item.ArtisanID,
				Quantity:    item.Quantity,
				Price:       item.Price,
			}
		}
		p.readStore.Set(store.CollectionOrders, e.OrderID, &readmodel.Order{
			ID:        e.OrderID,
			UserID:    e.UserID,
			Items:     items,
			Total:     e.Total,
			Status:    string(order.StatusPending),
			CreatedAt: e.PlacedAt,
			UpdatedAt: e.PlacedAt,
		})

	case order.EventOrderPaid:
		var e order.OrderPaid
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionOrders, e.OrderID, func(current any) any {
			o := current.(*readmodel.Order)
			o.Status = string(order.StatusPaid)
			o.UpdatedAt = e.PaidAt
			return o
		})
		p.bumpSalesCounters(e.OrderID)

	case order.EventOrderShipped:
		var e order.OrderShipped
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionOrders, e.OrderID, func(current any) any {
			o := current.(*readmodel.Order)
			o.Status = string(order.StatusShipped)
			o.UpdatedAt = e.ShippedAt
			return o
		})

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionOrders, e.OrderID, func(current any) any {
			o := current.(*readmodel.Order)
			o.Status = string(order.StatusCancelled)
			o.UpdatedAt = e.CancelledAt
			return o
		})
	}
	return nil
}

// bumpSalesCounters increments the sales counter of every product on a
// paid order. A product's sales count only ever moves on payment.
func (p *Projector) bumpSalesCounters(orderID string) {
	o, ok := p.readStore.Get(store.CollectionOrders, orderID)
	if !ok {
		log.Printf("[Projector] Paid order %s missing from read store, sales counters not updated", orderID)
		return
	}
	for _, item := range o.(*readmodel.Order).Items {
		quantity := item.Quantity
		p.readStore.Update(store.CollectionProducts, item.ProductID, func(current any) any {
			record := current.(*catalog.Product)
			record.Sales += quantity
			return record
		})
	}
}

// ============================================
// Inventory
// ============================================

func (p *Projector) applyInventoryEvent(event store.Event) error {
	switch event.EventType {
	case inventory.EventStockAdded:
		var e inventory.StockAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		existing, ok := p.readStore.Get(store.CollectionInventory, e.ProductID)
		if !ok {
			p.readStore.Set(store.CollectionInventory, e.ProductID, &readmodel.Inventory{
				ProductID:      e.ProductID,
				TotalStock:     e.Quantity,
				AvailableStock: e.Quantity,
			})
		} else {
			inv := existing.(*readmodel.Inventory)
			inv.TotalStock += e.Quantity
			inv.AvailableStock = inv.TotalStock - inv.ReservedStock
			p.readStore.Set(store.CollectionInventory, e.ProductID, inv)
		}
		p.syncProductStock(e.ProductID)

	case inventory.EventStockReserved:
		var e inventory.StockReserved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionInventory, e.ProductID, func(current any) any {
			inv := current.(*readmodel.Inventory)
			inv.ReservedStock += e.Quantity
			inv.AvailableStock = inv.TotalStock - inv.ReservedStock
			return inv
		})
		p.syncProductStock(e.ProductID)

	case inventory.EventStockReleased:
		var e inventory.StockReleased
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionInventory, e.ProductID, func(current any) any {
			inv := current.(*readmodel.Inventory)
			inv.ReservedStock -= e.Quantity
			if inv.ReservedStock < 0 {
				inv.ReservedStock = 0
			}
			inv.AvailableStock = inv.TotalStock - inv.ReservedStock
			return inv
		})
		p.syncProductStock(e.ProductID)

	case inventory.EventStockDeducted:
		var e inventory.StockDeducted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionInventory, e.ProductID, func(current any) any {
			inv := current.(*readmodel.Inventory)
			inv.TotalStock -= e.Quantity
			inv.ReservedStock -= e.Quantity
			if inv.TotalStock < 0 {
				inv.TotalStock = 0
			}
			if inv.ReservedStock < 0 {
				inv.ReservedStock = 0
			}
			inv.AvailableStock = inv.TotalStock - inv.ReservedStock
			return inv
		})
		p.syncProductStock(e.ProductID)
	}
	return nil
}

// syncProductStock mirrors the available stock onto the catalog record,
// flipping its status between active and sold at zero. Manual status
// overrides (inactive) are left alone.
func (p *Projector) syncProductStock(productID string) {
	inv, ok := p.readStore.Get(store.CollectionInventory, productID)
	if !ok {
		return
	}
	available := inv.(*readmodel.Inventory).AvailableStock

	p.readStore.Update(store.CollectionProducts, productID, func(current any) any {
		record := current.(*catalog.Product)
		record.Stock = available
		record.UpdatedAt = time.Now()
		switch {
		case available == 0 && record.Status == catalog.StatusActive:
			record.Status = catalog.StatusSold
		case available > 0 && record.Status == catalog.StatusSold:
			record.Status = catalog.StatusActive
		}
		return record
	})
}

// ============================================
// Users
// ============================================

func (p *Projector) applyUserEvent(event store.Event) error {
	switch event.EventType {
	case user.EventUserCreated:
		var e user.UserCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(store.CollectionUsers, e.UserID, &readmodel.User{
			ID:           e.UserID,
			Email:        e.Email,
			PasswordHash: e.PasswordHash,
			Name:         e.Name,
			Role:         e.Role,
			IsActive:     true,
			CreatedAt:    e.CreatedAt,
			UpdatedAt:    e.CreatedAt,
		})

	case user.EventUserUpdated:
		var e user.UserUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.User)
			u.Name = e.Name
			u.UpdatedAt = e.UpdatedAt
			return u
		})

	case user.EventUserPasswordChanged:
		var e user.UserPasswordChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.User)
			u.PasswordHash = e.PasswordHash
			u.UpdatedAt = e.ChangedAt
			return u
		})

	case user.EventUserRoleChanged:
		var e user.UserRoleChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.User)
			u.Role = e.Role
			u.UpdatedAt = e.ChangedAt
			return u
		})

	case user.EventUserDeactivated:
		var e user.UserDeactivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.User)
			u.IsActive = false
			u.UpdatedAt = e.DeactivatedAt
			return u
		})

	case user.EventUserActivated:
		var e user.UserActivated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionUsers, e.UserID, func(current any) any {
			u := current.(*readmodel.User)
			u.IsActive = true
			u.UpdatedAt = e.ActivatedAt
			return u
		})
	}
	return nil
}

// ============================================
// Artisans
// ============================================

func (p *Projector) applyArtisanEvent(event store.Event) error {
	switch event.EventType {
	case artisan.EventArtisanRegistered:
		var e artisan.ArtisanRegistered
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set(store.CollectionArtisans, e.ArtisanID, &readmodel.Artisan{
			ID:          e.ArtisanID,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			Location:    e.Location,
			Bio:         e.Bio,
			CreatedAt:   e.RegisteredAt,
			UpdatedAt:   e.RegisteredAt,
		})

	case artisan.EventArtisanProfileUpdated:
		var e artisan.ArtisanProfileUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update(store.CollectionArtisans, e.ArtisanID, func(current any) any {
			a := current.(*readmodel.Artisan)
			if e.DisplayName != nil {
				a.DisplayName = *e.DisplayName
			}
			if e.Location != nil {
				a.Location = *e.Location
			}
			if e.Bio != nil {
				a.Bio = *e.Bio
			}
			a.UpdatedAt = e.UpdatedAt
			return a
		})
	}
	return nil
}
