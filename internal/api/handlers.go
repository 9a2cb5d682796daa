package api

import (
	"errors"
	"net/http"

	"github.com/example/artisan-market/internal/analytics"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/cart"
	"github.com/example/artisan-market/internal/domain/inventory"
	"github.com/example/artisan-market/internal/domain/order"
	"github.com/example/artisan-market/internal/domain/product"
	"github.com/example/artisan-market/internal/domain/wishlist"
	"github.com/example/artisan-market/internal/infrastructure/media"
	"github.com/example/artisan-market/internal/query"
)

// Handlers carries the command and query sides plus the supporting
// services the routes fan out to.
type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	dashboards   *analytics.Service
	mediaStorage *media.Storage
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, dashboards *analytics.Service, mediaStorage *media.Storage) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		dashboards:   dashboards,
		mediaStorage: mediaStorage,
	}
}

// respondCommandError maps domain errors onto HTTP status codes. Unknown
// errors become 500s with a generic body so internals don't leak.
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, artisan.ErrArtisanNotFound):
		respondError(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, command.ErrNotOwner):
		respondError(w, err.Error(), http.StatusForbidden)

	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, wishlist.ErrAlreadyInWishlist),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrOrderAlreadyPaid),
		errors.Is(err, order.ErrOrderNotPaid),
		errors.Is(err, order.ErrOrderShipped),
		errors.Is(err, order.ErrOrderCancelled):
		respondError(w, err.Error(), http.StatusConflict)

	case errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidCategory),
		errors.Is(err, product.ErrInvalidLocation),
		errors.Is(err, product.ErrNegativePrice),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, wishlist.ErrNotInWishlist),
		errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, artisan.ErrInvalidDisplayName),
		errors.Is(err, artisan.ErrInvalidLocation),
		errors.Is(err, artisan.ErrNoChanges):
		respondError(w, err.Error(), http.StatusBadRequest)

	default:
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}
