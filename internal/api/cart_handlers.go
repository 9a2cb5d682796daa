package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/command"
)

// Cart and wishlist routes all act on the authenticated user's own data;
// the user ID comes from the token, never from the request body.

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(middleware.GetUserID(r.Context())))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{
		UserID:    middleware.GetUserID(r.Context()),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "added to cart"})
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromCart{
		UserID:    middleware.GetUserID(r.Context()),
		ProductID: chi.URLParam(r, "productID"),
	}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	cmd := command.ClearCart{UserID: middleware.GetUserID(r.Context())}
	if err := h.cmdHandler.ClearCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.GetWishlist(middleware.GetUserID(r.Context())))
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.AddToWishlist{
		UserID:    middleware.GetUserID(r.Context()),
		ProductID: req.ProductID,
	}
	if err := h.cmdHandler.AddToWishlist(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "added to wishlist"})
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	cmd := command.RemoveFromWishlist{
		UserID:    middleware.GetUserID(r.Context()),
		ProductID: chi.URLParam(r, "productID"),
	}
	if err := h.cmdHandler.RemoveFromWishlist(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "removed from wishlist"})
}
