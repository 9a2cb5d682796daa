package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/artisan"
	"github.com/example/artisan-market/internal/domain/user"
)

// GetArtisan serves a public seller profile.
func (h *Handlers) GetArtisan(w http.ResponseWriter, r *http.Request) {
	a, ok := h.queryHandler.GetArtisan(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, "artisan not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, a)
}

// UpdateArtisanProfile lets an artisan edit their own display name,
// location and bio. Profile changes do not rewrite existing listings;
// the denormalized artisan fields on products keep their creation-time
// values.
func (h *Handlers) UpdateArtisanProfile(w http.ResponseWriter, r *http.Request) {
	artisanID := middleware.GetArtisanID(r.Context())
	if artisanID == "" {
		respondError(w, "no artisan profile", http.StatusForbidden)
		return
	}

	var changes artisan.Changes
	if err := decodeJSON(r, &changes); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.UpdateArtisanProfile{ArtisanID: artisanID, Changes: changes}
	if err := h.cmdHandler.UpdateArtisanProfile(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

// GetDashboard serves the seller analytics dashboard. Artisans see their
// own; admins may pass any artisan ID.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	requested := chi.URLParam(r, "id")

	claims, _ := middleware.GetUserFromContext(r.Context())
	if claims == nil || (claims.ArtisanID != requested && claims.Role != user.RoleAdmin) {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, h.dashboards.Dashboard(requested))
}

// AddStock restocks one of the artisan's own listings.
func (h *Handlers) AddStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.AddStock{
		ProductID: chi.URLParam(r, "id"),
		ArtisanID: middleware.GetArtisanID(r.Context()),
		Quantity:  req.Quantity,
	}
	if err := h.cmdHandler.AddStock(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "stock added"})
}

// GetInventory reports stock levels for one of the artisan's listings.
func (h *Handlers) GetInventory(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	p, ok := h.queryHandler.GetProduct(productID)
	if !ok {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}

	claims, _ := middleware.GetUserFromContext(r.Context())
	if claims == nil || (claims.ArtisanID != p.ArtisanID && claims.Role != user.RoleAdmin) {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	inv, ok := h.queryHandler.GetInventory(productID)
	if !ok {
		respondError(w, "no inventory record", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, inv)
}
