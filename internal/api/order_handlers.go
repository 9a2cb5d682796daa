package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/auth"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/user"
)

// PlaceOrder converts the authenticated user's cart into an order.
func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shipping_address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.PlaceOrder{
		UserID:          middleware.GetUserID(r.Context()),
		ShippingAddress: req.ShippingAddress,
	}
	placed, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

func (h *Handlers) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.queryHandler.ListOrdersByUser(middleware.GetUserID(r.Context()))
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder serves one order. Customers can only read their own; admins
// can read any.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.queryHandler.GetOrder(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}

	claims, _ := middleware.GetUserFromContext(r.Context())
	if !canReadOrder(claims, o.UserID) {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func canReadOrder(claims *auth.Claims, ownerID string) bool {
	if claims == nil {
		return false
	}
	return claims.Role == user.RoleAdmin || claims.UserID == ownerID
}

// ListAllOrders is the admin view across every customer.
func (h *Handlers) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListAllOrders())
}

func (h *Handlers) PayOrder(w http.ResponseWriter, r *http.Request) {
	cmd := command.PayOrder{OrderID: chi.URLParam(r, "id")}
	if err := h.cmdHandler.PayOrder(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order paid"})
}

func (h *Handlers) ShipOrder(w http.ResponseWriter, r *http.Request) {
	cmd := command.ShipOrder{OrderID: chi.URLParam(r, "id")}
	if err := h.cmdHandler.ShipOrder(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order shipped"})
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.queryHandler.GetOrder(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}

	claims, _ := middleware.GetUserFromContext(r.Context())
	if !canReadOrder(claims, o.UserID) {
		respondError(w, "forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = decodeJSON(r, &req) // reason is optional

	cmd := command.CancelOrder{OrderID: o.ID, Reason: req.Reason}
	if err := h.cmdHandler.CancelOrder(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "order cancelled"})
}
