// Package api exposes the marketplace over HTTP: public catalog browsing
// and search, authenticated cart/wishlist/order routes, artisan product
// management, and the assistant chat.
package api

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
