package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/artisan-market/internal/api/middleware"
	"github.com/example/artisan-market/internal/command"
	"github.com/example/artisan-market/internal/domain/product"
)

const maxImageUploadBytes = 10 << 20 // 10 MiB

// SearchProducts serves the public catalog listing. Filters, sorting and
// pagination come from the query string; the response reports the full
// match count alongside the page slice.
func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	result := h.queryHandler.SearchProducts(r.Context(), parseCatalogQuery(r))
	respondJSON(w, http.StatusOK, result)
}

// GetProduct serves a product detail page and records the view. View
// recording is best-effort; a projection hiccup never fails the read.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := h.queryHandler.GetProduct(id)
	if !ok {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}

	viewCmd := command.RecordProductView{
		ProductID: id,
		ViewerID:  middleware.GetUserID(r.Context()),
	}
	if err := h.cmdHandler.RecordProductView(r.Context(), viewCmd); err != nil {
		log.Printf("[API] recording view for %s: %v", id, err)
	}

	respondJSON(w, http.StatusOK, p)
}

// ListCategories returns the distinct categories present in the catalog
// with their active product counts.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.queryHandler.ListCategories())
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input product.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.CreateProduct{
		ArtisanID: middleware.GetArtisanID(r.Context()),
		Input:     input,
	}
	created, err := h.cmdHandler.CreateProduct(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var changes product.Changes
	if err := decodeJSON(r, &changes); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cmd := command.UpdateProduct{
		ProductID: chi.URLParam(r, "id"),
		ArtisanID: middleware.GetArtisanID(r.Context()),
		Changes:   changes,
	}
	if err := h.cmdHandler.UpdateProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.DeleteProduct{
		ProductID: chi.URLParam(r, "id"),
		ArtisanID: middleware.GetArtisanID(r.Context()),
	}
	if err := h.cmdHandler.DeleteProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// UploadProductImage accepts a multipart upload, stores it in media
// storage, and appends the resulting URL to the product's image list.
func (h *Handlers) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.mediaStorage == nil {
		respondError(w, "media storage not configured", http.StatusServiceUnavailable)
		return
	}

	productID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		respondError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.mediaStorage.UploadProductImage(r.Context(), productID, header.Filename, file)
	if err != nil {
		log.Printf("[API] uploading image for %s: %v", productID, err)
		respondError(w, "upload failed", http.StatusInternalServerError)
		return
	}

	cmd := command.AddProductImage{
		ProductID: productID,
		ArtisanID: middleware.GetArtisanID(r.Context()),
		ImageURL:  url,
	}
	if err := h.cmdHandler.AddProductImage(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *Handlers) LikeProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.LikeProduct{
		ProductID: chi.URLParam(r, "id"),
		UserID:    middleware.GetUserID(r.Context()),
	}
	if err := h.cmdHandler.LikeProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "liked"})
}

func (h *Handlers) UnlikeProduct(w http.ResponseWriter, r *http.Request) {
	cmd := command.UnlikeProduct{
		ProductID: chi.URLParam(r, "id"),
		UserID:    middleware.GetUserID(r.Context()),
	}
	if err := h.cmdHandler.UnlikeProduct(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "unliked"})
}
