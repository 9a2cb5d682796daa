package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/artisan-market/internal/catalog"
)

// parseCatalogQuery builds a catalog.Query from the request's query
// string. Absent parameters leave the corresponding filter unset;
// malformed numeric values degrade to their zero value rather than
// failing the request.
func parseCatalogQuery(r *http.Request) *catalog.Query {
	params := r.URL.Query()

	q := &catalog.Query{
		Category:    params.Get("category"),
		Subcategory: params.Get("subcategory"),
		Location:    params.Get("location"),
		Search:      params.Get("search"),
		Artisan:     params.Get("artisan"),
		ArtisanID:   params.Get("artisan_id"),
		SortBy:      catalog.SortKey(params.Get("sort_by")),
		SortOrder:   catalog.SortOrder(params.Get("sort_order")),
	}

	if v := params.Get("min_price"); v != "" {
		price := catalog.ParseDecimal(v)
		q.MinPrice = &price
	}
	if v := params.Get("max_price"); v != "" {
		price := catalog.ParseDecimal(v)
		q.MaxPrice = &price
	}

	if v := params.Get("featured"); v != "" {
		featured := v == "true"
		q.IsFeatured = &featured
	}
	if v := params.Get("is_active"); v != "" {
		active := v == "true"
		q.IsActive = &active
	}

	q.Materials = splitList(params.Get("materials"))
	q.Tags = splitList(params.Get("tags"))

	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		q.Limit = limit
	}

	return q
}

// splitList parses a comma-separated parameter, dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
