package catalog

import (
	"sort"
	"strings"
)

// SortKey selects the comparison key for result ordering.
type SortKey string

const (
	SortPrice     SortKey = "price"
	SortCreatedAt SortKey = "createdAt"
	SortViews     SortKey = "views"
	SortLikes     SortKey = "likes"
	SortSales     SortKey = "sales"
	SortRating    SortKey = "rating"
)

// SortOrder is the result direction. Descending is the default.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Query is the filter/sort/pagination request applied to the catalog.
// Every field is optional; absent fields impose no constraint. All text
// filters are case-insensitive substring matches, never exact, never
// anchored. Filtering is a logical AND across the fields that are set.
//
// IsFeatured and IsActive are pointers so that "filter not present" and
// "filter set to false" stay distinct: a product is never excluded by an
// absent flag filter even when its own flag is false.
type Query struct {
	Category    string
	Subcategory string
	Location    string
	Search      string

	// Artisan matches the display name by substring; ArtisanID is an
	// exact identifier lookup.
	Artisan   string
	ArtisanID string

	// Inclusive price bounds, in minor units.
	MinPrice *Decimal
	MaxPrice *Decimal

	IsFeatured *bool
	IsActive   *bool

	// A product matches when any of its own materials/tags contains any
	// requested value as a substring.
	Materials []string
	Tags      []string

	SortBy    SortKey
	SortOrder SortOrder

	// Pagination is carried on the query but applied by the caller via
	// Paginate; Search always returns the full matching sequence so the
	// caller can report the pre-slice total.
	Page  int
	Limit int

	// IncludeInactive lifts the status==active gate. It is off for every
	// customer-facing path; only artisan dashboards list their own
	// inactive or sold pieces.
	IncludeInactive bool
}

// Search returns the products matching q, sorted per q.SortBy/q.SortOrder.
// A nil query applies only the active-status gate and the default order
// (createdAt descending). The input is never mutated; ties keep their
// input order (stable sort) so repeated calls return identical sequences.
func Search(products []*Product, q *Query) []*Product {
	if q == nil {
		q = &Query{}
	}

	matched := make([]*Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, q.SortBy, q.SortOrder)
	return matched
}

// Matches reports whether a single product satisfies every filter in q.
func (q *Query) Matches(p *Product) bool {
	if !q.IncludeInactive && p.Status != StatusActive {
		return false
	}
	if q.Category != "" && !containsFold(p.Category, q.Category) {
		return false
	}
	if q.Subcategory != "" && !containsFold(p.Subcategory, q.Subcategory) {
		return false
	}
	if q.Location != "" && !containsFold(p.Location, q.Location) {
		return false
	}
	if q.Artisan != "" && !containsFold(p.ArtisanName, q.Artisan) {
		return false
	}
	if q.ArtisanID != "" && p.ArtisanID != q.ArtisanID {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.IsFeatured != nil && p.IsFeatured != *q.IsFeatured {
		return false
	}
	if q.IsActive != nil && p.IsActive != *q.IsActive {
		return false
	}
	if len(q.Materials) > 0 && !anyContainsFold(p.Materials, q.Materials) {
		return false
	}
	if len(q.Tags) > 0 && !anyContainsFold(p.Tags, q.Tags) {
		return false
	}
	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}
	return true
}

// matchesSearch checks the free-text term against name, description,
// category and artisan name (logical OR).
func matchesSearch(p *Product, term string) bool {
	return containsFold(p.Name, term) ||
		containsFold(p.Description, term) ||
		containsFold(p.Category, term) ||
		containsFold(p.ArtisanName, term)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// anyContainsFold reports whether any owned label contains any requested
// value as a case-insensitive substring.
func anyContainsFold(owned, requested []string) bool {
	for _, o := range owned {
		for _, r := range requested {
			if containsFold(o, r) {
				return true
			}
		}
	}
	return false
}

func sortProducts(products []*Product, key SortKey, order SortOrder) {
	asc := order == OrderAsc

	sort.SliceStable(products, func(i, j int) bool {
		a, b := sortValue(products[i], key), sortValue(products[j], key)
		if asc {
			return a < b
		}
		return a > b
	})
}

// sortValue maps a product to its numeric comparison key. createdAt is
// the fallback for an unset or unknown key.
func sortValue(p *Product, key SortKey) float64 {
	switch key {
	case SortPrice:
		return p.Price.Float64()
	case SortRating:
		return p.Rating.Float64()
	case SortViews:
		return float64(p.Views)
	case SortLikes:
		return float64(p.Likes)
	case SortSales:
		return float64(p.Sales)
	default:
		return float64(p.CreatedAt.UnixNano())
	}
}

// Paginate slices a result set to the requested page. Out-of-range pages
// return an empty, non-nil slice.
func Paginate(products []*Product, page, limit int) []*Product {
	if page < DefaultPage {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	start := (page - 1) * limit
	if start >= len(products) {
		return []*Product{}
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
