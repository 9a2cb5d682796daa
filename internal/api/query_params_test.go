package api

import (
	"net/http/httptest"
	"testing"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalogQuery_AllParams(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/products?category=Pottery&search=bowl&artisan=Mira&min_price=10.50&max_price=99.99"+
			"&featured=true&materials=ceramic,%20oak&tags=rustic&sort_by=price&sort_order=asc&page=2&limit=10",
		nil)

	q := parseCatalogQuery(r)

	assert.Equal(t, "Pottery", q.Category)
	assert.Equal(t, "bowl", q.Search)
	assert.Equal(t, "Mira", q.Artisan)
	require.NotNil(t, q.MinPrice)
	assert.Equal(t, catalog.Decimal(1050), *q.MinPrice)
	require.NotNil(t, q.MaxPrice)
	assert.Equal(t, catalog.Decimal(9999), *q.MaxPrice)
	require.NotNil(t, q.IsFeatured)
	assert.True(t, *q.IsFeatured)
	assert.Equal(t, []string{"ceramic", "oak"}, q.Materials)
	assert.Equal(t, []string{"rustic"}, q.Tags)
	assert.Equal(t, catalog.SortPrice, q.SortBy)
	assert.Equal(t, catalog.OrderAsc, q.SortOrder)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
}

func TestParseCatalogQuery_AbsentParamsLeaveFiltersUnset(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)

	q := parseCatalogQuery(r)

	assert.Nil(t, q.MinPrice)
	assert.Nil(t, q.MaxPrice)
	assert.Nil(t, q.IsFeatured)
	assert.Nil(t, q.IsActive)
	assert.Nil(t, q.Materials)
	assert.Zero(t, q.Page)
	assert.Zero(t, q.Limit)
	assert.False(t, q.IncludeInactive)
}

func TestParseCatalogQuery_MalformedNumbersDegrade(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?min_price=abc&page=xyz", nil)

	q := parseCatalogQuery(r)

	require.NotNil(t, q.MinPrice)
	assert.Equal(t, catalog.Decimal(0), *q.MinPrice)
	assert.Zero(t, q.Page)
}

func TestParseCatalogQuery_FalseFlagStaysDistinct(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?featured=false&is_active=false", nil)

	q := parseCatalogQuery(r)

	require.NotNil(t, q.IsFeatured)
	assert.False(t, *q.IsFeatured)
	require.NotNil(t, q.IsActive)
	assert.False(t, *q.IsActive)
}
