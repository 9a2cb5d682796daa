// Package analytics aggregates read models into seller-facing stats.
// Everything is computed on demand from the in-memory read store; no
// separate analytics pipeline.
package analytics

import (
	"sort"

	"github.com/example/artisan-market/internal/catalog"
	"github.com/example/artisan-market/internal/infrastructure/store"
	"github.com/example/artisan-market/internal/readmodel"
)

const topProductCount = 5

// ProductStats is one row of the dashboard's top-products table.
type ProductStats struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Views     int             `json:"views"`
	Likes     int             `json:"likes"`
	Sales     int             `json:"sales"`
	Revenue   catalog.Decimal `json:"revenue"`
}

// Dashboard summarizes an artisan's catalog performance.
type Dashboard struct {
	ArtisanID     string          `json:"artisan_id"`
	ProductCount  int             `json:"product_count"`
	ActiveCount   int             `json:"active_count"`
	TotalViews    int             `json:"total_views"`
	TotalLikes    int             `json:"total_likes"`
	TotalSales    int             `json:"total_sales"`
	GrossRevenue  catalog.Decimal `json:"gross_revenue"`
	PendingOrders int             `json:"pending_orders"`
	TopProducts   []ProductStats  `json:"top_products"`
}

type Service struct {
	readStore store.ReadStoreInterface
}

func NewService(readStore store.ReadStoreInterface) *Service {
	return &Service{readStore: readStore}
}

// Dashboard computes the stats for one artisan. Revenue is gross:
// units sold times current listed price.
func (s *Service) Dashboard(artisanID string) *Dashboard {
	d := &Dashboard{
		ArtisanID:   artisanID,
		TopProducts: []ProductStats{},
	}

	var stats []ProductStats
	for _, item := range s.readStore.GetAll(store.CollectionProducts) {
		p := item.(*catalog.Product)
		if p.ArtisanID != artisanID {
			continue
		}

		d.ProductCount++
		if p.Status == catalog.StatusActive && p.IsActive {
			d.ActiveCount++
		}
		d.TotalViews += p.Views
		d.TotalLikes += p.Likes
		d.TotalSales += p.Sales

		revenue := p.Price * catalog.Decimal(p.Sales)
		d.GrossRevenue += revenue

		stats = append(stats, ProductStats{
			ProductID: p.ID,
			Name:      p.Name,
			Views:     p.Views,
			Likes:     p.Likes,
			Sales:     p.Sales,
			Revenue:   revenue,
		})
	}

	for _, item := range s.readStore.GetAll(store.CollectionOrders) {
		o := item.(*readmodel.Order)
		if o.Status != "pending" {
			continue
		}
		for _, line := range o.Items {
			if line.ArtisanID == artisanID {
				d.PendingOrders++
				break
			}
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Views > stats[j].Views
	})
	if len(stats) > topProductCount {
		stats = stats[:topProductCount]
	}
	if stats != nil {
		d.TopProducts = stats
	}

	return d
}
