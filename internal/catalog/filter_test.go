package catalog

import (
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"storefront-service/internal/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{Slug: "linen-shirt", Name: "Linen Shirt", Price: decimal.RequireFromString("49.90"), Stock: 3, Status: models.ProductStatusActive, Colors: pq.StringArray{"navy"}},
		{Slug: "wool-scarf", Name: "Wool Scarf", Price: decimal.RequireFromString("19"), Stock: 0, Status: models.ProductStatusDeactive, MetaKeywords: "winter, warm"},
		{Slug: "canvas-tote", Name: "Canvas Tote", Price: decimal.RequireFromString("12.5"), Stock: 40, Status: models.ProductStatusActive,
			Images: []models.Image{{URL: "/uploads/tote-front.jpg"}}},
	}
}

func slugs(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Slug)
	}
	return out
}

func TestFilter_EmptyQueryReturnsInputUnchanged(t *testing.T) {
	products := sampleProducts()
	assert.Equal(t, products, Filter(products, ""))
}

func TestFilter_CaseInsensitiveAnyField(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		query string
		want  []string
	}{
		{"SHIRT", []string{"linen-shirt"}},
		{"deactive", []string{"wool-scarf"}},
		{"WINTER", []string{"wool-scarf"}},
		{"navy", []string{"linen-shirt"}},
		{"tote-front", []string{"canvas-tote"}},
		{"49.9", []string{"linen-shirt"}},
		{"active", []string{"linen-shirt", "wool-scarf", "canvas-tote"}},
		{"nothing matches", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, slugs(Filter(products, tt.query)))
		})
	}
}

func TestFilter_MatchesAgreesWithFieldList(t *testing.T) {
	products := sampleProducts()
	for _, query := range []string{"s", "0", "true", "false", "canvas"} {
		filtered := Filter(products, query)
		for i := range products {
			matched := false
			for _, f := range SearchFields {
				if containsFold(f.Value(&products[i]), query) {
					matched = true
				}
			}
			assert.Equal(t, matched, containsSlug(filtered, products[i].Slug), "query %q product %s", query, products[i].Slug)
		}
	}
}

func containsSlug(products []models.Product, slug string) bool {
	for _, p := range products {
		if p.Slug == slug {
			return true
		}
	}
	return false
}
