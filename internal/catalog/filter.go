package catalog

import (
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// SearchField is one product attribute the free-text filter looks at
type SearchField struct {
	Name  string
	Value func(p *models.Product) string
}

// SearchFields lists every attribute the filter matches against, in the
// order they are checked.
var SearchFields = []SearchField{
	{Name: "name", Value: func(p *models.Product) string { return p.Name }},
	{Name: "slug", Value: func(p *models.Product) string { return p.Slug }},
	{Name: "description", Value: func(p *models.Product) string { return p.Description }},
	{Name: "price", Value: func(p *models.Product) string { return p.Price.String() }},
	{Name: "stock", Value: func(p *models.Product) string { return strconv.Itoa(p.Stock) }},
	{Name: "discount", Value: func(p *models.Product) string {
		if !p.Discount.Valid {
			return ""
		}
		return p.Discount.Decimal.String()
	}},
	{Name: "status", Value: func(p *models.Product) string { return string(p.Status) }},
	{Name: "isTopRated", Value: func(p *models.Product) string { return strconv.FormatBool(p.IsTopRated) }},
	{Name: "subcategorySlug", Value: func(p *models.Product) string { return p.SubcategorySlug }},
	{Name: "colors", Value: func(p *models.Product) string { return strings.Join(p.Colors, ",") }},
	{Name: "sizes", Value: func(p *models.Product) string { return strings.Join(p.Sizes, ",") }},
	{Name: "images", Value: func(p *models.Product) string { return strings.Join(p.ImageURLs(), ",") }},
	{Name: "metaTitle", Value: func(p *models.Product) string { return p.MetaTitle }},
	{Name: "metaDescription", Value: func(p *models.Product) string { return p.MetaDescription }},
	{Name: "metaKeywords", Value: func(p *models.Product) string { return p.MetaKeywords }},
}

// Matches reports whether any search field of p contains query, ignoring case.
// The empty query matches everything.
func Matches(p *models.Product, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range SearchFields {
		if strings.Contains(strings.ToLower(f.Value(p)), q) {
			return true
		}
	}
	return false
}

// Filter returns the products matching query, preserving input order.
// An empty query returns the input unchanged.
func Filter(products []models.Product, query string) []models.Product {
	if query == "" {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if Matches(&products[i], query) {
			out = append(out, products[i])
		}
	}
	return out
}
