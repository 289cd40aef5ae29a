package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"storefront-service/internal/models"
)

// SubcategoriesOf narrows subs to the ones under categoryID
func SubcategoriesOf(subs []models.Subcategory, categoryID uuid.UUID) []models.Subcategory {
	out := make([]models.Subcategory, 0)
	for _, s := range subs {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

// ResolveColors maps color ids to "Name (#hex)" labels. Unknown ids are
// kept as-is so a stale reference stays visible on the edit form.
func ResolveColors(ids []string, colors []models.Color) []string {
	byID := make(map[string]models.Color, len(colors))
	for _, c := range colors {
		byID[c.ID] = c
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			labels = append(labels, fmt.Sprintf("%s (%s)", c.Name, c.Hex))
			continue
		}
		labels = append(labels, id)
	}
	return labels
}

// ResolveSizes maps size ids to their names, keeping unknown ids as-is
func ResolveSizes(ids []string, sizes []models.Size) []string {
	byID := make(map[string]string, len(sizes))
	for _, s := range sizes {
		byID[s.ID] = s.Name
	}
	labels := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, id)
	}
	return labels
}
