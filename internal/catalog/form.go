package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"storefront-service/internal/models"
)

var (
	ErrNameRequired  = errors.New("name is required")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrUnknownStatus = errors.New("status must be active or deactive")
)

// FieldError ties a validation failure to the request field that caused it
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldErr(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// imageRefs drops empty references so a skipped upload never lands in the
// persisted image list
func imageRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			out = append(out, ref)
		}
	}
	return out
}

func stringList(v []string) pq.StringArray {
	if v == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(v)
}

// BuildProduct validates an admin submission and normalizes it into a product
// ready to store. An empty slug is left for the store to derive from the name.
func BuildProduct(req models.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fieldErr("name", ErrNameRequired)
	}

	var slug string
	if strings.TrimSpace(req.Slug) != "" {
		s, err := NormalizeSlug(req.Slug)
		if err != nil {
			return nil, fieldErr("slug", err)
		}
		slug = s
	}

	if req.Price.IsNegative() {
		return nil, fieldErr("price", ErrNegativePrice)
	}

	discount, err := ParseDiscount(req.Discount)
	if err != nil {
		return nil, fieldErr("discount", err)
	}

	status := req.Status
	if status == "" {
		status = models.ProductStatusActive
	}
	if !status.Valid() {
		return nil, fieldErr("status", ErrUnknownStatus)
	}

	product := &models.Product{
		Slug:            slug,
		Name:            name,
		Description:     req.Description,
		Price:           req.Price.Round(2),
		Stock:           StockFrom(req.Stock),
		Discount:        discount,
		IsTopRated:      req.IsTopRated,
		Status:          status,
		SubcategorySlug: req.SubcategorySlug,
		Colors:          stringList(req.Colors),
		Sizes:           stringList(req.Sizes),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}
	for _, ref := range imageRefs(req.Images) {
		product.Images = append(product.Images, models.Image{URL: ref})
	}
	return product, nil
}

// BuildUpdate validates an edit form and normalizes it into the set of
// column changes. Fields absent from the request stay nil.
func BuildUpdate(req models.UpdateProductRequest) (models.ProductUpdate, error) {
	u := models.ProductUpdate{
		Description:     req.Description,
		IsTopRated:      req.IsTopRated,
		SubcategorySlug: req.SubcategorySlug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return u, fieldErr("name", ErrNameRequired)
		}
		u.Name = &name
	}

	if req.Slug != nil {
		slug, err := NormalizeSlug(*req.Slug)
		if err != nil {
			return u, fieldErr("slug", err)
		}
		u.Slug = &slug
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return u, fieldErr("price", ErrNegativePrice)
		}
		price := req.Price.Round(2)
		u.Price = &price
	}

	if req.Stock.Set {
		stock := StockFrom(req.Stock)
		u.Stock = &stock
	}

	if req.Discount.Set {
		discount, err := ParseDiscount(req.Discount)
		if err != nil {
			return u, fieldErr("discount", err)
		}
		u.Discount = &discount
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return u, fieldErr("status", ErrUnknownStatus)
		}
		u.Status = req.Status
	}

	if req.Colors != nil {
		u.Colors = stringList(req.Colors)
	}
	if req.Sizes != nil {
		u.Sizes = stringList(req.Sizes)
	}
	if req.Images != nil {
		u.Images = imageRefs(req.Images)
	}
	return u, nil
}
