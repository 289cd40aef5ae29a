package admin

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"storefront-service/internal/catalog"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

var (
	ErrNotEditing      = errors.New("no product is being edited")
	ErrImageOutOfRange = errors.New("image index out of range")
)

// EditState is the state of the console's edit session
type EditState int

const (
	NoEdit EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "no-edit"
}

// EditSession owns the one product being edited. Begin hands out a form that
// holds a copy of the product; the listed product is never mutated in place.
type EditSession struct {
	state EditState
	form  *ProductForm
}

func (s *EditSession) State() EditState {
	return s.state
}

// Begin starts editing p, replacing any edit in progress
func (s *EditSession) Begin(p models.Product) *ProductForm {
	s.form = newProductForm(p)
	s.state = Editing
	return s.form
}

// Form returns the active form, if any
func (s *EditSession) Form() (*ProductForm, bool) {
	if s.state != Editing {
		return nil, false
	}
	return s.form, true
}

// End discards the active form
func (s *EditSession) End() {
	s.form = nil
	s.state = NoEdit
}

// ProductForm mirrors the admin edit form. Numeric inputs are kept as the raw
// text typed by the user; the API coerces them.
type ProductForm struct {
	OriginalSlug string

	Name            string
	Slug            string
	Description     string
	Price           decimal.Decimal
	Stock           string
	Discount        string
	IsTopRated      bool
	Status          models.ProductStatus
	SubcategorySlug string
	Colors          []string
	Sizes           []string
	MetaTitle       string
	MetaDescription string
	MetaKeywords    string

	ExistingImages []string
	NewImages      []clients.File
}

func newProductForm(p models.Product) *ProductForm {
	f := &ProductForm{
		OriginalSlug:    p.Slug,
		Name:            p.Name,
		Slug:            p.Slug,
		Description:     p.Description,
		Price:           p.Price,
		Stock:           fmt.Sprint(p.Stock),
		IsTopRated:      p.IsTopRated,
		Status:          p.Status,
		SubcategorySlug: p.SubcategorySlug,
		Colors:          append([]string{}, p.Colors...),
		Sizes:           append([]string{}, p.Sizes...),
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		MetaKeywords:    p.MetaKeywords,
		ExistingImages:  p.ImageURLs(),
	}
	if p.Discount.Valid {
		f.Discount = p.Discount.Decimal.StringFixed(2)
	}
	return f
}

// SetSlug stores the slug the way the slug input does, with every whitespace
// run turned into a dash
func (f *ProductForm) SetSlug(raw string) {
	f.Slug = catalog.DashWhitespace(raw)
}

// RemoveExistingImage detaches the i-th stored image from the form. The
// stored binary is left alone.
func (f *ProductForm) RemoveExistingImage(i int) error {
	if i < 0 || i >= len(f.ExistingImages) {
		return ErrImageOutOfRange
	}
	f.ExistingImages = append(f.ExistingImages[:i:i], f.ExistingImages[i+1:]...)
	return nil
}

// AddImage queues a file for upload on save
func (f *ProductForm) AddImage(file clients.File) {
	f.NewImages = append(f.NewImages, file)
}

// Request builds the update payload. Existing images come first, followed by
// the references of freshly uploaded ones.
func (f *ProductForm) Request(uploaded []string) models.UpdateProductRequest {
	images := make([]string, 0, len(f.ExistingImages)+len(uploaded))
	images = append(images, f.ExistingImages...)
	images = append(images, uploaded...)

	price := f.Price
	status := f.Status
	topRated := f.IsTopRated
	return models.UpdateProductRequest{
		Name:            &f.Name,
		Slug:            &f.Slug,
		Description:     &f.Description,
		Price:           &price,
		Stock:           models.Flex(f.Stock),
		Discount:        models.Flex(f.Discount),
		IsTopRated:      &topRated,
		Status:          &status,
		SubcategorySlug: &f.SubcategorySlug,
		Colors:          append([]string{}, f.Colors...),
		Sizes:           append([]string{}, f.Sizes...),
		Images:          images,
		MetaTitle:       &f.MetaTitle,
		MetaDescription: &f.MetaDescription,
		MetaKeywords:    &f.MetaKeywords,
	}
}
