package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/catalog"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

// CatalogAPI is the part of the storefront API the console drives
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListNewArrivals(ctx context.Context) ([]models.Product, error)
	ListTopRated(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, slug string, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, slug string) (*models.DeleteResult, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error)
	ListColors(ctx context.Context) ([]models.Color, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
}

// Uploader stores image files and returns their references
type Uploader interface {
	Attach(ctx context.Context, file clients.File, kind string) (string, error)
	TryAttach(ctx context.Context, file clients.File, kind string) string
	AttachAll(ctx context.Context, files []clients.File, kind string) ([]string, error)
}

// Taxonomy is the reference data the edit form picks from
type Taxonomy struct {
	Categories    []models.Category
	Subcategories []models.Subcategory
	Colors        []models.Color
	Sizes         []models.Size
}

// SubcategoriesOf narrows the subcategory picker to one category
func (t *Taxonomy) SubcategoriesOf(categoryID uuid.UUID) []models.Subcategory {
	return catalog.SubcategoriesOf(t.Subcategories, categoryID)
}

// Console is the admin view over the catalog: the fetched product list, the
// filtered view derived from it and the single edit session.
type Console struct {
	api      CatalogAPI
	uploader Uploader
	logger   *logrus.Entry

	products []models.Product
	filter   string
	view     []models.Product
	session  EditSession
}

func NewConsole(api CatalogAPI, uploader Uploader, logger *logrus.Logger) *Console {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Console{
		api:      api,
		uploader: uploader,
		logger:   logger.WithField("component", "admin-console"),
	}
}

// Refresh refetches the product list. On failure the previous list stays.
func (c *Console) Refresh(ctx context.Context) error {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Failed to fetch products")
		return err
	}
	c.setProducts(products)
	return nil
}

func (c *Console) setProducts(products []models.Product) {
	c.products = products
	c.recompute()
}

func (c *Console) recompute() {
	c.view = catalog.Filter(c.products, c.filter)
}

// SetFilter changes the free-text filter and recomputes the visible list
func (c *Console) SetFilter(query string) {
	c.filter = query
	c.recompute()
}

func (c *Console) Filter() string {
	return c.filter
}

// Products returns the full fetched list
func (c *Console) Products() []models.Product {
	return c.products
}

// Visible returns the products passing the current filter
func (c *Console) Visible() []models.Product {
	return c.view
}

func (c *Console) Session() *EditSession {
	return &c.session
}

func (c *Console) NewArrivals(ctx context.Context) ([]models.Product, error) {
	products, err := c.api.ListNewArrivals(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Failed to fetch new arrivals")
	}
	return products, err
}

func (c *Console) TopRated(ctx context.Context) ([]models.Product, error) {
	products, err := c.api.ListTopRated(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Failed to fetch top rated products")
	}
	return products, err
}

// LoadTaxonomy fetches the categories, subcategories, colors and sizes
func (c *Console) LoadTaxonomy(ctx context.Context) (*Taxonomy, error) {
	var t Taxonomy
	var err error
	if t.Categories, err = c.api.ListCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if t.Subcategories, err = c.api.ListSubcategories(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to load subcategories: %w", err)
	}
	if t.Colors, err = c.api.ListColors(ctx); err != nil {
		return nil, fmt.Errorf("failed to load colors: %w", err)
	}
	if t.Sizes, err = c.api.ListSizes(ctx); err != nil {
		return nil, fmt.Errorf("failed to load sizes: %w", err)
	}
	return &t, nil
}

// Edit opens the edit session on the listed product with slug
func (c *Console) Edit(slug string) (*ProductForm, error) {
	for _, p := range c.products {
		if p.Slug == slug {
			return c.session.Begin(p), nil
		}
	}
	return nil, fmt.Errorf("product %q is not in the list", slug)
}

// SaveEdit uploads the form's new images concurrently, then sends the update.
// Any failure leaves the session and the list as they were. Images uploaded
// before a failed update are orphaned and only logged.
func (c *Console) SaveEdit(ctx context.Context) (*models.Product, error) {
	form, ok := c.session.Form()
	if !ok {
		return nil, ErrNotEditing
	}

	var uploaded []string
	if len(form.NewImages) > 0 {
		refs, err := c.uploader.AttachAll(ctx, form.NewImages, "product")
		if err != nil {
			c.logger.WithError(err).WithField("slug", form.OriginalSlug).Error("Image upload failed, product not saved")
			return nil, err
		}
		uploaded = refs
	}

	updated, err := c.api.UpdateProduct(ctx, form.OriginalSlug, form.Request(uploaded))
	if err != nil {
		c.logger.WithError(err).WithField("slug", form.OriginalSlug).Error("Failed to update product")
		if len(uploaded) > 0 {
			c.logger.WithFields(logrus.Fields{
				"slug":   form.OriginalSlug,
				"images": uploaded,
			}).Warn("Uploaded images left unassociated")
		}
		return nil, err
	}

	for i := range c.products {
		if c.products[i].Slug == form.OriginalSlug {
			c.products[i] = *updated
			break
		}
	}
	c.recompute()
	c.session.End()
	return updated, nil
}

// Delete removes the product and its dependent orders. This cannot be undone.
func (c *Console) Delete(ctx context.Context, slug string) (*models.DeleteResult, error) {
	result, err := c.api.DeleteProduct(ctx, slug)
	if err != nil {
		c.logger.WithError(err).WithField("slug", slug).Error("Failed to delete product")
		return nil, err
	}

	kept := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		if p.Slug != slug {
			kept = append(kept, p)
		}
	}
	c.setProducts(kept)

	if form, ok := c.session.Form(); ok && form.OriginalSlug == slug {
		c.session.End()
	}
	return result, nil
}
