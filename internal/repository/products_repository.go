package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute  // Single product cache
	ProductListCacheTTL = 2 * time.Minute  // Product list cache (shorter due to frequent changes)
	TaxonomyCacheTTL    = 30 * time.Minute // Categories, colors and sizes rarely change
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("slug already in use")
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewProductsRepository(db *gorm.DB, redis *redis.Client) *ProductsRepository {
	repo := &ProductsRepository{
		db:    db,
		redis: redis,
	}

	// Initialize CacheLayer with the existing Redis client
	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 2000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "storefront:products:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

func productCacheKey(slug string) string {
	return "storefront:product:" + slug
}

// invalidateProductCaches drops the cached product for each slug plus every cached list
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, slugs ...string) {
	if r.redis != nil && len(slugs) > 0 {
		keys := make([]string, 0, len(slugs))
		for _, slug := range slugs {
			keys = append(keys, productCacheKey(slug))
		}
		_ = r.redis.Del(ctx, keys...).Err()
	}
	if r.cache != nil {
		_ = r.cache.DeletePattern(ctx, "list:*")
	}
}

// orderedImages preloads images in their persisted order
func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("images.position ASC")
}

// listCached serves a product list through the cache layer when Redis is available
func (r *ProductsRepository) listCached(ctx context.Context, key string, fetch func() ([]models.Product, error)) ([]models.Product, error) {
	if r.cache == nil {
		return fetch()
	}
	var products []models.Product
	err := r.cache.GetOrSetJSON(ctx, key, &products, ProductListCacheTTL, func() (any, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// List returns every product, newest first, with images
func (r *ProductsRepository) List(ctx context.Context) ([]models.Product, error) {
	return r.listCached(ctx, "list:all", func() ([]models.Product, error) {
		var products []models.Product
		err := r.db.WithContext(ctx).
			Preload("Images", orderedImages).
			Order("created_at DESC").
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return products, nil
	})
}

// ListNewArrivals returns up to limit active products, newest first
func (r *ProductsRepository) ListNewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = models.NewArrivalsLimit
	}
	return r.listCached(ctx, fmt.Sprintf("list:new-arrivals:%d", limit), func() ([]models.Product, error) {
		var products []models.Product
		err := r.db.WithContext(ctx).
			Preload("Images", orderedImages).
			Where("status = ?", models.ProductStatusActive).
			Order("created_at DESC").
			Limit(limit).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list new arrivals: %w", err)
		}
		return products, nil
	})
}

// ListTopRated returns every active product flagged top rated
func (r *ProductsRepository) ListTopRated(ctx context.Context) ([]models.Product, error) {
	return r.listCached(ctx, "list:top-rated", func() ([]models.Product, error) {
		var products []models.Product
		err := r.db.WithContext(ctx).
			Preload("Images", orderedImages).
			Where("is_top_rated = ? AND status = ?", true, models.ProductStatusActive).
			Order("created_at DESC").
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list top rated products: %w", err)
		}
		return products, nil
	})
}

// GetBySlug retrieves a product by slug with caching
func (r *ProductsRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	cacheKey := productCacheKey(slug)

	if r.redis != nil {
		val, err := r.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// Create stores a new product. An empty slug is derived from the name.
func (r *ProductsRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Slug == "" {
		// First 8 chars of the ID keep generated slugs unique
		product.Slug = fmt.Sprintf("%s-%s", generateSlug(product.Name), product.ID.String()[:8])
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	if product.Stock < 0 {
		product.Stock = 0
	}
	for i := range product.Images {
		product.Images[i].ProductID = product.ID
		product.Images[i].Position = i
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.invalidateProductCaches(ctx)
	return nil
}

// Update applies exactly the fields set in u to the product stored under slug.
// A non-nil Images slice replaces the image set in the given order.
func (r *ProductsRepository) Update(ctx context.Context, slug string, u models.ProductUpdate) (*models.Product, error) {
	var updated models.Product

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Where("slug = ?", slug).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if updates := productUpdateColumns(u); len(updates) > 0 {
			updates["updated_at"] = time.Now()
			if err := tx.Model(&models.Product{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if u.Images != nil {
			if err := tx.Where("product_id = ?", existing.ID).Delete(&models.Image{}).Error; err != nil {
				return err
			}
			if len(u.Images) > 0 {
				images := make([]models.Image, 0, len(u.Images))
				for i, ref := range u.Images {
					images = append(images, models.Image{
						ID:        uuid.New(),
						ProductID: existing.ID,
						URL:       ref,
						Position:  i,
					})
				}
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}

		return tx.Preload("Images", orderedImages).Where("id = ?", existing.ID).First(&updated).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			return nil, err
		case isUniqueViolation(err):
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	r.invalidateProductCaches(ctx, slug, updated.Slug)
	return &updated, nil
}

// productUpdateColumns maps the set fields of u to column values. A map is
// used so zero values (stock 0, isTopRated false) are written.
func productUpdateColumns(u models.ProductUpdate) map[string]interface{} {
	updates := map[string]interface{}{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Slug != nil {
		updates["slug"] = *u.Slug
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Price != nil {
		updates["price"] = u.Price.Round(2)
	}
	if u.Stock != nil {
		stock := *u.Stock
		if stock < 0 {
			stock = 0
		}
		updates["stock"] = stock
	}
	if u.Discount != nil {
		updates["discount"] = *u.Discount
	}
	if u.IsTopRated != nil {
		updates["is_top_rated"] = *u.IsTopRated
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.SubcategorySlug != nil {
		updates["subcategory_slug"] = *u.SubcategorySlug
	}
	if u.Colors != nil {
		updates["colors"] = pq.StringArray(u.Colors)
	}
	if u.Sizes != nil {
		updates["sizes"] = pq.StringArray(u.Sizes)
	}
	if u.MetaTitle != nil {
		updates["meta_title"] = *u.MetaTitle
	}
	if u.MetaDescription != nil {
		updates["meta_description"] = *u.MetaDescription
	}
	if u.MetaKeywords != nil {
		updates["meta_keywords"] = *u.MetaKeywords
	}
	return updates
}

// Delete hard-deletes the product stored under slug together with its orders
// and image references. Stored image binaries are left alone.
func (r *ProductsRepository) Delete(ctx context.Context, slug string) (*models.DeleteResult, error) {
	result := &models.DeleteResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Select("id").Where("slug = ?", slug).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		result.ProductID = product.ID

		orders := tx.Where("product_id = ?", product.ID).Delete(&models.Order{})
		if orders.Error != nil {
			return fmt.Errorf("failed to delete orders: %w", orders.Error)
		}
		result.OrdersDeleted = int(orders.RowsAffected)

		images := tx.Where("product_id = ?", product.ID).Delete(&models.Image{})
		if images.Error != nil {
			return fmt.Errorf("failed to detach images: %w", images.Error)
		}
		result.ImagesDetached = int(images.RowsAffected)

		products := tx.Where("id = ?", product.ID).Delete(&models.Product{})
		if products.Error != nil {
			return fmt.Errorf("failed to delete product: %w", products.Error)
		}
		result.ProductsDeleted = int(products.RowsAffected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateProductCaches(ctx, slug)
	return result, nil
}

// generateSlug creates a URL-friendly slug from a name
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	if result.Len() == 0 {
		return "product"
	}
	return result.String()
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
