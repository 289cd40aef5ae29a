package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

// TaxonomyRepository serves the read-only reference data the edit form joins
// against: categories, subcategories, colors and sizes.
type TaxonomyRepository struct {
	db    *gorm.DB
	cache *cache.CacheLayer
}

func NewTaxonomyRepository(db *gorm.DB, redis *redis.Client) *TaxonomyRepository {
	repo := &TaxonomyRepository{db: db}
	if redis != nil {
		repo.cache = cache.NewCacheLayerFromClient(redis, cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 500,
			L1TTL:      time.Minute,
			DefaultTTL: TaxonomyCacheTTL,
			KeyPrefix:  "storefront:taxonomy:",
		})
	}
	return repo
}

// cachedList serves load through the cache layer, or calls it directly when
// caching is disabled
func cachedList[T any](ctx context.Context, c *cache.CacheLayer, key string, load func() ([]T, error)) ([]T, error) {
	if c == nil {
		return load()
	}
	var items []T
	err := c.GetOrSetJSON(ctx, key, &items, TaxonomyCacheTTL, func() (any, error) {
		return load()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cachedList(ctx, r.cache, "categories", func() ([]models.Category, error) {
		var categories []models.Category
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return categories, nil
	})
}

// ListSubcategories returns all subcategories, narrowed to one category when
// categoryID is non-nil
func (r *TaxonomyRepository) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	key := "subcategories:all"
	if categoryID != nil {
		key = "subcategories:" + categoryID.String()
	}
	return cachedList(ctx, r.cache, key, func() ([]models.Subcategory, error) {
		var subcategories []models.Subcategory
		query := r.db.WithContext(ctx).Order("name ASC")
		if categoryID != nil {
			query = query.Where("category_id = ?", *categoryID)
		}
		if err := query.Find(&subcategories).Error; err != nil {
			return nil, fmt.Errorf("failed to list subcategories: %w", err)
		}
		return subcategories, nil
	})
}

func (r *TaxonomyRepository) ListColors(ctx context.Context) ([]models.Color, error) {
	return cachedList(ctx, r.cache, "colors", func() ([]models.Color, error) {
		var colors []models.Color
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&colors).Error; err != nil {
			return nil, fmt.Errorf("failed to list colors: %w", err)
		}
		return colors, nil
	})
}

func (r *TaxonomyRepository) ListSizes(ctx context.Context) ([]models.Size, error) {
	return cachedList(ctx, r.cache, "sizes", func() ([]models.Size, error) {
		var sizes []models.Size
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&sizes).Error; err != nil {
			return nil, fmt.Errorf("failed to list sizes: %w", err)
		}
		return sizes, nil
	})
}
