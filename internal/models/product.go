package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductStatus gates whether a product shows up in customer-facing queries
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDeactive ProductStatus = "deactive"
)

// Valid reports whether s is one of the known statuses
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusDeactive
}

// NewArrivalsLimit caps the new arrivals view
const NewArrivalsLimit = 10

// Product represents a catalog product
type Product struct {
	ID              uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Slug            string              `json:"slug" gorm:"not null;uniqueIndex:idx_products_slug"`
	Name            string              `json:"name" gorm:"not null"`
	Description     string              `json:"description" gorm:"type:text"`
	Price           decimal.Decimal     `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock           int                 `json:"stock" gorm:"not null;default:0"`
	Discount        decimal.NullDecimal `json:"discount" gorm:"type:decimal(10,2)"`
	IsTopRated      bool                `json:"isTopRated" gorm:"not null;default:false;index:idx_products_top_rated_status"`
	Status          ProductStatus       `json:"status" gorm:"not null;default:'active';index:idx_products_top_rated_status;index:idx_products_status_created"`
	SubcategorySlug string              `json:"subcategorySlug" gorm:"index"`
	Images          []Image             `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Colors          pq.StringArray      `json:"colors" gorm:"type:text[]"`
	Sizes           pq.StringArray      `json:"sizes" gorm:"type:text[]"`
	// SEO metadata
	MetaTitle       string    `json:"metaTitle" gorm:"type:text"`
	MetaDescription string    `json:"metaDescription" gorm:"type:text"`
	MetaKeywords    string    `json:"metaKeywords" gorm:"type:text"`
	CreatedAt       time.Time `json:"createdAt" gorm:"index:idx_products_status_created"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Image is a stored image reference attached to exactly one product
type Image struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

// ImageURLs returns the product's image references in persisted order
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

// Order is the minimal order row that depends on a product. Deleting a
// product removes its orders.
type Order struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID uuid.UUID       `json:"productId" gorm:"type:uuid;not null;index"`
	Product   *Product        `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	Status    string          `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FlexString accepts a JSON string, number, bool or null and keeps its raw
// text. Admin forms submit numeric fields either way. Set records that the
// key was present in the body, including as null.
type FlexString struct {
	Value string
	Null  bool
	Set   bool
}

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexString{Null: true, Set: true}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString{Value: s, Set: true}
		return nil
	}
	*f = FlexString{Value: string(data), Set: true}
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if f.Null || !f.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(f.Value)), nil
}

// IsZero lets omitzero drop fields that were never set
func (f FlexString) IsZero() bool {
	return !f.Set
}

// Flex builds a set FlexString from a plain value
func Flex(v string) FlexString {
	return FlexString{Value: v, Set: true}
}

// FlexNull is an explicit JSON null
func FlexNull() FlexString {
	return FlexString{Null: true, Set: true}
}

// CreateProductRequest represents an admin product submission
type CreateProductRequest struct {
	Name            string          `json:"name" binding:"required"`
	Slug            string          `json:"slug"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" binding:"required"`
	Stock           FlexString      `json:"stock,omitzero"`
	Discount        FlexString      `json:"discount,omitzero"`
	IsTopRated      bool            `json:"isTopRated"`
	Status          ProductStatus   `json:"status"`
	SubcategorySlug string          `json:"subcategorySlug"`
	Colors          []string        `json:"colors"`
	Sizes           []string        `json:"sizes"`
	Images          []string        `json:"images"`
	MetaTitle       string          `json:"metaTitle"`
	MetaDescription string          `json:"metaDescription"`
	MetaKeywords    string          `json:"metaKeywords"`
}

// UpdateProductRequest carries the edit form. Absent fields are left alone,
// present fields replace the stored value.
type UpdateProductRequest struct {
	Name            *string          `json:"name,omitempty"`
	Slug            *string          `json:"slug,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Stock           FlexString       `json:"stock,omitzero"`
	Discount        FlexString       `json:"discount,omitzero"`
	IsTopRated      *bool            `json:"isTopRated,omitempty"`
	Status          *ProductStatus   `json:"status,omitempty"`
	SubcategorySlug *string          `json:"subcategorySlug,omitempty"`
	Colors          []string         `json:"colors"`
	Sizes           []string         `json:"sizes"`
	Images          []string         `json:"images"`
	MetaTitle       *string          `json:"metaTitle,omitempty"`
	MetaDescription *string          `json:"metaDescription,omitempty"`
	MetaKeywords    *string          `json:"metaKeywords,omitempty"`
}

// ProductUpdate is the normalized set of column changes handed to the store.
// Nil pointers and nil slices mean "leave unchanged".
type ProductUpdate struct {
	Name            *string
	Slug            *string
	Description     *string
	Price           *decimal.Decimal
	Stock           *int
	Discount        *decimal.NullDecimal
	IsTopRated      *bool
	Status          *ProductStatus
	SubcategorySlug *string
	Colors          []string
	Sizes           []string
	Images          []string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
}

// ChangedFields lists the product fields touched by the update
func (u ProductUpdate) ChangedFields() []string {
	fields := []string{}
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Name != nil, "name")
	add(u.Slug != nil, "slug")
	add(u.Description != nil, "description")
	add(u.Price != nil, "price")
	add(u.Stock != nil, "stock")
	add(u.Discount != nil, "discount")
	add(u.IsTopRated != nil, "isTopRated")
	add(u.Status != nil, "status")
	add(u.SubcategorySlug != nil, "subcategorySlug")
	add(u.Colors != nil, "colors")
	add(u.Sizes != nil, "sizes")
	add(u.Images != nil, "images")
	add(u.MetaTitle != nil, "metaTitle")
	add(u.MetaDescription != nil, "metaDescription")
	add(u.MetaKeywords != nil, "metaKeywords")
	return fields
}

// DeleteResult reports what a product delete removed
type DeleteResult struct {
	ProductID       uuid.UUID `json:"productId"`
	ProductsDeleted int       `json:"productsDeleted"`
	OrdersDeleted   int       `json:"ordersDeleted"`
	ImagesDetached  int       `json:"imagesDetached"`
}

// Response types
type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success bool      `json:"success"`
	Data    []Product `json:"data"`
}

type DeleteProductResponse struct {
	Success bool         `json:"success"`
	Data    DeleteResult `json:"data"`
	Message *string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// TableName returns the table name for the Image model
func (Image) TableName() string {
	return "images"
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
