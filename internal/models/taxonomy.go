package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a top-level product grouping
type Category struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subcategory belongs to exactly one category. Products reference it by slug.
type Subcategory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"not null;uniqueIndex"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Color struct {
	ID   string `json:"id" gorm:"primary_key"`
	Name string `json:"name" gorm:"not null"`
	Hex  string `json:"hex" gorm:"not null"`
}

type Size struct {
	ID   string `json:"id" gorm:"primary_key"`
	Name string `json:"name" gorm:"not null"`
}

type CategoryListResponse struct {
	Success bool       `json:"success"`
	Data    []Category `json:"data"`
}

type SubcategoryListResponse struct {
	Success bool          `json:"success"`
	Data    []Subcategory `json:"data"`
}

type ColorListResponse struct {
	Success bool    `json:"success"`
	Data    []Color `json:"data"`
}

type SizeListResponse struct {
	Success bool   `json:"success"`
	Data    []Size `json:"data"`
}

func (Category) TableName() string {
	return "categories"
}

func (Subcategory) TableName() string {
	return "subcategories"
}

func (Color) TableName() string {
	return "colors"
}

func (Size) TableName() string {
	return "sizes"
}
