package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyProfile holds storefront branding. At most one live record exists;
// the unique Singleton column enforces it in the schema.
type CompanyProfile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name"`
	Description string    `json:"description" gorm:"type:text"`
	HeaderImage string    `json:"headerImage"`
	FavIcon     string    `json:"favIcon"`
	Singleton   bool      `json:"-" gorm:"not null;default:true;uniqueIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ContactInfo holds the storefront's public contact details. At most one live
// record exists.
type ContactInfo struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PhoneNumber string    `json:"phoneNumber"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	Owner       string    `json:"owner"`
	Singleton   bool      `json:"-" gorm:"not null;default:true;uniqueIndex"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SocialLinks feeds the storefront footer
type SocialLinks struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Facebook  string    `json:"facebook"`
	Instagram string    `json:"instagram"`
	Twitter   string    `json:"twitter"`
	TikTok    string    `json:"tiktok" gorm:"column:tiktok"`
	Pinterest string    `json:"pinterest"`
	Singleton bool      `json:"-" gorm:"not null;default:true;uniqueIndex"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Request types

type CompanyProfileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HeaderImage string `json:"headerImage"`
	FavIcon     string `json:"favIcon"`
}

type ContactInfoRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Owner       string `json:"owner"`
}

type SocialLinksRequest struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	TikTok    string `json:"tiktok"`
	Pinterest string `json:"pinterest"`
}

// Response types

type CompanyProfileResponse struct {
	Success bool            `json:"success"`
	Data    *CompanyProfile `json:"data"`
	Message *string         `json:"message,omitempty"`
}

type ContactInfoResponse struct {
	Success bool         `json:"success"`
	Data    *ContactInfo `json:"data"`
	Message *string      `json:"message,omitempty"`
}

type SocialLinksResponse struct {
	Success bool         `json:"success"`
	Data    *SocialLinks `json:"data"`
}

func (CompanyProfile) TableName() string {
	return "company_profiles"
}

func (ContactInfo) TableName() string {
	return "contact_infos"
}

func (SocialLinks) TableName() string {
	return "social_links"
}
