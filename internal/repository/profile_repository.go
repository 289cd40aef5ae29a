package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"storefront-service/internal/models"
)

var (
	ErrProfileExists   = errors.New("profile already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

// ProfileRepository stores the singleton storefront records: company
// branding, contact details and social links. Each table holds at most one
// live row; the first save creates it and later saves update it by id.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// getSingleton returns the live record, or nil when none has been saved yet
func getSingleton[T any](ctx context.Context, db *gorm.DB) (*T, error) {
	var records []T
	if err := db.WithContext(ctx).Order("created_at ASC").Limit(1).Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// createSingleton inserts record unless a live record already exists. The
// count catches the common case; concurrent first saves are settled by the
// unique index on the singleton column.
func createSingleton[T any](ctx context.Context, db *gorm.DB, record *T) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(new(T)).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrProfileExists
		}
		return tx.Create(record).Error
	})
	if err != nil && !errors.Is(err, ErrProfileExists) && isUniqueViolation(err) {
		return ErrProfileExists
	}
	return err
}

// updateSingleton writes every column in updates to the record with id
func updateSingleton[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, updates map[string]interface{}) (*T, error) {
	updates["updated_at"] = time.Now()
	result := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	var record T
	if err := db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Company profile

func (r *ProfileRepository) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	profile, err := getSingleton[models.CompanyProfile](ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) CreateCompany(ctx context.Context, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	profile := &models.CompanyProfile{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		HeaderImage: req.HeaderImage,
		FavIcon:     req.FavIcon,
		Singleton:   true,
	}
	if err := createSingleton(ctx, r.db, profile); err != nil {
		if errors.Is(err, ErrProfileExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create company profile: %w", err)
	}
	return profile, nil
}

func (r *ProfileRepository) UpdateCompany(ctx context.Context, id uuid.UUID, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	profile, err := updateSingleton[models.CompanyProfile](ctx, r.db, id, map[string]interface{}{
		"name":         req.Name,
		"description":  req.Description,
		"header_image": req.HeaderImage,
		"fav_icon":     req.FavIcon,
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update company profile: %w", err)
	}
	return profile, nil
}

// Contact info

func (r *ProfileRepository) GetContact(ctx context.Context) (*models.ContactInfo, error) {
	info, err := getSingleton[models.ContactInfo](ctx, r.db)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact info: %w", err)
	}
	return info, nil
}

func (r *ProfileRepository) CreateContact(ctx context.Context, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	info := &models.ContactInfo{
		ID:          uuid.New(),
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		Website:     req.Website,
		Owner:       req.Owner,
		Singleton:   true,
	}
	if err := createSingleton(ctx, r.db, info); err != nil {
		if errors.Is(err, ErrProfileExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create contact info: %w", err)
	}
	return info, nil
}

func (r *ProfileRepository) UpdateContact(ctx context.Context, id uuid.UUID, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	info, err := updateSingleton[models.ContactInfo](ctx, r.db, id, map[string]interface{}{
		"phone_number": req.PhoneNumber,
		"email":        req.Email,
		"address":      req.Address,
		"website":      req.Website,
		"owner":        req.Owner,
	})
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

// Social links

func (r *ProfileRepository) GetSocialLinks(ctx context.Context) (*models.SocialLinks, error) {
	var records []models.SocialLinks
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Limit(1).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get social links: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// SaveSocialLinks creates the social links record or overwrites the live one.
// Losing a race on the first create retries once as an update.
func (r *ProfileRepository) SaveSocialLinks(ctx context.Context, req models.SocialLinksRequest) (*models.SocialLinks, error) {
	saved, err := r.saveSocialLinks(ctx, req)
	if err != nil && isUniqueViolation(err) {
		saved, err = r.saveSocialLinks(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save social links: %w", err)
	}
	return saved, nil
}

func (r *ProfileRepository) saveSocialLinks(ctx context.Context, req models.SocialLinksRequest) (*models.SocialLinks, error) {
	var saved models.SocialLinks
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var records []models.SocialLinks
		if err := tx.Order("updated_at DESC").Limit(1).Find(&records).Error; err != nil {
			return err
		}
		saved = models.SocialLinks{
			ID:        uuid.New(),
			Facebook:  req.Facebook,
			Instagram: req.Instagram,
			Twitter:   req.Twitter,
			TikTok:    req.TikTok,
			Pinterest: req.Pinterest,
			Singleton: true,
			UpdatedAt: time.Now(),
		}
		if len(records) == 0 {
			return tx.Create(&saved).Error
		}
		saved.ID = records[0].ID
		return tx.Model(&models.SocialLinks{}).Where("id = ?", saved.ID).Updates(map[string]interface{}{
			"facebook":   saved.Facebook,
			"instagram":  saved.Instagram,
			"twitter":    saved.Twitter,
			"tiktok":     saved.TikTok,
			"pinterest":  saved.Pinterest,
			"updated_at": saved.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
