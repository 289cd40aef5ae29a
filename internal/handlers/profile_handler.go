package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ProfileStore persists the storefront's singleton records
type ProfileStore interface {
	GetCompany(ctx context.Context) (*models.CompanyProfile, error)
	CreateCompany(ctx context.Context, req models.CompanyProfileRequest) (*models.CompanyProfile, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, req models.CompanyProfileRequest) (*models.CompanyProfile, error)
	GetContact(ctx context.Context) (*models.ContactInfo, error)
	CreateContact(ctx context.Context, req models.ContactInfoRequest) (*models.ContactInfo, error)
	UpdateContact(ctx context.Context, id uuid.UUID, req models.ContactInfoRequest) (*models.ContactInfo, error)
	GetSocialLinks(ctx context.Context) (*models.SocialLinks, error)
	SaveSocialLinks(ctx context.Context, req models.SocialLinksRequest) (*models.SocialLinks, error)
}

type ProfileHandler struct {
	repo   ProfileStore
	logger *logrus.Entry
}

func NewProfileHandler(repo ProfileStore, logger *logrus.Logger) *ProfileHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileHandler{repo: repo, logger: logger.WithField("component", "profile-handler")}
}

func parseProfileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// profileWriteError maps store errors of a create or update to a response
func (h *ProfileHandler) profileWriteError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, repository.ErrProfileExists):
		errorJSON(c, http.StatusConflict, "ALREADY_EXISTS", what+" already exists")
	case errors.Is(err, repository.ErrProfileNotFound):
		errorJSON(c, http.StatusNotFound, "NOT_FOUND", what+" not found")
	default:
		h.logger.WithError(err).Errorf("Failed to save %s", what)
		errorJSON(c, http.StatusInternalServerError, "SAVE_FAILED", "Failed to save "+what)
	}
}

// GetCompanyDetails returns the company profile, or null before the first save
// @Summary Get company details
// @Tags Profile
// @Produce json
// @Success 200 {object} models.CompanyProfileResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /companyDetails [get]
func (h *ProfileHandler) GetCompanyDetails(c *gin.Context) {
	profile, err := h.repo.GetCompany(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get company profile")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve company details")
		return
	}
	c.JSON(http.StatusOK, models.CompanyProfileResponse{Success: true, Data: profile})
}

// CreateCompanyDetails creates the company profile
// @Summary Create company details
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body models.CompanyProfileRequest true "Company details"
// @Success 201 {object} models.CompanyProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /companyDetails [post]
func (h *ProfileHandler) CreateCompanyDetails(c *gin.Context) {
	var req models.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	profile, err := h.repo.CreateCompany(c.Request.Context(), req)
	if err != nil {
		h.profileWriteError(c, err, "company details")
		return
	}
	c.JSON(http.StatusCreated, models.CompanyProfileResponse{Success: true, Data: profile})
}

// UpdateCompanyDetails overwrites the company profile with id
// @Summary Update company details
// @Tags Profile
// @Accept json
// @Produce json
// @Param id path string true "Company profile ID"
// @Param profile body models.CompanyProfileRequest true "Company details"
// @Success 200 {object} models.CompanyProfileResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /companyDetails/{id} [put]
func (h *ProfileHandler) UpdateCompanyDetails(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}
	var req models.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	profile, err := h.repo.UpdateCompany(c.Request.Context(), id, req)
	if err != nil {
		h.profileWriteError(c, err, "company details")
		return
	}
	c.JSON(http.StatusOK, models.CompanyProfileResponse{Success: true, Data: profile})
}

// GetContactInfo returns the contact details, or null before the first save
// @Summary Get contact info
// @Tags Profile
// @Produce json
// @Success 200 {object} models.ContactInfoResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /contactInfo [get]
func (h *ProfileHandler) GetContactInfo(c *gin.Context) {
	info, err := h.repo.GetContact(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get contact info")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve contact info")
		return
	}
	c.JSON(http.StatusOK, models.ContactInfoResponse{Success: true, Data: info})
}

// CreateContactInfo creates the contact details
// @Summary Create contact info
// @Tags Profile
// @Accept json
// @Produce json
// @Param info body models.ContactInfoRequest true "Contact info"
// @Success 201 {object} models.ContactInfoResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /contactInfo [post]
func (h *ProfileHandler) CreateContactInfo(c *gin.Context) {
	var req models.ContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	info, err := h.repo.CreateContact(c.Request.Context(), req)
	if err != nil {
		h.profileWriteError(c, err, "contact info")
		return
	}
	c.JSON(http.StatusCreated, models.ContactInfoResponse{Success: true, Data: info})
}

// UpdateContactInfo overwrites the contact details with id
// @Summary Update contact info
// @Tags Profile
// @Accept json
// @Produce json
// @Param id path string true "Contact info ID"
// @Param info body models.ContactInfoRequest true "Contact info"
// @Success 200 {object} models.ContactInfoResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /contactInfo/{id} [put]
func (h *ProfileHandler) UpdateContactInfo(c *gin.Context) {
	id, ok := parseProfileID(c)
	if !ok {
		return
	}
	var req models.ContactInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	info, err := h.repo.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		h.profileWriteError(c, err, "contact info")
		return
	}
	c.JSON(http.StatusOK, models.ContactInfoResponse{Success: true, Data: info})
}

// GetSocialLinks returns the footer social links
// @Summary Get social links
// @Tags Profile
// @Produce json
// @Success 200 {object} models.SocialLinksResponse
// @Router /socialLinks [get]
func (h *ProfileHandler) GetSocialLinks(c *gin.Context) {
	links, err := h.repo.GetSocialLinks(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get social links")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve social links")
		return
	}
	c.JSON(http.StatusOK, models.SocialLinksResponse{Success: true, Data: links})
}

// SaveSocialLinks creates or overwrites the footer social links
// @Summary Save social links
// @Tags Profile
// @Accept json
// @Produce json
// @Param links body models.SocialLinksRequest true "Social links"
// @Success 200 {object} models.SocialLinksResponse
// @Router /socialLinks [put]
func (h *ProfileHandler) SaveSocialLinks(c *gin.Context) {
	var req models.SocialLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	links, err := h.repo.SaveSocialLinks(c.Request.Context(), req)
	if err != nil {
		h.profileWriteError(c, err, "social links")
		return
	}
	c.JSON(http.StatusOK, models.SocialLinksResponse{Success: true, Data: links})
}
