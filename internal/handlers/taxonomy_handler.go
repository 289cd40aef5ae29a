package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/models"
)

// TaxonomyStore serves the reference data the edit form picks from
type TaxonomyStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error)
	ListColors(ctx context.Context) ([]models.Color, error)
	ListSizes(ctx context.Context) ([]models.Size, error)
}

type TaxonomyHandler struct {
	repo   TaxonomyStore
	logger *logrus.Entry
}

func NewTaxonomyHandler(repo TaxonomyStore, logger *logrus.Logger) *TaxonomyHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &TaxonomyHandler{repo: repo, logger: logger.WithField("component", "taxonomy-handler")}
}

// GetCategories lists categories
// @Summary List categories
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} models.CategoryListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /categories [get]
func (h *TaxonomyHandler) GetCategories(c *gin.Context) {
	categories, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list categories")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, models.CategoryListResponse{Success: true, Data: categories})
}

// GetSubcategories lists subcategories, optionally narrowed to one category
// @Summary List subcategories
// @Tags Taxonomy
// @Produce json
// @Param categoryId query string false "Category ID"
// @Success 200 {object} models.SubcategoryListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /subcategories [get]
func (h *TaxonomyHandler) GetSubcategories(c *gin.Context) {
	var categoryID *uuid.UUID
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			errorJSON(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID format")
			return
		}
		categoryID = &id
	}

	subcategories, err := h.repo.ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list subcategories")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve subcategories")
		return
	}
	c.JSON(http.StatusOK, models.SubcategoryListResponse{Success: true, Data: subcategories})
}

// GetColors lists colors
// @Summary List colors
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} models.ColorListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /colors [get]
func (h *TaxonomyHandler) GetColors(c *gin.Context) {
	colors, err := h.repo.ListColors(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list colors")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve colors")
		return
	}
	c.JSON(http.StatusOK, models.ColorListResponse{Success: true, Data: colors})
}

// GetSizes lists sizes
// @Summary List sizes
// @Tags Taxonomy
// @Produce json
// @Success 200 {object} models.SizeListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /sizes [get]
func (h *TaxonomyHandler) GetSizes(c *gin.Context) {
	sizes, err := h.repo.ListSizes(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list sizes")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve sizes")
		return
	}
	c.JSON(http.StatusOK, models.SizeListResponse{Success: true, Data: sizes})
}
