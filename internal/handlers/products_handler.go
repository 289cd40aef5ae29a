package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"storefront-service/internal/catalog"
	"storefront-service/internal/events"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

// ProductStore is the product persistence the handlers depend on
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListNewArrivals(ctx context.Context, limit int) ([]models.Product, error)
	ListTopRated(ctx context.Context) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, slug string, u models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, slug string) (*models.DeleteResult, error)
}

// EventPublisher announces catalog changes. A nil publisher disables events.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *models.Product, actor events.Actor) error
	PublishProductUpdated(ctx context.Context, product, oldProduct *models.Product, changedFields []string, actor events.Actor) error
	PublishProductDeleted(ctx context.Context, product *models.Product, actor events.Actor) error
}

type ProductsHandler struct {
	repo            ProductStore
	eventsPublisher EventPublisher
	logger          *logrus.Entry
}

func NewProductsHandler(repo ProductStore, eventsPublisher EventPublisher, logger *logrus.Logger) *ProductsHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProductsHandler{
		repo:            repo,
		eventsPublisher: eventsPublisher,
		logger:          logger.WithField("component", "products-handler"),
	}
}

func actorFrom(c *gin.Context) events.Actor {
	return events.Actor{
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
		},
	})
}

// validationError answers 400 for form validation failures, naming the
// offending field when known
func validationError(c *gin.Context, err error) {
	resp := models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		},
	}
	var fieldErr *catalog.FieldError
	if errors.As(err, &fieldErr) {
		resp.Error.Field = fieldErr.Field
		resp.Error.Message = fieldErr.Err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// GetProducts lists the whole catalog
// @Summary List products
// @Description Get every product with its images, newest first
// @Tags Products
// @Produce json
// @Success 200 {object} models.ProductListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products [get]
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, models.ProductListResponse{Success: true, Data: products})
}

// GetNewArrivals lists the newest active products
// @Summary New arrivals
// @Description Get up to 10 active products, newest first
// @Tags Products
// @Produce json
// @Success 200 {object} models.ProductListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/newArrivals [get]
func (h *ProductsHandler) GetNewArrivals(c *gin.Context) {
	products, err := h.repo.ListNewArrivals(c.Request.Context(), models.NewArrivalsLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list new arrivals")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve new arrivals")
		return
	}
	c.JSON(http.StatusOK, models.ProductListResponse{Success: true, Data: products})
}

// GetTopRated lists active products flagged top rated
// @Summary Top rated products
// @Tags Products
// @Produce json
// @Success 200 {object} models.ProductListResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/topRated [get]
func (h *ProductsHandler) GetTopRated(c *gin.Context) {
	products, err := h.repo.ListTopRated(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list top rated products")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve top rated products")
		return
	}
	c.JSON(http.StatusOK, models.ProductListResponse{Success: true, Data: products})
}

// GetProduct retrieves a product by slug
// @Summary Get product
// @Tags Products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.ProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{slug} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
			return
		}
		h.logger.WithError(err).Error("Failed to get product")
		errorJSON(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, models.ProductResponse{Success: true, Data: product})
}

// CreateProduct creates a new product
// @Summary Create product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product data"
// @Success 201 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	product, err := catalog.BuildProduct(req)
	if err != nil {
		validationError(c, err)
		return
	}

	if err := h.repo.Create(c.Request.Context(), product); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			errorJSON(c, http.StatusConflict, "SLUG_TAKEN", "A product with this slug already exists")
			return
		}
		h.logger.WithError(err).WithField("name", product.Name).Error("Failed to create product")
		errorJSON(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create product")
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductCreated(c.Request.Context(), product, actorFrom(c))
	}

	message := "Product created successfully"
	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: &message,
	})
}

// UpdateProduct applies a partial update to the product stored under slug
// @Summary Update product
// @Description Fields absent from the body are left unchanged. Stock and discount accept numbers or numeric strings.
// @Tags Products
// @Accept json
// @Produce json
// @Param slug path string true "Product slug"
// @Param product body models.UpdateProductRequest true "Changed fields"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/{slug} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	slug := c.Param("slug")

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	update, err := catalog.BuildUpdate(req)
	if err != nil {
		validationError(c, err)
		return
	}

	// Old value for the audit event; a miss here is reported by Update
	var oldProduct *models.Product
	if h.eventsPublisher != nil {
		oldProduct, _ = h.repo.GetBySlug(c.Request.Context(), slug)
	}

	product, err := h.repo.Update(c.Request.Context(), slug, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
		case errors.Is(err, repository.ErrSlugTaken):
			errorJSON(c, http.StatusConflict, "SLUG_TAKEN", "A product with this slug already exists")
		default:
			h.logger.WithError(err).WithField("slug", slug).Error("Failed to update product")
			errorJSON(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update product")
		}
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductUpdated(c.Request.Context(), product, oldProduct, update.ChangedFields(), actorFrom(c))
	}

	message := "Product updated successfully"
	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: &message,
	})
}

// DeleteProduct hard-deletes a product together with its orders
// @Summary Delete product
// @Description Removes the product, its image references and every order that references it
// @Tags Products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.DeleteProductResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /products/{slug} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	slug := c.Param("slug")

	var product *models.Product
	if h.eventsPublisher != nil {
		product, _ = h.repo.GetBySlug(c.Request.Context(), slug)
	}

	result, err := h.repo.Delete(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			errorJSON(c, http.StatusNotFound, "NOT_FOUND", "Product not found")
			return
		}
		h.logger.WithError(err).WithField("slug", slug).Error("Failed to delete product")
		errorJSON(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete product")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"slug":           slug,
		"ordersDeleted":  result.OrdersDeleted,
		"imagesDetached": result.ImagesDetached,
	}).Info("Product deleted")

	if h.eventsPublisher != nil && product != nil {
		_ = h.eventsPublisher.PublishProductDeleted(c.Request.Context(), product, actorFrom(c))
	}

	message := "Product deleted successfully"
	c.JSON(http.StatusOK, models.DeleteProductResponse{
		Success: true,
		Data:    *result,
		Message: &message,
	})
}
