package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/models"
	"storefront-service/internal/repository"
)

func setupProductsRouter(store ProductStore, publisher EventPublisher) *gin.Engine {
	logger, _ := test.NewNullLogger()
	h := NewProductsHandler(store, publisher, logger)

	router := gin.New()
	products := router.Group("/products")
	products.GET("", h.GetProducts)
	products.GET("/newArrivals", h.GetNewArrivals)
	products.GET("/topRated", h.GetTopRated)
	products.GET("/export", h.ExportProducts)
	products.GET("/:slug", h.GetProduct)
	products.POST("", h.CreateProduct)
	products.PUT("/:slug", h.UpdateProduct)
	products.DELETE("/:slug", h.DeleteProduct)
	return router
}

func doJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.Error {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error
}

func sampleProduct(slug string) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      "Linen Shirt",
		Price:     decimal.RequireFromString("49.90"),
		Stock:     3,
		Status:    models.ProductStatusActive,
		Colors:    []string{"red", "blue"},
		Images:    []models.Image{{URL: "/uploads/a.jpg"}, {URL: "/uploads/b.jpg"}},
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpdateProduct_ClampsNegativeStock(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	store.On("Update", mock.Anything, "linen-shirt", mock.MatchedBy(func(u models.ProductUpdate) bool {
		return u.Stock != nil && *u.Stock == 0
	})).Return(sampleProduct("linen-shirt"), nil).Once()

	w := doJSON(router, http.MethodPut, "/products/linen-shirt", `{"stock": -5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestUpdateProduct_UnparseableStockIsZero(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	store.On("Update", mock.Anything, "linen-shirt", mock.MatchedBy(func(u models.ProductUpdate) bool {
		return u.Stock != nil && *u.Stock == 0
	})).Return(sampleProduct("linen-shirt"), nil).Once()

	w := doJSON(router, http.MethodPut, "/products/linen-shirt", `{"stock": "lots"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestUpdateProduct_OnlySentFieldsChange(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	var got models.ProductUpdate
	store.On("Update", mock.Anything, "linen-shirt", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(models.ProductUpdate) }).
		Return(sampleProduct("summer-dress"), nil).Once()

	w := doJSON(router, http.MethodPut, "/products/linen-shirt", `{"slug": "summer  dress", "discount": "12.345", "images": ["/uploads/a.jpg", ""]}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, got.Slug)
	assert.Equal(t, "summer-dress", *got.Slug)
	require.NotNil(t, got.Discount)
	assert.Equal(t, "12.35", got.Discount.Decimal.StringFixed(2))
	assert.Equal(t, []string{"/uploads/a.jpg"}, got.Images)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.Stock)
	assert.Nil(t, got.Colors)
}

func TestUpdateProduct_NullClearsDiscountAndZeroesStock(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	var got models.ProductUpdate
	store.On("Update", mock.Anything, "linen-shirt", mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(models.ProductUpdate) }).
		Return(sampleProduct("linen-shirt"), nil).Once()

	w := doJSON(router, http.MethodPut, "/products/linen-shirt", `{"stock": null, "discount": null}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, got.Discount)
	assert.False(t, got.Discount.Valid)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 0, *got.Stock)
	assert.Equal(t, []string{"stock", "discount"}, got.ChangedFields())
}

func TestUpdateProductRequest_UnsetFlexFieldsAreOmitted(t *testing.T) {
	body, err := json.Marshal(models.UpdateProductRequest{Discount: models.FlexNull()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"discount": null, "colors": null, "sizes": null, "images": null}`, string(body))
}

func TestUpdateProduct_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		storeErr   error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "not found", body: `{"name":"x"}`, storeErr: repository.ErrProductNotFound, wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "slug taken", body: `{"slug":"taken"}`, storeErr: repository.ErrSlugTaken, wantStatus: http.StatusConflict, wantCode: "SLUG_TAKEN"},
		{name: "store failure", body: `{"name":"x"}`, storeErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantCode: "UPDATE_FAILED"},
		{name: "bad discount", body: `{"discount":"-3"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "discount"},
		{name: "bad slug", body: `{"slug":"a/b"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "slug"},
		{name: "bad status", body: `{"status":"archived"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "status"},
		{name: "malformed body", body: `{"name":`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockProductStore)
			router := setupProductsRouter(store, nil)
			if tt.storeErr != nil {
				store.On("Update", mock.Anything, "linen-shirt", mock.Anything).Return(nil, tt.storeErr).Once()
			}

			w := doJSON(router, http.MethodPut, "/products/linen-shirt", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantField, apiErr.Field)
			if tt.storeErr == nil {
				store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestUpdateProduct_PublishesChangedFields(t *testing.T) {
	store := new(MockProductStore)
	publisher := new(MockEventPublisher)
	router := setupProductsRouter(store, publisher)

	old := sampleProduct("linen-shirt")
	updated := sampleProduct("linen-shirt")
	updated.Stock = 7

	store.On("GetBySlug", mock.Anything, "linen-shirt").Return(old, nil).Once()
	store.On("Update", mock.Anything, "linen-shirt", mock.Anything).Return(updated, nil).Once()
	publisher.On("PublishProductUpdated", mock.Anything, updated, old, []string{"stock"}, mock.Anything).Return(nil).Once()

	w := doJSON(router, http.MethodPut, "/products/linen-shirt", `{"stock":"7"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	publisher.AssertExpectations(t)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)
	store.On("GetBySlug", mock.Anything, "missing").Return(nil, repository.ErrProductNotFound).Once()

	w := doJSON(router, http.MethodGet, "/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
}

func TestListViews(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	store.On("ListNewArrivals", mock.Anything, models.NewArrivalsLimit).Return([]models.Product{*sampleProduct("a")}, nil).Once()
	store.On("ListTopRated", mock.Anything).Return([]models.Product{*sampleProduct("b"), *sampleProduct("c")}, nil).Once()
	store.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

	w := doJSON(router, http.MethodGet, "/products/newArrivals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)

	w = doJSON(router, http.MethodGet, "/products/topRated", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	w = doJSON(router, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "FETCH_FAILED", decodeError(t, w).Code)
}

func TestCreateProduct(t *testing.T) {
	store := new(MockProductStore)
	publisher := new(MockEventPublisher)
	router := setupProductsRouter(store, publisher)

	store.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Wool Scarf" && p.Stock == 0 && p.Price.Equal(decimal.RequireFromString("19.99")) &&
			len(p.Images) == 1 && p.Status == models.ProductStatusActive
	})).Return(nil).Once()
	publisher.On("PublishProductCreated", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	w := doJSON(router, http.MethodPost, "/products", `{"name":"Wool Scarf","price":"19.99","stock":"-2","images":["/uploads/s.jpg"]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)

	store.On("Create", mock.Anything, mock.Anything).Return(repository.ErrSlugTaken).Once()
	w = doJSON(router, http.MethodPost, "/products", `{"name":"Wool Scarf","slug":"wool-scarf","price":1}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodPost, "/products", `{"name":"  ","price":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name", decodeError(t, w).Field)
}

func TestDeleteProduct(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	store.On("Delete", mock.Anything, "linen-shirt").
		Return(&models.DeleteResult{ProductsDeleted: 1, OrdersDeleted: 3, ImagesDetached: 2}, nil).Once()
	store.On("Delete", mock.Anything, "missing").Return(nil, repository.ErrProductNotFound).Once()

	w := doJSON(router, http.MethodDelete, "/products/linen-shirt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.DeleteProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.ProductsDeleted)
	assert.Equal(t, 3, resp.Data.OrdersDeleted)

	w = doJSON(router, http.MethodDelete, "/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportProducts_CSV(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)

	p := sampleProduct("linen-shirt")
	p.Discount = decimal.NewNullDecimal(decimal.RequireFromString("5"))
	store.On("List", mock.Anything).Return([]models.Product{*p}, nil).Once()

	w := doJSON(router, http.MethodGet, "/products/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "slug", rows[0][0])
	assert.Equal(t, []string{
		"linen-shirt", "Linen Shirt", "49.90", "5.00", "3", "active", "false", "",
		"red,blue", "", "/uploads/a.jpg,/uploads/b.jpg", "2024-05-01T12:00:00Z",
	}, rows[1])
}

func TestExportProducts_XLSXAndBadFormat(t *testing.T) {
	store := new(MockProductStore)
	router := setupProductsRouter(store, nil)
	store.On("List", mock.Anything).Return([]models.Product{*sampleProduct("a")}, nil).Once()

	w := doJSON(router, http.MethodGet, "/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = doJSON(router, http.MethodGet, "/products/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeError(t, w).Code)
}
