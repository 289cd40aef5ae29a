package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

type mockCatalogAPI struct {
	mock.Mock
}

func (m *mockCatalogAPI) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockCatalogAPI) ListNewArrivals(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockCatalogAPI) ListTopRated(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockCatalogAPI) UpdateProduct(ctx context.Context, slug string, req models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, slug, req)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *mockCatalogAPI) DeleteProduct(ctx context.Context, slug string) (*models.DeleteResult, error) {
	args := m.Called(ctx, slug)
	result, _ := args.Get(0).(*models.DeleteResult)
	return result, args.Error(1)
}

func (m *mockCatalogAPI) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockCatalogAPI) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	args := m.Called(ctx, categoryID)
	subs, _ := args.Get(0).([]models.Subcategory)
	return subs, args.Error(1)
}

func (m *mockCatalogAPI) ListColors(ctx context.Context) ([]models.Color, error) {
	args := m.Called(ctx)
	colors, _ := args.Get(0).([]models.Color)
	return colors, args.Error(1)
}

func (m *mockCatalogAPI) ListSizes(ctx context.Context) ([]models.Size, error) {
	args := m.Called(ctx)
	sizes, _ := args.Get(0).([]models.Size)
	return sizes, args.Error(1)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Attach(ctx context.Context, file clients.File, kind string) (string, error) {
	args := m.Called(ctx, file, kind)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) TryAttach(ctx context.Context, file clients.File, kind string) string {
	args := m.Called(ctx, file, kind)
	return args.String(0)
}

func (m *mockUploader) AttachAll(ctx context.Context, files []clients.File, kind string) ([]string, error) {
	args := m.Called(ctx, files, kind)
	refs, _ := args.Get(0).([]string)
	return refs, args.Error(1)
}
