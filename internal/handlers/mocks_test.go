package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"storefront-service/internal/events"
	"storefront-service/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockProductStore is a mock implementation of ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) List(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) ListNewArrivals(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) ListTopRated(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductStore) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductStore) Update(ctx context.Context, slug string, u models.ProductUpdate) (*models.Product, error) {
	args := m.Called(ctx, slug, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductStore) Delete(ctx context.Context, slug string) (*models.DeleteResult, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeleteResult), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductCreated(ctx context.Context, product *models.Product, actor events.Actor) error {
	return m.Called(ctx, product, actor).Error(0)
}

func (m *MockEventPublisher) PublishProductUpdated(ctx context.Context, product, oldProduct *models.Product, changedFields []string, actor events.Actor) error {
	return m.Called(ctx, product, oldProduct, changedFields, actor).Error(0)
}

func (m *MockEventPublisher) PublishProductDeleted(ctx context.Context, product *models.Product, actor events.Actor) error {
	return m.Called(ctx, product, actor).Error(0)
}

// MockProfileStore is a mock implementation of ProfileStore
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyProfile), args.Error(1)
}

func (m *MockProfileStore) CreateCompany(ctx context.Context, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyProfile), args.Error(1)
}

func (m *MockProfileStore) UpdateCompany(ctx context.Context, id uuid.UUID, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompanyProfile), args.Error(1)
}

func (m *MockProfileStore) GetContact(ctx context.Context) (*models.ContactInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactInfo), args.Error(1)
}

func (m *MockProfileStore) CreateContact(ctx context.Context, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactInfo), args.Error(1)
}

func (m *MockProfileStore) UpdateContact(ctx context.Context, id uuid.UUID, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactInfo), args.Error(1)
}

func (m *MockProfileStore) GetSocialLinks(ctx context.Context) (*models.SocialLinks, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialLinks), args.Error(1)
}

func (m *MockProfileStore) SaveSocialLinks(ctx context.Context, req models.SocialLinksRequest) (*models.SocialLinks, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SocialLinks), args.Error(1)
}
