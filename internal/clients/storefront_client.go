package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"storefront-service/internal/models"
)

// APIError is a non-2xx answer from the storefront API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storefront api %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("storefront api %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// StorefrontClient talks to the storefront-service REST API
type StorefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// NewStorefrontClient creates a client for the API rooted at baseURL
// (e.g. http://localhost:8087/api/v1). An empty baseURL falls back to
// STOREFRONT_API_URL.
func NewStorefrontClient(baseURL string) *StorefrontClient {
	if baseURL == "" {
		baseURL = os.Getenv("STOREFRONT_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8087/api/v1"
	}
	return &StorefrontClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// do sends body as JSON and returns the data field of the response envelope
func do[T any](ctx context.Context, c *StorefrontClient, method, path string, body interface{}) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return zero, decodeAPIError(resp.StatusCode, raw)
	}

	var result envelope[T]
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return result.Data, nil
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}
	var body models.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// Products

func (c *StorefrontClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return do[[]models.Product](ctx, c, http.MethodGet, "/products", nil)
}

func (c *StorefrontClient) ListNewArrivals(ctx context.Context) ([]models.Product, error) {
	return do[[]models.Product](ctx, c, http.MethodGet, "/products/newArrivals", nil)
}

func (c *StorefrontClient) ListTopRated(ctx context.Context) ([]models.Product, error) {
	return do[[]models.Product](ctx, c, http.MethodGet, "/products/topRated", nil)
}

func (c *StorefrontClient) GetProduct(ctx context.Context, slug string) (*models.Product, error) {
	return do[*models.Product](ctx, c, http.MethodGet, "/products/"+url.PathEscape(slug), nil)
}

func (c *StorefrontClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	return do[*models.Product](ctx, c, http.MethodPost, "/products", req)
}

func (c *StorefrontClient) UpdateProduct(ctx context.Context, slug string, req models.UpdateProductRequest) (*models.Product, error) {
	return do[*models.Product](ctx, c, http.MethodPut, "/products/"+url.PathEscape(slug), req)
}

func (c *StorefrontClient) DeleteProduct(ctx context.Context, slug string) (*models.DeleteResult, error) {
	result, err := do[models.DeleteResult](ctx, c, http.MethodDelete, "/products/"+url.PathEscape(slug), nil)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Company profile and contact info

func (c *StorefrontClient) GetCompanyProfile(ctx context.Context) (*models.CompanyProfile, error) {
	return do[*models.CompanyProfile](ctx, c, http.MethodGet, "/companyDetails", nil)
}

func (c *StorefrontClient) CreateCompanyProfile(ctx context.Context, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	return do[*models.CompanyProfile](ctx, c, http.MethodPost, "/companyDetails", req)
}

func (c *StorefrontClient) UpdateCompanyProfile(ctx context.Context, id uuid.UUID, req models.CompanyProfileRequest) (*models.CompanyProfile, error) {
	return do[*models.CompanyProfile](ctx, c, http.MethodPut, "/companyDetails/"+id.String(), req)
}

func (c *StorefrontClient) GetContactInfo(ctx context.Context) (*models.ContactInfo, error) {
	return do[*models.ContactInfo](ctx, c, http.MethodGet, "/contactInfo", nil)
}

func (c *StorefrontClient) CreateContactInfo(ctx context.Context, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	return do[*models.ContactInfo](ctx, c, http.MethodPost, "/contactInfo", req)
}

func (c *StorefrontClient) UpdateContactInfo(ctx context.Context, id uuid.UUID, req models.ContactInfoRequest) (*models.ContactInfo, error) {
	return do[*models.ContactInfo](ctx, c, http.MethodPut, "/contactInfo/"+id.String(), req)
}

func (c *StorefrontClient) GetSocialLinks(ctx context.Context) (*models.SocialLinks, error) {
	return do[*models.SocialLinks](ctx, c, http.MethodGet, "/socialLinks", nil)
}

func (c *StorefrontClient) SaveSocialLinks(ctx context.Context, req models.SocialLinksRequest) (*models.SocialLinks, error) {
	return do[*models.SocialLinks](ctx, c, http.MethodPut, "/socialLinks", req)
}

// Taxonomy

func (c *StorefrontClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	return do[[]models.Category](ctx, c, http.MethodGet, "/categories", nil)
}

// ListSubcategories returns every subcategory, or only those of categoryID when set
func (c *StorefrontClient) ListSubcategories(ctx context.Context, categoryID *uuid.UUID) ([]models.Subcategory, error) {
	path := "/subcategories"
	if categoryID != nil {
		path += "?categoryId=" + url.QueryEscape(categoryID.String())
	}
	return do[[]models.Subcategory](ctx, c, http.MethodGet, path, nil)
}

func (c *StorefrontClient) ListColors(ctx context.Context) ([]models.Color, error) {
	return do[[]models.Color](ctx, c, http.MethodGet, "/colors", nil)
}

func (c *StorefrontClient) ListSizes(ctx context.Context) ([]models.Size, error) {
	return do[[]models.Size](ctx, c, http.MethodGet, "/sizes", nil)
}
