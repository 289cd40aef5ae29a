package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

// fakeProfileServer records every company details call and answers like the API
type fakeProfileServer struct {
	mu    sync.Mutex
	calls []string
	id    uuid.UUID
	last  models.CompanyProfileRequest
}

func (f *fakeProfileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		if f.id == uuid.Nil {
			_, _ = w.Write([]byte(`{"success":true,"data":null}`))
			return
		}
		writeData(w, http.StatusOK, models.CompanyProfile{ID: f.id, Name: f.last.Name, HeaderImage: f.last.HeaderImage})
	case http.MethodPost:
		_ = json.NewDecoder(r.Body).Decode(&f.last)
		f.id = uuid.New()
		writeData(w, http.StatusCreated, models.CompanyProfile{ID: f.id, Name: f.last.Name})
	case http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&f.last)
		writeData(w, http.StatusOK, models.CompanyProfile{ID: f.id, Name: f.last.Name})
	}
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

func TestProfileStore_FirstSaveCreatesThenUpdates(t *testing.T) {
	fake := &fakeProfileServer{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := NewProfileStore[models.CompanyProfileRequest](CompanyProfileAPI{Client: clients.NewStorefrontClient(srv.URL)})
	ctx := context.Background()

	p, err := store.Load(ctx)
	require.NoError(t, err)
	_, persisted := p.ID()
	assert.False(t, persisted)

	p.Value.Name = "Acme Apparel"
	p, err = store.Save(ctx, p)
	require.NoError(t, err)
	id, persisted := p.ID()
	require.True(t, persisted)
	assert.Equal(t, fake.id, id)

	p.Value.Name = "Acme Apparel Co."
	p, err = store.Save(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /companyDetails",
		"POST /companyDetails",
		"PUT /companyDetails/" + id.String(),
	}, fake.calls)
	assert.Equal(t, "Acme Apparel Co.", fake.last.Name)
}

func TestProfileStore_LoadPersisted(t *testing.T) {
	fake := &fakeProfileServer{id: uuid.New(), last: models.CompanyProfileRequest{Name: "Existing"}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := NewProfileStore[models.CompanyProfileRequest](CompanyProfileAPI{Client: clients.NewStorefrontClient(srv.URL)})
	p, err := store.Load(context.Background())
	require.NoError(t, err)

	id, persisted := p.ID()
	assert.True(t, persisted)
	assert.Equal(t, fake.id, id)
	assert.Equal(t, "Existing", p.Value.Name)
}

func TestProfileStore_FailedCreateStaysUnsaved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"ALREADY_EXISTS","message":"company profile already exists"}}`))
	}))
	defer srv.Close()

	store := NewProfileStore[models.CompanyProfileRequest](CompanyProfileAPI{Client: clients.NewStorefrontClient(srv.URL)})
	p, err := store.Save(context.Background(), Unsaved(models.CompanyProfileRequest{Name: "Acme"}))

	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
	_, persisted := p.ID()
	assert.False(t, persisted)
}

func TestCompanyEditor_FailedUploadKeepsPreviousImage(t *testing.T) {
	fake := &fakeProfileServer{id: uuid.New()}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	uploader := &mockUploader{}
	header := clients.File{Name: "header.png"}
	favicon := clients.File{Name: "favicon.ico"}
	uploader.On("TryAttach", mock.Anything, header, "header").Return("").Once()
	uploader.On("TryAttach", mock.Anything, favicon, "favicon").Return("/uploads/favicon.ico").Once()

	store := NewProfileStore[models.CompanyProfileRequest](CompanyProfileAPI{Client: clients.NewStorefrontClient(srv.URL)})
	editor := NewCompanyEditor(store, uploader)

	current := Persisted(fake.id, models.CompanyProfileRequest{
		Name:        "Acme",
		HeaderImage: "/uploads/old-header.png",
		FavIcon:     "/uploads/old-favicon.ico",
	})
	saved, err := editor.Save(context.Background(), current, &header, &favicon)
	require.NoError(t, err)

	assert.Equal(t, "/uploads/old-header.png", saved.Value.HeaderImage)
	assert.Equal(t, "/uploads/favicon.ico", saved.Value.FavIcon)
	assert.Equal(t, "/uploads/old-header.png", fake.last.HeaderImage)
	uploader.AssertExpectations(t)
}

func TestContactInfoAPI_UpdateUsesID(t *testing.T) {
	id := uuid.New()
	var gotPath string
	var got models.ContactInfoRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeData(w, http.StatusOK, models.ContactInfo{ID: id, Email: got.Email})
	}))
	defer srv.Close()

	store := NewProfileStore[models.ContactInfoRequest](ContactInfoAPI{Client: clients.NewStorefrontClient(srv.URL)})
	_, err := store.Save(context.Background(), Persisted(id, models.ContactInfoRequest{Email: "hello@acme.test"}))
	require.NoError(t, err)
	assert.Equal(t, "PUT /contactInfo/"+id.String(), gotPath)
	assert.Equal(t, "hello@acme.test", got.Email)
}
