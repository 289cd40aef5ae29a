package admin

import (
	"context"

	"github.com/google/uuid"
	"storefront-service/internal/clients"
	"storefront-service/internal/models"
)

// Profile is a singleton record as the console sees it: either unsaved, in
// which case the next save creates it, or persisted under an id, in which
// case the next save updates that id.
type Profile[T any] struct {
	id        uuid.UUID
	persisted bool
	Value     T
}

func Unsaved[T any](value T) Profile[T] {
	return Profile[T]{Value: value}
}

func Persisted[T any](id uuid.UUID, value T) Profile[T] {
	return Profile[T]{id: id, persisted: true, Value: value}
}

// ID returns the record id and whether the profile has been persisted
func (p Profile[T]) ID() (uuid.UUID, bool) {
	return p.id, p.persisted
}

// ProfileAPI is the create-or-update-by-id endpoint pair behind one profile
type ProfileAPI[T any] interface {
	Fetch(ctx context.Context) (Profile[T], error)
	Create(ctx context.Context, value T) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, value T) error
}

// ProfileStore loads and saves one singleton profile
type ProfileStore[T any] struct {
	api ProfileAPI[T]
}

func NewProfileStore[T any](api ProfileAPI[T]) *ProfileStore[T] {
	return &ProfileStore[T]{api: api}
}

func (s *ProfileStore[T]) Load(ctx context.Context) (Profile[T], error) {
	return s.api.Fetch(ctx)
}

// Save creates an unsaved profile or updates a persisted one. A successful
// create returns the profile as persisted under the new id. Concurrent saves
// are not coordinated; the last write wins.
func (s *ProfileStore[T]) Save(ctx context.Context, p Profile[T]) (Profile[T], error) {
	if id, ok := p.ID(); ok {
		if err := s.api.Update(ctx, id, p.Value); err != nil {
			return p, err
		}
		return p, nil
	}
	id, err := s.api.Create(ctx, p.Value)
	if err != nil {
		return p, err
	}
	return Persisted(id, p.Value), nil
}

// CompanyProfileAPI binds the company details endpoints
type CompanyProfileAPI struct {
	Client *clients.StorefrontClient
}

func (a CompanyProfileAPI) Fetch(ctx context.Context) (Profile[models.CompanyProfileRequest], error) {
	record, err := a.Client.GetCompanyProfile(ctx)
	if err != nil {
		return Profile[models.CompanyProfileRequest]{}, err
	}
	if record == nil {
		return Unsaved(models.CompanyProfileRequest{}), nil
	}
	return Persisted(record.ID, models.CompanyProfileRequest{
		Name:        record.Name,
		Description: record.Description,
		HeaderImage: record.HeaderImage,
		FavIcon:     record.FavIcon,
	}), nil
}

func (a CompanyProfileAPI) Create(ctx context.Context, value models.CompanyProfileRequest) (uuid.UUID, error) {
	record, err := a.Client.CreateCompanyProfile(ctx, value)
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

func (a CompanyProfileAPI) Update(ctx context.Context, id uuid.UUID, value models.CompanyProfileRequest) error {
	_, err := a.Client.UpdateCompanyProfile(ctx, id, value)
	return err
}

// ContactInfoAPI binds the contact info endpoints
type ContactInfoAPI struct {
	Client *clients.StorefrontClient
}

func (a ContactInfoAPI) Fetch(ctx context.Context) (Profile[models.ContactInfoRequest], error) {
	record, err := a.Client.GetContactInfo(ctx)
	if err != nil {
		return Profile[models.ContactInfoRequest]{}, err
	}
	if record == nil {
		return Unsaved(models.ContactInfoRequest{}), nil
	}
	return Persisted(record.ID, models.ContactInfoRequest{
		PhoneNumber: record.PhoneNumber,
		Email:       record.Email,
		Address:     record.Address,
		Website:     record.Website,
		Owner:       record.Owner,
	}), nil
}

func (a ContactInfoAPI) Create(ctx context.Context, value models.ContactInfoRequest) (uuid.UUID, error) {
	record, err := a.Client.CreateContactInfo(ctx, value)
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}

func (a ContactInfoAPI) Update(ctx context.Context, id uuid.UUID, value models.ContactInfoRequest) error {
	_, err := a.Client.UpdateContactInfo(ctx, id, value)
	return err
}

// CompanyEditor saves company details together with optional new header and
// favicon images
type CompanyEditor struct {
	store    *ProfileStore[models.CompanyProfileRequest]
	uploader Uploader
}

func NewCompanyEditor(store *ProfileStore[models.CompanyProfileRequest], uploader Uploader) *CompanyEditor {
	return &CompanyEditor{store: store, uploader: uploader}
}

// Save uploads header and favicon when given. A failed upload keeps the
// profile's previous reference.
func (e *CompanyEditor) Save(ctx context.Context, p Profile[models.CompanyProfileRequest], header, favicon *clients.File) (Profile[models.CompanyProfileRequest], error) {
	if header != nil {
		if ref := e.uploader.TryAttach(ctx, *header, "header"); ref != "" {
			p.Value.HeaderImage = ref
		}
	}
	if favicon != nil {
		if ref := e.uploader.TryAttach(ctx, *favicon, "favicon"); ref != "" {
			p.Value.FavIcon = ref
		}
	}
	return e.store.Save(ctx, p)
}
