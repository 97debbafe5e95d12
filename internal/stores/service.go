package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Service exposes store management.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	List(ctx context.Context) ([]StoreDTO, error)
	ListActive(ctx context.Context) ([]StoreDTO, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
}

// CreateStoreInput holds the validated payload to create a store.
type CreateStoreInput struct {
	Name       string  `json:"name" validate:"required,min=1,max=255"`
	NameAr     *string `json:"name_ar" validate:"omitempty,max=255"`
	Location   *string `json:"location" validate:"omitempty,max=500"`
	LocationAr *string `json:"location_ar" validate:"omitempty,max=500"`
	LogoURL    *string `json:"logo_url" validate:"omitempty,url,max=2048"`
	Active     *bool   `json:"active"`
}

// UpdateStoreInput holds optional mutation values for a store.
type UpdateStoreInput struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	NameAr     *string `json:"name_ar" validate:"omitempty,max=255"`
	Location   *string `json:"location" validate:"omitempty,max=500"`
	LocationAr *string `json:"location_ar" validate:"omitempty,max=500"`
	LogoURL    *string `json:"logo_url" validate:"omitempty,url,max=2048"`
	Active     *bool   `json:"active"`
}

type repository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Store, error)
	ListActive(ctx context.Context) ([]models.Store, error)
	CountListings(ctx context.Context, storeID uuid.UUID) (int64, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	invalidator catalogInvalidator
}

// NewService constructs a store service. The invalidator may be nil.
func NewService(repo repository, invalidator catalogInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, invalidator: invalidator}, nil
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*StoreDTO, error) {
	store := models.Store{
		Name:       input.Name,
		NameAr:     input.NameAr,
		Location:   input.Location,
		LocationAr: input.LocationAr,
		LogoURL:    input.LogoURL,
		Active:     true,
	}
	if input.Active != nil {
		store.Active = *input.Active
	}

	if err := s.repo.Create(ctx, &store); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	dto := NewStoreDTO(store)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.NameAr != nil {
		store.NameAr = input.NameAr
	}
	if input.Location != nil {
		store.Location = input.Location
	}
	if input.LocationAr != nil {
		store.LocationAr = input.LocationAr
	}
	if input.LogoURL != nil {
		store.LogoURL = input.LogoURL
	}
	if input.Active != nil {
		store.Active = *input.Active
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	dto := NewStoreDTO(*store)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	listingCount, err := s.repo.CountListings(ctx, id)
	if err != nil {
		return err
	}
	if listingCount > 0 {
		return apperrors.New(apperrors.CodeConflict, "store still has listed items")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewStoreDTO(*store)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]StoreDTO, error) {
	stores, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newStoreDTOs(stores), nil
}

func (s *service) ListActive(ctx context.Context) ([]StoreDTO, error) {
	stores, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return newStoreDTOs(stores), nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	store.Active = !store.Active
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	dto := NewStoreDTO(*store)
	return &dto, nil
}

func newStoreDTOs(stores []models.Store) []StoreDTO {
	dtos := make([]StoreDTO, 0, len(stores))
	for _, store := range stores {
		dtos = append(dtos, NewStoreDTO(store))
	}
	return dtos
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
}
