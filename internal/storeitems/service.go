package storeitem

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/internal/basket"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Service exposes store listing management.
type Service interface {
	Create(ctx context.Context, input CreateStoreItemInput) (*StoreItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateStoreItemInput) (*StoreItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*StoreItemDTO, error)
	List(ctx context.Context) ([]StoreItemDTO, error)
	ListByReference(ctx context.Context, referenceItemID uuid.UUID) ([]StoreItemDTO, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]StoreItemDTO, error)
}

// CreateStoreItemInput holds the validated payload to list an item in a
// store. Name defaults to the reference item's name when omitted.
type CreateStoreItemInput struct {
	StoreID         uuid.UUID `json:"store_id" validate:"required"`
	ReferenceItemID uuid.UUID `json:"reference_item_id" validate:"required"`
	Name            *string   `json:"name" validate:"omitempty,min=1,max=255"`
	NameAr          *string   `json:"name_ar" validate:"omitempty,max=255"`
	Brand           *string   `json:"brand" validate:"omitempty,max=255"`
	Barcode         *string   `json:"barcode" validate:"omitempty,min=4,max=64"`
	Images          []string  `json:"images" validate:"omitempty,dive,url"`
	OriginalPrice   *float64  `json:"original_price" validate:"omitempty,gt=0"`
	DiscountPrice   *float64  `json:"discount_price" validate:"omitempty,gt=0"`
	Currency        *string   `json:"currency" validate:"omitempty,len=3"`
	IsPromotion     *bool     `json:"is_promotion"`
}

// UpdateStoreItemInput holds optional mutation values for a listing.
type UpdateStoreItemInput struct {
	Name          *string   `json:"name" validate:"omitempty,min=1,max=255"`
	NameAr        *string   `json:"name_ar" validate:"omitempty,max=255"`
	Brand         *string   `json:"brand" validate:"omitempty,max=255"`
	Barcode       *string   `json:"barcode" validate:"omitempty,min=4,max=64"`
	Images        *[]string `json:"images" validate:"omitempty,dive,url"`
	OriginalPrice *float64  `json:"original_price" validate:"omitempty,gt=0"`
	DiscountPrice *float64  `json:"discount_price" validate:"omitempty,gt=0"`
	Currency      *string   `json:"currency" validate:"omitempty,len=3"`
	IsPromotion   *bool     `json:"is_promotion"`
}

type repository interface {
	Create(ctx context.Context, listing *models.StoreItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*Row, error)
	Update(ctx context.Context, listing *models.StoreItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Row, error)
	ListByReference(ctx context.Context, referenceItemID uuid.UUID) ([]Row, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]Row, error)
	RecordPrice(ctx context.Context, point *models.StorePrice) error
}

type storeReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	stores      storeReader
	items       itemReader
	invalidator catalogInvalidator
	now         func() time.Time
}

// NewService constructs a store item service. The invalidator may be nil.
func NewService(repo repository, stores storeReader, items itemReader, invalidator catalogInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store item repository required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{
		repo:        repo,
		stores:      stores,
		items:       items,
		invalidator: invalidator,
		now:         time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateStoreItemInput) (*StoreItemDTO, error) {
	if _, err := s.stores.FindByID(ctx, input.StoreID); err != nil {
		return nil, asReferenceError(err, "store_id does not exist")
	}
	item, err := s.items.FindByID(ctx, input.ReferenceItemID)
	if err != nil {
		return nil, asReferenceError(err, "reference_item_id does not exist")
	}
	if err := validatePricePair(input.OriginalPrice, input.DiscountPrice); err != nil {
		return nil, err
	}

	listing := models.StoreItem{
		StoreID:         input.StoreID,
		ReferenceItemID: input.ReferenceItemID,
		Name:            item.Name,
		NameAr:          input.NameAr,
		Brand:           input.Brand,
		Barcode:         input.Barcode,
		Images:          input.Images,
		OriginalPrice:   input.OriginalPrice,
		DiscountPrice:   input.DiscountPrice,
		Currency:        "JOD",
	}
	if input.Name != nil {
		listing.Name = *input.Name
	}
	if input.Currency != nil {
		listing.Currency = *input.Currency
	}
	if input.IsPromotion != nil {
		listing.IsPromotion = *input.IsPromotion
	}
	if effective := effectiveOf(&listing); effective != nil {
		now := s.now()
		listing.LastPriceUpdate = &now
	}

	if err := s.repo.Create(ctx, &listing); err != nil {
		return nil, err
	}
	if err := s.recordIfPriced(ctx, &listing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.Get(ctx, listing.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateStoreItemInput) (*StoreItemDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	listing := row.Listing

	priceBefore := effectiveOf(&listing)

	if input.Name != nil {
		listing.Name = *input.Name
	}
	if input.NameAr != nil {
		listing.NameAr = input.NameAr
	}
	if input.Brand != nil {
		listing.Brand = input.Brand
	}
	if input.Barcode != nil {
		listing.Barcode = input.Barcode
	}
	if input.Images != nil {
		listing.Images = *input.Images
	}
	if input.OriginalPrice != nil {
		listing.OriginalPrice = input.OriginalPrice
	}
	if input.DiscountPrice != nil {
		listing.DiscountPrice = input.DiscountPrice
	}
	if input.Currency != nil {
		listing.Currency = *input.Currency
	}
	if input.IsPromotion != nil {
		listing.IsPromotion = *input.IsPromotion
	}
	if err := validatePricePair(listing.OriginalPrice, listing.DiscountPrice); err != nil {
		return nil, err
	}

	priceAfter := effectiveOf(&listing)
	priceChanged := !floatPtrEqual(priceBefore, priceAfter)
	if priceChanged {
		now := s.now()
		listing.LastPriceUpdate = &now
	}

	if err := s.repo.Update(ctx, &listing); err != nil {
		return nil, err
	}
	if priceChanged {
		if err := s.recordIfPriced(ctx, &listing); err != nil {
			return nil, err
		}
	}
	s.invalidate(ctx)

	return s.Get(ctx, listing.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*StoreItemDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewStoreItemDTO(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]StoreItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newStoreItemDTOs(rows), nil
}

func (s *service) ListByReference(ctx context.Context, referenceItemID uuid.UUID) ([]StoreItemDTO, error) {
	if _, err := s.items.FindByID(ctx, referenceItemID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByReference(ctx, referenceItemID)
	if err != nil {
		return nil, err
	}
	return newStoreItemDTOs(rows), nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]StoreItemDTO, error) {
	if _, err := s.stores.FindByID(ctx, storeID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return newStoreItemDTOs(rows), nil
}

// recordIfPriced appends a history row when the listing carries a usable
// price.
func (s *service) recordIfPriced(ctx context.Context, listing *models.StoreItem) error {
	effective := effectiveOf(listing)
	if effective == nil {
		return nil
	}
	return s.repo.RecordPrice(ctx, &models.StorePrice{
		StoreItemID:   listing.ID,
		Price:         *effective,
		OriginalPrice: listing.OriginalPrice,
		Currency:      listing.Currency,
		IsPromotion:   listing.IsPromotion,
	})
}

func validatePricePair(original, discount *float64) error {
	if original != nil && *original < 0 {
		return apperrors.New(apperrors.CodeValidation, "original_price cannot be negative")
	}
	if discount != nil && *discount < 0 {
		return apperrors.New(apperrors.CodeValidation, "discount_price cannot be negative")
	}
	if original != nil && discount != nil && *discount > 0 && *discount >= *original {
		return apperrors.New(apperrors.CodeValidation, "discount_price must be below original_price")
	}
	return nil
}

func effectiveOf(listing *models.StoreItem) *float64 {
	return basket.EffectivePrice(basket.Listing{
		OriginalPrice: listing.OriginalPrice,
		DiscountPrice: listing.DiscountPrice,
	})
}

func floatPtrEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func asReferenceError(err error, message string) error {
	if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
		return apperrors.New(apperrors.CodeValidation, message)
	}
	return err
}

func newStoreItemDTOs(rows []Row) []StoreItemDTO {
	dtos := make([]StoreItemDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, NewStoreItemDTO(row))
	}
	return dtos
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
}
