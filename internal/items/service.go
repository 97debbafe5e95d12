package item

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/internal/basket"
	category "github.com/khalidshboul/smart-basket-admin/internal/categories"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	dbtypes "github.com/khalidshboul/smart-basket-admin/pkg/db/types"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Service exposes reference item management and barcode lookups.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context) ([]ItemDTO, error)
	Search(ctx context.Context, query string) ([]ItemDTO, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID, includeSubcategories bool) ([]ItemDTO, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	LookupByBarcode(ctx context.Context, barcode string) (*BarcodeLookupDTO, error)
}

// CreateItemInput holds the validated payload to create a reference item.
type CreateItemInput struct {
	Name                 string      `json:"name" validate:"required,min=1,max=255"`
	NameAr               *string     `json:"name_ar" validate:"omitempty,max=255"`
	CategoryID           uuid.UUID   `json:"category_id" validate:"required"`
	Description          *string     `json:"description"`
	DescriptionAr        *string     `json:"description_ar"`
	Images               []string    `json:"images" validate:"omitempty,dive,url"`
	Barcode              *string     `json:"barcode" validate:"omitempty,min=4,max=64"`
	AvailableInAllStores *bool       `json:"available_in_all_stores"`
	SpecificStoreIDs     []uuid.UUID `json:"specific_store_ids"`
	Active               *bool       `json:"active"`
}

// UpdateItemInput holds optional mutation values for a reference item.
type UpdateItemInput struct {
	Name                 *string      `json:"name" validate:"omitempty,min=1,max=255"`
	NameAr               *string      `json:"name_ar" validate:"omitempty,max=255"`
	CategoryID           *uuid.UUID   `json:"category_id"`
	Description          *string      `json:"description"`
	DescriptionAr        *string      `json:"description_ar"`
	Images               *[]string    `json:"images" validate:"omitempty,dive,url"`
	Barcode              *string      `json:"barcode" validate:"omitempty,min=4,max=64"`
	AvailableInAllStores *bool        `json:"available_in_all_stores"`
	SpecificStoreIDs     *[]uuid.UUID `json:"specific_store_ids"`
	Active               *bool        `json:"active"`
}

type repository interface {
	Create(ctx context.Context, item *models.ReferenceItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.ReferenceItem, error)
	Update(ctx context.Context, item *models.ReferenceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.ReferenceItem, error)
	Search(ctx context.Context, query string) ([]models.ReferenceItem, error)
	ListByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) ([]models.ReferenceItem, error)
	ListListingsWithStores(ctx context.Context, itemID uuid.UUID) ([]ListingWithStore, error)
	CountListings(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	categories  categoryReader
	invalidator catalogInvalidator
}

// NewService constructs an item service. The invalidator may be nil.
func NewService(repo repository, categories categoryReader, invalidator catalogInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, categories: categories, invalidator: invalidator}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if input.Barcode != nil {
		if err := s.ensureBarcodeFree(ctx, *input.Barcode, uuid.Nil); err != nil {
			return nil, err
		}
	}

	item := models.ReferenceItem{
		Name:                 input.Name,
		NameAr:               input.NameAr,
		CategoryID:           input.CategoryID,
		Description:          input.Description,
		DescriptionAr:        input.DescriptionAr,
		Images:               input.Images,
		Barcode:              input.Barcode,
		AvailableInAllStores: true,
		SpecificStoreIDs:     dbtypes.UUIDArray(input.SpecificStoreIDs),
		Active:               true,
	}
	if input.AvailableInAllStores != nil {
		item.AvailableInAllStores = *input.AvailableInAllStores
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
	if !item.AvailableInAllStores && len(item.SpecificStoreIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation,
			"specific_store_ids required when available_in_all_stores is false")
	}

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.toDTO(ctx, item)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = *input.CategoryID
	}
	if input.Barcode != nil {
		if err := s.ensureBarcodeFree(ctx, *input.Barcode, id); err != nil {
			return nil, err
		}
		item.Barcode = input.Barcode
	}
	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.NameAr != nil {
		item.NameAr = input.NameAr
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.DescriptionAr != nil {
		item.DescriptionAr = input.DescriptionAr
	}
	if input.Images != nil {
		item.Images = *input.Images
	}
	if input.AvailableInAllStores != nil {
		item.AvailableInAllStores = *input.AvailableInAllStores
	}
	if input.SpecificStoreIDs != nil {
		item.SpecificStoreIDs = dbtypes.UUIDArray(*input.SpecificStoreIDs)
	}
	if input.Active != nil {
		item.Active = *input.Active
	}
	if !item.AvailableInAllStores && len(item.SpecificStoreIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation,
			"specific_store_ids required when available_in_all_stores is false")
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.toDTO(ctx, *item)
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
		return apperrors.New(apperrors.CodeConflict, "item is still listed in stores")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, *item)
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, items)
}

func (s *service) Search(ctx context.Context, query string) ([]ItemDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx)
	}

	items, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, items)
}

// ListByCategory returns the items of one category, optionally including
// every descendant category.
func (s *service) ListByCategory(ctx context.Context, categoryID uuid.UUID, includeSubcategories bool) ([]ItemDTO, error) {
	if err := s.ensureCategoryExists(ctx, categoryID); err != nil {
		return nil, err
	}

	categoryIDs := []uuid.UUID{categoryID}
	if includeSubcategories {
		all, err := s.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		categoryIDs = category.SubtreeIDs(all, categoryID)
	}

	items, err := s.repo.ListByCategoryIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(ctx, items)
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Active = !item.Active
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.toDTO(ctx, *item)
}

// LookupByBarcode resolves a scanned barcode to the item and its current
// price across active stores, cheapest first.
func (s *service) LookupByBarcode(ctx context.Context, barcode string) (*BarcodeLookupDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "barcode is required")
	}

	item, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	itemDTO, err := s.toDTO(ctx, *item)
	if err != nil {
		return nil, err
	}

	listings, err := s.repo.ListListingsWithStores(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	lookup := &BarcodeLookupDTO{
		Item:        *itemDTO,
		StorePrices: make([]StorePriceEntryDTO, 0, len(listings)),
	}

	for _, entry := range listings {
		effective := basket.EffectivePrice(basket.Listing{
			OriginalPrice: entry.Listing.OriginalPrice,
			DiscountPrice: entry.Listing.DiscountPrice,
		})
		lookup.StorePrices = append(lookup.StorePrices, StorePriceEntryDTO{
			StoreID:         entry.Listing.StoreID,
			StoreName:       entry.StoreName,
			OriginalPrice:   entry.Listing.OriginalPrice,
			DiscountPrice:   entry.Listing.DiscountPrice,
			EffectivePrice:  effective,
			Currency:        entry.Listing.Currency,
			IsPromotion:     entry.Listing.IsPromotion,
			LastPriceUpdate: entry.Listing.LastPriceUpdate,
		})

		if effective == nil {
			continue
		}
		if lookup.LowestPrice == nil || *effective < *lookup.LowestPrice {
			lookup.LowestPrice = effective
			name := entry.StoreName
			lookup.CheapestStoreName = &name
		}
	}
	lookup.StoreCount = len(lookup.StorePrices)

	return lookup, nil
}

func (s *service) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
			return apperrors.New(apperrors.CodeValidation, "category_id does not exist")
		}
		return err
	}
	return nil
}

func (s *service) ensureBarcodeFree(ctx context.Context, barcode string, selfID uuid.UUID) error {
	existing, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.New(apperrors.CodeConflict, "barcode already assigned to another item")
	}
	return nil
}

func (s *service) toDTO(ctx context.Context, item models.ReferenceItem) (*ItemDTO, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	dto := newItemDTOWithCategory(item, categories)
	return &dto, nil
}

func (s *service) toDTOs(ctx context.Context, items []models.ReferenceItem) ([]ItemDTO, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, newItemDTOWithCategory(item, categories))
	}
	return dtos, nil
}

func newItemDTOWithCategory(item models.ReferenceItem, categories []models.Category) ItemDTO {
	dto := NewItemDTO(item)
	for _, candidate := range categories {
		if candidate.ID == item.CategoryID {
			dto.CategoryName = candidate.Name
			break
		}
	}
	return dto
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
}
