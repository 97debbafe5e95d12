package price

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/pagination"
)

// Service records price updates and serves price history.
type Service interface {
	UpdatePrice(ctx context.Context, input UpdatePriceInput) (*PricePointDTO, error)
	BatchUpdate(ctx context.Context, input BatchUpdateInput) (*BatchUpdateResultDTO, error)
	History(ctx context.Context, storeItemID uuid.UUID, params pagination.Params) (*HistoryPageDTO, error)
}

// UpdatePriceInput is one price observation for a listing. Price is what the
// shelf charges right now; OriginalPrice, when higher, marks a promotion.
type UpdatePriceInput struct {
	StoreItemID   uuid.UUID `json:"store_item_id" validate:"required"`
	Price         float64   `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64  `json:"original_price" validate:"omitempty,gt=0"`
	Currency      *string   `json:"currency" validate:"omitempty,len=3"`
	IsPromotion   *bool     `json:"is_promotion"`
}

// BatchUpdateInput carries multiple price observations applied
// independently: one bad entry never blocks the rest.
type BatchUpdateInput struct {
	Updates []UpdatePriceInput `json:"updates" validate:"required,min=1,dive"`
}

type repository interface {
	FindStoreItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error)
	ApplyPrice(ctx context.Context, listing *models.StoreItem, point *models.StorePrice) error
	ListHistory(ctx context.Context, storeItemID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StorePrice, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	invalidator catalogInvalidator
	now         func() time.Time
}

// NewService constructs a price service. The invalidator may be nil.
func NewService(repo repository, invalidator catalogInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("price repository required")
	}
	return &service{repo: repo, invalidator: invalidator, now: time.Now}, nil
}

// UpdatePrice normalizes the observed price to two decimals, mirrors it onto
// the listing and appends a history row.
func (s *service) UpdatePrice(ctx context.Context, input UpdatePriceInput) (*PricePointDTO, error) {
	listing, err := s.repo.FindStoreItem(ctx, input.StoreItemID)
	if err != nil {
		return nil, err
	}

	price := roundPrice(input.Price)
	if price <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "price must be positive")
	}

	var original *float64
	if input.OriginalPrice != nil {
		rounded := roundPrice(*input.OriginalPrice)
		if rounded <= 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "original_price must be positive")
		}
		if rounded < price {
			return nil, apperrors.New(apperrors.CodeValidation, "original_price cannot be below price")
		}
		original = &rounded
	}

	promotion := original != nil && *original > price
	if input.IsPromotion != nil {
		promotion = *input.IsPromotion
	}

	if promotion && original != nil {
		listing.OriginalPrice = original
		listing.DiscountPrice = &price
	} else {
		listing.OriginalPrice = &price
		listing.DiscountPrice = nil
	}
	if input.Currency != nil {
		listing.Currency = *input.Currency
	}
	listing.IsPromotion = promotion
	now := s.now()
	listing.LastPriceUpdate = &now

	point := models.StorePrice{
		StoreItemID:   listing.ID,
		Price:         price,
		OriginalPrice: original,
		Currency:      listing.Currency,
		IsPromotion:   promotion,
	}

	if err := s.repo.ApplyPrice(ctx, listing, &point); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	dto := newPricePointDTO(point)
	return &dto, nil
}

// BatchUpdate applies every entry independently and reports per-entry
// outcomes.
func (s *service) BatchUpdate(ctx context.Context, input BatchUpdateInput) (*BatchUpdateResultDTO, error) {
	result := &BatchUpdateResultDTO{
		Results: make([]PriceUpdateResultDTO, 0, len(input.Updates)),
	}

	for _, update := range input.Updates {
		entry := PriceUpdateResultDTO{StoreItemID: update.StoreItemID}
		if _, err := s.UpdatePrice(ctx, update); err != nil {
			message := publicMessage(err)
			entry.Error = &message
			result.Failed++
		} else {
			entry.Success = true
			result.Succeeded++
		}
		result.Results = append(result.Results, entry)
	}

	return result, nil
}

// History returns one cursor page of the listing's price history, newest
// first.
func (s *service) History(ctx context.Context, storeItemID uuid.UUID, params pagination.Params) (*HistoryPageDTO, error) {
	if _, err := s.repo.FindStoreItem(ctx, storeItemID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	points, err := s.repo.ListHistory(ctx, storeItemID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, err
	}

	page := &HistoryPageDTO{Points: make([]PricePointDTO, 0, limit)}
	if len(points) > limit {
		points = points[:limit]
		last := points[len(points)-1]
		next := pagination.EncodeCursor(pagination.Cursor{RecordedAt: last.RecordedAt, ID: last.ID})
		page.NextCursor = &next
	}
	for _, point := range points {
		page.Points = append(page.Points, newPricePointDTO(point))
	}

	return page, nil
}

func roundPrice(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}

func publicMessage(err error) string {
	if typed := apperrors.As(err); typed != nil {
		return typed.Message()
	}
	return "price update failed"
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
}
