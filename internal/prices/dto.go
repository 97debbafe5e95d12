package price

import (
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// PricePointDTO is one recorded price in a listing's history.
type PricePointDTO struct {
	ID            uuid.UUID `json:"id"`
	StoreItemID   uuid.UUID `json:"store_item_id"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	Currency      string    `json:"currency"`
	IsPromotion   bool      `json:"is_promotion"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// HistoryPageDTO is one cursor page of a listing's price history, newest
// first.
type HistoryPageDTO struct {
	Points     []PricePointDTO `json:"points"`
	NextCursor *string         `json:"next_cursor"`
}

// PriceUpdateResultDTO is the outcome of one entry in a batch price update.
type PriceUpdateResultDTO struct {
	StoreItemID uuid.UUID `json:"store_item_id"`
	Success     bool      `json:"success"`
	Error       *string   `json:"error,omitempty"`
}

// BatchUpdateResultDTO summarizes a batch price update.
type BatchUpdateResultDTO struct {
	Results   []PriceUpdateResultDTO `json:"results"`
	Succeeded int                    `json:"succeeded"`
	Failed    int                    `json:"failed"`
}

func newPricePointDTO(point models.StorePrice) PricePointDTO {
	return PricePointDTO{
		ID:            point.ID,
		StoreItemID:   point.StoreItemID,
		Price:         point.Price,
		OriginalPrice: point.OriginalPrice,
		Currency:      point.Currency,
		IsPromotion:   point.IsPromotion,
		RecordedAt:    point.RecordedAt,
	}
}
