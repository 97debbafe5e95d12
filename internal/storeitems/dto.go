package storeitem

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/khalidshboul/smart-basket-admin/internal/basket"
)

// StoreItemDTO is the store listing payload returned to clients.
type StoreItemDTO struct {
	ID                 uuid.UUID  `json:"id"`
	StoreID            uuid.UUID  `json:"store_id"`
	StoreName          string     `json:"store_name"`
	ReferenceItemID    uuid.UUID  `json:"reference_item_id"`
	ReferenceItemName  string     `json:"reference_item_name"`
	Name               string     `json:"name"`
	NameAr             *string    `json:"name_ar,omitempty"`
	Brand              *string    `json:"brand,omitempty"`
	Barcode            *string    `json:"barcode,omitempty"`
	Images             []string   `json:"images"`
	OriginalPrice      *float64   `json:"original_price"`
	DiscountPrice      *float64   `json:"discount_price"`
	EffectivePrice     *float64   `json:"effective_price"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	Currency           string     `json:"currency"`
	IsPromotion        bool       `json:"is_promotion"`
	LastPriceUpdate    *time.Time `json:"last_price_update,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewStoreItemDTO maps a joined row, deriving the effective price and the
// discount percentage.
func NewStoreItemDTO(row Row) StoreItemDTO {
	listing := row.Listing
	dto := StoreItemDTO{
		ID:                listing.ID,
		StoreID:           listing.StoreID,
		StoreName:         row.StoreName,
		ReferenceItemID:   listing.ReferenceItemID,
		ReferenceItemName: row.ItemName,
		Name:              listing.Name,
		NameAr:            listing.NameAr,
		Brand:             listing.Brand,
		Barcode:           listing.Barcode,
		Images:            append([]string{}, listing.Images...),
		OriginalPrice:     listing.OriginalPrice,
		DiscountPrice:     listing.DiscountPrice,
		Currency:          listing.Currency,
		IsPromotion:       listing.IsPromotion,
		LastPriceUpdate:   listing.LastPriceUpdate,
		CreatedAt:         listing.CreatedAt,
		UpdatedAt:         listing.UpdatedAt,
	}

	dto.EffectivePrice = basket.EffectivePrice(basket.Listing{
		OriginalPrice: listing.OriginalPrice,
		DiscountPrice: listing.DiscountPrice,
	})
	dto.DiscountPercentage = discountPercentage(listing.OriginalPrice, listing.DiscountPrice)

	return dto
}

// discountPercentage returns the saving relative to the original price,
// rounded to two decimals, or nil when no real discount applies.
func discountPercentage(original, discount *float64) *float64 {
	if original == nil || discount == nil {
		return nil
	}
	if *original <= 0 || *discount <= 0 || *discount >= *original {
		return nil
	}

	orig := decimal.NewFromFloat(*original)
	disc := decimal.NewFromFloat(*discount)
	pct, _ := orig.Sub(disc).
		Div(orig).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return &pct
}
