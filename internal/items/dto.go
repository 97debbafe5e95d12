package item

import (
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// ItemDTO is the reference item payload returned to clients. CategoryName is
// denormalized from the category list.
type ItemDTO struct {
	ID                   uuid.UUID   `json:"id"`
	Name                 string      `json:"name"`
	NameAr               *string     `json:"name_ar,omitempty"`
	CategoryID           uuid.UUID   `json:"category_id"`
	CategoryName         string      `json:"category_name"`
	Description          *string     `json:"description,omitempty"`
	DescriptionAr        *string     `json:"description_ar,omitempty"`
	Images               []string    `json:"images"`
	Barcode              *string     `json:"barcode,omitempty"`
	AvailableInAllStores bool        `json:"available_in_all_stores"`
	SpecificStoreIDs     []uuid.UUID `json:"specific_store_ids"`
	Active               bool        `json:"active"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// BarcodeLookupDTO is the barcode scan response: the matched item and where
// it can be bought, cheapest store first.
type BarcodeLookupDTO struct {
	Item              ItemDTO              `json:"item"`
	StorePrices       []StorePriceEntryDTO `json:"store_prices"`
	StoreCount        int                  `json:"store_count"`
	LowestPrice       *float64             `json:"lowest_price"`
	CheapestStoreName *string              `json:"cheapest_store_name"`
}

// StorePriceEntryDTO is one store's current price for a scanned item.
type StorePriceEntryDTO struct {
	StoreID         uuid.UUID  `json:"store_id"`
	StoreName       string     `json:"store_name"`
	OriginalPrice   *float64   `json:"original_price"`
	DiscountPrice   *float64   `json:"discount_price"`
	EffectivePrice  *float64   `json:"effective_price"`
	Currency        string     `json:"currency"`
	IsPromotion     bool       `json:"is_promotion"`
	LastPriceUpdate *time.Time `json:"last_price_update,omitempty"`
}

// NewItemDTO maps the persisted model; CategoryName is filled in by the
// caller.
func NewItemDTO(item models.ReferenceItem) ItemDTO {
	return ItemDTO{
		ID:                   item.ID,
		Name:                 item.Name,
		NameAr:               item.NameAr,
		CategoryID:           item.CategoryID,
		Description:          item.Description,
		DescriptionAr:        item.DescriptionAr,
		Images:               append([]string{}, item.Images...),
		Barcode:              item.Barcode,
		AvailableInAllStores: item.AvailableInAllStores,
		SpecificStoreIDs:     append([]uuid.UUID{}, item.SpecificStoreIDs...),
		Active:               item.Active,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}
