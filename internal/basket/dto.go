package basket

import "github.com/google/uuid"

const defaultCurrency = "JOD"

// ComparisonDTO is the full response of one basket comparison.
type ComparisonDTO struct {
	BasketItems       []BasketItemDTO      `json:"basket_items"`
	StoreComparisons  []StoreComparisonDTO `json:"store_comparisons"`
	CheapestStoreID   *uuid.UUID           `json:"cheapest_store_id"`
	CheapestStoreName *string              `json:"cheapest_store_name"`
	LowestTotal       float64              `json:"lowest_total"`
	HighestTotal      float64              `json:"highest_total"`
	PotentialSavings  float64              `json:"potential_savings"`
}

// BasketItemDTO describes one requested item independent of any store.
type BasketItemDTO struct {
	ReferenceItemID uuid.UUID `json:"reference_item_id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Quantity        int       `json:"quantity"`
}

// StoreComparisonDTO is one store's ranked breakdown.
type StoreComparisonDTO struct {
	StoreID            uuid.UUID      `json:"store_id"`
	StoreName          string         `json:"store_name"`
	StoreLogoURL       *string        `json:"store_logo_url,omitempty"`
	TotalPrice         float64        `json:"total_price"`
	Currency           string         `json:"currency"`
	AllItemsAvailable  bool           `json:"all_items_available"`
	ItemPrices         []ItemPriceDTO `json:"item_prices"`
	MissingItems       []string       `json:"missing_items"`
	AvailableItemCount int            `json:"available_item_count"`
	TotalItemCount     int            `json:"total_item_count"`
}

// ItemPriceDTO is one cart line resolved against one store.
type ItemPriceDTO struct {
	ReferenceItemID uuid.UUID `json:"reference_item_id"`
	Name            string    `json:"name"`
	Quantity        int       `json:"quantity"`
	Price           *float64  `json:"price"`
	Available       bool      `json:"available"`
}
