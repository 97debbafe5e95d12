package basket

import (
	"sort"

	"github.com/google/uuid"
)

// UnknownItemName labels cart entries whose reference item is missing from
// the supplied item set. The entry still appears in every store breakdown.
const UnknownItemName = "Unknown"

// Item is the slice of a reference item the comparator needs.
type Item struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Store is the slice of a store the comparator needs. The comparator ranks
// exactly the stores it is given; active/inactive filtering belongs to the
// caller.
type Store struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Listing is one store's priced instance of an item. Nil prices mean the
// value was never set.
type Listing struct {
	ItemID        uuid.UUID `json:"item_id"`
	StoreID       uuid.UUID `json:"store_id"`
	OriginalPrice *float64  `json:"original_price"`
	DiscountPrice *float64  `json:"discount_price"`
}

// Entry is one cart line: an item and a desired quantity.
type Entry struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// Cart is the ordered basket. Entry order defines line order in results;
// duplicate item ids collapse into the first occurrence with quantities
// summed. Entries with quantity <= 0 are dropped, not rejected.
type Cart []Entry

// Line is one cart entry resolved against a single store. Price is nil when
// the item is unavailable there.
type Line struct {
	ItemID   uuid.UUID `json:"item_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Price    *float64  `json:"price"`
}

// StoreComparison is the full basket breakdown for one store.
type StoreComparison struct {
	Store       Store   `json:"store"`
	Lines       []Line  `json:"lines"`
	Total       float64 `json:"total"`
	HasAllItems bool    `json:"has_all_items"`
}

type listingKey struct {
	itemID  uuid.UUID
	storeID uuid.UUID
}

// EffectivePrice resolves the price a listing actually charges: the discount
// price when set and positive, otherwise the original price when set and
// positive, otherwise nil (unavailable).
func EffectivePrice(l Listing) *float64 {
	if l.DiscountPrice != nil && *l.DiscountPrice > 0 {
		price := *l.DiscountPrice
		return &price
	}
	if l.OriginalPrice != nil && *l.OriginalPrice > 0 {
		price := *l.OriginalPrice
		return &price
	}
	return nil
}

// Compare resolves the cart against every supplied store and returns the
// stores ranked: complete baskets first, then ascending total, ties keeping
// the input store order. Inputs are never mutated; the result is recomputed
// from scratch on every call.
func Compare(cart Cart, items []Item, stores []Store, listings []Listing) []StoreComparison {
	entries := sanitize(cart)

	names := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}

	// Last write wins on duplicate (item, store) pairs; persistence enforces
	// uniqueness, the comparator just tolerates bad input.
	byKey := make(map[listingKey]Listing, len(listings))
	for _, l := range listings {
		byKey[listingKey{itemID: l.ItemID, storeID: l.StoreID}] = l
	}

	results := make([]StoreComparison, 0, len(stores))
	for _, store := range stores {
		comparison := StoreComparison{
			Store:       store,
			Lines:       make([]Line, 0, len(entries)),
			HasAllItems: true,
		}

		for _, entry := range entries {
			name, ok := names[entry.ItemID]
			if !ok {
				name = UnknownItemName
			}

			var price *float64
			if listing, ok := byKey[listingKey{itemID: entry.ItemID, storeID: store.ID}]; ok {
				price = EffectivePrice(listing)
			}

			comparison.Lines = append(comparison.Lines, Line{
				ItemID:   entry.ItemID,
				Name:     name,
				Quantity: entry.Quantity,
				Price:    price,
			})

			if price != nil {
				comparison.Total += *price * float64(entry.Quantity)
			} else {
				comparison.HasAllItems = false
			}
		}

		results = append(results, comparison)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HasAllItems != results[j].HasAllItems {
			return results[i].HasAllItems
		}
		return results[i].Total < results[j].Total
	})

	return results
}

// Cheapest returns the first ranked store with full availability, or false
// when no store carries the whole basket.
func Cheapest(ranked []StoreComparison) (StoreComparison, bool) {
	for _, comparison := range ranked {
		if comparison.HasAllItems {
			return comparison, true
		}
	}
	return StoreComparison{}, false
}

func sanitize(cart Cart) []Entry {
	entries := make([]Entry, 0, len(cart))
	position := make(map[uuid.UUID]int, len(cart))

	for _, entry := range cart {
		if entry.Quantity <= 0 {
			continue
		}
		if idx, seen := position[entry.ItemID]; seen {
			entries[idx].Quantity += entry.Quantity
			continue
		}
		position[entry.ItemID] = len(entries)
		entries = append(entries, entry)
	}

	return entries
}
