package basket

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"

	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
)

type catalogRepository interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// CompareInput is the request body of a basket comparison.
type CompareInput struct {
	Items []CompareEntryInput `json:"items" validate:"required,min=1,dive"`
}

// CompareEntryInput is one requested line. Non-positive quantities are
// dropped during comparison rather than rejected up front.
type CompareEntryInput struct {
	ReferenceItemID uuid.UUID `json:"reference_item_id" validate:"required"`
	Quantity        int       `json:"quantity"`
}

// Service runs basket comparisons over the active catalog.
type Service interface {
	Compare(ctx context.Context, input CompareInput) (*ComparisonDTO, error)
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo     catalogRepository
	cache    *SnapshotCache
	metrics  *metrics.Registry
	maxItems int
}

func NewService(repo catalogRepository, cache *SnapshotCache, reg *metrics.Registry, maxItems int) Service {
	return &service{repo: repo, cache: cache, metrics: reg, maxItems: maxItems}
}

func (s *service) Compare(ctx context.Context, input CompareInput) (*ComparisonDTO, error) {
	if s.maxItems > 0 && len(input.Items) > s.maxItems {
		return nil, apperrors.New(apperrors.CodeValidation, "basket exceeds the maximum number of items")
	}

	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	cart := make(Cart, 0, len(input.Items))
	for _, entry := range input.Items {
		cart = append(cart, Entry{ItemID: entry.ReferenceItemID, Quantity: entry.Quantity})
	}

	items := make([]Item, 0, len(catalog.Items))
	names := make(map[uuid.UUID]string, len(catalog.Items))
	categories := make(map[uuid.UUID]string, len(catalog.Items))
	for _, item := range catalog.Items {
		items = append(items, Item{ID: item.ID, Name: item.Name})
		names[item.ID] = item.Name
		categories[item.ID] = item.CategoryName
	}

	stores := make([]Store, 0, len(catalog.Stores))
	logos := make(map[uuid.UUID]*string, len(catalog.Stores))
	for _, store := range catalog.Stores {
		stores = append(stores, Store{ID: store.ID, Name: store.Name})
		logos[store.ID] = store.LogoURL
	}

	listings := make([]Listing, 0, len(catalog.Listings))
	currencies := make(map[listingKey]string, len(catalog.Listings))
	for _, listing := range catalog.Listings {
		listings = append(listings, Listing{
			ItemID:        listing.ItemID,
			StoreID:       listing.StoreID,
			OriginalPrice: listing.OriginalPrice,
			DiscountPrice: listing.DiscountPrice,
		})
		if listing.Currency != "" {
			currencies[listingKey{itemID: listing.ItemID, storeID: listing.StoreID}] = listing.Currency
		}
	}

	ranked := Compare(cart, items, stores, listings)
	s.metrics.IncComparison()

	return buildComparisonDTO(cart, ranked, names, categories, logos, currencies), nil
}

// InvalidateCatalog drops the cached catalog snapshot. Catalog and pricing
// writers call this after every mutation.
func (s *service) InvalidateCatalog(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

func (s *service) loadCatalog(ctx context.Context) (*Catalog, error) {
	if cached := s.cache.Get(ctx); cached != nil {
		return cached, nil
	}

	catalog, err := s.repo.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Put(ctx, catalog)
	return catalog, nil
}

func buildComparisonDTO(
	cart Cart,
	ranked []StoreComparison,
	names map[uuid.UUID]string,
	categories map[uuid.UUID]string,
	logos map[uuid.UUID]*string,
	currencies map[listingKey]string,
) *ComparisonDTO {
	dto := &ComparisonDTO{
		BasketItems:      make([]BasketItemDTO, 0, len(cart)),
		StoreComparisons: make([]StoreComparisonDTO, 0, len(ranked)),
	}

	for _, entry := range sanitize(cart) {
		name, ok := names[entry.ItemID]
		if !ok {
			name = UnknownItemName
		}
		dto.BasketItems = append(dto.BasketItems, BasketItemDTO{
			ReferenceItemID: entry.ItemID,
			Name:            name,
			Category:        categories[entry.ItemID],
			Quantity:        entry.Quantity,
		})
	}

	for _, comparison := range ranked {
		sc := StoreComparisonDTO{
			StoreID:           comparison.Store.ID,
			StoreName:         comparison.Store.Name,
			StoreLogoURL:      logos[comparison.Store.ID],
			TotalPrice:        comparison.Total,
			Currency:          defaultCurrency,
			AllItemsAvailable: comparison.HasAllItems,
			ItemPrices:        make([]ItemPriceDTO, 0, len(comparison.Lines)),
			MissingItems:      []string{},
			TotalItemCount:    len(comparison.Lines),
		}

		for _, line := range comparison.Lines {
			available := line.Price != nil
			if available {
				sc.AvailableItemCount++
				if currency, ok := currencies[listingKey{itemID: line.ItemID, storeID: comparison.Store.ID}]; ok {
					sc.Currency = currency
				}
			} else {
				sc.MissingItems = append(sc.MissingItems, line.Name)
			}
			sc.ItemPrices = append(sc.ItemPrices, ItemPriceDTO{
				ReferenceItemID: line.ItemID,
				Name:            line.Name,
				Quantity:        line.Quantity,
				Price:           line.Price,
				Available:       available,
			})
		}

		dto.StoreComparisons = append(dto.StoreComparisons, sc)
	}

	if cheapest, ok := Cheapest(ranked); ok {
		id := cheapest.Store.ID
		name := cheapest.Store.Name
		dto.CheapestStoreID = &id
		dto.CheapestStoreName = &name

		dto.LowestTotal = cheapest.Total
		dto.HighestTotal = cheapest.Total
		for _, comparison := range ranked {
			if comparison.HasAllItems && comparison.Total > dto.HighestTotal {
				dto.HighestTotal = comparison.Total
			}
		}
		dto.PotentialSavings = dto.HighestTotal - dto.LowestTotal
	}

	return dto
}
