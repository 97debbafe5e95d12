package basket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"

	"github.com/khalidshboul/smart-basket-admin/pkg/redis"
)

type stubCatalogRepo struct {
	catalog *Catalog
	err     error
	calls   int
}

func (s *stubCatalogRepo) LoadCatalog(ctx context.Context) (*Catalog, error) {
	s.calls++
	return s.catalog, s.err
}

type fakeKV struct {
	data map[string]string
	dels int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		f.dels++
	}
	return nil
}

func (f *fakeKV) SnapshotKey(scope string) string {
	return "sb:snapshot:" + scope
}

func twoStoreCatalog() (*Catalog, [2]uuid.UUID, [2]uuid.UUID) {
	itemIDs := [2]uuid.UUID{uuid.New(), uuid.New()}
	storeIDs := [2]uuid.UUID{uuid.New(), uuid.New()}

	catalog := &Catalog{
		Items: []CatalogItem{
			{ID: itemIDs[0], Name: "Milk", CategoryName: "Dairy"},
			{ID: itemIDs[1], Name: "Bread", CategoryName: "Bakery"},
		},
		Stores: []CatalogStore{
			{ID: storeIDs[0], Name: "Carrefour"},
			{ID: storeIDs[1], Name: "Sameh Mall"},
		},
		Listings: []CatalogListing{
			{ItemID: itemIDs[0], StoreID: storeIDs[0], OriginalPrice: fptr(2), Currency: "JOD"},
			{ItemID: itemIDs[1], StoreID: storeIDs[0], OriginalPrice: fptr(1), Currency: "JOD"},
			{ItemID: itemIDs[0], StoreID: storeIDs[1], OriginalPrice: fptr(3), DiscountPrice: fptr(2.5), Currency: "JOD"},
			{ItemID: itemIDs[1], StoreID: storeIDs[1], OriginalPrice: fptr(1.5), Currency: "JOD"},
		},
	}
	return catalog, itemIDs, storeIDs
}

func TestServiceCompareBuildsFullComparison(t *testing.T) {
	catalog, itemIDs, storeIDs := twoStoreCatalog()
	repo := &stubCatalogRepo{catalog: catalog}
	svc := NewService(repo, NewSnapshotCache(newFakeKV(), time.Minute, nil, nil), nil, 100)

	dto, err := svc.Compare(context.Background(), CompareInput{Items: []CompareEntryInput{
		{ReferenceItemID: itemIDs[0], Quantity: 2},
		{ReferenceItemID: itemIDs[1], Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dto.BasketItems) != 2 {
		t.Fatalf("expected 2 basket items, got %d", len(dto.BasketItems))
	}
	if dto.BasketItems[0].Name != "Milk" || dto.BasketItems[0].Category != "Dairy" {
		t.Fatalf("unexpected basket item %+v", dto.BasketItems[0])
	}

	if len(dto.StoreComparisons) != 2 {
		t.Fatalf("expected 2 store comparisons, got %d", len(dto.StoreComparisons))
	}
	// Carrefour: 2*2 + 1 = 5, Sameh Mall: 2*2.5 + 1.5 = 6.5
	first := dto.StoreComparisons[0]
	if first.StoreID != storeIDs[0] || first.TotalPrice != 5 || !first.AllItemsAvailable {
		t.Fatalf("unexpected first comparison %+v", first)
	}
	if first.AvailableItemCount != 2 || first.TotalItemCount != 2 || len(first.MissingItems) != 0 {
		t.Fatalf("unexpected availability counts %+v", first)
	}
	if first.Currency != "JOD" {
		t.Fatalf("expected JOD currency, got %s", first.Currency)
	}

	if dto.CheapestStoreID == nil || *dto.CheapestStoreID != storeIDs[0] {
		t.Fatalf("expected cheapest store %s, got %v", storeIDs[0], dto.CheapestStoreID)
	}
	if dto.CheapestStoreName == nil || *dto.CheapestStoreName != "Carrefour" {
		t.Fatalf("unexpected cheapest store name %v", dto.CheapestStoreName)
	}
	if dto.LowestTotal != 5 || dto.HighestTotal != 6.5 || dto.PotentialSavings != 1.5 {
		t.Fatalf("unexpected totals low=%v high=%v savings=%v",
			dto.LowestTotal, dto.HighestTotal, dto.PotentialSavings)
	}
}

func TestServiceCompareReportsMissingItems(t *testing.T) {
	catalog, itemIDs, storeIDs := twoStoreCatalog()
	// Sameh Mall loses its bread listing.
	catalog.Listings = catalog.Listings[:3]
	repo := &stubCatalogRepo{catalog: catalog}
	svc := NewService(repo, NewSnapshotCache(newFakeKV(), time.Minute, nil, nil), nil, 100)

	dto, err := svc.Compare(context.Background(), CompareInput{Items: []CompareEntryInput{
		{ReferenceItemID: itemIDs[0], Quantity: 1},
		{ReferenceItemID: itemIDs[1], Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var partial *StoreComparisonDTO
	for i := range dto.StoreComparisons {
		if dto.StoreComparisons[i].StoreID == storeIDs[1] {
			partial = &dto.StoreComparisons[i]
		}
	}
	if partial == nil {
		t.Fatal("expected partial store in comparisons")
	}
	if partial.AllItemsAvailable {
		t.Fatal("expected partial store marked incomplete")
	}
	if len(partial.MissingItems) != 1 || partial.MissingItems[0] != "Bread" {
		t.Fatalf("unexpected missing items %v", partial.MissingItems)
	}
	if partial.AvailableItemCount != 1 || partial.TotalItemCount != 2 {
		t.Fatalf("unexpected counts %+v", partial)
	}
	// Incomplete stores never contribute to the savings spread.
	if dto.LowestTotal != 3 || dto.HighestTotal != 3 || dto.PotentialSavings != 0 {
		t.Fatalf("unexpected totals low=%v high=%v savings=%v",
			dto.LowestTotal, dto.HighestTotal, dto.PotentialSavings)
	}
}

func TestServiceCompareRejectsOversizedBasket(t *testing.T) {
	repo := &stubCatalogRepo{catalog: &Catalog{}}
	svc := NewService(repo, NewSnapshotCache(newFakeKV(), time.Minute, nil, nil), nil, 1)

	_, err := svc.Compare(context.Background(), CompareInput{Items: []CompareEntryInput{
		{ReferenceItemID: uuid.New(), Quantity: 1},
		{ReferenceItemID: uuid.New(), Quantity: 1},
	}})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected catalog untouched, got %d loads", repo.calls)
	}
}

func TestServiceCompareUsesCachedSnapshot(t *testing.T) {
	catalog, itemIDs, _ := twoStoreCatalog()
	kv := newFakeKV()
	raw, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	kv.data[kv.SnapshotKey("catalog")] = string(raw)

	repo := &stubCatalogRepo{err: apperrors.New(apperrors.CodeDependency, "db down")}
	svc := NewService(repo, NewSnapshotCache(kv, time.Minute, nil, nil), nil, 100)

	dto, err := svc.Compare(context.Background(), CompareInput{Items: []CompareEntryInput{
		{ReferenceItemID: itemIDs[0], Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("expected cached catalog to serve the request, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository load on cache hit, got %d", repo.calls)
	}
	if len(dto.StoreComparisons) != 2 {
		t.Fatalf("expected 2 comparisons from cached catalog, got %d", len(dto.StoreComparisons))
	}
}

func TestServiceComparePopulatesCacheAfterMiss(t *testing.T) {
	catalog, itemIDs, _ := twoStoreCatalog()
	kv := newFakeKV()
	repo := &stubCatalogRepo{catalog: catalog}
	svc := NewService(repo, NewSnapshotCache(kv, time.Minute, nil, nil), nil, 100)

	input := CompareInput{Items: []CompareEntryInput{{ReferenceItemID: itemIDs[0], Quantity: 1}}}
	if _, err := svc.Compare(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Compare(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Fatalf("expected a single catalog load, got %d", repo.calls)
	}
	if _, ok := kv.data[kv.SnapshotKey("catalog")]; !ok {
		t.Fatal("expected snapshot written after miss")
	}
}

func TestServiceComparePropagatesRepositoryFailure(t *testing.T) {
	repo := &stubCatalogRepo{err: apperrors.New(apperrors.CodeDependency, "db down")}
	svc := NewService(repo, NewSnapshotCache(newFakeKV(), time.Minute, nil, nil), nil, 100)

	_, err := svc.Compare(context.Background(), CompareInput{Items: []CompareEntryInput{
		{ReferenceItemID: uuid.New(), Quantity: 1},
	}})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestServiceInvalidateCatalogDropsSnapshot(t *testing.T) {
	kv := newFakeKV()
	kv.data[kv.SnapshotKey("catalog")] = "{}"
	svc := NewService(&stubCatalogRepo{}, NewSnapshotCache(kv, time.Minute, nil, nil), nil, 100)

	svc.InvalidateCatalog(context.Background())

	if _, ok := kv.data[kv.SnapshotKey("catalog")]; ok {
		t.Fatal("expected snapshot removed")
	}
	if kv.dels != 1 {
		t.Fatalf("expected one delete, got %d", kv.dels)
	}
}
