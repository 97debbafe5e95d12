package storeitem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

type stubListingRepo struct {
	rows    []Row
	history []models.StorePrice
	deleted []uuid.UUID
}

func (s *stubListingRepo) Create(ctx context.Context, listing *models.StoreItem) error {
	for _, row := range s.rows {
		if row.Listing.StoreID == listing.StoreID && row.Listing.ReferenceItemID == listing.ReferenceItemID {
			return apperrors.New(apperrors.CodeConflict, "store already lists this item")
		}
	}
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	s.rows = append(s.rows, Row{Listing: *listing, StoreName: "Store", ItemName: listing.Name})
	return nil
}

func (s *stubListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*Row, error) {
	for _, row := range s.rows {
		if row.Listing.ID == id {
			found := row
			return &found, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "store item not found")
}

func (s *stubListingRepo) Update(ctx context.Context, listing *models.StoreItem) error {
	for i := range s.rows {
		if s.rows[i].Listing.ID == listing.ID {
			s.rows[i].Listing = *listing
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "store item not found")
}

func (s *stubListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range s.rows {
		if s.rows[i].Listing.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "store item not found")
}

func (s *stubListingRepo) List(ctx context.Context) ([]Row, error) {
	return append([]Row(nil), s.rows...), nil
}

func (s *stubListingRepo) ListByReference(ctx context.Context, referenceItemID uuid.UUID) ([]Row, error) {
	var out []Row
	for _, row := range s.rows {
		if row.Listing.ReferenceItemID == referenceItemID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubListingRepo) ListByStore(ctx context.Context, storeID uuid.UUID) ([]Row, error) {
	var out []Row
	for _, row := range s.rows {
		if row.Listing.StoreID == storeID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubListingRepo) RecordPrice(ctx context.Context, point *models.StorePrice) error {
	s.history = append(s.history, *point)
	return nil
}

type stubStoreReader struct {
	stores map[uuid.UUID]models.Store
}

func (s *stubStoreReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if store, ok := s.stores[id]; ok {
		return &store, nil
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
}

type stubItemReader struct {
	items map[uuid.UUID]models.ReferenceItem
}

func (s *stubItemReader) FindByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error) {
	if item, ok := s.items[id]; ok {
		return &item, nil
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCatalog(ctx context.Context) { c.calls++ }

type fixture struct {
	repo        *stubListingRepo
	svc         Service
	invalidator *countingInvalidator
	storeID     uuid.UUID
	itemID      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	storeID := uuid.New()
	itemID := uuid.New()
	repo := &stubListingRepo{}
	invalidator := &countingInvalidator{}
	svc, err := NewService(
		repo,
		&stubStoreReader{stores: map[uuid.UUID]models.Store{storeID: {ID: storeID, Name: "Carrefour", Active: true}}},
		&stubItemReader{items: map[uuid.UUID]models.ReferenceItem{itemID: {ID: itemID, Name: "Milk", Active: true}}},
		invalidator,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &fixture{repo: repo, svc: svc, invalidator: invalidator, storeID: storeID, itemID: itemID}
}

func TestCreateListingDefaultsNameAndRecordsPrice(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
		OriginalPrice:   fptr(2.5),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.Name != "Milk" {
		t.Fatalf("expected name defaulted from reference item, got %q", dto.Name)
	}
	if dto.Currency != "JOD" {
		t.Fatalf("expected default currency, got %s", dto.Currency)
	}
	if dto.EffectivePrice == nil || *dto.EffectivePrice != 2.5 {
		t.Fatalf("expected effective price 2.5, got %v", dto.EffectivePrice)
	}
	if dto.LastPriceUpdate == nil {
		t.Fatal("expected last price update stamped")
	}
	if len(f.repo.history) != 1 || f.repo.history[0].Price != 2.5 {
		t.Fatalf("expected one history row at 2.5, got %+v", f.repo.history)
	}
	if f.invalidator.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", f.invalidator.calls)
	}
}

func TestCreateListingWithoutPriceSkipsHistory(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dto.EffectivePrice != nil {
		t.Fatalf("expected no effective price, got %v", dto.EffectivePrice)
	}
	if dto.LastPriceUpdate != nil {
		t.Fatal("expected no price update stamp")
	}
	if len(f.repo.history) != 0 {
		t.Fatalf("expected no history rows, got %d", len(f.repo.history))
	}
}

func TestCreateDuplicateListingConflicts(t *testing.T) {
	f := newFixture(t)
	input := CreateStoreItemInput{StoreID: f.storeID, ReferenceItemID: f.itemID, OriginalPrice: fptr(2)}

	if _, err := f.svc.Create(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.Create(context.Background(), input)

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRejectsDiscountAtOrAboveOriginal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
		OriginalPrice:   fptr(2),
		DiscountPrice:   fptr(2),
	})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsUnknownStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         uuid.New(),
		ReferenceItemID: f.itemID,
	})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePriceChangeStampsAndRecords(t *testing.T) {
	f := newFixture(t)
	dto, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
		OriginalPrice:   fptr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stampBefore := *dto.LastPriceUpdate
	time.Sleep(time.Millisecond)

	updated, err := f.svc.Update(context.Background(), dto.ID, UpdateStoreItemInput{
		DiscountPrice: fptr(2.4),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.EffectivePrice == nil || *updated.EffectivePrice != 2.4 {
		t.Fatalf("expected effective price 2.4, got %v", updated.EffectivePrice)
	}
	if updated.DiscountPercentage == nil || *updated.DiscountPercentage != 20 {
		t.Fatalf("expected 20%% discount, got %v", updated.DiscountPercentage)
	}
	if !updated.LastPriceUpdate.After(stampBefore) {
		t.Fatal("expected price update stamp advanced")
	}
	if len(f.repo.history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(f.repo.history))
	}
}

func TestUpdateNonPriceFieldSkipsHistory(t *testing.T) {
	f := newFixture(t)
	dto, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
		OriginalPrice:   fptr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), dto.ID, UpdateStoreItemInput{
		Brand: sptr("Almarai"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Brand == nil || *updated.Brand != "Almarai" {
		t.Fatalf("expected brand updated, got %v", updated.Brand)
	}
	if len(f.repo.history) != 1 {
		t.Fatalf("expected history untouched, got %d rows", len(f.repo.history))
	}
}

func TestDeleteRemovesListing(t *testing.T) {
	f := newFixture(t)
	dto, err := f.svc.Create(context.Background(), CreateStoreItemInput{
		StoreID:         f.storeID,
		ReferenceItemID: f.itemID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(context.Background(), dto.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.repo.deleted) != 1 || f.repo.deleted[0] != dto.ID {
		t.Fatalf("expected deletion of %s, got %v", dto.ID, f.repo.deleted)
	}
}

func TestListByStoreValidatesStore(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListByStore(context.Background(), uuid.New())

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDiscountPercentageEdgeCases(t *testing.T) {
	if got := discountPercentage(fptr(10), fptr(7.5)); got == nil || *got != 25 {
		t.Fatalf("expected 25, got %v", got)
	}
	if got := discountPercentage(fptr(10), nil); got != nil {
		t.Fatalf("expected nil without discount, got %v", got)
	}
	if got := discountPercentage(fptr(10), fptr(10)); got != nil {
		t.Fatalf("expected nil for no saving, got %v", got)
	}
	if got := discountPercentage(nil, fptr(5)); got != nil {
		t.Fatalf("expected nil without original, got %v", got)
	}
	if got := discountPercentage(fptr(3), fptr(2)); got == nil || *got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
}
