package basket

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func fptr(v float64) *float64 { return &v }

func TestEffectivePrice(t *testing.T) {
	tests := []struct {
		name    string
		listing Listing
		want    *float64
	}{
		{"discount preferred", Listing{DiscountPrice: fptr(8), OriginalPrice: fptr(10)}, fptr(8)},
		{"zero discount falls back", Listing{DiscountPrice: fptr(0), OriginalPrice: fptr(12)}, fptr(12)},
		{"nil discount falls back", Listing{OriginalPrice: fptr(12)}, fptr(12)},
		{"both nil unavailable", Listing{}, nil},
		{"both zero unavailable", Listing{DiscountPrice: fptr(0), OriginalPrice: fptr(0)}, nil},
		{"negative original unavailable", Listing{OriginalPrice: fptr(-1)}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectivePrice(tc.listing)
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("expected %v, got %v", *tc.want, *got)
			}
		})
	}
}

func TestCompareCompleteStoreOutranksCheaperIncomplete(t *testing.T) {
	itemA := Item{ID: uuid.New(), Name: "Milk"}
	itemB := Item{ID: uuid.New(), Name: "Bread"}
	storeComplete := Store{ID: uuid.New(), Name: "Complete"}
	storeCheapPartial := Store{ID: uuid.New(), Name: "Partial"}

	cart := Cart{{ItemID: itemA.ID, Quantity: 1}, {ItemID: itemB.ID, Quantity: 1}}
	listings := []Listing{
		{ItemID: itemA.ID, StoreID: storeComplete.ID, OriginalPrice: fptr(25)},
		{ItemID: itemB.ID, StoreID: storeComplete.ID, OriginalPrice: fptr(25)},
		// partial store only carries item A, far cheaper
		{ItemID: itemA.ID, StoreID: storeCheapPartial.ID, OriginalPrice: fptr(10)},
	}

	ranked := Compare(cart, []Item{itemA, itemB}, []Store{storeCheapPartial, storeComplete}, listings)

	if ranked[0].Store.ID != storeComplete.ID {
		t.Fatalf("expected complete store first, got %s", ranked[0].Store.Name)
	}
	if ranked[0].Total != 50 {
		t.Fatalf("expected complete total 50, got %v", ranked[0].Total)
	}
	if ranked[1].HasAllItems {
		t.Fatal("expected second store marked incomplete")
	}
	if ranked[1].Total != 10 {
		t.Fatalf("expected partial total 10, got %v", ranked[1].Total)
	}
}

func TestCompareOrdersByTotalWithinGroup(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Eggs"}
	cheap := Store{ID: uuid.New(), Name: "Cheap"}
	mid := Store{ID: uuid.New(), Name: "Mid"}
	dear := Store{ID: uuid.New(), Name: "Dear"}

	cart := Cart{{ItemID: item.ID, Quantity: 1}}
	listings := []Listing{
		{ItemID: item.ID, StoreID: dear.ID, OriginalPrice: fptr(9)},
		{ItemID: item.ID, StoreID: cheap.ID, OriginalPrice: fptr(3)},
		{ItemID: item.ID, StoreID: mid.ID, OriginalPrice: fptr(6)},
	}

	ranked := Compare(cart, []Item{item}, []Store{dear, mid, cheap}, listings)

	got := []string{ranked[0].Store.Name, ranked[1].Store.Name, ranked[2].Store.Name}
	want := []string{"Cheap", "Mid", "Dear"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCompareStableTieKeepsInputStoreOrder(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Rice"}
	first := Store{ID: uuid.New(), Name: "First"}
	second := Store{ID: uuid.New(), Name: "Second"}

	cart := Cart{{ItemID: item.ID, Quantity: 2}}
	listings := []Listing{
		{ItemID: item.ID, StoreID: first.ID, OriginalPrice: fptr(10)},
		{ItemID: item.ID, StoreID: second.ID, OriginalPrice: fptr(10)},
	}

	ranked := Compare(cart, []Item{item}, []Store{first, second}, listings)

	if ranked[0].Store.ID != first.ID || ranked[1].Store.ID != second.ID {
		t.Fatalf("expected tie to preserve input order, got %s then %s",
			ranked[0].Store.Name, ranked[1].Store.Name)
	}
	if ranked[0].Total != 20 || ranked[1].Total != 20 {
		t.Fatalf("expected both totals 20, got %v and %v", ranked[0].Total, ranked[1].Total)
	}
}

func TestCompareUnknownItemDegradesGracefully(t *testing.T) {
	store := Store{ID: uuid.New(), Name: "Store"}
	ghost := uuid.New()

	cart := Cart{{ItemID: ghost, Quantity: 1}}
	ranked := Compare(cart, nil, []Store{store}, nil)

	if len(ranked) != 1 {
		t.Fatalf("expected one store, got %d", len(ranked))
	}
	line := ranked[0].Lines[0]
	if line.Name != UnknownItemName {
		t.Fatalf("expected %q, got %q", UnknownItemName, line.Name)
	}
	if line.Price != nil {
		t.Fatalf("expected nil price, got %v", *line.Price)
	}
	if ranked[0].HasAllItems {
		t.Fatal("expected store marked incomplete")
	}
}

func TestCompareSanitizesNonPositiveQuantities(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Tea"}
	store := Store{ID: uuid.New(), Name: "Store"}
	listings := []Listing{{ItemID: item.ID, StoreID: store.ID, OriginalPrice: fptr(5)}}

	cart := Cart{
		{ItemID: item.ID, Quantity: 0},
		{ItemID: uuid.New(), Quantity: -4},
	}

	ranked := Compare(cart, []Item{item}, []Store{store}, listings)

	if len(ranked[0].Lines) != 0 {
		t.Fatalf("expected empty basket after sanitizing, got %d lines", len(ranked[0].Lines))
	}
	if !ranked[0].HasAllItems {
		t.Fatal("empty basket is trivially complete")
	}
	if ranked[0].Total != 0 {
		t.Fatalf("expected zero total, got %v", ranked[0].Total)
	}
}

func TestCompareMergesDuplicateCartEntries(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Oil"}
	store := Store{ID: uuid.New(), Name: "Store"}
	listings := []Listing{{ItemID: item.ID, StoreID: store.ID, OriginalPrice: fptr(4)}}

	cart := Cart{
		{ItemID: item.ID, Quantity: 1},
		{ItemID: item.ID, Quantity: 2},
	}

	ranked := Compare(cart, []Item{item}, []Store{store}, listings)

	if len(ranked[0].Lines) != 1 {
		t.Fatalf("expected merged line, got %d", len(ranked[0].Lines))
	}
	if ranked[0].Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", ranked[0].Lines[0].Quantity)
	}
	if ranked[0].Total != 12 {
		t.Fatalf("expected total 12, got %v", ranked[0].Total)
	}
}

func TestCompareIsIdempotentAndDoesNotMutateInputs(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Salt"}
	storeA := Store{ID: uuid.New(), Name: "A"}
	storeB := Store{ID: uuid.New(), Name: "B"}

	cart := Cart{{ItemID: item.ID, Quantity: 2}}
	items := []Item{item}
	stores := []Store{storeB, storeA}
	listings := []Listing{
		{ItemID: item.ID, StoreID: storeA.ID, DiscountPrice: fptr(3)},
		{ItemID: item.ID, StoreID: storeB.ID, OriginalPrice: fptr(4)},
	}
	storesBefore := append([]Store(nil), stores...)

	first := Compare(cart, items, stores, listings)
	second := Compare(cart, items, stores, listings)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical output for identical input")
	}
	if !reflect.DeepEqual(stores, storesBefore) {
		t.Fatal("expected store input untouched")
	}
}

func TestCompareDuplicateListingLastWriteWins(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Jam"}
	store := Store{ID: uuid.New(), Name: "Store"}

	cart := Cart{{ItemID: item.ID, Quantity: 1}}
	listings := []Listing{
		{ItemID: item.ID, StoreID: store.ID, OriginalPrice: fptr(7)},
		{ItemID: item.ID, StoreID: store.ID, OriginalPrice: fptr(5)},
	}

	ranked := Compare(cart, []Item{item}, []Store{store}, listings)
	if ranked[0].Total != 5 {
		t.Fatalf("expected last listing to win, total 5, got %v", ranked[0].Total)
	}
}

func TestCheapestSkipsIncompleteStores(t *testing.T) {
	itemX := Item{ID: uuid.New(), Name: "X"}
	s1 := Store{ID: uuid.New(), Name: "S1"}
	s2 := Store{ID: uuid.New(), Name: "S2"}

	cart := Cart{{ItemID: itemX.ID, Quantity: 2}}
	listings := []Listing{{ItemID: itemX.ID, StoreID: s1.ID, DiscountPrice: fptr(5)}}

	ranked := Compare(cart, []Item{itemX}, []Store{s1, s2}, listings)

	if ranked[0].Store.ID != s1.ID || ranked[0].Total != 10 || !ranked[0].HasAllItems {
		t.Fatalf("expected S1 complete with total 10, got %+v", ranked[0])
	}
	if ranked[1].Store.ID != s2.ID || ranked[1].Total != 0 || ranked[1].HasAllItems {
		t.Fatalf("expected S2 incomplete with total 0, got %+v", ranked[1])
	}

	cheapest, ok := Cheapest(ranked)
	if !ok || cheapest.Store.ID != s1.ID {
		t.Fatalf("expected S1 cheapest, got %+v ok=%v", cheapest, ok)
	}
}

func TestCheapestNoneWhenNoCompleteStore(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Y"}
	store := Store{ID: uuid.New(), Name: "Store"}

	ranked := Compare(Cart{{ItemID: item.ID, Quantity: 1}}, []Item{item}, []Store{store}, nil)

	if _, ok := Cheapest(ranked); ok {
		t.Fatal("expected no cheapest store")
	}
}

func TestCompareEmptyStoreList(t *testing.T) {
	item := Item{ID: uuid.New(), Name: "Z"}
	ranked := Compare(Cart{{ItemID: item.ID, Quantity: 1}}, []Item{item}, nil, nil)
	if len(ranked) != 0 {
		t.Fatalf("expected empty ranking, got %d", len(ranked))
	}
}
