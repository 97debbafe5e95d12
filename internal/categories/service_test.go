package category

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

type stubCategoryRepo struct {
	categories []models.Category
	itemCounts map[uuid.UUID]int64
	deleted    []uuid.UUID
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	s.categories = append(s.categories, *category)
	return nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	for _, category := range s.categories {
		if category.ID == id {
			found := category
			return &found, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
}

func (s *stubCategoryRepo) Update(ctx context.Context, category *models.Category) error {
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = *category
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "category not found")
}

func (s *stubCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "category not found")
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return append([]models.Category(nil), s.categories...), nil
}

func (s *stubCategoryRepo) ListActive(ctx context.Context) ([]models.Category, error) {
	var active []models.Category
	for _, category := range s.categories {
		if category.Active {
			active = append(active, category)
		}
	}
	return active, nil
}

func (s *stubCategoryRepo) CountItems(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return s.itemCounts[categoryID], nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCatalog(ctx context.Context) { c.calls++ }

func newTestService(t *testing.T, repo *stubCategoryRepo) (Service, *countingInvalidator) {
	t.Helper()
	invalidator := &countingInvalidator{}
	svc, err := NewService(repo, invalidator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, invalidator
}

func TestCreateCategoryDefaultsToActive(t *testing.T) {
	repo := &stubCategoryRepo{}
	svc, invalidator := newTestService(t, repo)

	dto, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Dairy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dto.Active {
		t.Fatal("expected new category active by default")
	}
	if dto.SubcategoryCount != 0 || len(dto.SubcategoryIDs) != 0 {
		t.Fatalf("expected no subcategories, got %+v", dto)
	}
	if invalidator.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", invalidator.calls)
	}
}

func TestCreateCategoryRejectsMissingParent(t *testing.T) {
	repo := &stubCategoryRepo{}
	svc, _ := newTestService(t, repo)

	ghost := uuid.New()
	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Dairy", ParentCategoryID: &ghost})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetDenormalizesParentAndChildren(t *testing.T) {
	parent := models.Category{ID: uuid.New(), Name: "Beverages", Active: true}
	childA := models.Category{ID: uuid.New(), Name: "Juice", DisplayOrder: 1, Active: true, ParentCategoryID: &parent.ID}
	childB := models.Category{ID: uuid.New(), Name: "Water", DisplayOrder: 0, Active: true, ParentCategoryID: &parent.ID}
	repo := &stubCategoryRepo{categories: []models.Category{parent, childA, childB}}
	svc, _ := newTestService(t, repo)

	dto, err := svc.Get(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.SubcategoryCount != 2 {
		t.Fatalf("expected 2 subcategories, got %d", dto.SubcategoryCount)
	}
	// display order decides subcategory id order
	if dto.SubcategoryIDs[0] != childB.ID || dto.SubcategoryIDs[1] != childA.ID {
		t.Fatalf("unexpected subcategory order %v", dto.SubcategoryIDs)
	}

	childDTO, err := svc.Get(context.Background(), childA.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if childDTO.ParentCategoryName == nil || *childDTO.ParentCategoryName != "Beverages" {
		t.Fatalf("expected parent name denormalized, got %v", childDTO.ParentCategoryName)
	}
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Snacks", Active: true}
	repo := &stubCategoryRepo{categories: []models.Category{existing}}
	svc, _ := newTestService(t, repo)

	_, err := svc.Update(context.Background(), existing.ID, UpdateCategoryInput{ParentCategoryID: &existing.ID})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsDescendantParent(t *testing.T) {
	root := models.Category{ID: uuid.New(), Name: "Root", Active: true}
	child := models.Category{ID: uuid.New(), Name: "Child", Active: true, ParentCategoryID: &root.ID}
	repo := &stubCategoryRepo{categories: []models.Category{root, child}}
	svc, _ := newTestService(t, repo)

	_, err := svc.Update(context.Background(), root.ID, UpdateCategoryInput{ParentCategoryID: &child.ID})

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateClearParentPromotesToRoot(t *testing.T) {
	root := models.Category{ID: uuid.New(), Name: "Root", Active: true}
	child := models.Category{ID: uuid.New(), Name: "Child", Active: true, ParentCategoryID: &root.ID}
	repo := &stubCategoryRepo{categories: []models.Category{root, child}}
	svc, _ := newTestService(t, repo)

	dto, err := svc.Update(context.Background(), child.ID, UpdateCategoryInput{ClearParent: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.ParentCategoryID != nil {
		t.Fatalf("expected parent cleared, got %v", dto.ParentCategoryID)
	}
}

func TestDeleteBlockedBySubcategories(t *testing.T) {
	parent := models.Category{ID: uuid.New(), Name: "Parent", Active: true}
	child := models.Category{ID: uuid.New(), Name: "Child", Active: true, ParentCategoryID: &parent.ID}
	repo := &stubCategoryRepo{categories: []models.Category{parent, child}}
	svc, _ := newTestService(t, repo)

	err := svc.Delete(context.Background(), parent.ID)

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatal("expected no deletion")
	}
}

func TestDeleteBlockedByItems(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Dairy", Active: true}
	repo := &stubCategoryRepo{
		categories: []models.Category{existing},
		itemCounts: map[uuid.UUID]int64{existing.ID: 3},
	}
	svc, _ := newTestService(t, repo)

	err := svc.Delete(context.Background(), existing.ID)

	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteRemovesLeafCategory(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Dairy", Active: true}
	repo := &stubCategoryRepo{categories: []models.Category{existing}}
	svc, invalidator := newTestService(t, repo)

	if err := svc.Delete(context.Background(), existing.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != existing.ID {
		t.Fatalf("expected deletion of %s, got %v", existing.ID, repo.deleted)
	}
	if invalidator.calls != 1 {
		t.Fatalf("expected one cache invalidation, got %d", invalidator.calls)
	}
}

func TestTreeFlattensDepthFirst(t *testing.T) {
	a := models.Category{ID: uuid.New(), Name: "A", DisplayOrder: 0, Active: true}
	b := models.Category{ID: uuid.New(), Name: "B", DisplayOrder: 1, Active: true}
	a1 := models.Category{ID: uuid.New(), Name: "A1", DisplayOrder: 0, Active: true, ParentCategoryID: &a.ID}
	repo := &stubCategoryRepo{categories: []models.Category{b, a1, a}}
	svc, _ := newTestService(t, repo)

	tree, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := make([]string, len(tree))
	for i, dto := range tree {
		names[i] = dto.Name
	}
	want := []string{"A", "A1", "B"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestToggleStatusFlipsActive(t *testing.T) {
	existing := models.Category{ID: uuid.New(), Name: "Dairy", Active: true}
	repo := &stubCategoryRepo{categories: []models.Category{existing}}
	svc, _ := newTestService(t, repo)

	dto, err := svc.ToggleStatus(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Active {
		t.Fatal("expected category deactivated")
	}

	dto, err = svc.ToggleStatus(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dto.Active {
		t.Fatal("expected category reactivated")
	}
}

func TestListTopLevelExcludesChildren(t *testing.T) {
	root := models.Category{ID: uuid.New(), Name: "Root", Active: true}
	child := models.Category{ID: uuid.New(), Name: "Child", Active: true, ParentCategoryID: &root.ID}
	repo := &stubCategoryRepo{categories: []models.Category{root, child}}
	svc, _ := newTestService(t, repo)

	roots, err := svc.ListTopLevel(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("expected only root, got %+v", roots)
	}
}
