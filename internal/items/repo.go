package item

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Repository persists reference items.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

// ListingWithStore is a store item joined with its owning store, used by
// barcode lookups.
type ListingWithStore struct {
	Listing     models.StoreItem
	StoreName   string
	StoreActive bool
}

func (r *Repository) Create(ctx context.Context, item *models.ReferenceItem) error {
	if err := r.db.DB().WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to create item")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error) {
	var item models.ReferenceItem
	err := r.db.DB().WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load item")
	}
	return &item, nil
}

func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (*models.ReferenceItem, error) {
	var item models.ReferenceItem
	err := r.db.DB().WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load item by barcode")
	}
	return &item, nil
}

func (r *Repository) Update(ctx context.Context, item *models.ReferenceItem) error {
	if err := r.db.DB().WithContext(ctx).Save(item).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to update item")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB().WithContext(ctx).Delete(&models.ReferenceItem{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeDependency, result.Error, "failed to delete item")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "item not found")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.ReferenceItem, error) {
	var items []models.ReferenceItem
	err := r.db.DB().WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list items")
	}
	return items, nil
}

// Search matches the query against item names and barcodes,
// case-insensitively.
func (r *Repository) Search(ctx context.Context, query string) ([]models.ReferenceItem, error) {
	pattern := "%" + query + "%"
	var items []models.ReferenceItem
	err := r.db.DB().WithContext(ctx).
		Where("name ILIKE ? OR name_ar ILIKE ? OR barcode ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to search items")
	}
	return items, nil
}

func (r *Repository) ListByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) ([]models.ReferenceItem, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var items []models.ReferenceItem
	err := r.db.DB().WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list items by category")
	}
	return items, nil
}

// ListListingsWithStores loads every store item for the item joined with the
// store name, active stores only.
func (r *Repository) ListListingsWithStores(ctx context.Context, itemID uuid.UUID) ([]ListingWithStore, error) {
	var rows []struct {
		models.StoreItem
		StoreName   string
		StoreActive bool
	}
	err := r.db.DB().WithContext(ctx).
		Model(&models.StoreItem{}).
		Select("store_items.*", "stores.name AS store_name", "stores.active AS store_active").
		Joins("JOIN stores ON stores.id = store_items.store_id").
		Where("store_items.reference_item_id = ? AND stores.active = ?", itemID, true).
		Order("stores.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load item listings")
	}

	listings := make([]ListingWithStore, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, ListingWithStore{
			Listing:     row.StoreItem,
			StoreName:   row.StoreName,
			StoreActive: row.StoreActive,
		})
	}
	return listings, nil
}

// CountListings reports how many store items reference the item.
func (r *Repository) CountListings(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB().WithContext(ctx).
		Model(&models.StoreItem{}).
		Where("reference_item_id = ?", itemID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "failed to count item listings")
	}
	return count, nil
}
