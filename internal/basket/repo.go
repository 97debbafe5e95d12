package basket

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// Repository assembles the comparison catalog from the database.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

// LoadCatalog loads every active item and store plus all listings belonging
// to them. Inactive rows never reach the comparator.
func (r *Repository) LoadCatalog(ctx context.Context) (*Catalog, error) {
	catalog := &Catalog{}

	var itemRows []struct {
		ID           uuid.UUID
		Name         string
		CategoryName *string
	}
	err := r.db.DB().WithContext(ctx).
		Model(&models.ReferenceItem{}).
		Select("reference_items.id", "reference_items.name", "categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = reference_items.category_id").
		Where("reference_items.active = ?", true).
		Order("reference_items.name ASC").
		Scan(&itemRows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load catalog items")
	}
	for _, row := range itemRows {
		item := CatalogItem{ID: row.ID, Name: row.Name}
		if row.CategoryName != nil {
			item.CategoryName = *row.CategoryName
		}
		catalog.Items = append(catalog.Items, item)
	}

	var stores []models.Store
	err = r.db.DB().WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&stores).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load catalog stores")
	}
	for _, store := range stores {
		catalog.Stores = append(catalog.Stores, CatalogStore{
			ID:      store.ID,
			Name:    store.Name,
			LogoURL: store.LogoURL,
		})
	}

	var listings []models.StoreItem
	err = r.db.DB().WithContext(ctx).
		Joins("JOIN stores ON stores.id = store_items.store_id AND stores.active = ?", true).
		Joins("JOIN reference_items ON reference_items.id = store_items.reference_item_id AND reference_items.active = ?", true).
		Find(&listings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load catalog listings")
	}
	for _, listing := range listings {
		catalog.Listings = append(catalog.Listings, CatalogListing{
			ItemID:        listing.ReferenceItemID,
			StoreID:       listing.StoreID,
			OriginalPrice: listing.OriginalPrice,
			DiscountPrice: listing.DiscountPrice,
			Currency:      listing.Currency,
		})
	}

	return catalog, nil
}
