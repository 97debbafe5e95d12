package bulkupload

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Repository gives the upload service direct catalog access.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) ListActiveStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.DB().WithContext(ctx).Where("active = ?", true).Find(&stores).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load stores")
	}
	return stores, nil
}

func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.DB().WithContext(ctx).First(&category, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load category")
	}
	return &category, nil
}

func (r *Repository) FindItemByBarcode(ctx context.Context, barcode string) (*models.ReferenceItem, error) {
	var item models.ReferenceItem
	err := r.db.DB().WithContext(ctx).First(&item, "barcode = ?", barcode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load item")
	}
	return &item, nil
}

func (r *Repository) FindItemByNameAndCategory(ctx context.Context, name string, categoryID uuid.UUID) (*models.ReferenceItem, error) {
	var item models.ReferenceItem
	err := r.db.DB().WithContext(ctx).
		First(&item, "LOWER(name) = LOWER(?) AND category_id = ?", name, categoryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load item")
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *models.ReferenceItem) error {
	if err := r.db.DB().WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to create item")
	}
	return nil
}

// UpsertListingPrice creates or updates the store's listing for the item
// with the uploaded price and appends the history row, atomically.
func (r *Repository) UpsertListingPrice(ctx context.Context, storeID uuid.UUID, item *models.ReferenceItem, priceValue float64, now time.Time) error {
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var listing models.StoreItem
		err := tx.First(&listing, "store_id = ? AND reference_item_id = ?", storeID, item.ID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			listing = models.StoreItem{
				StoreID:         storeID,
				ReferenceItemID: item.ID,
				Name:            item.Name,
				NameAr:          item.NameAr,
				Barcode:         item.Barcode,
				Currency:        "JOD",
			}
		case err != nil:
			return err
		}

		listing.OriginalPrice = &priceValue
		listing.DiscountPrice = nil
		listing.IsPromotion = false
		listing.LastPriceUpdate = &now

		if err := tx.Save(&listing).Error; err != nil {
			return err
		}
		return tx.Create(&models.StorePrice{
			StoreItemID: listing.ID,
			Price:       priceValue,
			Currency:    listing.Currency,
		}).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to record uploaded price")
	}
	return nil
}
