package storeitem

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Repository persists store items and their price history rows.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

// Row is a store item joined with the names a client needs alongside it.
type Row struct {
	Listing   models.StoreItem
	StoreName string
	ItemName  string
}

func (r *Repository) Create(ctx context.Context, listing *models.StoreItem) error {
	if err := r.db.DB().WithContext(ctx).Create(listing).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.CodeConflict, "store already lists this item")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to create store item")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*Row, error) {
	rows, err := r.selectRows(ctx, "store_items.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, "store item not found")
	}
	return &rows[0], nil
}

func (r *Repository) Update(ctx context.Context, listing *models.StoreItem) error {
	if err := r.db.DB().WithContext(ctx).Save(listing).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to update store item")
	}
	return nil
}

// Delete removes the listing and its recorded price history atomically.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Delete(&models.StorePrice{}, "store_item_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.StoreItem{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "store item not found")
		}
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to delete store item")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Row, error) {
	return r.selectRows(ctx, "")
}

func (r *Repository) ListByReference(ctx context.Context, referenceItemID uuid.UUID) ([]Row, error) {
	return r.selectRows(ctx, "store_items.reference_item_id = ?", referenceItemID)
}

func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]Row, error) {
	return r.selectRows(ctx, "store_items.store_id = ?", storeID)
}

// RecordPrice appends a price history row for the listing.
func (r *Repository) RecordPrice(ctx context.Context, point *models.StorePrice) error {
	if err := r.db.DB().WithContext(ctx).Create(point).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to record price point")
	}
	return nil
}

func (r *Repository) selectRows(ctx context.Context, condition string, args ...any) ([]Row, error) {
	query := r.db.DB().WithContext(ctx).
		Model(&models.StoreItem{}).
		Select("store_items.*", "stores.name AS store_name", "reference_items.name AS item_name").
		Joins("JOIN stores ON stores.id = store_items.store_id").
		Joins("JOIN reference_items ON reference_items.id = store_items.reference_item_id").
		Order("stores.name ASC, reference_items.name ASC")
	if condition != "" {
		query = query.Where(condition, args...)
	}

	var raw []struct {
		models.StoreItem
		StoreName string
		ItemName  string
	}
	if err := query.Scan(&raw).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load store items")
	}

	rows := make([]Row, 0, len(raw))
	for _, entry := range raw {
		rows = append(rows, Row{
			Listing:   entry.StoreItem,
			StoreName: entry.StoreName,
			ItemName:  entry.ItemName,
		})
	}
	return rows, nil
}
