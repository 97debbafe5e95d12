package price

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
	"github.com/khalidshboul/smart-basket-admin/pkg/pagination"
)

// Repository persists price updates and reads price history.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) FindStoreItem(ctx context.Context, id uuid.UUID) (*models.StoreItem, error) {
	var listing models.StoreItem
	err := r.db.DB().WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store item not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load store item")
	}
	return &listing, nil
}

// ApplyPrice mirrors the new price onto the listing and appends the history
// row in one transaction.
func (r *Repository) ApplyPrice(ctx context.Context, listing *models.StoreItem, point *models.StorePrice) error {
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(listing).Error; err != nil {
			return err
		}
		return tx.Create(point).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to apply price update")
	}
	return nil
}

// ListHistory returns price points for a listing, newest first, keyed by
// (recorded_at, id) descending. Passing limit with a buffer row lets the
// caller detect whether a next page exists.
func (r *Repository) ListHistory(ctx context.Context, storeItemID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StorePrice, error) {
	query := r.db.DB().WithContext(ctx).
		Where("store_item_id = ?", storeItemID).
		Order("recorded_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(recorded_at < ?) OR (recorded_at = ? AND id < ?)",
			cursor.RecordedAt, cursor.RecordedAt, cursor.ID,
		)
	}

	var points []models.StorePrice
	if err := query.Find(&points).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load price history")
	}
	return points, nil
}
