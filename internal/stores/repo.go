package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Repository persists stores.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	if err := r.db.DB().WithContext(ctx).Create(store).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to create store")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.DB().WithContext(ctx).First(&store, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load store")
	}
	return &store, nil
}

func (r *Repository) Update(ctx context.Context, store *models.Store) error {
	if err := r.db.DB().WithContext(ctx).Save(store).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to update store")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB().WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeDependency, result.Error, "failed to delete store")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "store not found")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.DB().WithContext(ctx).Order("name ASC").Find(&stores).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list stores")
	}
	return stores, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.DB().WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&stores).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list active stores")
	}
	return stores, nil
}

// CountListings reports how many store items belong to the store.
func (r *Repository) CountListings(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB().WithContext(ctx).
		Model(&models.StoreItem{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "failed to count store listings")
	}
	return count, nil
}
