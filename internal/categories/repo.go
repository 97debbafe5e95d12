package category

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/khalidshboul/smart-basket-admin/pkg/db"
	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Repository persists categories.
type Repository struct {
	db *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.DB().WithContext(ctx).Create(category).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to create category")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.DB().WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "category not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load category")
	}
	return &category, nil
}

func (r *Repository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.DB().WithContext(ctx).Save(category).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to update category")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB().WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.CodeDependency, result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "category not found")
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.DB().WithContext(ctx).
		Order("display_order ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list categories")
	}
	return categories, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.DB().WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC, created_at ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to list active categories")
	}
	return categories, nil
}

// CountItems reports how many reference items point at the category.
func (r *Repository) CountItems(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB().WithContext(ctx).
		Model(&models.ReferenceItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "failed to count category items")
	}
	return count, nil
}
