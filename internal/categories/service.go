package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
	apperrors "github.com/khalidshboul/smart-basket-admin/pkg/errors"
)

// Service exposes category taxonomy management.
type Service interface {
	Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	GetWithSubcategories(ctx context.Context, id uuid.UUID) (*CategoryWithChildrenDTO, error)
	List(ctx context.Context) ([]CategoryDTO, error)
	ListActive(ctx context.Context) ([]CategoryDTO, error)
	ListTopLevel(ctx context.Context) ([]CategoryDTO, error)
	ListSubcategories(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error)
	Tree(ctx context.Context) ([]CategoryDTO, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name             string     `json:"name" validate:"required,min=1,max=255"`
	NameAr           *string    `json:"name_ar" validate:"omitempty,max=255"`
	Icon             *string    `json:"icon" validate:"omitempty,max=255"`
	Description      *string    `json:"description"`
	DescriptionAr    *string    `json:"description_ar"`
	DisplayOrder     int        `json:"display_order" validate:"gte=0"`
	Active           *bool      `json:"active"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id"`
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name             *string    `json:"name" validate:"omitempty,min=1,max=255"`
	NameAr           *string    `json:"name_ar" validate:"omitempty,max=255"`
	Icon             *string    `json:"icon" validate:"omitempty,max=255"`
	Description      *string    `json:"description"`
	DescriptionAr    *string    `json:"description_ar"`
	DisplayOrder     *int       `json:"display_order" validate:"omitempty,gte=0"`
	Active           *bool      `json:"active"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id"`
	ClearParent      bool       `json:"clear_parent"`
}

type repository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	CountItems(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type service struct {
	repo        repository
	invalidator catalogInvalidator
}

// NewService constructs a category service. The invalidator may be nil when
// no comparison cache is wired.
func NewService(repo repository, invalidator catalogInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo, invalidator: invalidator}, nil
}

func (s *service) Create(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	if input.ParentCategoryID != nil {
		if _, err := s.repo.FindByID(ctx, *input.ParentCategoryID); err != nil {
			if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
				return nil, apperrors.New(apperrors.CodeValidation, "parent_category_id does not exist")
			}
			return nil, err
		}
	}

	category := models.Category{
		Name:             input.Name,
		NameAr:           input.NameAr,
		Icon:             input.Icon,
		Description:      input.Description,
		DescriptionAr:    input.DescriptionAr,
		DisplayOrder:     input.DisplayOrder,
		Active:           true,
		ParentCategoryID: input.ParentCategoryID,
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.Get(ctx, category.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ParentCategoryID != nil {
		if err := s.ensureValidParent(ctx, id, *input.ParentCategoryID); err != nil {
			return nil, err
		}
		category.ParentCategoryID = input.ParentCategoryID
	} else if input.ClearParent {
		category.ParentCategoryID = nil
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.NameAr != nil {
		category.NameAr = input.NameAr
	}
	if input.Icon != nil {
		category.Icon = input.Icon
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.DescriptionAr != nil {
		category.DescriptionAr = input.DescriptionAr
	}
	if input.DisplayOrder != nil {
		category.DisplayOrder = *input.DisplayOrder
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.Get(ctx, category.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	if len(DirectChildren(all, id)) > 0 {
		return apperrors.New(apperrors.CodeConflict, "category still has subcategories")
	}

	itemCount, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if itemCount > 0 {
		return apperrors.New(apperrors.CodeConflict, "category still has items")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dto := s.denormalize(*category, all)
	return &dto, nil
}

func (s *service) GetWithSubcategories(ctx context.Context, id uuid.UUID) (*CategoryWithChildrenDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	dto := &CategoryWithChildrenDTO{
		CategoryDTO:   s.denormalize(*category, all),
		Subcategories: []CategoryDTO{},
	}
	for _, child := range DirectChildren(all, id) {
		dto.Subcategories = append(dto.Subcategories, s.denormalize(child, all))
	}
	return dto, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.denormalizeAll(all, all), nil
}

func (s *service) ListActive(ctx context.Context) ([]CategoryDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]models.Category, 0, len(all))
	for _, category := range all {
		if category.Active {
			active = append(active, category)
		}
	}
	return s.denormalizeAll(active, all), nil
}

func (s *service) ListTopLevel(ctx context.Context) ([]CategoryDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	roots := make([]models.Category, 0, len(all))
	for _, category := range all {
		if category.ParentCategoryID == nil {
			roots = append(roots, category)
		}
	}
	return s.denormalizeAll(roots, all), nil
}

func (s *service) ListSubcategories(ctx context.Context, parentID uuid.UUID) ([]CategoryDTO, error) {
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.denormalizeAll(DirectChildren(all, parentID), all), nil
}

// Tree returns every category flattened depth-first, parents before their
// descendants.
func (s *service) Tree(ctx context.Context) ([]CategoryDTO, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.denormalizeAll(Flatten(all), all), nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Active = !category.Active
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.Get(ctx, id)
}

// ensureValidParent rejects self-parenting and reparenting under the
// category's own descendant.
func (s *service) ensureValidParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return apperrors.New(apperrors.CodeValidation, "category cannot be its own parent")
	}

	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		if typed := apperrors.As(err); typed != nil && typed.Code() == apperrors.CodeNotFound {
			return apperrors.New(apperrors.CodeValidation, "parent_category_id does not exist")
		}
		return err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, descendantID := range SubtreeIDs(all, id) {
		if descendantID == parentID {
			return apperrors.New(apperrors.CodeValidation, "category cannot be nested under its own descendant")
		}
	}
	return nil
}

func (s *service) denormalize(category models.Category, all []models.Category) CategoryDTO {
	dto := NewCategoryDTO(category)

	if category.ParentCategoryID != nil {
		for _, candidate := range all {
			if candidate.ID == *category.ParentCategoryID {
				name := candidate.Name
				dto.ParentCategoryName = &name
				break
			}
		}
	}

	for _, child := range DirectChildren(all, category.ID) {
		dto.SubcategoryIDs = append(dto.SubcategoryIDs, child.ID)
	}
	dto.SubcategoryCount = len(dto.SubcategoryIDs)

	return dto
}

func (s *service) denormalizeAll(categories []models.Category, all []models.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, category := range categories {
		dtos = append(dtos, s.denormalize(category, all))
	}
	return dtos
}

func (s *service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCatalog(ctx)
	}
}
