package category

import (
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients. Parent name and
// subcategory fields are denormalized from the full category list.
type CategoryDTO struct {
	ID                 uuid.UUID   `json:"id"`
	Name               string      `json:"name"`
	NameAr             *string     `json:"name_ar,omitempty"`
	Icon               *string     `json:"icon,omitempty"`
	Description        *string     `json:"description,omitempty"`
	DescriptionAr      *string     `json:"description_ar,omitempty"`
	DisplayOrder       int         `json:"display_order"`
	Active             bool        `json:"active"`
	ParentCategoryID   *uuid.UUID  `json:"parent_category_id,omitempty"`
	ParentCategoryName *string     `json:"parent_category_name,omitempty"`
	SubcategoryCount   int         `json:"subcategory_count"`
	SubcategoryIDs     []uuid.UUID `json:"subcategory_ids"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// CategoryWithChildrenDTO is a category with its direct subcategories
// embedded.
type CategoryWithChildrenDTO struct {
	CategoryDTO
	Subcategories []CategoryDTO `json:"subcategories"`
}

// NewCategoryDTO maps the persisted model; denormalized fields are filled in
// by the caller.
func NewCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:               category.ID,
		Name:             category.Name,
		NameAr:           category.NameAr,
		Icon:             category.Icon,
		Description:      category.Description,
		DescriptionAr:    category.DescriptionAr,
		DisplayOrder:     category.DisplayOrder,
		Active:           category.Active,
		ParentCategoryID: category.ParentCategoryID,
		SubcategoryIDs:   []uuid.UUID{},
		CreatedAt:        category.CreatedAt,
		UpdatedAt:        category.UpdatedAt,
	}
}
