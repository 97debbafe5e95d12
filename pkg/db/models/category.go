package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is one node of the grocery taxonomy. Categories nest a single
// level at a time via ParentCategoryID; roots have a null parent.
type Category struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string     `gorm:"column:name;not null"`
	NameAr           *string    `gorm:"column:name_ar"`
	Icon             *string    `gorm:"column:icon"`
	Description      *string    `gorm:"column:description"`
	DescriptionAr    *string    `gorm:"column:description_ar"`
	DisplayOrder     int        `gorm:"column:display_order;not null;default:0"`
	Active           bool       `gorm:"column:active;not null;default:true"`
	ParentCategoryID *uuid.UUID `gorm:"column:parent_category_id;type:uuid"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
