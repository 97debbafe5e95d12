package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/khalidshboul/smart-basket-admin/pkg/db/types"
)

// ReferenceItem is the canonical catalog entry stores price against.
type ReferenceItem struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string            `gorm:"column:name;not null"`
	NameAr               *string           `gorm:"column:name_ar"`
	CategoryID           uuid.UUID         `gorm:"column:category_id;type:uuid;not null"`
	Description          *string           `gorm:"column:description"`
	DescriptionAr        *string           `gorm:"column:description_ar"`
	Images               pq.StringArray    `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Barcode              *string           `gorm:"column:barcode"`
	AvailableInAllStores bool              `gorm:"column:available_in_all_stores;not null;default:true"`
	SpecificStoreIDs     dbtypes.UUIDArray `gorm:"column:specific_store_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	Active               bool              `gorm:"column:active;not null;default:true"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
