package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// StoreItem is a store's priced instance of a reference item. At most one
// listing exists per (store, reference item) pair; the unique index backs
// the invariant the comparator relies on.
type StoreItem struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID      `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_store_items_store_ref"`
	ReferenceItemID uuid.UUID      `gorm:"column:reference_item_id;type:uuid;not null;uniqueIndex:idx_store_items_store_ref"`
	Name            string         `gorm:"column:name;not null"`
	NameAr          *string        `gorm:"column:name_ar"`
	Brand           *string        `gorm:"column:brand"`
	Barcode         *string        `gorm:"column:barcode"`
	Images          pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	OriginalPrice   *float64       `gorm:"column:original_price;type:numeric(10,2)"`
	DiscountPrice   *float64       `gorm:"column:discount_price;type:numeric(10,2)"`
	Currency        string         `gorm:"column:currency;not null;default:'JOD'"`
	IsPromotion     bool           `gorm:"column:is_promotion;not null;default:false"`
	LastPriceUpdate *time.Time     `gorm:"column:last_price_update"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
