package models

import (
	"time"

	"github.com/google/uuid"
)

// StorePrice is one recorded price point for a store item. The newest row
// mirrors the listing's current price columns.
type StorePrice struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreItemID   uuid.UUID `gorm:"column:store_item_id;type:uuid;not null;index"`
	Price         float64   `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *float64  `gorm:"column:original_price;type:numeric(10,2)"`
	Currency      string    `gorm:"column:currency;not null;default:'JOD'"`
	IsPromotion   bool      `gorm:"column:is_promotion;not null;default:false"`
	RecordedAt    time.Time `gorm:"column:recorded_at;autoCreateTime"`
}
