package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a grocery chain whose listings participate in price comparison.
type Store struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	NameAr     *string   `gorm:"column:name_ar"`
	Location   *string   `gorm:"column:location"`
	LocationAr *string   `gorm:"column:location_ar"`
	LogoURL    *string   `gorm:"column:logo_url"`
	Active     bool      `gorm:"column:active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
