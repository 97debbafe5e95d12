package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/db/models"
)

// StoreDTO is the store payload returned to clients.
type StoreDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	NameAr     *string   `json:"name_ar,omitempty"`
	Location   *string   `json:"location,omitempty"`
	LocationAr *string   `json:"location_ar,omitempty"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewStoreDTO(store models.Store) StoreDTO {
	return StoreDTO{
		ID:         store.ID,
		Name:       store.Name,
		NameAr:     store.NameAr,
		Location:   store.Location,
		LocationAr: store.LocationAr,
		LogoURL:    store.LogoURL,
		Active:     store.Active,
		CreatedAt:  store.CreatedAt,
		UpdatedAt:  store.UpdatedAt,
	}
}
