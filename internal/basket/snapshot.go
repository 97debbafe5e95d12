package basket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khalidshboul/smart-basket-admin/pkg/logger"
	"github.com/khalidshboul/smart-basket-admin/pkg/metrics"
	"github.com/khalidshboul/smart-basket-admin/pkg/redis"
)

const snapshotScope = "catalog"

// Catalog is the immutable comparison input assembled from the database:
// every active item and store plus all listings. One snapshot serves one or
// more Compare calls until its TTL lapses or a write invalidates it.
type Catalog struct {
	Items    []CatalogItem    `json:"items"`
	Stores   []CatalogStore   `json:"stores"`
	Listings []CatalogListing `json:"listings"`
}

type CatalogItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CategoryName string    `json:"category_name"`
}

type CatalogStore struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	LogoURL *string   `json:"logo_url,omitempty"`
}

type CatalogListing struct {
	ItemID        uuid.UUID `json:"item_id"`
	StoreID       uuid.UUID `json:"store_id"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Currency      string    `json:"currency"`
}

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(scope string) string
}

// SnapshotCache keeps the serialized catalog in Redis. Cache failures are
// logged and treated as misses so comparison never depends on Redis being up.
type SnapshotCache struct {
	store   snapshotStore
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.Registry
}

// NewSnapshotCache builds a cache over the provided Redis client. A nil
// client disables caching entirely.
func NewSnapshotCache(store snapshotStore, ttl time.Duration, logg *logger.Logger, reg *metrics.Registry) *SnapshotCache {
	return &SnapshotCache{store: store, ttl: ttl, logg: logg, metrics: reg}
}

// Get returns the cached catalog, or nil on miss.
func (c *SnapshotCache) Get(ctx context.Context) *Catalog {
	if c == nil || c.store == nil {
		return nil
	}

	raw, err := c.store.Get(ctx, c.store.SnapshotKey(snapshotScope))
	if err != nil {
		if !errors.Is(err, redis.Nil) && c.logg != nil {
			c.logg.Warn(ctx, "catalog snapshot read failed: "+err.Error())
		}
		c.metrics.IncSnapshotMiss()
		return nil
	}

	var catalog Catalog
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "catalog snapshot corrupt, rebuilding: "+err.Error())
		}
		c.metrics.IncSnapshotMiss()
		return nil
	}

	c.metrics.IncSnapshotHit()
	return &catalog
}

// Put stores the catalog with the configured TTL.
func (c *SnapshotCache) Put(ctx context.Context, catalog *Catalog) {
	if c == nil || c.store == nil || catalog == nil {
		return
	}

	raw, err := json.Marshal(catalog)
	if err != nil {
		if c.logg != nil {
			c.logg.Warn(ctx, "catalog snapshot marshal failed: "+err.Error())
		}
		return
	}

	if err := c.store.Set(ctx, c.store.SnapshotKey(snapshotScope), string(raw), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "catalog snapshot write failed: "+err.Error())
	}
}

// Invalidate drops the cached catalog. Called after any listing or price
// write so the next comparison sees fresh data.
func (c *SnapshotCache) Invalidate(ctx context.Context) {
	if c == nil || c.store == nil {
		return
	}
	if err := c.store.Del(ctx, c.store.SnapshotKey(snapshotScope)); err != nil && c.logg != nil {
		c.logg.Warn(ctx, "catalog snapshot invalidation failed: "+err.Error())
	}
}
