// Package catalog serves exercise lookups for session materialization from
// an in-process cache in front of the exercise repository.
package catalog

import (
	"context"
	"errors"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	megabyte        = 1024 * 1024
	defaultSizeMB   = 16
	defaultCacheTTL = 10 * time.Minute
)

// Loader fetches a catalog exercise from the backing store. It returns an
// error wrapping domain.ErrNotFound for unknown IDs.
type Loader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
}

// CachedCatalog caches whole exercise documents, keyed by ObjectID bytes.
// Misses are not cached, so a newly created exercise is visible immediately.
type CachedCatalog struct {
	loader  Loader
	cache   *freecache.Cache
	ttl     time.Duration
	metrics *metrics.Manager
}

// NewCachedCatalog sizes the cache in megabytes. Zero values fall back to
// 16MB and a ten minute TTL. metrics may be nil.
func NewCachedCatalog(loader Loader, sizeMB int, ttl time.Duration, m *metrics.Manager) *CachedCatalog {
	if sizeMB <= 0 {
		sizeMB = defaultSizeMB
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedCatalog{
		loader:  loader,
		cache:   freecache.NewCache(sizeMB * megabyte),
		ttl:     ttl,
		metrics: m,
	}
}

// Exercise returns the full catalog document.
func (c *CachedCatalog) Exercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	key := id[:]
	if raw, err := c.cache.Get(key); err == nil {
		var ex domain.Exercise
		if err = bson.Unmarshal(raw, &ex); err == nil {
			c.count("hit")
			return &ex, nil
		}
		log.Errorf("catalog: corrupt cache entry for %s: %s", id.Hex(), err)
		c.cache.Del(key)
	}
	c.count("miss")

	ex, err := c.loader.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "exercise", ID: id.Hex()}
		}
		return nil, err
	}

	raw, err := bson.Marshal(ex)
	if err != nil {
		log.Errorf("catalog: encode %s: %s", id.Hex(), err)
		return ex, nil
	}
	if err = c.cache.Set(key, raw, int(c.ttl/time.Second)); err != nil {
		// freecache rejects entries larger than 1/1024 of the cache
		log.Warnf("catalog: cache set for %s: %s", id.Hex(), err)
	}
	return ex, nil
}

// GetExercise implements session.Catalog.
func (c *CachedCatalog) GetExercise(ctx context.Context, ref primitive.ObjectID) (*domain.CatalogEntry, error) {
	ex, err := c.Exercise(ctx, ref)
	if err != nil {
		return nil, err
	}
	entry := ex.Entry()
	return &entry, nil
}

// Invalidate drops one exercise from the cache.
func (c *CachedCatalog) Invalidate(id primitive.ObjectID) {
	c.cache.Del(id[:])
}

// Stats returns the cache hit and miss counts since creation.
func (c *CachedCatalog) Stats() (hits, misses int64) {
	return c.cache.HitCount(), c.cache.MissCount()
}

func (c *CachedCatalog) count(result string) {
	if c.metrics != nil {
		c.metrics.CounterCatalogCache.WithLabelValues(result).Inc()
	}
}
