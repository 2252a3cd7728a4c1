// internal/assessment/products/cache.go
package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"financial-clinic-workers/internal/common/logger"
	"financial-clinic-workers/internal/common/metrics"
	"financial-clinic-workers/internal/models"
)

const DefaultCacheTTL = 5 * time.Minute

// CachedStore is a read-through Redis cache in front of another Store.
// Redis failures never fail a lookup; the inner store is asked instead.
type CachedStore struct {
	inner  Store
	redis  redis.Cmdable
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger
}

func NewCachedStore(inner Store, client redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		inner:  inner,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "product-cache"}),
	}
}

func CacheKey(category models.Category, status string) string {
	return fmt.Sprintf("products:%s:%s", category, status)
}

func (s *CachedStore) ActiveProducts(ctx context.Context, category models.Category, status string) ([]models.Product, error) {
	key := CacheKey(category, status)

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []models.Product
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			metrics.ProductCacheRequests.WithLabelValues("hit").Inc()
			return cached, nil
		}
		s.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case errors.Is(err, redis.Nil):
	default:
		metrics.ProductCacheRequests.WithLabelValues("error").Inc()
		s.logger.Warn("product cache unavailable", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	metrics.ProductCacheRequests.WithLabelValues("miss").Inc()
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		products, err := s.inner.ActiveProducts(ctx, category, status)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []models.Product{}
		}
		data, err := json.Marshal(products)
		if err == nil {
			if setErr := s.redis.Set(ctx, key, data, s.ttl).Err(); setErr != nil {
				s.logger.Warn("failed to cache products", map[string]interface{}{
					"key":   key,
					"error": setErr.Error(),
				})
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Product), nil
}

// Invalidate drops the cached entry for one category and status and
// reports whether it existed.
func (s *CachedStore) Invalidate(ctx context.Context, category models.Category, status string) (bool, error) {
	n, err := s.redis.Del(ctx, CacheKey(category, status)).Result()
	if err != nil {
		return false, fmt.Errorf("invalidate %s: %w", CacheKey(category, status), err)
	}
	return n > 0, nil
}

// InvalidateAll drops the cached entries for every category and status
// pair and returns how many keys existed.
func (s *CachedStore) InvalidateAll(ctx context.Context, categories []models.Category, statuses []string) (int, error) {
	removed := 0
	for _, category := range categories {
		for _, status := range statuses {
			existed, err := s.Invalidate(ctx, category, status)
			if err != nil {
				return removed, err
			}
			if existed {
				removed++
			}
		}
	}
	return removed, nil
}
