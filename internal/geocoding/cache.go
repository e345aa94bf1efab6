package geocoding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

const (
	searchCacheDuration  = 10 * time.Minute
	cacheCleanupInterval = 30 * time.Minute
)

// CachedBackend memoizes successful lookups of another backend. Failures are
// never cached.
type CachedBackend struct {
	next  Backend
	cache *cache.Cache
}

func NewCachedBackend(next Backend, ttl time.Duration) *CachedBackend {
	if ttl <= 0 {
		ttl = searchCacheDuration
	}
	return &CachedBackend{
		next:  next,
		cache: cache.New(ttl, cacheCleanupInterval),
	}
}

func cacheKey(prefix string, params ...any) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}

func (c *CachedBackend) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	key := cacheKey("search", strings.ToLower(q.Text), q.CountryCode, q.ViewBox.ViewBox(), q.Bounded, q.Limit)
	if cached, ok := c.cache.Get(key); ok {
		return append([]models.Candidate(nil), cached.([]models.Candidate)...), nil
	}

	candidates, err := c.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, append([]models.Candidate(nil), candidates...), cache.DefaultExpiration)
	return candidates, nil
}

// Reverse lookups are keyed on ~1 m precision.
func (c *CachedBackend) Reverse(ctx context.Context, p geo.Point) (models.Candidate, error) {
	key := cacheKey("reverse", fmt.Sprintf("%.5f", p.Lat), fmt.Sprintf("%.5f", p.Lng))
	if cached, ok := c.cache.Get(key); ok {
		return cached.(models.Candidate), nil
	}

	candidate, err := c.next.Reverse(ctx, p)
	if err != nil {
		return models.Candidate{}, err
	}
	c.cache.Set(key, candidate, cache.DefaultExpiration)
	return candidate, nil
}

func (c *CachedBackend) Flush() {
	c.cache.Flush()
}
