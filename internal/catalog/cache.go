package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through Redis decorator over a Provider. Products are
// read-only from this service's point of view, so entries simply expire;
// there is no invalidation path. Redis failures fall back to the wrapped
// provider.
type Cache struct {
	client  *redis.Client
	next    Provider
	baseTTL time.Duration
}

func NewCache(client *redis.Client, next Provider) *Cache {
	return &Cache{
		client:  client,
		next:    next,
		baseTTL: 5 * time.Minute,
	}
}

func (c *Cache) GetProduct(ctx context.Context, productID string) (Product, error) {
	key := cacheKey(productID)

	// Cache miss, a corrupt entry, and an unreachable redis all take the same
	// path: fetch from the catalog.
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var p Product
		if err := json.Unmarshal(data, &p); err == nil {
			return p, nil
		}
	}

	p, err := c.next.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, err
	}

	if body, err := json.Marshal(p); err == nil {
		// jitter spreads expiry so popular products don't refetch in lockstep
		ttl := c.baseTTL + time.Duration(rand.Intn(60))*time.Second
		_ = c.client.Set(ctx, key, body, ttl).Err()
	}

	return p, nil
}

func cacheKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}
