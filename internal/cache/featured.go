// Package cache provides Redis-backed caches for hot read paths.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/oakmart/storefront/internal/domain/product"
)

const featuredKey = "featured_products"

// FeaturedProducts caches the featured-products list in Redis with a TTL.
// It implements product.FeaturedCache.
type FeaturedProducts struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ product.FeaturedCache = (*FeaturedProducts)(nil)

// NewFeaturedProducts creates a cache using the given Redis client. A zero
// ttl means entries live until invalidated.
func NewFeaturedProducts(rdb *redis.Client, ttl time.Duration) *FeaturedProducts {
	return &FeaturedProducts{rdb: rdb, ttl: ttl}
}

// cachedProduct is the wire form; decimal prices serialize as strings.
type cachedProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Image    struct {
		Thumbnail string `json:"thumbnail"`
		Mobile    string `json:"mobile"`
		Tablet    string `json:"tablet"`
		Desktop   string `json:"desktop"`
	} `json:"image"`
}

// Get returns the cached featured list, reporting a miss as (nil, false, nil).
func (c *FeaturedProducts) Get(ctx context.Context) ([]product.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, featuredKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get featured products")
	}

	var cached []cachedProduct
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false, errors.Wrap(err, "decode featured products")
	}

	out := make([]product.Product, len(cached))
	for i, cp := range cached {
		price, err := decimal.NewFromString(cp.Price)
		if err != nil {
			return nil, false, errors.Wrapf(err, "decode price for product %q", cp.ID)
		}
		out[i] = product.Product{
			ID:       cp.ID,
			Name:     cp.Name,
			Price:    price,
			Category: cp.Category,
			Featured: true,
			Image: product.Image{
				Thumbnail: cp.Image.Thumbnail,
				Mobile:    cp.Image.Mobile,
				Tablet:    cp.Image.Tablet,
				Desktop:   cp.Image.Desktop,
			},
		}
	}
	return out, true, nil
}

// Set stores the featured list.
func (c *FeaturedProducts) Set(ctx context.Context, products []product.Product) error {
	cached := make([]cachedProduct, len(products))
	for i, p := range products {
		cached[i] = cachedProduct{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.String(),
			Category: p.Category,
		}
		cached[i].Image.Thumbnail = p.Image.Thumbnail
		cached[i].Image.Mobile = p.Image.Mobile
		cached[i].Image.Tablet = p.Image.Tablet
		cached[i].Image.Desktop = p.Image.Desktop
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		return errors.Wrap(err, "encode featured products")
	}
	if err := c.rdb.Set(ctx, featuredKey, raw, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "set featured products")
	}
	return nil
}

// Invalidate drops the cached list. Deleting a missing key is a no-op.
func (c *FeaturedProducts) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, featuredKey).Err(); err != nil {
		return errors.Wrap(err, "invalidate featured products")
	}
	return nil
}
