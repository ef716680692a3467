package product

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// FeaturedCache is an explicit cache collaborator for the featured-products
// list. Implementations must treat a miss as (nil, false, nil).
type FeaturedCache interface {
	Get(ctx context.Context) ([]Product, bool, error)
	Set(ctx context.Context, products []Product) error
	Invalidate(ctx context.Context) error
}

// NopCache is a FeaturedCache that never hits, for deployments without a
// cache backend.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]Product, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, []Product) error         { return nil }
func (NopCache) Invalidate(context.Context) error             { return nil }

// Catalog serves product reads, fronting the featured list with a
// read-through cache. Every toggle of a product's featured flag invalidates
// the cached list.
type Catalog struct {
	repo  Repository
	cache FeaturedCache
}

// NewCatalog creates a Catalog backed by the given repository and cache.
func NewCatalog(repo Repository, cache FeaturedCache) *Catalog {
	return &Catalog{repo: repo, cache: cache}
}

// List returns every product in the catalog.
func (c *Catalog) List(ctx context.Context) ([]Product, error) {
	return c.repo.List(ctx)
}

// GetByID returns a single product by its identifier.
func (c *Catalog) GetByID(ctx context.Context, id string) (*Product, error) {
	return c.repo.GetByID(ctx, id)
}

// ListFeatured returns the featured products, reading through the cache.
// Cache failures degrade to a direct repository read, they never fail the
// request.
func (c *Catalog) ListFeatured(ctx context.Context) ([]Product, error) {
	cached, ok, err := c.cache.Get(ctx)
	if err != nil {
		zctx.From(ctx).Warn("featured cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	products, err := c.repo.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, products); err != nil {
		zctx.From(ctx).Warn("featured cache write failed", zap.Error(err))
	}
	return products, nil
}

// SetFeatured toggles a product's featured flag and invalidates the cached
// featured list so the next read observes the change.
func (c *Catalog) SetFeatured(ctx context.Context, id string, featured bool) error {
	if err := c.repo.SetFeatured(ctx, id, featured); err != nil {
		return err
	}
	if err := c.cache.Invalidate(ctx); err != nil {
		zctx.From(ctx).Warn("featured cache invalidation failed", zap.Error(err))
	}
	return nil
}
