package sluggable

import (
	"context"
	"errors"

	"github.com/dmitrymomot/sluggable/pkg/cache"
)

// IDBySlug returns the id of the record with the given slug.
func (c *Controller) IDBySlug(ctx context.Context, s string) (string, error) {
	id, err := c.cache.IDBySlug(ctx, s)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// SlugByID returns the stored slug of the record with the given id.
func (c *Controller) SlugByID(ctx context.Context, id string) (string, error) {
	s, err := c.cache.SlugByID(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrNotFound
	}
	return s, err
}

// Lookup returns the id of the record whose slug or id equals key, using
// only the cache. Slugs are tried first.
func (c *Controller) Lookup(ctx context.Context, key string) (string, error) {
	id, err := c.cache.Lookup(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrNotFound
	}
	return id, err
}

// ClearCache drops the type's id<->slug index; the next lookup rebuilds it.
func (c *Controller) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// BuildCache scans the store and replaces the type's index.
func (c *Controller) BuildCache(ctx context.Context) error {
	return c.cache.Build(ctx)
}

// Cache returns the type's cache, e.g. to hand it to a cache.Refresher.
func (c *Controller) Cache() *cache.Cache {
	return c.cache
}

func (c *Controller) loadIndex(ctx context.Context) (*cache.Index, error) {
	if lister, ok := c.store.(SlugLister); ok {
		idx := cache.NewIndex(0)
		if err := lister.ListSlugs(ctx, c.cfg.SlugField, idx.Add); err != nil {
			return nil, err
		}
		return idx, nil
	}

	records, err := c.store.All(ctx)
	if err != nil {
		return nil, err
	}

	idx := cache.NewIndex(len(records))
	for _, rec := range records {
		idx.Add(rec.RecordID(), rec.Field(c.cfg.SlugField))
	}

	return idx, nil
}
