package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/sluggable/pkg/logger"
)

// Backend stores built indexes by name.
//
// TTL semantics for Put:
//   - Positive duration: the index expires after this duration
//   - Zero: use the backend's configured default TTL
//   - Negative: the index never expires
type Backend interface {
	// Get resolves key on the kind side of the named index.
	// Returns ErrNotBuilt if no index is stored under name
	// and ErrNotFound if the index does not contain key.
	Get(ctx context.Context, name string, kind Kind, key string) (string, error)

	// Put replaces the named index as a whole.
	Put(ctx context.Context, name string, idx *Index, ttl time.Duration) error

	// Delete drops the named index. Deleting a missing index is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases resources (stops background goroutines, etc.).
	Close() error
}

// Flusher is implemented by backends that can drop every index they hold.
type Flusher interface {
	Clear(ctx context.Context) error
}

var (
	_ Flusher = (*Memory)(nil)
	_ Flusher = (*Redis)(nil)
)

// LoadFunc scans the backing store and returns a complete index.
type LoadFunc func(ctx context.Context) (*Index, error)

// Cache serves id<->slug lookups for one record type.
//
// The index is built lazily on first access and kept until Clear is called
// or the backend expires it. Concurrent builds are collapsed into one load,
// and Build and Clear never interleave.
type Cache struct {
	backend Backend
	load    LoadFunc
	logger  *slog.Logger
	name    string
	ttl     time.Duration
	group   singleflight.Group
	mu      sync.Mutex
}

// New creates a cache named name whose index is produced by load.
//
// Example:
//
//	c := cache.New("articles", loadArticles,
//	    cache.WithBackend(cache.NewRedis(client)),
//	    cache.WithTTL(30 * time.Minute),
//	)
func New(name string, load LoadFunc, opts ...Option) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Cache{
		name:    name,
		load:    load,
		backend: o.backend,
		logger:  o.logger,
		ttl:     o.ttl,
	}
}

// Name returns the index name used in the backend.
func (c *Cache) Name() string {
	return c.name
}

// IDBySlug returns the record id mapped to slug.
// Returns ErrNotFound if no record has that slug.
func (c *Cache) IDBySlug(ctx context.Context, slug string) (string, error) {
	return c.lookup(ctx, KindSlug, slug)
}

// SlugByID returns the slug of the record with the given id.
// Returns ErrNotFound if the record is unknown or has no slug.
func (c *Cache) SlugByID(ctx context.Context, id string) (string, error) {
	return c.lookup(ctx, KindID, id)
}

// Lookup resolves key without knowing its kind and returns the record id.
// Slugs are tried first; an id with a slug resolves to itself.
func (c *Cache) Lookup(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrNotFound
	}

	id, err := c.backend.Get(ctx, c.name, KindSlug, key)
	if errors.Is(err, ErrNotFound) {
		if _, err = c.backend.Get(ctx, c.name, KindID, key); err == nil {
			id = key
		}
	}
	if !errors.Is(err, ErrNotBuilt) {
		return id, err
	}

	idx, err := c.shared(ctx)
	if err != nil {
		return "", err
	}
	if id, ok := idx.Lookup(key); ok {
		return id, nil
	}

	return "", ErrNotFound
}

// Build loads a fresh index and stores it, replacing any previous one.
// Concurrent callers share a single load.
func (c *Cache) Build(ctx context.Context) error {
	_, err := c.shared(ctx)
	return err
}

// Clear drops the index. The next lookup rebuilds it.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.Delete(ctx, c.name); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "slug cache cleared", slog.String("cache", c.name))

	return nil
}

func (c *Cache) lookup(ctx context.Context, kind Kind, key string) (string, error) {
	if key == "" {
		return "", ErrNotFound
	}

	v, err := c.backend.Get(ctx, c.name, kind, key)
	if !errors.Is(err, ErrNotBuilt) {
		return v, err
	}

	// Answer from the index just built: a Clear may already have dropped
	// it from the backend.
	idx, err := c.shared(ctx)
	if err != nil {
		return "", err
	}
	if v, ok := idx.get(kind, key); ok {
		return v, nil
	}

	return "", ErrNotFound
}

// shared runs one build for all concurrent callers. The load is detached
// from the caller's cancellation so one caller giving up does not fail the
// others; each caller still stops waiting when its own ctx is done.
func (c *Cache) shared(ctx context.Context) (*Index, error) {
	ch := c.group.DoChan(c.name, func() (any, error) {
		return c.build(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) build(ctx context.Context) (*Index, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()

	idx, err := c.load(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "slug cache build failed",
			slog.String("cache", c.name),
			slog.String("error", err.Error()),
		)
		return nil, errors.Join(ErrBuildFailed, err)
	}
	if idx == nil {
		idx = NewIndex(0)
	}

	if err := c.backend.Put(ctx, c.name, idx, c.ttl); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "slug cache built",
		slog.String("cache", c.name),
		slog.Int("entries", idx.Len()),
		slog.Duration("took", time.Since(start)),
	)

	return idx, nil
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	backend Backend
	logger  *slog.Logger
	ttl     time.Duration
}

func defaultOptions() *options {
	return &options{
		backend: sharedMemory,
		logger:  logger.NewNope(),
		ttl:     -1, // never expires
	}
}

// sharedMemory is the process-wide backend used when none is configured.
// It has no janitor; expired indexes are dropped on read.
var sharedMemory = NewMemory(WithCleanupInterval(0))

// WithBackend sets the storage backend.
// Default: a process-wide in-memory backend.
func WithBackend(b Backend) Option {
	return func(o *options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithTTL sets how long a built index is kept.
// Zero defers to the backend default; negative means no expiry.
// Default: no expiry.
func WithTTL(d time.Duration) Option {
	return func(o *options) {
		o.ttl = d
	}
}

// WithLogger sets the logger for build and clear events.
// If not set, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
