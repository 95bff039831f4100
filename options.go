package sluggable

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sluggable/pkg/cache"
)

// Config is the slug configuration of one record type.
type Config struct {
	// SlugField holds the slug. Default: "slug".
	SlugField string
	// SluggableField holds the text the slug is derived from. Default: "title".
	SluggableField string
	// CacheName names the type's cache index.
	// Default: the store's Name() when it implements Namer, else its Go type.
	CacheName string
	// CacheTTL bounds how long a built index is kept. Zero defers to the
	// backend default, which never expires unless configured otherwise.
	CacheTTL time.Duration
	// AppendID makes slugs unique by suffixing the record id instead of
	// rejecting duplicates.
	AppendID bool
	// StripMarkup removes HTML from the sluggable field on assignment.
	StripMarkup bool
	// InvalidateOnCommit clears the type's cache after every commit. Default: true.
	InvalidateOnCommit bool
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		SlugField:          "slug",
		SluggableField:     "title",
		InvalidateOnCommit: true,
	}
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	backend cache.Backend
	logger  *slog.Logger
	cfg     Config
}

// WithConfig replaces the whole configuration.
// Empty field names fall back to the defaults.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		def := DefaultConfig()
		if cfg.SlugField == "" {
			cfg.SlugField = def.SlugField
		}
		if cfg.SluggableField == "" {
			cfg.SluggableField = def.SluggableField
		}
		o.cfg = cfg
	}
}

// WithSlugField sets the field that holds the slug.
// Defaults to "slug".
func WithSlugField(name string) Option {
	return func(o *options) {
		o.cfg.SlugField = name
	}
}

// WithSluggableField sets the field the slug is derived from.
// Defaults to "title".
func WithSluggableField(name string) Option {
	return func(o *options) {
		o.cfg.SluggableField = name
	}
}

// WithAppendID suffixes every slug with the record id ("hello-world-42").
// Duplicate titles are then allowed and no uniqueness check runs.
func WithAppendID() Option {
	return func(o *options) {
		o.cfg.AppendID = true
	}
}

// WithStripMarkup removes HTML tags from the sluggable field on assignment.
func WithStripMarkup() Option {
	return func(o *options) {
		o.cfg.StripMarkup = true
	}
}

// WithoutCacheInvalidation keeps the cache untouched on commit.
// Callers must then call ClearCache themselves.
func WithoutCacheInvalidation() Option {
	return func(o *options) {
		o.cfg.InvalidateOnCommit = false
	}
}

// WithCacheBackend sets where the id<->slug index is stored.
// Defaults to a process-wide in-memory backend.
func WithCacheBackend(b cache.Backend) Option {
	return func(o *options) {
		if b != nil {
			o.backend = b
		}
	}
}

// WithCacheName overrides the cache index name.
func WithCacheName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.cfg.CacheName = name
		}
	}
}

// WithCacheTTL sets how long a built index is kept.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		o.cfg.CacheTTL = d
	}
}

// WithLogger sets the controller logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
