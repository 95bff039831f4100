package sluggable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/sluggable/pkg/cache"
	"github.com/dmitrymomot/sluggable/pkg/logger"
	"github.com/dmitrymomot/sluggable/pkg/sanitizer"
	"github.com/dmitrymomot/sluggable/pkg/slug"
)

// Controller manages slugs for one record type.
// It is safe for concurrent use; the records it is given are not.
type Controller struct {
	store  Store
	cache  *cache.Cache
	logger *slog.Logger
	cfg    Config
}

// New creates a controller for the records kept in store.
//
// Example:
//
//	articles, err := sluggable.New(store,
//	    sluggable.WithSluggableField("name"),
//	    sluggable.WithAppendID(),
//	)
func New(store Store, opts ...Option) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidConfig)
	}

	o := &options{
		cfg:    DefaultConfig(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(o)
	}

	cfg := o.cfg
	if cfg.SlugField == "" || cfg.SluggableField == "" {
		return nil, fmt.Errorf("%w: empty field name", ErrInvalidConfig)
	}
	if cfg.SlugField == cfg.SluggableField {
		return nil, fmt.Errorf("%w: slug and sluggable field are both %q", ErrInvalidConfig, cfg.SlugField)
	}
	if cfg.CacheName == "" {
		cfg.CacheName = defaultCacheName(store)
	}

	c := &Controller{
		store:  store,
		cfg:    cfg,
		logger: o.logger.With(slog.String("cache", cfg.CacheName)),
	}

	cacheOpts := []cache.Option{
		cache.WithTTL(cfg.CacheTTL),
		cache.WithLogger(o.logger),
	}
	if o.backend != nil {
		cacheOpts = append(cacheOpts, cache.WithBackend(o.backend))
	}
	c.cache = cache.New(cfg.CacheName, c.loadIndex, cacheOpts...)

	return c, nil
}

// Config returns the controller configuration with defaults applied.
func (c *Controller) Config() Config {
	return c.cfg
}

// Normalize maps text to its canonical slug.
func Normalize(text string) string {
	return slug.Normalize(text)
}

// Slug returns the slug readers should see: the remembered pre-edit slug
// while an edit is pending, the stored value otherwise.
func (c *Controller) Slug(rec Record) string {
	if t := rec.SlugTracker(); t != nil {
		if old, ok := t.Old(); ok {
			return old
		}
	}
	return rec.Field(c.cfg.SlugField)
}

// SetSlug writes v to the slug field. A non-empty slug being replaced by a
// different value is remembered until the next commit finalizes the record.
func (c *Controller) SetSlug(rec Record, v string) {
	if cur := c.Slug(rec); cur != "" && cur != v {
		if t := rec.SlugTracker(); t != nil {
			t.remember(cur)
		}
	}
	rec.SetField(c.cfg.SlugField, v)
}

// Sluggable returns the sluggable field value.
func (c *Controller) Sluggable(rec Record) string {
	return rec.Field(c.cfg.SluggableField)
}

// SetSluggable writes v to the sluggable field with whitespace runs
// collapsed and both ends trimmed.
func (c *Controller) SetSluggable(rec Record, v string) {
	if c.cfg.StripMarkup {
		v = sanitizer.PlainText(v)
	} else {
		v = sanitizer.Whitespace(v)
	}
	rec.SetField(c.cfg.SluggableField, v)
}

// Param returns the slug as a path segment, or false when the record has none.
func (c *Controller) Param(rec Record) (string, bool) {
	s := c.Slug(rec)
	return s, s != ""
}

// Commit durably saves rec and finalizes its slug.
//
// On create the slug is first derived from the sluggable field. Unless ids
// are appended, the final slug is checked for uniqueness before anything is
// written. After the save the slug is recomputed (with the new id in append
// mode) and written a second time if it changed. Stores implementing
// Transactor run both writes in one transaction.
func (c *Controller) Commit(ctx context.Context, rec Record) error {
	creating := rec.RecordID() == ""
	if creating {
		c.deriveSlug(rec)
	}

	if err := c.Validate(ctx, rec); err != nil {
		return err
	}

	tx, transactional := c.store.(Transactor)
	saved := false
	run := func(ctx context.Context, s Store) error {
		if err := s.Save(ctx, rec); err != nil {
			return err
		}
		saved = true
		return c.finalize(ctx, s, rec)
	}

	var err error
	if transactional {
		err = tx.WithinTx(ctx, run)
	} else {
		err = run(ctx, c.store)
	}
	if err != nil {
		// A create that left no durable row must not keep its id.
		if creating && (!saved || transactional) {
			rec.SetRecordID("")
		}
		c.logger.ErrorContext(ctx, "slug commit failed",
			slog.String("id", rec.RecordID()),
			slog.String("error", err.Error()),
		)
		return c.mapStoreError(rec, err)
	}

	c.invalidate(ctx)

	return nil
}

// BeforeCreate derives the initial slug from the sluggable field.
// It is the pre-commit step of Commit, exposed for HookRegistry pipelines.
func (c *Controller) BeforeCreate(_ context.Context, rec Record) error {
	c.deriveSlug(rec)
	return nil
}

// AfterSave finalizes the slug of a freshly saved record and clears the
// cache. It is the post-commit step of Commit, exposed for HookRegistry pipelines.
func (c *Controller) AfterSave(ctx context.Context, rec Record) error {
	if err := c.finalize(ctx, c.store, rec); err != nil {
		return c.mapStoreError(rec, err)
	}
	c.invalidate(ctx)
	return nil
}

// Register attaches the controller to a persistence layer that runs its
// own save pipeline.
func (c *Controller) Register(reg HookRegistry) {
	reg.OnBeforeCreate(c.BeforeCreate)
	reg.OnBeforeSave(c.Validate)
	reg.OnAfterSave(c.AfterSave)
}

// Validate checks that the slug rec will end up with is not used by
// another record. It is a no-op in append-id mode and for empty slugs.
func (c *Controller) Validate(ctx context.Context, rec Record) error {
	if c.cfg.AppendID {
		return nil
	}

	candidate := slug.Normalize(c.Sluggable(rec))
	if candidate == "" {
		candidate = rec.Field(c.cfg.SlugField)
	}
	if candidate == "" {
		return nil
	}

	taken, err := c.store.Taken(ctx, c.cfg.SlugField, candidate, rec.RecordID())
	if err != nil {
		return err
	}
	if taken {
		return newTakenError(c.cfg.SlugField, candidate, nil)
	}

	return nil
}

// Prepare declares the slug uniqueness constraint when the store supports
// it. It does nothing in append-id mode.
func (c *Controller) Prepare(ctx context.Context) error {
	if c.cfg.AppendID {
		return nil
	}
	enforcer, ok := c.store.(UniqueEnforcer)
	if !ok {
		return nil
	}
	return enforcer.EnforceUnique(ctx, c.cfg.SlugField)
}

// deriveSlug sets the slug from the sluggable field, if there is one.
func (c *Controller) deriveSlug(rec Record) {
	if s := slug.Normalize(c.Sluggable(rec)); s != "" {
		c.SetSlug(rec, s)
	}
}

// finalSlug is the slug a saved record should carry, or "" to keep the stored one.
func (c *Controller) finalSlug(rec Record) string {
	base := slug.Normalize(c.Sluggable(rec))
	if c.cfg.AppendID {
		return slug.Join(base, rec.RecordID())
	}
	return base
}

// finalize runs after a durable write: it drops the pending old slug and
// writes the recomputed slug if it differs from the stored one.
func (c *Controller) finalize(ctx context.Context, s Store, rec Record) error {
	t := rec.SlugTracker()
	if t != nil {
		t.forget()
	}

	next := c.finalSlug(rec)
	if next == "" || next == rec.Field(c.cfg.SlugField) {
		return nil
	}

	prev := rec.Field(c.cfg.SlugField)
	c.SetSlug(rec, next)
	if err := s.UpdateField(ctx, rec, c.cfg.SlugField, next); err != nil {
		rec.SetField(c.cfg.SlugField, prev)
		if t != nil {
			t.forget()
		}
		return err
	}

	if t != nil {
		t.forget()
	}

	c.logger.DebugContext(ctx, "slug finalized",
		slog.String("id", rec.RecordID()),
		slog.String("slug", next),
	)

	return nil
}

func (c *Controller) invalidate(ctx context.Context) {
	if !c.cfg.InvalidateOnCommit {
		return
	}
	if err := c.cache.Clear(ctx); err != nil {
		c.logger.ErrorContext(ctx, "slug cache clear failed", slog.String("error", err.Error()))
	}
}

func (c *Controller) mapStoreError(rec Record, err error) error {
	if errors.Is(err, ErrUniqueViolation) {
		return newTakenError(c.cfg.SlugField, rec.Field(c.cfg.SlugField), err)
	}
	return err
}

func defaultCacheName(store Store) string {
	if n, ok := store.(Namer); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", store)
}
