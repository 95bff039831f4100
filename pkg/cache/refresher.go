package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/sluggable/pkg/logger"
)

// Refresher rebuilds a set of caches on a cron schedule.
//
// A rebuild replaces each index whole, so lookups keep hitting the previous
// index until the new one is stored.
type Refresher struct {
	cron    *cron.Cron
	logger  *slog.Logger
	caches  []*Cache
	timeout time.Duration
}

// NewRefresher parses schedule and returns a stopped refresher for caches.
// The schedule is a 5-field cron expression or a descriptor such as
// "@every 5m" or "@hourly".
//
// Example:
//
//	r, err := cache.NewRefresher("@every 10m", []*cache.Cache{articles, tags})
//	if err != nil {
//	    return err
//	}
//	r.Start()
//	defer r.Stop(ctx)
func NewRefresher(schedule string, caches []*Cache, opts ...RefresherOption) (*Refresher, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, schedule, err)
	}

	r := &Refresher{
		cron:    cron.New(),
		caches:  caches,
		logger:  logger.NewNope(),
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.cron.Schedule(sched, cron.FuncJob(r.run))

	return r, nil
}

// Refresh rebuilds every cache once. Failures do not stop the remaining
// caches; all errors are returned joined.
func (r *Refresher) Refresh(ctx context.Context) error {
	var errs []error
	for _, c := range r.caches {
		if err := c.Build(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Start runs the schedule in its own goroutine.
func (r *Refresher) Start() {
	r.cron.Start()
	r.logger.Info("slug cache refresher started", slog.Int("caches", len(r.caches)))
}

// Stop halts the schedule and waits for a running refresh to finish
// or for ctx to be done, whichever comes first.
func (r *Refresher) Stop(ctx context.Context) error {
	done := r.cron.Stop()

	select {
	case <-done.Done():
		r.logger.Info("slug cache refresher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.Refresh(ctx); err != nil {
		r.logger.ErrorContext(ctx, "slug cache refresh failed", slog.String("error", err.Error()))
	}
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithRefreshTimeout bounds a single scheduled refresh of all caches.
// Default: 1 minute.
func WithRefreshTimeout(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRefresherLogger sets the logger for refresh events.
// If not set, a noop logger is used.
func WithRefresherLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}
