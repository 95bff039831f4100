package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable/internal/config"
	"github.com/dmitrymomot/sluggable/pkg/cache"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

func (a *app) warmCmd() *cobra.Command {
	var (
		every string
		flush bool
	)

	cmd := &cobra.Command{
		Use:   "warm [TYPE...]",
		Short: "Build slug caches",
		Long: `Build the slug cache of each TYPE, or of every configured type when none
is given. With --every, keep rebuilding on the given cron schedule until
interrupted. With --flush, drop every index the cache backend holds first,
including those of types not being warmed.

Examples:
  slugctl warm
  slugctl warm --flush
  slugctl warm articles tags --every "*/5 * * * *"
  slugctl warm --every @hourly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				types, err := a.loadTypes()
				if err != nil {
					return err
				}
				args = types.Names()
			}

			if flush {
				if err := a.flush(ctx); err != nil {
					failure(cmd.ErrOrStderr(), "flush: %s", err)
					return err
				}
				success(out, "cache backend flushed")
			}

			caches := make([]*cache.Cache, 0, len(args))
			for _, name := range args {
				ctx := logger.WithRecordType(ctx, name)

				c, _, err := a.controller(ctx, name)
				if err != nil {
					return err
				}
				if err := c.BuildCache(ctx); err != nil {
					failure(cmd.ErrOrStderr(), "%s: %s", name, err)
					return err
				}
				success(out, "%s: cache built", name)
				caches = append(caches, c.Cache())
			}

			if every == "" {
				return nil
			}
			if a.cfg.Cache == config.CacheMemory {
				warning(out, "the memory cache is discarded on exit; set SLUGCTL_CACHE=redis to share it")
			}
			return a.refresh(ctx, every, caches)
		},
	}

	cmd.Flags().StringVar(&every, "every", "", "Cron schedule or descriptor (@every 5m, @hourly) for periodic rebuilds")
	cmd.Flags().BoolVar(&flush, "flush", false, "Drop every stored index before building")

	return cmd
}

// flush drops every index in the configured backend.
func (a *app) flush(ctx context.Context) error {
	backend, err := a.cacheBackend(ctx)
	if err != nil {
		return err
	}

	f, ok := backend.(cache.Flusher)
	if !ok {
		return fmt.Errorf("%s cache backend cannot be flushed", a.cfg.Cache)
	}
	return f.Clear(ctx)
}

// refresh rebuilds caches on schedule until ctx is done.
func (a *app) refresh(ctx context.Context, schedule string, caches []*cache.Cache) error {
	r, err := cache.NewRefresher(schedule, caches, cache.WithRefresherLogger(a.log))
	if err != nil {
		return err
	}

	r.Start()
	a.log.InfoContext(ctx, "cache refresher started", slog.String("schedule", schedule))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	return r.Stop(stopCtx)
}
