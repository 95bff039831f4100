package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable/pkg/health"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

func (a *app) checkCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the database, cache and record type tables",
		Long: `Ping the database and the cache backend, then build the slug cache of
every configured record type to prove its table and columns exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			checks, err := a.checks(ctx)
			if err != nil {
				return err
			}

			report := health.Run(ctx, checks, health.WithTimeout(timeout), health.WithLogger(a.log))

			out := cmd.OutOrStdout()
			for _, name := range report.Names() {
				c := report.Checks[name]
				if c.Status == health.StatusHealthy {
					success(out, "%s (%s)", name, c.Duration.Round(time.Millisecond))
				} else {
					failure(out, "%s: %s", name, c.Error)
				}
			}

			return report.Err()
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Deadline shared by all checks")

	return cmd
}

func (a *app) checks(ctx context.Context) (health.Checks, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	if _, err := a.cacheBackend(ctx); err != nil {
		return nil, err
	}

	checks := health.Checks{}
	if a.pool != nil {
		checks["database"] = a.pool.Ping
	} else {
		checks["database"] = a.sqlDB.PingContext
	}
	if a.rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() }
	}

	types, err := a.loadTypes()
	if err != nil {
		return nil, err
	}
	for _, name := range types.Names() {
		c, _, err := a.controller(ctx, name)
		if err != nil {
			return nil, err
		}
		checks["type:"+name] = func(ctx context.Context) error {
			return c.BuildCache(logger.WithRecordType(ctx, name))
		}
	}

	return checks, nil
}
