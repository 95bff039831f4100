package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable/pkg/db"
	"github.com/dmitrymomot/sluggable/pkg/logger"
)

func (a *app) migrateCmd() *cobra.Command {
	var (
		dir        string
		skipUnique bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and slug unique indexes",
		Long: `Apply the goose migrations in --dir, then create a unique index on the
slug column of every record type that does not append ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = a.cfg.DB.MigrationsPath
			}

			if err := a.migrate(ctx, dir); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "migrations applied from %s", dir)

			if skipUnique {
				return nil
			}
			return a.prepareAll(ctx, cmd)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (default DATABASE_MIGRATIONS_PATH)")
	cmd.Flags().BoolVar(&skipUnique, "skip-unique", false, "Do not create slug unique indexes")

	return cmd
}

func (a *app) migrate(ctx context.Context, dir string) error {
	fsys := os.DirFS(dir)
	table := a.cfg.DB.MigrationsTable
	if table == "" {
		table = "schema_migrations"
	}

	if err := a.connect(ctx); err != nil {
		return err
	}

	if a.pool != nil {
		return db.MigratePool(ctx, a.pool, fsys, ".", table, a.log)
	}
	return db.Migrate(ctx, a.sqlDB, db.DialectSQLite, fsys, ".", table, a.log)
}

func (a *app) prepareAll(ctx context.Context, cmd *cobra.Command) error {
	types, err := a.loadTypes()
	if err != nil {
		return err
	}

	for _, name := range types.Names() {
		ctx := logger.WithRecordType(ctx, name)

		c, _, err := a.controller(ctx, name)
		if err != nil {
			return err
		}
		if c.Config().AppendID {
			continue
		}
		if err := c.Prepare(ctx); err != nil {
			a.log.ErrorContext(ctx, "creating slug index failed", slog.String("error", err.Error()))
			return err
		}
		success(cmd.OutOrStdout(), "%s: slug index ready", name)
	}

	return nil
}
