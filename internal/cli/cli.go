// Package cli implements the slugctl commands.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/internal/config"
	"github.com/dmitrymomot/sluggable/pkg/cache"
	"github.com/dmitrymomot/sluggable/pkg/db"
	"github.com/dmitrymomot/sluggable/pkg/logger"
	"github.com/dmitrymomot/sluggable/pkg/pgstore"
	"github.com/dmitrymomot/sluggable/pkg/redis"
	"github.com/dmitrymomot/sluggable/pkg/sqlitestore"
)

// app holds the connections opened by a single command run.
// Everything is opened on first use and released by close.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	stdout io.Writer
	stderr io.Writer

	types   config.Types
	pool    *pgxpool.Pool
	sqlDB   *sql.DB
	rdb     goredis.UniversalClient
	backend cache.Backend
}

// Run executes slugctl with args and releases every connection it opened.
func Run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) error {
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "slugctl",
		Short: "Manage record slugs",
		Long: `slugctl normalizes text into slugs and maintains the slugs and
slug caches of the record types listed in SLUGCTL_TYPES_FILE.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.AddCommand(
		a.normalizeCmd(),
		a.migrateCmd(),
		a.lookupCmd(),
		a.reslugCmd(),
		a.warmCmd(),
		a.checkCmd(),
	)

	return root
}

// init builds the logger and tags the command context with an operation id.
func (a *app) init(cmd *cobra.Command) error {
	level, err := logger.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}

	if a.cfg.Sentry.DSN != "" {
		a.log = logger.NewWithSentry(a.cfg.Sentry, level)
	} else {
		a.log = logger.NewWithWriter(a.stderr, level)
	}

	cmd.SetContext(logger.WithOperationID(cmd.Context(), uuid.NewString()))
	return nil
}

func (a *app) loadTypes() (config.Types, error) {
	if a.types != nil {
		return a.types, nil
	}
	types, err := config.LoadTypes(a.cfg.TypesFile)
	if err != nil {
		return nil, err
	}
	a.types = types
	return types, nil
}

// connect opens the database for the configured driver once.
func (a *app) connect(ctx context.Context) error {
	switch a.cfg.Driver {
	case config.DriverPostgres:
		if a.pool != nil {
			return nil
		}
		pool, err := db.Connect(ctx, a.cfg.DB)
		if err != nil {
			return err
		}
		a.pool = pool
	case config.DriverSQLite:
		if a.sqlDB != nil {
			return nil
		}
		sqlDB, err := sql.Open("sqlite3", a.cfg.SQLitePath)
		if err != nil {
			return errors.Join(db.ErrFailedToOpenDBConnection, err)
		}
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		a.sqlDB = sqlDB
	default:
		return fmt.Errorf("%w: unknown driver %q", config.ErrInvalidConfig, a.cfg.Driver)
	}
	return nil
}

func (a *app) store(ctx context.Context, t config.RecordType) (sluggable.Store, error) {
	if err := a.connect(ctx); err != nil {
		return nil, err
	}
	if a.pool != nil {
		return pgstore.New(a.pool, t.SQLTable())
	}
	return sqlitestore.New(a.sqlDB, t.SQLTable())
}

func (a *app) cacheBackend(ctx context.Context) (cache.Backend, error) {
	if a.backend != nil {
		return a.backend, nil
	}

	switch a.cfg.Cache {
	case config.CacheRedis:
		client, err := redis.Open(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.rdb = client
		a.backend = cache.NewRedis(client, cache.WithPrefix(a.cfg.CachePrefix))
	default:
		a.backend = cache.NewMemory()
	}

	return a.backend, nil
}

// controller opens the store and cache for the named type.
func (a *app) controller(ctx context.Context, name string) (*sluggable.Controller, sluggable.Store, error) {
	types, err := a.loadTypes()
	if err != nil {
		return nil, nil, err
	}
	t, err := types.Get(name)
	if err != nil {
		return nil, nil, err
	}

	store, err := a.store(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	backend, err := a.cacheBackend(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := append(t.Options(),
		sluggable.WithCacheBackend(backend),
		sluggable.WithLogger(a.log),
	)
	c, err := sluggable.New(store, opts...)
	if err != nil {
		return nil, nil, err
	}

	return c, store, nil
}

func (a *app) close() {
	if a.backend != nil {
		_ = a.backend.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	if a.cfg.Sentry.DSN != "" {
		logger.FlushSentry(2 * time.Second)
	}
}
