package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Dialects accepted by Migrate.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// MigratePool applies the migrations in dir of fsys to a pgx pool.
func MigratePool(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, dir, migrationTable string, log *slog.Logger) error {
	// Bridge pgx connection pool to database/sql interface required by goose.
	// Not closed here: stdlib.OpenDBFromPool shares the pool's connections.
	db := stdlib.OpenDBFromPool(pool)

	return Migrate(ctx, db, DialectPostgres, fsys, dir, migrationTable, log)
}

// Migrate applies the migrations in dir of fsys using the given goose dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir, migrationTable string, log *slog.Logger) error {
	if dir == "" {
		dir = "."
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect(dialect); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// Log at error level only; goose also returns the error, so no os.Exit here.
	g.log.Error(fmt.Sprintf(format, args...))
}
