// Package db connects to PostgreSQL and migrates the schema used by the
// PostgreSQL slug store.
//
// # Configuration
//
// [Config] is populated from environment variables:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection retry attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 5s)
//	DATABASE_MIGRATIONS_PATH    - Migrations directory (default: migrations)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Usage
//
//	var cfg db.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// # Transactions
//
// [WithTx] commits when fn succeeds and rolls back otherwise:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, `UPDATE articles SET slug = $1 WHERE id = $2`, slug, id)
//		return err
//	})
//
// [IsUniqueViolation] recognizes SQLSTATE 23505 so stores can report
// slug collisions as validation failures.
//
// # Migrations
//
// [Migrate] runs goose against any database/sql handle and dialect;
// [MigratePool] bridges a pgx pool:
//
//	err := db.MigratePool(ctx, pool, os.DirFS(cfg.MigrationsPath), ".", cfg.MigrationsTable, logger)
//
// # Error Handling
//
//   - [ErrFailedToParseDBConfig] - Invalid or empty connection string
//   - [ErrFailedToOpenDBConnection] - Connection failed after all retries
//   - [ErrSetDialect] - Migration dialect configuration error
//   - [ErrApplyMigrations] - Migration execution failed
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package db
