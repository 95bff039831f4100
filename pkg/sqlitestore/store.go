// Package sqlitestore keeps slugged records in a SQLite table through
// database/sql and github.com/mattn/go-sqlite3.
//
// The table needs an id column the database fills on insert (INTEGER
// PRIMARY KEY, or a TEXT key with a DEFAULT) and text data columns:
//
//	CREATE TABLE articles (
//	    id    INTEGER PRIMARY KEY AUTOINCREMENT,
//	    title TEXT,
//	    slug  TEXT
//	);
//
// Empty field values are stored as NULL.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/sqltable"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements sluggable.Store over one SQLite table.
type Store struct {
	db    *sql.DB // nil when bound to a transaction
	q     querier
	table sqltable.Table
}

// New validates table and returns a store backed by db.
func New(db *sql.DB, table sqltable.Table) (*Store, error) {
	t, err := table.Validate()
	if err != nil {
		return nil, err
	}
	return &Store{db: db, q: db, table: t}, nil
}

// Name returns the table name.
func (s *Store) Name() string {
	return s.table.Name
}

// Get loads the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (sluggable.Record, error) {
	row := s.q.QueryRowContext(ctx, s.table.SelectByID(sqltable.Question), id)
	rec, err := s.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sluggable.ErrNotFound
	}
	return rec, err
}

// All loads every record ordered by id.
func (s *Store) All(ctx context.Context) ([]sluggable.Record, error) {
	rows, err := s.q.QueryContext(ctx, s.table.SelectAll())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sluggable.Record
	for rows.Next() {
		rec, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

// Save inserts rec when it has no id and updates it otherwise.
func (s *Store) Save(ctx context.Context, rec sluggable.Record) error {
	args := s.table.Values(rec.Field)

	if rec.RecordID() == "" {
		var id string
		err := s.q.QueryRowContext(ctx, s.table.Insert(sqltable.Question, true), args...).Scan(&id)
		if err != nil {
			return mapError(err)
		}
		rec.SetRecordID(id)
		return nil
	}

	res, err := s.q.ExecContext(ctx, s.table.Update(sqltable.Question), append(args, rec.RecordID())...)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// UpdateField writes a single column of a saved record.
func (s *Store) UpdateField(ctx context.Context, rec sluggable.Record, field, value string) error {
	q, err := s.table.UpdateColumn(sqltable.Question, field)
	if err != nil {
		return err
	}

	res, err := s.q.ExecContext(ctx, q, nullable(value), rec.RecordID())
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Taken reports whether a record other than exceptID has field == value.
func (s *Store) Taken(ctx context.Context, field, value, exceptID string) (bool, error) {
	q, err := s.table.Exists(sqltable.Question, field, exceptID != "")
	if err != nil {
		return false, err
	}

	args := []any{value}
	if exceptID != "" {
		args = append(args, exceptID)
	}

	var taken bool
	if err := s.q.QueryRowContext(ctx, q, args...).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// EnforceUnique creates a partial unique index on field, ignoring NULL and empty values.
func (s *Store) EnforceUnique(ctx context.Context, field string) error {
	q, err := s.table.UniqueIndex(field)
	if err != nil {
		return err
	}
	_, err = s.q.ExecContext(ctx, q)
	return err
}

// ListSlugs streams the id and field value of every record where field is set.
func (s *Store) ListSlugs(ctx context.Context, field string, fn func(id, slug string)) error {
	q, err := s.table.SelectPairs(field)
	if err != nil {
		return err
	}

	rows, err := s.q.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return err
		}
		fn(id, slug)
	}

	return rows.Err()
}

// WithinTx runs fn with a store bound to a new transaction, committing when
// fn succeeds. A store already bound to a transaction reuses it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx sluggable.Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, &Store{q: tx, table: s.table}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scan(row scanner) (*sluggable.Entity, error) {
	var id string
	vals := make([]sql.NullString, len(s.table.Columns))
	dest := make([]any, 0, len(vals)+1)
	dest = append(dest, &id)
	for i := range vals {
		dest = append(dest, &vals[i])
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(vals))
	for i, c := range s.table.Columns {
		fields[c] = vals[i].String
	}

	return sluggable.NewEntity(id, fields), nil
}

func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return errors.Join(sluggable.ErrUniqueViolation, err)
	}
	return err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sluggable.ErrNotFound
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

var (
	_ sluggable.Store          = (*Store)(nil)
	_ sluggable.Transactor     = (*Store)(nil)
	_ sluggable.UniqueEnforcer = (*Store)(nil)
	_ sluggable.SlugLister     = (*Store)(nil)
	_ sluggable.Namer          = (*Store)(nil)
)
