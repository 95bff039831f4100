// Package pgstore keeps slugged records in a PostgreSQL table through pgx.
//
// The id column may be any type castable to text (bigserial, uuid with a
// default, text). Data columns are text; empty field values are stored as
// NULL. Unique slug violations surface as sluggable.ErrUniqueViolation.
package pgstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/db"
	"github.com/dmitrymomot/sluggable/pkg/sqltable"
)

// invalidTextRepresentation is raised when a key cannot be cast to the id type.
const invalidTextRepresentation = "22P02"

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	db.Beginner
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements sluggable.Store over one PostgreSQL table.
type Store struct {
	q     Querier
	table sqltable.Table
	inTx  bool
}

// New validates table and returns a store backed by q.
func New(q Querier, table sqltable.Table) (*Store, error) {
	t, err := table.Validate()
	if err != nil {
		return nil, err
	}
	return &Store{q: q, table: t}, nil
}

// Name returns the table name.
func (s *Store) Name() string {
	return s.table.Name
}

// Get loads the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (sluggable.Record, error) {
	rec, err := s.scan(s.q.QueryRow(ctx, s.table.SelectByID(sqltable.Dollar), id))
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == invalidTextRepresentation {
		return nil, sluggable.ErrNotFound
	}
	return rec, err
}

// All loads every record ordered by id.
func (s *Store) All(ctx context.Context) ([]sluggable.Record, error) {
	rows, err := s.q.Query(ctx, s.table.SelectAll())
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
		if err := s.q.QueryRow(ctx, s.table.Insert(sqltable.Dollar, true), args...).Scan(&id); err != nil {
			return mapError(err)
		}
		rec.SetRecordID(id)
		return nil
	}

	tag, err := s.q.Exec(ctx, s.table.Update(sqltable.Dollar), append(args, rec.RecordID())...)
	if err != nil {
		return mapError(err)
	}
	return requireRow(tag)
}

// UpdateField writes a single column of a saved record.
func (s *Store) UpdateField(ctx context.Context, rec sluggable.Record, field, value string) error {
	q, err := s.table.UpdateColumn(sqltable.Dollar, field)
	if err != nil {
		return err
	}

	var arg any
	if value != "" {
		arg = value
	}

	tag, err := s.q.Exec(ctx, q, arg, rec.RecordID())
	if err != nil {
		return mapError(err)
	}
	return requireRow(tag)
}

// Taken reports whether a record other than exceptID has field == value.
func (s *Store) Taken(ctx context.Context, field, value, exceptID string) (bool, error) {
	q, err := s.table.Exists(sqltable.Dollar, field, exceptID != "")
	if err != nil {
		return false, err
	}

	args := []any{value}
	if exceptID != "" {
		args = append(args, exceptID)
	}

	var taken bool
	if err := s.q.QueryRow(ctx, q, args...).Scan(&taken); err != nil {
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
	_, err = s.q.Exec(ctx, q)
	return err
}

// ListSlugs streams the id and field value of every record where field is set.
func (s *Store) ListSlugs(ctx context.Context, field string, fn func(id, slug string)) error {
	q, err := s.table.SelectPairs(field)
	if err != nil {
		return err
	}

	rows, err := s.q.Query(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	var id, slug string
	_, err = pgx.ForEachRow(rows, []any{&id, &slug}, func() error {
		fn(id, slug)
		return nil
	})
	return err
}

// WithinTx runs fn with a store bound to a new transaction, committing when
// fn succeeds. A store already bound to a transaction reuses it.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx sluggable.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return db.WithTx(ctx, s.q, func(tx pgx.Tx) error {
		return fn(ctx, &Store{q: tx, table: s.table, inTx: true})
	})
}

func (s *Store) scan(row pgx.Row) (*sluggable.Entity, error) {
	var id string
	vals := make([]pgtype.Text, len(s.table.Columns))
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
	if db.IsUniqueViolation(err) {
		return errors.Join(sluggable.ErrUniqueViolation, err)
	}
	if pgCode(err) == invalidTextRepresentation {
		return errors.Join(sluggable.ErrNotFound, err)
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return sluggable.ErrNotFound
	}
	return nil
}

var (
	_ sluggable.Store          = (*Store)(nil)
	_ sluggable.Transactor     = (*Store)(nil)
	_ sluggable.UniqueEnforcer = (*Store)(nil)
	_ sluggable.SlugLister     = (*Store)(nil)
	_ sluggable.Namer          = (*Store)(nil)
)
