// Package sqltable describes a record table and builds the handful of
// statements the slug store adapters need.
//
// Identifiers are validated once and always double-quoted, so the same
// statements run on PostgreSQL and SQLite; only the placeholder style differs.
package sqltable

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidTable  = errors.New("sqltable: invalid table definition")
	ErrUnknownColumn = errors.New("sqltable: unknown column")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Placeholder selects the bind parameter syntax.
type Placeholder uint8

const (
	// Dollar renders $1, $2, ... (PostgreSQL).
	Dollar Placeholder = iota
	// Question renders ?, ?, ... (SQLite, MySQL).
	Question
)

func (p Placeholder) at(n int) string {
	if p == Question {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Table maps a record type onto a SQL table with a text primary key
// (or one castable to text) and text data columns.
type Table struct {
	Name     string
	IDColumn string // default "id"
	Columns  []string
}

// Validate checks every identifier and returns the table with defaults applied.
func (t Table) Validate() (Table, error) {
	if t.IDColumn == "" {
		t.IDColumn = "id"
	}

	if !identifier.MatchString(t.Name) {
		return t, fmt.Errorf("%w: table name %q", ErrInvalidTable, t.Name)
	}
	if !identifier.MatchString(t.IDColumn) {
		return t, fmt.Errorf("%w: id column %q", ErrInvalidTable, t.IDColumn)
	}
	if len(t.Columns) == 0 {
		return t, fmt.Errorf("%w: table %q has no columns", ErrInvalidTable, t.Name)
	}

	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if !identifier.MatchString(c) || c == t.IDColumn {
			return t, fmt.Errorf("%w: column %q", ErrInvalidTable, c)
		}
		if _, dup := seen[c]; dup {
			return t, fmt.Errorf("%w: duplicate column %q", ErrInvalidTable, c)
		}
		seen[c] = struct{}{}
	}

	return t, nil
}

// Has reports whether col is one of the data columns.
func (t Table) Has(col string) bool {
	return slices.Contains(t.Columns, col)
}

// SelectByID returns the id and every data column of one row.
func (t Table) SelectByID(p Placeholder) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		t.selectList(), quote(t.Name), quote(t.IDColumn), p.at(1))
}

// SelectAll returns the id and every data column of all rows.
func (t Table) SelectAll() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		t.selectList(), quote(t.Name), quote(t.IDColumn))
}

// SelectPairs returns id and col of all rows where col is set.
func (t Table) SelectPairs(col string) (string, error) {
	if !t.Has(col) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s IS NOT NULL AND %s <> ''",
		t.idText(), quote(col), quote(t.Name), quote(col), quote(col)), nil
}

// Insert writes every data column and, when returning is set, yields the new id.
func (t Table) Insert(p Placeholder, returning bool) string {
	cols := make([]string, len(t.Columns))
	vals := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
		vals[i] = p.at(i + 1)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name), strings.Join(cols, ", "), strings.Join(vals, ", "))
	if returning {
		q += " RETURNING " + t.idText()
	}
	return q
}

// Update rewrites every data column; the id is the last parameter.
func (t Table) Update(p Placeholder) string {
	sets := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		sets[i] = quote(c) + " = " + p.at(i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		quote(t.Name), strings.Join(sets, ", "), quote(t.IDColumn), p.at(len(t.Columns)+1))
}

// UpdateColumn rewrites a single column: parameters are (value, id).
func (t Table) UpdateColumn(p Placeholder, col string) (string, error) {
	if !t.Has(col) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		quote(t.Name), quote(col), p.at(1), quote(t.IDColumn), p.at(2)), nil
}

// Exists reports whether any row has col equal to the first parameter.
// With except set, the row whose id equals the second parameter is ignored.
func (t Table) Exists(p Placeholder, col string, except bool) (string, error) {
	if !t.Has(col) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = %s",
		quote(t.Name), quote(col), p.at(1))
	if except {
		q += fmt.Sprintf(" AND %s <> %s", t.idText(), p.at(2))
	}
	return q + ")", nil
}

// UniqueIndex declares col unique among rows where it is set.
// Rows with a NULL or empty value never collide.
func (t Table) UniqueIndex(col string) (string, error) {
	if !t.Has(col) {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	return fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE %s IS NOT NULL AND %s <> ''",
		quote(t.Name+"_"+col+"_key"), quote(t.Name), quote(col), quote(col), quote(col)), nil
}

func (t Table) selectList() string {
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, t.idText())
	for _, c := range t.Columns {
		cols = append(cols, quote(c))
	}
	return strings.Join(cols, ", ")
}

// idText renders the id column as text so integer and uuid keys scan into strings.
func (t Table) idText() string {
	return "CAST(" + quote(t.IDColumn) + " AS TEXT)"
}

func quote(ident string) string {
	return `"` + ident + `"`
}

// Values returns the column values in table order, with empty strings as NULL.
func (t Table) Values(field func(col string) string) []any {
	vals := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		if v := field(c); v != "" {
			vals[i] = v
		}
	}
	return vals
}
