package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/sqltable"
)

// RecordType describes one slugged table.
//
//	types:
//	  articles:
//	    sluggable_field: title
//	    append_id: true
//	  tags:
//	    table: blog_tags
//	    sluggable_field: name
//	    columns: [description]
//	    cache_ttl: 1h
type RecordType struct {
	Name           string        `yaml:"-"`
	Table          string        `yaml:"table"`
	IDColumn       string        `yaml:"id_column"`
	SlugField      string        `yaml:"slug_field"`
	SluggableField string        `yaml:"sluggable_field"`
	Columns        []string      `yaml:"columns"`
	AppendID       bool          `yaml:"append_id"`
	StripMarkup    bool          `yaml:"strip_markup"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// SQLTable returns the table layout: the sluggable and slug fields followed
// by any extra columns.
func (t RecordType) SQLTable() sqltable.Table {
	cols := []string{t.SluggableField, t.SlugField}
	for _, c := range t.Columns {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return sqltable.Table{Name: t.Table, IDColumn: t.IDColumn, Columns: cols}
}

// Options returns the controller options for the type.
func (t RecordType) Options() []sluggable.Option {
	opts := []sluggable.Option{
		sluggable.WithSlugField(t.SlugField),
		sluggable.WithSluggableField(t.SluggableField),
		sluggable.WithCacheName(t.Name),
	}
	if t.AppendID {
		opts = append(opts, sluggable.WithAppendID())
	}
	if t.StripMarkup {
		opts = append(opts, sluggable.WithStripMarkup())
	}
	if t.CacheTTL != 0 {
		opts = append(opts, sluggable.WithCacheTTL(t.CacheTTL))
	}
	return opts
}

// Types maps type names to their definitions.
type Types map[string]RecordType

// Get returns the named type.
func (ts Types) Get(name string) (RecordType, error) {
	t, ok := ts[name]
	if !ok {
		return RecordType{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// Names returns the type names in sorted order.
func (ts Types) Names() []string {
	names := make([]string, 0, len(ts))
	for n := range ts {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

type typesFile struct {
	Types map[string]RecordType `yaml:"types"`
}

// LoadTypes reads and parses a types file.
func LoadTypes(path string) (Types, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return ParseTypes(data)
}

// ParseTypes decodes a types document, applies defaults and validates
// every table. Unknown keys are rejected.
func ParseTypes(data []byte) (Types, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f typesFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	if len(f.Types) == 0 {
		return nil, fmt.Errorf("%w: no record types defined", ErrInvalidConfig)
	}

	defaults := sluggable.DefaultConfig()
	out := make(Types, len(f.Types))
	for name, t := range f.Types {
		t.Name = name
		if t.Table == "" {
			t.Table = name
		}
		if t.SlugField == "" {
			t.SlugField = defaults.SlugField
		}
		if t.SluggableField == "" {
			t.SluggableField = defaults.SluggableField
		}
		if t.SlugField == t.SluggableField {
			return nil, fmt.Errorf("%w: type %q uses %q as both slug and sluggable field", ErrInvalidConfig, name, t.SlugField)
		}

		table, err := t.SQLTable().Validate()
		if err != nil {
			return nil, fmt.Errorf("%w: type %q: %w", ErrInvalidConfig, name, err)
		}
		t.IDColumn = table.IDColumn

		out[name] = t
	}

	return out, nil
}
