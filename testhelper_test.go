package sluggable_test

import (
	"context"
	"maps"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable"
	"github.com/dmitrymomot/sluggable/pkg/cache"
)

// memStore keeps rows in memory. It enforces uniqueness on the fields
// listed in unique the way a database index would.
type memStore struct {
	rows       map[string]map[string]string
	unique     map[string]bool
	failSave   error
	failUpdate error
	// lenientTaken makes Taken always report false, so only the
	// store-level constraint catches duplicates.
	lenientTaken bool
	next         int
	saves        int
	updates      int
	mu           sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		rows:   make(map[string]map[string]string),
		unique: make(map[string]bool),
	}
}

var columns = []string{"title", "slug"}

func (s *memStore) Get(_ context.Context, id string) (sluggable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return nil, sluggable.ErrNotFound
	}
	return sluggable.NewEntity(id, row), nil
}

func (s *memStore) All(_ context.Context) ([]sluggable.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sluggable.Record, 0, len(s.rows))
	for id, row := range s.rows {
		out = append(out, sluggable.NewEntity(id, row))
	}
	return out, nil
}

func (s *memStore) Save(_ context.Context, rec sluggable.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSave != nil {
		return s.failSave
	}

	row := make(map[string]string, len(columns))
	for _, c := range columns {
		row[c] = rec.Field(c)
	}

	id := rec.RecordID()
	if id == "" {
		id = strconv.Itoa(s.next + 1)
	}
	if err := s.checkUnique(id, row); err != nil {
		return err
	}
	if rec.RecordID() == "" {
		s.next++
		rec.SetRecordID(id)
	}

	s.rows[id] = row
	s.saves++
	return nil
}

func (s *memStore) UpdateField(_ context.Context, rec sluggable.Record, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failUpdate != nil {
		return s.failUpdate
	}

	row, ok := s.rows[rec.RecordID()]
	if !ok {
		return sluggable.ErrNotFound
	}

	next := maps.Clone(row)
	next[field] = value
	if err := s.checkUnique(rec.RecordID(), next); err != nil {
		return err
	}

	s.rows[rec.RecordID()] = next
	s.updates++
	return nil
}

func (s *memStore) Taken(_ context.Context, field, value, exceptID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lenientTaken {
		return false, nil
	}
	for id, row := range s.rows {
		if id != exceptID && row[field] == value {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) EnforceUnique(_ context.Context, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unique[field] = true
	return nil
}

func (s *memStore) checkUnique(id string, row map[string]string) error {
	for field := range s.unique {
		v := row[field]
		if v == "" {
			continue
		}
		for otherID, other := range s.rows {
			if otherID != id && other[field] == v {
				return sluggable.ErrUniqueViolation
			}
		}
	}
	return nil
}

func (s *memStore) row(id string) (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	return maps.Clone(row), ok
}

func (s *memStore) counts() (saves, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, s.updates
}

// txStore is a memStore whose WithinTx rolls back every write made by a failing fn.
type txStore struct {
	*memStore
}

func (s txStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx sluggable.Store) error) error {
	s.mu.Lock()
	snapshot := make(map[string]map[string]string, len(s.rows))
	for id, row := range s.rows {
		snapshot[id] = maps.Clone(row)
	}
	next := s.next
	s.mu.Unlock()

	if err := fn(ctx, s.memStore); err != nil {
		s.mu.Lock()
		s.rows = snapshot
		s.next = next
		s.mu.Unlock()
		return err
	}
	return nil
}

func newController(t *testing.T, store sluggable.Store, opts ...sluggable.Option) *sluggable.Controller {
	t.Helper()

	backend := cache.NewMemory(cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = backend.Close() })

	c, err := sluggable.New(store, append([]sluggable.Option{sluggable.WithCacheBackend(backend)}, opts...)...)
	require.NoError(t, err)
	return c
}

// create commits a new record titled title and returns it.
func create(t *testing.T, c *sluggable.Controller, title string) *sluggable.Entity {
	t.Helper()

	rec := sluggable.NewEntity("", nil)
	c.SetSluggable(rec, title)
	require.NoError(t, c.Commit(context.Background(), rec))
	return rec
}
