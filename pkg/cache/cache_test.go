package cache_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sluggable/pkg/cache"
)

type record struct {
	id   string
	slug string
}

// newLoader returns a LoadFunc over records and a counter of its calls.
func newLoader(records ...record) (cache.LoadFunc, *atomic.Int32) {
	var calls atomic.Int32
	return func(_ context.Context) (*cache.Index, error) {
		calls.Add(1)
		idx := cache.NewIndex(len(records))
		for _, r := range records {
			idx.Add(r.id, r.slug)
		}
		return idx, nil
	}, &calls
}

func newTestCache(t *testing.T, load cache.LoadFunc, opts ...cache.Option) *cache.Cache {
	t.Helper()

	b := cache.NewMemory(cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = b.Close() })

	return cache.New("articles", load, append([]cache.Option{cache.WithBackend(b)}, opts...)...)
}

// --- Index ---

func TestIndex(t *testing.T) {
	t.Parallel()

	t.Run("resolves both directions", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(2)
		idx.Add("1", "hello-world")
		idx.Add("2", "second")

		id, ok := idx.IDBySlug("hello-world")
		require.True(t, ok)
		require.Equal(t, "1", id)

		slug, ok := idx.SlugByID("2")
		require.True(t, ok)
		require.Equal(t, "second", slug)

		require.Equal(t, 2, idx.Len())
	})

	t.Run("skips empty ids and slugs", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(0)
		idx.Add("", "orphan")
		idx.Add("3", "")

		require.Equal(t, 0, idx.Len())
		_, ok := idx.IDBySlug("")
		require.False(t, ok)
	})

	t.Run("re-adding an id drops its previous slug", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(1)
		idx.Add("1", "old")
		idx.Add("1", "new")

		_, ok := idx.IDBySlug("old")
		require.False(t, ok)

		id, ok := idx.IDBySlug("new")
		require.True(t, ok)
		require.Equal(t, "1", id)
	})

	t.Run("numeric slug does not shadow an id", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(2)
		idx.Add("1", "2023")
		idx.Add("2023", "report")

		slug, ok := idx.SlugByID("2023")
		require.True(t, ok)
		require.Equal(t, "report", slug)

		id, ok := idx.IDBySlug("2023")
		require.True(t, ok)
		require.Equal(t, "1", id)
	})

	t.Run("lookup is indifferent to key kind", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(1)
		idx.Add("7", "seven")

		id, ok := idx.Lookup("seven")
		require.True(t, ok)
		require.Equal(t, "7", id)

		id, ok = idx.Lookup("7")
		require.True(t, ok)
		require.Equal(t, "7", id)

		_, ok = idx.Lookup("missing")
		require.False(t, ok)
	})

	t.Run("each visits every pair", func(t *testing.T) {
		t.Parallel()

		idx := cache.NewIndex(3)
		idx.Add("1", "a")
		idx.Add("2", "b")
		idx.Add("3", "c")

		seen := map[string]string{}
		idx.Each(func(id, slug string) { seen[id] = slug })
		require.Equal(t, map[string]string{"1": "a", "2": "b", "3": "c"}, seen)
	})
}

// --- Memory backend ---

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns ErrNotBuilt for missing index", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		defer m.Close()

		_, err := m.Get(ctx, "articles", cache.KindSlug, "x")
		require.ErrorIs(t, err, cache.ErrNotBuilt)
	})

	t.Run("returns ErrNotFound for missing key", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		defer m.Close()

		require.NoError(t, m.Put(ctx, "articles", cache.NewIndex(0), time.Minute))

		_, err := m.Get(ctx, "articles", cache.KindSlug, "x")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("put replaces the index whole", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		defer m.Close()

		first := cache.NewIndex(1)
		first.Add("1", "first")
		second := cache.NewIndex(1)
		second.Add("2", "second")

		require.NoError(t, m.Put(ctx, "articles", first, 0))
		require.NoError(t, m.Put(ctx, "articles", second, 0))

		_, err := m.Get(ctx, "articles", cache.KindSlug, "first")
		require.ErrorIs(t, err, cache.ErrNotFound)

		id, err := m.Get(ctx, "articles", cache.KindSlug, "second")
		require.NoError(t, err)
		require.Equal(t, "2", id)
	})

	t.Run("indexes are isolated by name", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		defer m.Close()

		idx := cache.NewIndex(1)
		idx.Add("1", "shared")
		require.NoError(t, m.Put(ctx, "articles", idx, 0))

		_, err := m.Get(ctx, "tags", cache.KindSlug, "shared")
		require.ErrorIs(t, err, cache.ErrNotBuilt)
	})

	t.Run("expired index reads as not built", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory(cache.WithCleanupInterval(0))
		defer m.Close()

		require.NoError(t, m.Put(ctx, "articles", cache.NewIndex(0), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := m.Get(ctx, "articles", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrNotBuilt)
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory(cache.WithDefaultTTL(20*time.Millisecond), cache.WithCleanupInterval(0))
		defer m.Close()

		require.NoError(t, m.Put(ctx, "articles", cache.NewIndex(0), 0))

		_, err := m.Get(ctx, "articles", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrNotFound)

		time.Sleep(30 * time.Millisecond)

		_, err = m.Get(ctx, "articles", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrNotBuilt)
	})

	t.Run("delete and clear drop indexes", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		defer m.Close()

		require.NoError(t, m.Put(ctx, "a", cache.NewIndex(0), 0))
		require.NoError(t, m.Put(ctx, "b", cache.NewIndex(0), 0))

		require.NoError(t, m.Delete(ctx, "a"))
		_, err := m.Get(ctx, "a", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrNotBuilt)

		require.NoError(t, m.Clear(ctx))
		_, err = m.Get(ctx, "b", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrNotBuilt)
	})

	t.Run("returns ErrClosed after Close", func(t *testing.T) {
		t.Parallel()

		m := cache.NewMemory()
		require.NoError(t, m.Close())
		require.NoError(t, m.Close())

		require.ErrorIs(t, m.Put(ctx, "a", cache.NewIndex(0), 0), cache.ErrClosed)
		require.ErrorIs(t, m.Delete(ctx, "a"), cache.ErrClosed)
		_, err := m.Get(ctx, "a", cache.KindID, "1")
		require.ErrorIs(t, err, cache.ErrClosed)
	})
}

// --- Cache ---

func TestCache_Lookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("builds lazily on first access", func(t *testing.T) {
		t.Parallel()

		load, calls := newLoader(record{"1", "hello-world"}, record{"2", "second"})
		c := newTestCache(t, load)

		require.Equal(t, int32(0), calls.Load())

		id, err := c.IDBySlug(ctx, "hello-world")
		require.NoError(t, err)
		require.Equal(t, "1", id)

		slug, err := c.SlugByID(ctx, "2")
		require.NoError(t, err)
		require.Equal(t, "second", slug)

		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("returns ErrNotFound for unknown keys", func(t *testing.T) {
		t.Parallel()

		load, _ := newLoader(record{"1", "hello-world"})
		c := newTestCache(t, load)

		_, err := c.IDBySlug(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)

		_, err = c.SlugByID(ctx, "99")
		require.ErrorIs(t, err, cache.ErrNotFound)

		_, err = c.IDBySlug(ctx, "")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("round-trips every record", func(t *testing.T) {
		t.Parallel()

		records := make([]record, 0, 50)
		for i := range 50 {
			id := strconv.Itoa(i + 1)
			records = append(records, record{id, "post-" + id})
		}
		load, _ := newLoader(records...)
		c := newTestCache(t, load)

		require.NoError(t, c.Build(ctx))

		for _, r := range records {
			slug, err := c.SlugByID(ctx, r.id)
			require.NoError(t, err)

			id, err := c.IDBySlug(ctx, slug)
			require.NoError(t, err)
			require.Equal(t, r.id, id)
		}
	})

	t.Run("wraps loader errors", func(t *testing.T) {
		t.Parallel()

		errDB := errors.New("connection refused")
		c := newTestCache(t, func(context.Context) (*cache.Index, error) {
			return nil, errDB
		})

		_, err := c.IDBySlug(ctx, "anything")
		require.ErrorIs(t, err, cache.ErrBuildFailed)
		require.ErrorIs(t, err, errDB)
	})

	t.Run("nil index builds empty", func(t *testing.T) {
		t.Parallel()

		c := newTestCache(t, func(context.Context) (*cache.Index, error) {
			return nil, nil
		})

		_, err := c.IDBySlug(ctx, "anything")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

// volatileBackend accepts every Put but never keeps the index, as if a
// Clear always landed right after each build.
type volatileBackend struct {
	*cache.Memory
}

func (volatileBackend) Put(context.Context, string, *cache.Index, time.Duration) error {
	return nil
}

func TestCache_LookupAfterDroppedIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	load, calls := newLoader(record{"1", "hello-world"})
	b := volatileBackend{cache.NewMemory(cache.WithCleanupInterval(0))}
	t.Cleanup(func() { _ = b.Close() })
	c := cache.New("articles", load, cache.WithBackend(b))

	id, err := c.IDBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	slug, err := c.SlugByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "hello-world", slug)

	id, err = c.Lookup(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	_, err = c.IDBySlug(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.Equal(t, int32(4), calls.Load())
}

func TestCache_AnyKeyLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		build   bool
		key     string
		want    string
		wantErr error
	}{
		{name: "slug before build", key: "hello-world", want: "1"},
		{name: "id before build", key: "2", want: "2"},
		{name: "missing before build", key: "nope", wantErr: cache.ErrNotFound},
		{name: "slug after build", build: true, key: "second", want: "2"},
		{name: "id after build", build: true, key: "1", want: "1"},
		{name: "missing after build", build: true, key: "nope", wantErr: cache.ErrNotFound},
		{name: "empty key", key: "", wantErr: cache.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			load, calls := newLoader(record{"1", "hello-world"}, record{"2", "second"})
			c := newTestCache(t, load)
			if tt.build {
				require.NoError(t, c.Build(ctx))
			}

			id, err := c.Lookup(ctx, tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, id)
			require.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("forces rebuild on next access", func(t *testing.T) {
		t.Parallel()

		var (
			mu    sync.Mutex
			slugs = map[string]string{"1": "before"}
			calls atomic.Int32
		)
		c := newTestCache(t, func(context.Context) (*cache.Index, error) {
			calls.Add(1)
			mu.Lock()
			defer mu.Unlock()
			idx := cache.NewIndex(len(slugs))
			for id, s := range slugs {
				idx.Add(id, s)
			}
			return idx, nil
		})

		slug, err := c.SlugByID(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "before", slug)

		mu.Lock()
		slugs["1"] = "after"
		mu.Unlock()

		// Stale until cleared.
		slug, err = c.SlugByID(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "before", slug)

		require.NoError(t, c.Clear(ctx))

		slug, err = c.SlugByID(ctx, "1")
		require.NoError(t, err)
		require.Equal(t, "after", slug)

		_, err = c.IDBySlug(ctx, "before")
		require.ErrorIs(t, err, cache.ErrNotFound)

		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("clear before build is a no-op", func(t *testing.T) {
		t.Parallel()

		load, calls := newLoader()
		c := newTestCache(t, load)

		require.NoError(t, c.Clear(ctx))
		require.Equal(t, int32(0), calls.Load())
	})
}

func TestCache_ConcurrentBuild(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	release := make(chan struct{})
	var calls atomic.Int32
	c := newTestCache(t, func(context.Context) (*cache.Index, error) {
		calls.Add(1)
		<-release
		idx := cache.NewIndex(1)
		idx.Add("1", "hello-world")
		return idx, nil
	})

	var wg sync.WaitGroup
	results := make(chan string, 20)
	for range 20 {
		wg.Go(func() {
			id, err := c.IDBySlug(ctx, "hello-world")
			if err == nil {
				results <- id
			}
		})
	}

	// Give the goroutines time to pile up on the in-flight build.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	n := 0
	for id := range results {
		require.Equal(t, "1", id)
		n++
	}
	require.Equal(t, 20, n)
	require.LessOrEqual(t, calls.Load(), int32(2))
}

func TestCache_CancelledWaiter(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)
	var calls atomic.Int32
	c := newTestCache(t, func(ctx context.Context) (*cache.Index, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		loadErr <- ctx.Err()
		idx := cache.NewIndex(1)
		idx.Add("1", "hello-world")
		return idx, nil
	})

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.IDBySlug(first, "hello-world")
		firstErr <- err
	}()
	<-started

	secondID := make(chan string, 1)
	secondErr := make(chan error, 1)
	go func() {
		id, err := c.IDBySlug(context.Background(), "hello-world")
		secondID <- id
		secondErr <- err
	}()

	// Let the second caller join the in-flight build.
	time.Sleep(20 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	require.NoError(t, <-secondErr)
	require.Equal(t, "1", <-secondID)
	require.NoError(t, <-loadErr)
	require.Equal(t, int32(1), calls.Load())
}

func TestCache_TTL(t *testing.T) {
	t.Parallel()

	load, calls := newLoader(record{"1", "hello"})
	c := newTestCache(t, load, cache.WithTTL(10*time.Millisecond))

	ctx := context.Background()
	_, err := c.SlugByID(ctx, "1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = c.SlugByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestCache_Name(t *testing.T) {
	t.Parallel()

	load, _ := newLoader()
	c := cache.New("articles", load)
	require.Equal(t, "articles", c.Name())
}
