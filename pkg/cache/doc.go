// Package cache keeps bidirectional id<->slug indexes for record types.
//
// Each record type gets one [Cache]. The first lookup builds an [Index] by
// calling the type's [LoadFunc] (a full scan of the backing store) and stores
// it in a [Backend]. Later lookups are served from the backend until
// [Cache.Clear] drops the index; the next lookup then rebuilds it.
//
//	articles := cache.New("articles", func(ctx context.Context) (*cache.Index, error) {
//	    rows, err := repo.AllSlugs(ctx)
//	    if err != nil {
//	        return nil, err
//	    }
//	    idx := cache.NewIndex(len(rows))
//	    for _, r := range rows {
//	        idx.Add(r.ID, r.Slug)
//	    }
//	    return idx, nil
//	})
//
//	id, err := articles.IDBySlug(ctx, "hello-world")
//	slug, err := articles.SlugByID(ctx, "42")
//
// # Consistency
//
// The cache is not updated by individual record writes. Callers that need
// fresh results after a write call [Cache.Clear]. Concurrent lookups that
// miss trigger a single load (singleflight), and builds never interleave
// with clears, so a reader sees either the old index or the new one.
//
// # Backends
//
// [Memory] keeps indexes in-process and is the default. [Redis] stores one
// hash per index so several processes share the same build:
//
//	client := redis.MustOpen(ctx, os.Getenv("REDIS_URL"))
//	articles := cache.New("articles", load,
//	    cache.WithBackend(cache.NewRedis(client, cache.WithPrefix("slugs"))),
//	)
//
// # Periodic Refresh
//
// A [Refresher] rebuilds a set of caches on a cron schedule:
//
//	r, err := cache.NewRefresher("@every 10m", []*cache.Cache{articles})
//	r.Start()
//	defer r.Stop(ctx)
//
// # Error Handling
//
// The package defines sentinel errors:
//
//   - [ErrNotFound]: key is not in the index
//   - [ErrNotBuilt]: backend holds no index under the name
//   - [ErrClosed]: operation on a closed backend
//   - [ErrBuildFailed]: the loader returned an error
//   - [ErrInvalidSchedule]: refresher schedule does not parse
package cache
