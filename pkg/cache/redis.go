package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// builtField marks a stored index so an empty index is distinguishable
// from a missing one.
const builtField = "_built"

// Redis is a Backend that keeps each index in one Redis hash.
//
// Hash fields are "id:<id>" -> slug and "slug:<slug>" -> id, so both
// directions resolve with a single HMGET.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis creates a new Redis-backed index store.
// The client should be obtained from pkg/redis.Open or pkg/redis.MustOpen.
//
// Example:
//
//	client := redis.MustOpen(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	b := cache.NewRedis(client,
//	    cache.WithPrefix("slugs"),
//	    cache.WithRedisDefaultTTL(30 * time.Minute),
//	)
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Redis{
		client: client,
		opts:   o,
	}
}

// Get resolves key in the named index.
func (r *Redis) Get(ctx context.Context, name string, kind Kind, key string) (string, error) {
	vals, err := r.client.HMGet(ctx, r.indexKey(name), builtField, field(kind, key)).Result()
	if err != nil {
		return "", err
	}

	if vals[0] == nil {
		return "", ErrNotBuilt
	}

	v, ok := vals[1].(string)
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

// Put replaces the named index atomically (MULTI/EXEC).
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = no expiration.
func (r *Redis) Put(ctx context.Context, name string, idx *Index, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}

	values := make([]any, 0, 2+idx.Len()*4)
	values = append(values, builtField, "1")
	idx.Each(func(id, slug string) {
		values = append(values,
			field(KindID, id), slug,
			field(KindSlug, slug), id,
		)
	})

	key := r.indexKey(name)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values...)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})

	return err
}

// Delete drops the named index.
func (r *Redis) Delete(ctx context.Context, name string) error {
	return r.client.Del(ctx, r.indexKey(name)).Err()
}

// Clear removes every index under the configured prefix using SCAN.
// This is safe for production use as SCAN does not block the server.
func (r *Redis) Clear(ctx context.Context) error {
	pattern := r.opts.prefix + ":*"
	var cursor uint64

	for {
		keys, nextCursor, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

// Close is a no-op. The client belongs to the caller.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) indexKey(name string) string {
	return r.opts.prefix + ":" + name
}

func field(kind Kind, key string) string {
	return kind.String() + ":" + key
}

var _ Backend = (*Redis)(nil)
