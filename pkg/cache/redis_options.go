package cache

import "time"

// RedisOption configures the Redis backend.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: 0, // 0 = no expiration
		prefix:     "slugs",
	}
}

// WithRedisDefaultTTL sets the expiration applied when Put is called with a zero TTL.
// Default: 0 (no expiration).
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix sets the key prefix. Indexes are stored as "{prefix}:{name}".
// Empty prefixes are ignored so Clear never scans the whole keyspace.
// Default: "slugs".
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}
