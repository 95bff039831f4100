// Package redis opens go-redis clients for the shared slug cache backend.
//
// [Open] parses a redis:// or rediss:// URL, applies pool and timeout
// settings from [Config] and pings the server, retrying with a linear
// backoff while the server comes up:
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	backend := cache.NewRedis(client, cache.WithPrefix("slugs"))
//
// [Config] carries env tags, so it can be embedded in a larger config
// parsed with github.com/caarlos0/env/v11.
//
// # Error Handling
//
//   - [ErrEmptyConnectionURL] - Empty connection URL provided
//   - [ErrFailedToParseURL] - Invalid connection URL format or scheme
//   - [ErrConnectionFailed] - Connection failed after all retry attempts
//
// Errors are wrapped using [errors.Join] to preserve the original error context.
package redis
