package sluggable

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/sluggable/pkg/cache"
)

// ResolveKey decides whether a lookup key carries a record id.
//
// An all-digit key is an id. Otherwise, when the part after the last hyphen
// is all digits (the append-id format "title-42"), that suffix is the id.
// Any other key is not id-shaped and ok is false.
//
// A slug that is itself all digits, or that ends in "-<digits>" without
// append-id mode, is indistinguishable from an id here; id-shaped keys
// always win.
func ResolveKey(key string) (id string, ok bool) {
	if isDigits(key) {
		return key, true
	}
	if i := strings.LastIndexByte(key, '-'); i >= 0 && isDigits(key[i+1:]) {
		return key[i+1:], true
	}
	return "", false
}

// Find fetches the record identified by key, which may be an id, an
// append-id slug or a plain slug. Plain slugs are resolved through the
// cache; keys the cache does not know are passed to the store as ids.
func (c *Controller) Find(ctx context.Context, key string) (Record, error) {
	if key == "" {
		return nil, ErrNotFound
	}

	if id, ok := ResolveKey(key); ok {
		return c.store.Get(ctx, id)
	}

	id, err := c.cache.IDBySlug(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		// Not a cached slug: the key may be an opaque id (uuid and the
		// like) or belong to a record without a slug. The store decides.
		return c.store.Get(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	return c.store.Get(ctx, id)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
