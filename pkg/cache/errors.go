package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrNotFound is returned when a key is not present in a built index.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrNotBuilt is returned by a Backend when no index is stored under the name.
	ErrNotBuilt = errors.New("cache: index not built")

	// ErrClosed is returned when an operation is attempted on a closed backend.
	ErrClosed = errors.New("cache: closed")

	// ErrBuildFailed wraps errors returned by the index loader.
	ErrBuildFailed = errors.New("cache: failed to build index")

	// ErrInvalidSchedule is returned when a refresh schedule cannot be parsed.
	ErrInvalidSchedule = errors.New("cache: invalid refresh schedule")
)
