package sluggable

import "context"

// Store persists records of one type.
//
// Implementations return ErrNotFound from Get for unknown ids and
// ErrUniqueViolation (possibly joined with the driver error) when a write
// hits a unique constraint.
type Store interface {
	Get(ctx context.Context, id string) (Record, error)

	// All enumerates every record. Used to build the slug cache.
	All(ctx context.Context) ([]Record, error)

	// Save inserts the record when it has no id (assigning one) and
	// updates it otherwise. Save never runs slug hooks.
	Save(ctx context.Context, rec Record) error

	// UpdateField durably writes a single field of a saved record.
	UpdateField(ctx context.Context, rec Record, field, value string) error

	// Taken reports whether another record (not exceptID) has field == value.
	Taken(ctx context.Context, field, value, exceptID string) (bool, error)
}

// Transactor is implemented by stores that can run several writes atomically.
// fn receives a Store bound to the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// UniqueEnforcer is implemented by stores that can declare a uniqueness
// constraint on a field. Empty values must not collide.
type UniqueEnforcer interface {
	EnforceUnique(ctx context.Context, field string) error
}

// SlugLister is implemented by stores that can list id/slug pairs without
// loading whole records. Records with an empty value are skipped.
type SlugLister interface {
	ListSlugs(ctx context.Context, field string, fn func(id, slug string)) error
}

// Namer is implemented by stores that have a stable name, used as the
// default cache name.
type Namer interface {
	Name() string
}

// HookFunc is a save-pipeline callback.
type HookFunc func(ctx context.Context, rec Record) error

// HookRegistry is a persistence layer that runs its own save pipeline
// and lets callers attach callbacks to it.
type HookRegistry interface {
	// OnBeforeCreate runs before a new record is first written.
	OnBeforeCreate(fn HookFunc)
	// OnBeforeSave runs before every write, after OnBeforeCreate on creates.
	OnBeforeSave(fn HookFunc)
	// OnAfterSave runs after every successful write.
	OnAfterSave(fn HookFunc)
}
