package cache

// Kind tells which side of an index a key belongs to.
type Kind uint8

const (
	// KindID marks a record identifier key.
	KindID Kind = iota + 1
	// KindSlug marks a slug key.
	KindSlug
)

// String returns the kind name used in backend keys.
func (k Kind) String() string {
	switch k {
	case KindID:
		return "id"
	case KindSlug:
		return "slug"
	default:
		return "unknown"
	}
}

// Index is a bidirectional id<->slug mapping for one record type.
//
// An Index is filled by a loader and then handed to a Backend; it must not
// be modified after that. Ids and slugs live in separate maps so an
// all-digit slug never shadows a record id.
type Index struct {
	ids   map[string]string // id -> slug
	slugs map[string]string // slug -> id
}

// NewIndex returns an empty index sized for n records.
func NewIndex(n int) *Index {
	return &Index{
		ids:   make(map[string]string, n),
		slugs: make(map[string]string, n),
	}
}

// Add inserts both directions of the pair.
// Records without an id or without a slug are skipped.
func (x *Index) Add(id, slug string) {
	if id == "" || slug == "" {
		return
	}
	if prev, ok := x.ids[id]; ok && prev != slug {
		delete(x.slugs, prev)
	}
	x.ids[id] = slug
	x.slugs[slug] = id
}

// SlugByID returns the slug mapped to id.
func (x *Index) SlugByID(id string) (string, bool) {
	s, ok := x.ids[id]
	return s, ok
}

// IDBySlug returns the id mapped to slug.
func (x *Index) IDBySlug(slug string) (string, bool) {
	id, ok := x.slugs[slug]
	return id, ok
}

// Lookup resolves key without knowing its kind and returns the record id.
// Slugs are tried first; an id key resolves to itself.
func (x *Index) Lookup(key string) (string, bool) {
	if id, ok := x.slugs[key]; ok {
		return id, true
	}
	if _, ok := x.ids[key]; ok {
		return key, true
	}
	return "", false
}

// Len returns the number of records in the index.
func (x *Index) Len() int {
	return len(x.ids)
}

// Each calls fn for every id/slug pair in unspecified order.
func (x *Index) Each(fn func(id, slug string)) {
	for id, slug := range x.ids {
		fn(id, slug)
	}
}

func (x *Index) get(kind Kind, key string) (string, bool) {
	switch kind {
	case KindID:
		return x.SlugByID(key)
	case KindSlug:
		return x.IDBySlug(key)
	default:
		return "", false
	}
}
