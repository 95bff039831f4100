package sluggable

import "maps"

// Record is a persisted entity with named text fields.
//
// Field and SetField access the stored value directly; slug versioning is
// applied by the Controller on top of them.
type Record interface {
	// RecordID returns the identifier, empty until the first save.
	RecordID() string
	SetRecordID(id string)

	Field(name string) string
	SetField(name, value string)

	// SlugTracker returns the record's versioning state. Embedding Tracker
	// provides this method.
	SlugTracker() *Tracker
}

// Tracker holds the slug a record had before an unsaved reassignment.
// The zero value is ready to use; embed it in record types.
type Tracker struct {
	old string
}

// SlugTracker returns t, so embedding Tracker satisfies part of Record.
func (t *Tracker) SlugTracker() *Tracker {
	return t
}

// Old returns the remembered slug, if any.
func (t *Tracker) Old() (string, bool) {
	return t.old, t.old != ""
}

func (t *Tracker) remember(slug string) {
	t.old = slug
}

func (t *Tracker) forget() {
	t.old = ""
}

// Entity is a map-backed Record used by the bundled stores.
type Entity struct {
	Tracker
	fields map[string]string
	id     string
}

// NewEntity returns an entity with a copy of fields.
func NewEntity(id string, fields map[string]string) *Entity {
	e := &Entity{id: id, fields: make(map[string]string, len(fields))}
	maps.Copy(e.fields, fields)
	return e
}

func (e *Entity) RecordID() string { return e.id }

func (e *Entity) SetRecordID(id string) { e.id = id }

func (e *Entity) Field(name string) string { return e.fields[name] }

func (e *Entity) SetField(name, value string) {
	if e.fields == nil {
		e.fields = make(map[string]string)
	}
	e.fields[name] = value
}

// Fields returns a copy of the stored field values.
func (e *Entity) Fields() map[string]string {
	return maps.Clone(e.fields)
}

var _ Record = (*Entity)(nil)
