// Package sluggable derives, versions and resolves URL slugs for persisted records.
//
// A [Controller] handles one record type. It reads and writes two named
// fields of a [Record]: the sluggable field (a title) and the slug field.
// The record itself is persisted by a [Store].
//
//	store, _ := sqlitestore.New(db, sqltable.Table{Name: "articles", Columns: []string{"title", "slug"}})
//	articles, err := sluggable.New(store)
//	if err != nil {
//	    return err
//	}
//
//	rec := sluggable.NewEntity("", nil)
//	articles.SetSluggable(rec, "  Caffè   & Co.!!  ")
//	if err := articles.Commit(ctx, rec); err != nil {
//	    return err
//	}
//	articles.Slug(rec) // "caffe-co"
//
// # Versioning
//
// Replacing a non-empty slug remembers the previous value until the next
// commit finalizes the record. Until then [Controller.Slug] keeps returning
// the previous slug, so links rendered mid-edit never point at a slug that
// is not yet durable.
//
// # Uniqueness
//
// By default a commit whose final slug is already used by another record
// fails with a [*ValidationError] before anything is written. Records
// without a slug never collide. [WithAppendID] switches to suffixing the
// record id instead ("hello-world-42"), which needs no check.
//
// # Commit
//
// [Controller.Commit] is a two-step write. The record is saved, then the slug
// is recomputed (with the id in append-id mode) and written again if it
// changed. Stores implementing [Transactor] run both writes in one
// transaction. Stores that run their own save pipeline can instead call
// [Controller.Register] with a [HookRegistry].
//
// # Lookups
//
// [Controller.IDBySlug] and [Controller.SlugByID] are served from a
// [github.com/dmitrymomot/sluggable/pkg/cache.Cache] built from a full scan.
// The cache is cleared after each commit through the controller; writes that
// bypass the controller need an explicit [Controller.ClearCache].
//
// [Controller.Find] accepts an id, an append-id slug or a plain slug; see
// [ResolveKey] for how the key kind is decided.
package sluggable
