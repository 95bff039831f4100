// Package logger builds the slog loggers used by the slug tools.
//
// Loggers write JSON to stderr so command output on stdout stays clean.
// A ContextHandler injects context-scoped attributes into every
// record. Without explicit extractors it adds the operation id of a
// command run and the record type being processed:
//
//	log := logger.New(slog.LevelInfo)
//
//	ctx = logger.WithOperationID(ctx, uuid.NewString())
//	ctx = logger.WithRecordType(ctx, "articles")
//	log.InfoContext(ctx, "slugs rebuilt", slog.Int("records", 42))
//	// {"level":"INFO","msg":"slugs rebuilt","records":42,"operation_id":"...","record_type":"articles"}
//
// # Sentry
//
// NewWithSentry additionally forwards warnings and errors to Sentry. With
// an empty SENTRY_DSN it behaves like New. Call FlushSentry before a short
// command exits so buffered events are not lost.
//
// Libraries in this module default to NewNope, which discards everything.
package logger
