package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor pulls one attribute out of a context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// DefaultExtractors returns the extractors used when a logger is built
// without any: the operation id and the record type.
func DefaultExtractors() []ContextExtractor {
	return []ContextExtractor{OperationIDExtractor(), RecordTypeExtractor()}
}

// ContextHandler adds context-scoped attributes to every record before
// passing it on. Attributes set on the log call itself win over extracted
// ones with the same key.
type ContextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewContextHandler wraps next. Nil extractors are ignored; when none are
// left, DefaultExtractors is used.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) *ContextHandler {
	var list []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			list = append(list, ex)
		}
	}
	if len(list) == 0 {
		list = DefaultExtractors()
	}
	return &ContextHandler{next: next, extractors: list}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	var set map[string]bool
	for _, ex := range h.extractors {
		attr, ok := ex(ctx)
		if !ok {
			continue
		}
		if set == nil {
			set = recordKeys(rec)
		}
		if set[attr.Key] {
			continue
		}
		set[attr.Key] = true
		rec.AddAttrs(attr)
	}
	return h.next.Handle(ctx, rec)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

func recordKeys(rec slog.Record) map[string]bool {
	keys := make(map[string]bool, rec.NumAttrs()+2)
	rec.Attrs(func(a slog.Attr) bool {
		keys[a.Key] = true
		return true
	})
	return keys
}
