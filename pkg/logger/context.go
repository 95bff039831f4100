package logger

import (
	"context"
	"errors"
	"log/slog"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognized level names.
var ErrUnknownLevel = errors.New("logger: unknown log level")

type (
	operationIDKey struct{}
	recordTypeKey  struct{}
)

// WithOperationID tags ctx with the id of the running command or job.
func WithOperationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operationIDKey{}, id)
}

// OperationID returns the id stored by WithOperationID.
func OperationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(operationIDKey{}).(string)
	return id, ok && id != ""
}

// WithRecordType tags ctx with the record type being processed.
func WithRecordType(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, recordTypeKey{}, name)
}

// OperationIDExtractor adds "operation_id" to every record logged with a tagged context.
func OperationIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := OperationID(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("operation_id", id), true
	}
}

// RecordTypeExtractor adds "record_type" to every record logged with a tagged context.
func RecordTypeExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		name, ok := ctx.Value(recordTypeKey{}).(string)
		if !ok || name == "" {
			return slog.Attr{}, false
		}
		return slog.String("record_type", name), true
	}
}
