// Package logging defines the structured-logging interface used by the
// recovery tool. Callers log identifiers (vault, entry, field names) only,
// never key material or decrypted values.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Warn(ctx, "field not decrypted", "vault", v.UUID, "entry", e.UUID, "field", f.Name)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs progress of a run.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs per-item failures that do not stop the run.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that abort an operation.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
