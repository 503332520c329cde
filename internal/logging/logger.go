// Package logging defines the structured-logging contract used across the
// server. Production wires an slog-backed implementation; tests substitute
// their own.
package logging

import "context"

// Logger logs structured records. Variadic args are alternating keys and
// values:
//
//	log.Info(ctx, "payment executed", "payment_id", id)
type Logger interface {
	// Info records normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that attaches the given key/value pairs
	// to every record.
	With(args ...any) Logger
}
