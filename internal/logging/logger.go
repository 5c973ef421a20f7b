// Package logging defines the structured logger used across the server
// and its slog-backed implementation.
package logging

import "context"

// Logger is the logging interface the rest of the code depends on. The
// variadic args are alternating key-value pairs, slog style.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given key-value
	// pairs.
	With(args ...any) Logger
}
