// Package logging defines the structured logger the client and backend are
// written against. Code takes the interface; the concrete handler (JSON for
// the backend, terse text for the CLI) is picked once at the app root.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// alternating key–value pairs:
//
//	log.Warn(ctx, "session verification failed", "error", err)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that carries the given key–value pairs
	// on every record.
	With(args ...any) Logger
}
