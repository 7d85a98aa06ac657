// Package logging assembles the structured slog loggers used across
// subfetch.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes attribute helper aliases so call sites stay terse. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging
