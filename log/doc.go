// Package log provides a concurrency-safe structured logging interface
// built on [log/slog].
//
// It extends slog with a Verbose level below Debug, selectable text or
// JSON output, and named timestamp layouts, all applied through
// functional options. The zero-value [Logger] is a no-op, so library
// code can log unconditionally without nil checks.
package log
