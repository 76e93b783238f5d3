package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// Logger provides a concurrency-safe simplified logging interface.
// The zero value is a no-op.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] that writes to the specified writer.
// The default configuration is [DefaultFormat], [DefaultLevel], and
// [DefaultTimeLayout].
//
// Optional configuration can be applied using functional options like
// [WithFormat], [WithLevel], and [WithTimeLayout].
func Make(w io.Writer, opts ...Option) Logger {
	cfg := makeConfig(w, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Wrap returns a new [Logger] with the provided options applied over the
// current configuration.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := apply(l.config, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// With returns a new [Logger] that includes the given attributes in each
// log message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return Logger{
		config: l.config,
		Logger: slog.New(l.Logger.Handler().WithAttrs(attrs)),
	}
}

// Level returns the current minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// VerboseContext logs a message at Verbose level with the provided
// context.
func (l Logger) VerboseContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.logContext(ctx, LevelVerbose, msg, attrs...)
}

// Verbose logs a message at Verbose level.
func (l Logger) Verbose(msg string, attrs ...slog.Attr) {
	l.VerboseContext(context.Background(), msg, attrs...)
}

// DebugContext logs a message at Debug level with the provided context.
func (l Logger) DebugContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.logContext(ctx, LevelDebug, msg, attrs...)
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.DebugContext(context.Background(), msg, attrs...)
}

// InfoContext logs a message at Info level with the provided context.
func (l Logger) InfoContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.logContext(ctx, LevelInfo, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.InfoContext(context.Background(), msg, attrs...)
}

// WarnContext logs a message at Warn level with the provided context.
func (l Logger) WarnContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.logContext(ctx, LevelWarn, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.WarnContext(context.Background(), msg, attrs...)
}

// ErrorContext logs a message at Error level with the provided context.
func (l Logger) ErrorContext(
	ctx context.Context,
	msg string,
	attrs ...slog.Attr,
) {
	l.logContext(ctx, LevelError, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.ErrorContext(context.Background(), msg, attrs...)
}

// logContext writes a log message at the specified level.
func (l Logger) logContext(
	ctx context.Context,
	level Level,
	msg string,
	attrs ...slog.Attr,
) {
	// Silently return for zero value loggers
	if l.Logger == nil {
		return
	}

	l.Logger.LogAttrs(ctx, slog.Level(level), msg, attrs...)
}

// defaultLogger is the package-level logger used by the top-level
// logging functions. It starts as a no-op until [Config] or
// [SetDefault] installs one.
var defaultLogger atomic.Pointer[Logger]

// Default returns the package-level logger.
func Default() Logger {
	if l := defaultLogger.Load(); l != nil {
		return *l
	}

	return Logger{}
}

// SetDefault installs the package-level logger.
func SetDefault(l Logger) {
	defaultLogger.Store(&l)
}

// Config rewraps the package-level logger with the given options.
// If no logger is installed yet, one writing to the previous default's
// output cannot be derived, so the options are applied over a discarded
// writer; call [SetDefault] first to direct output.
func Config(opts ...Option) {
	SetDefault(Default().Wrap(opts...))
}

// Verbose logs a message at Verbose level using the package logger.
func Verbose(msg string, attrs ...slog.Attr) {
	Default().Verbose(msg, attrs...)
}

// Debug logs a message at Debug level using the package logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().Debug(msg, attrs...)
}

// Info logs a message at Info level using the package logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().Info(msg, attrs...)
}

// Warn logs a message at Warn level using the package logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().Warn(msg, attrs...)
}

// Error logs a message at Error level using the package logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().Error(msg, attrs...)
}
