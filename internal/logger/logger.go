// Package logger provides the leveled, context-aware logging this client
// uses internally, backed by log/slog. Callers who want their own logging
// backend implement the StreamLogger interface and set it on Config.Logger;
// they never need to import this package directly.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// StreamLogger is the logging surface the client calls through. It mirrors
// the handful of methods this library actually uses rather than wrapping all
// of slog, so a caller's own logger (zap, logrus, a test spy) can satisfy it
// with a thin adapter.
type StreamLogger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	WithContext(ctx context.Context) StreamLogger
}

var currentLevel atomic.Int32

// Level mirrors slog's level scale so callers needn't import log/slog just
// to call SetLogLevel.
type Level int

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// SetLogLevel adjusts the minimum level the default logger emits.
func SetLogLevel(l Level) {
	currentLevel.Store(int32(l))
}

func init() {
	SetLogLevel(LevelInfo)
}

type levelVar struct{}

func (levelVar) Level() slog.Level {
	return slog.Level(currentLevel.Load())
}

// slogLogger is the default StreamLogger, backed by log/slog writing
// structured text to stderr. Every formatted method routes its rendered
// message through RedactToken before it reaches slog, so a bearer token
// can never appear in clear text regardless of what a future caller
// happens to log.
type slogLogger struct {
	base *slog.Logger
}

// Default returns the package-level default logger.
func Default() StreamLogger {
	return &slogLogger{
		base: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar{}})),
	}
}

func (l *slogLogger) Debugf(format string, args ...any) {
	l.base.Debug(RedactToken(sprintf(format, args...)))
}
func (l *slogLogger) Infof(format string, args ...any) {
	l.base.Info(RedactToken(sprintf(format, args...)))
}
func (l *slogLogger) Warnf(format string, args ...any) {
	l.base.Warn(RedactToken(sprintf(format, args...)))
}
func (l *slogLogger) Errorf(format string, args ...any) {
	l.base.Error(RedactToken(sprintf(format, args...)))
}

func (l *slogLogger) WithContext(ctx context.Context) StreamLogger {
	if guid, ok := ctx.Value(requestGUIDKey{}).(string); ok {
		return &slogLogger{base: l.base.With("request_guid", guid)}
	}
	return l
}

// requestGUIDKey is the context key the HTTP driver attaches a correlation
// id under, so a logger derived via WithContext can surface it.
type requestGUIDKey struct{}

// WithRequestGUID returns a context carrying guid for WithContext to pick up.
func WithRequestGUID(ctx context.Context, guid string) context.Context {
	return context.WithValue(ctx, requestGUIDKey{}, guid)
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
