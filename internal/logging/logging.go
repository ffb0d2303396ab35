// Package logging defines the minimal structured logging contract used by
// the client, so applications can adapt their existing loggers without the
// client depending on a concrete logging implementation.
package logging

import "log/slog"

// Fields represents structured logging key/value pairs.
type Fields map[string]any

// Logger is the logging contract required by the client. The client logs
// connection lifecycle at info, dropped frames and unmatched responses at
// debug, and handler panics and transport faults at error.
type Logger interface {
	With(fields Fields) Logger
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
}

// NewSlogLogger wraps a slog.Logger so it satisfies the Logger interface.
func NewSlogLogger(log *slog.Logger) Logger {
	if log == nil {
		panic("ami: slog logger cannot be nil")
	}
	return &slogLogger{base: log}
}

// NewNopLogger returns a Logger that discards everything. It is the
// default when no logger is configured.
func NewNopLogger() Logger {
	return nopLogger{}
}

type slogLogger struct {
	base *slog.Logger
}

func (l *slogLogger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}
	return &slogLogger{base: l.base.With(attrs(fields)...)}
}

func (l *slogLogger) Debug(msg string, fields Fields) {
	l.base.Debug(msg, attrs(fields)...)
}

func (l *slogLogger) Info(msg string, fields Fields) {
	l.base.Info(msg, attrs(fields)...)
}

func (l *slogLogger) Error(msg string, err error, fields Fields) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	l.base.Error(msg, args...)
}

func attrs(fields Fields) []any {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields))
	for key, value := range fields {
		args = append(args, slog.Any(key, value))
	}
	return args
}

type nopLogger struct{}

func (nopLogger) With(Fields) Logger          { return nopLogger{} }
func (nopLogger) Debug(string, Fields)        {}
func (nopLogger) Info(string, Fields)         {}
func (nopLogger) Error(string, error, Fields) {}
