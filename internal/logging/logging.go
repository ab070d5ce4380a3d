// Package logging provides leveled structured logging for the server.
package logging

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the minimum severity that gets emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a single structured log attribute.
type Field struct {
	Key   string
	Value interface{}
}

// WithField builds a single log field.
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// WithFields expands a map into log fields, sorted by key for stable output.
func WithFields(fields map[string]interface{}) []Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Field, 0, len(fields))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: fields[k]})
	}
	return out
}

// Logger wraps zap with the small surface the rest of the server uses.
type Logger struct {
	zl *zap.Logger
}

// New creates a logger writing JSON to stderr at the given minimum level.
func New(level Level) *Logger {
	zapLevel := zapcore.InfoLevel
	switch level {
	case LevelDebug:
		zapLevel = zapcore.DebugLevel
	case LevelWarn:
		zapLevel = zapcore.WarnLevel
	case LevelError:
		zapLevel = zapcore.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = true

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap's production config only fails on bad sink paths; fall back
		// to a no-op logger rather than crashing at startup.
		zl = zap.NewNop()
	}

	return &Logger{zl: zl}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.zl.Debug(msg, zapFields(fields)...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.zl.Info(msg, zapFields(fields)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.zl.Warn(msg, zapFields(fields)...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.zl.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// zapFields flattens Field values and []Field slices into zap fields.
func zapFields(args []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case Field:
			out = append(out, zap.Any(v.Key, v.Value))
		case []Field:
			for _, f := range v {
				out = append(out, zap.Any(f.Key, f.Value))
			}
		}
	}
	return out
}
