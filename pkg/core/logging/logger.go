// ============================================================================
// sessionkit - Lesson data tooling
// ============================================================================
//
// Package:     logging
// Description: Structured logger with contextual fields, backed by zap
// Author:      Mike Stoffels
// Created:     2026-02-09
// License:     MIT
// ============================================================================

package logging

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Fields holds structured context attached to a log entry
type Fields map[string]interface{}

// Logger is a structured logger. The zero value is not usable; use NewLogger or Nop.
type Logger struct {
	z     *zap.Logger
	level zap.AtomicLevel
	name  string
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{z: zap.NewNop(), level: zap.NewAtomicLevel()}
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// WithField returns a child logger that adds key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{z: l.z.With(zap.Any(key, value)), level: l.level, name: l.name}
}

// WithFields returns a child logger that adds all fields to every entry
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{z: l.z.With(toZap(fields)...), level: l.level, name: l.name}
}

// SetLevel changes the minimum level for this logger and all of its children
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zap())
}

// Enabled reports whether entries at level would be written
func (l *Logger) Enabled(level Level) bool {
	return l.z.Core().Enabled(level.zap())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...Fields) {
	l.z.Debug(msg, merge(fields)...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...Fields) {
	l.z.Info(msg, merge(fields)...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...Fields) {
	l.z.Warn(msg, merge(fields)...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...Fields) {
	l.z.Error(msg, merge(fields)...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// KV converts alternating key/value pairs into Fields. Non-string keys and a
// trailing orphan value are dropped.
func KV(keysAndValues ...interface{}) Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func merge(all []Fields) []zap.Field {
	switch len(all) {
	case 0:
		return nil
	case 1:
		return toZap(all[0])
	}
	combined := make(Fields)
	for _, f := range all {
		for k, v := range f {
			combined[k] = v
		}
	}
	return toZap(combined)
}

// toZap converts fields in key order so output is stable
func toZap(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := fields[k].(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
