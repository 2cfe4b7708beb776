// Package logger declares the logging interface used across the module.
package logger

// Logger exposes leveled logging. Component loggers are created by
// infra/logger; With derives a child carrying extra fields.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs msg with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	With(fields map[string]any) Logger
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}
func (n NopLogger) With(map[string]any) Logger  { return n }
