// Package logging adapts pkg/logger to the application's port.Logger.
package logging

import (
	"context"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/pkg/logger"
)

// portLogger adapts the logger.Logger to the port.Logger interface.
type portLogger struct {
	*logger.Logger
}

// NewPortLogger wraps l as a port.Logger.
func NewPortLogger(l *logger.Logger) port.Logger {
	return &portLogger{l}
}

// Debug implements port.Logger.
func (l *portLogger) Debug(msg string, keysAndValues ...any) {
	l.Logger.Debug(msg, keysAndValues...)
}

// Info implements port.Logger.
func (l *portLogger) Info(msg string, keysAndValues ...any) {
	l.Logger.Info(msg, keysAndValues...)
}

// Warn implements port.Logger.
func (l *portLogger) Warn(msg string, keysAndValues ...any) {
	l.Logger.Warn(msg, keysAndValues...)
}

// Error implements port.Logger.
func (l *portLogger) Error(msg string, keysAndValues ...any) {
	l.Logger.Error(msg, keysAndValues...)
}

// With implements port.Logger.
func (l *portLogger) With(keysAndValues ...any) port.Logger {
	return &portLogger{l.Logger.With(keysAndValues...)}
}

// WithContext implements port.Logger.
func (l *portLogger) WithContext(ctx context.Context) port.Logger {
	return &portLogger{l.Logger.WithContext(ctx)}
}

// nopLogger discards everything.
type nopLogger struct{}

// Nop returns a port.Logger that discards every entry.
func Nop() port.Logger {
	return nopLogger{}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}
func (nopLogger) Error(string, ...any) {}
func (n nopLogger) With(...any) port.Logger { return n }
func (n nopLogger) WithContext(context.Context) port.Logger { return n }
