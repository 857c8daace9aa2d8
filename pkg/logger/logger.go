// Package logger is the zap-backed structured logger shared by the catalog
// service and the indexer CLI. Entries go to stdout as JSON unless the
// console format is chosen; request and cart session IDs travel in the
// context and are attached by WithContext.
package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	// RequestIDKey carries the HTTP request ID.
	RequestIDKey contextKey = "request_id"

	// SessionIDKey carries the cart session ID.
	SessionIDKey contextKey = "session_id"
)

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithSessionID returns a copy of ctx carrying the cart session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// SessionIDFromContext returns the cart session ID, or "" if none is set.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// Logger writes key/value entries through a zap sugared logger. Fields added
// with With are copied, so derived loggers never share state.
type Logger struct {
	zap    *zap.Logger
	sugar  *zap.SugaredLogger
	fields []any
}

// Config selects level, encoding and destination.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is json or console.
	Format string

	// Service is attached to every entry as "service" when set.
	Service string

	// Development turns on caller stack traces for warnings.
	Development bool

	// Output defaults to stdout.
	Output zapcore.WriteSyncer
}

// DefaultConfig returns JSON at info level.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// encoder builds the entry encoder for the configured format.
func (c Config) encoder() zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	if c.Format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	return zapcore.NewJSONEncoder(ec)
}

// newLogger builds a Logger from cfg.
//
// Parameters:
//   - cfg: level, format and destination
//
// Returns:
//   - *Logger: the configured logger
//   - error: an unknown level
func newLogger(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stdout)
	}

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	if cfg.Service != "" {
		opts = append(opts, zap.Fields(zap.String("service", cfg.Service)))
	}

	return wrap(zap.New(zapcore.NewCore(cfg.encoder(), out, level), opts...)), nil
}

// MustNew is newLogger for process start-up; it panics on a bad level.
func MustNew(cfg Config) *Logger {
	l, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

// NewWithCore creates a Logger writing to core, e.g. an observer core in tests.
func NewWithCore(core zapcore.Core) *Logger {
	return wrap(zap.New(core))
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{zap: z, sugar: z.Sugar()}
}

func (l *Logger) entry(keysAndValues []any) []any {
	if len(l.fields) == 0 {
		return keysAndValues
	}
	kv := make([]any, 0, len(l.fields)+len(keysAndValues))
	kv = append(kv, l.fields...)
	return append(kv, keysAndValues...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, l.entry(keysAndValues)...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.sugar.Infow(msg, l.entry(keysAndValues)...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.sugar.Warnw(msg, l.entry(keysAndValues)...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, l.entry(keysAndValues)...)
}

// Fatal logs and exits the process. Only main packages call it.
func (l *Logger) Fatal(msg string, keysAndValues ...any) {
	l.sugar.Fatalw(msg, l.entry(keysAndValues)...)
}

// With returns a logger that adds keysAndValues to every entry.
//
// Parameters:
//   - keysAndValues: alternating keys and values
//
// Returns:
//   - *Logger: a derived logger; l is unchanged
func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{zap: l.zap, sugar: l.sugar, fields: l.entry(keysAndValues)}
}

// WithContext returns a logger carrying the request and cart session IDs
// found in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	kv := make([]any, 0, 4)
	if id := RequestIDFromContext(ctx); id != "" {
		kv = append(kv, string(RequestIDKey), id)
	}
	if id := SessionIDFromContext(ctx); id != "" {
		kv = append(kv, string(SessionIDKey), id)
	}
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}

// Sync flushes buffered entries; call it before the process exits.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

var global = MustNew(DefaultConfig())

// SetGlobal installs l as the process logger. zap.L and zap.S are redirected
// as well, so libraries logging through zap's globals share its output.
//
// Returns:
//   - func(): restores the previous loggers
func SetGlobal(l *Logger) func() {
	prev := global
	global = l
	restoreZap := zap.ReplaceGlobals(l.zap)
	return func() {
		global = prev
		restoreZap()
	}
}

// Global returns the process logger.
func Global() *Logger {
	return global
}
