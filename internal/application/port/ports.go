// Package port contains the port interfaces (driven ports) for the application layer.
// Ports define the interfaces that the application layer requires from external
// services like session storage, search engines, logging, metrics, etc.
//
// In Hexagonal Architecture (ports & adapters):
//   - Ports are interfaces that define what the application needs.
//   - Adapters are implementations of these interfaces
//   - this enables loose coupling and easy testing/swapping of implementations.
//
// SOLID Principles applied:
//   - Interface Segregation: small, focused interfaces
//   - Dependency Inversion: Application depends on abstractions
package port

import (
	"context"
	"time"

	"github.com/hapkiduki/cart-products/internal/domain/entity"
)

// Logger defines the interface for structured logging.
// Implementation may use zap, logrus, or the standard library.
//
// Example usage:
//
//	logger := logging.NewPortLogger(zapLogger)
//	logger.Info("Product listed", "product_id", productID, "action", "list")
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})

	// With return a logger with additional context fields.
	With(keysAndValues ...interface{}) Logger

	// WithContext return a logger with context information (e.g., request ID).
	WithContext(ctx context.Context) Logger
}

// Metrics defines the interface for recording application metrics.
// Implementation may use Prometheus or discard everything.
type Metrics interface {
	// Counter increments a counter metric.
	Counter(name string, value float64, tags map[string]string)

	// Gauge sets a gauge metric value.
	Gauge(name string, value float64, tags map[string]string)

	// Histogram records a value in a histogram.
	Histogram(name string, value float64, tags map[string]string)

	// Timing records a timing/duration metric.
	Timing(name string, duration time.Duration, tags map[string]string)
}

// Tracer defines the interface for distributed tracing.
// Implementation may use OpenTelemetry.
type Tracer interface {
	// StartSpan starts a new span for tracing.
	//
	// Parameters:
	//   - ctx: the context for parent span
	//   - operationName: the name of the operation being traced
	//
	// Returns:
	//   - context.Context: the new context containing the span
	//   - Span: the created span (must be ended)
	StartSpan(ctx context.Context, operationName string) (context.Context, Span)
}

// Span represents a single operation in a trace.
type Span interface {
	// End ends the span.
	End()

	// SetAttribute sets an attribute on the span.
	SetAttribute(key string, value interface{})

	// SetError marks the span with an error.
	SetError(err error)

	// AddEvent adds an event to the span.
	AddEvent(name string, attributes map[string]interface{})
}

// CartStore persists the visitor's cart between requests.
// Implementation may use Redis or process memory.
type CartStore interface {
	// Load returns the cart of a session for a cart page.
	//
	// Parameters:
	//   - ctx: context for cancellation and deadlines
	//   - sessionID: the visitor's session
	//   - pid: the cart page
	//
	// Returns:
	//   - *entity.Cart: the stored cart, or nil if the session has none
	//   - error: any storage error
	Load(ctx context.Context, sessionID string, pid uint) (*entity.Cart, error)

	// Save stores the cart of a session.
	Save(ctx context.Context, sessionID string, cart *entity.Cart) error
}

// IndexDocument is one record handed to the full-text search engine.
type IndexDocument struct {
	// ID identifies the entry in the index; storing the same ID replaces it
	ID string `json:"-"`

	// StoragePid is the page the index entry belongs to
	StoragePid uint `json:"pid"`

	Title string `json:"title"`

	// Type is the content type, e.g. "cartproduct"
	Type string `json:"type"`

	// TargetPid is the page rendering the single view
	TargetPid uint `json:"targetpid"`

	// Content is the indexed full text
	Content string `json:"content"`

	// Tags are the facet tags, e.g. "#product#"
	Tags string `json:"tags"`

	// Params are the link parameters of the single view
	Params string `json:"params"`

	// Abstract is shown in result lists when not empty
	Abstract string `json:"abstract"`

	Language      int    `json:"language"`
	StartTime     int64  `json:"starttime"`
	EndTime       int64  `json:"endtime"`
	FrontendGroup string `json:"fe_group"`

	// AdditionalFields holds engine specific fields (sortdate, orig_uid, orig_pid)
	AdditionalFields map[string]any `json:"additional_fields,omitempty"`
}

// SearchIndex stores documents in a full-text search engine.
// Implementation may use Elasticsearch or process memory.
type SearchIndex interface {
	// Store adds or replaces a document.
	Store(ctx context.Context, doc IndexDocument) error
}
