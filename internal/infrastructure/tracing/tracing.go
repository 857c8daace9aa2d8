// Package tracing implements port.Tracer with OpenTelemetry.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/hapkiduki/cart-products/internal/application/port"
	"github.com/hapkiduki/cart-products/internal/infrastructure/config"
)

// InstrumentationName names the tracer of this service.
const InstrumentationName = "github.com/hapkiduki/cart-products"

// NewProvider creates a tracer provider exporting over OTLP HTTP and installs
// it as the global provider.
//
// Parameters:
//   - ctx: context for exporter setup
//   - serviceName: reported service name
//   - environment: deployment environment attribute
//   - cfg: exporter configuration
//
// Returns:
//   - *sdktrace.TracerProvider: the provider; call Shutdown on exit
//   - error: if the exporter or resource cannot be created
func NewProvider(ctx context.Context, serviceName, environment string, cfg config.TracingConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("environment", environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// Tracer adapts an OpenTelemetry tracer to port.Tracer.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a port.Tracer from a provider. Pass otel.GetTracerProvider()
// to follow the global provider, which is a no-op until NewProvider runs.
func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(InstrumentationName)}
}

// StartSpan implements port.Tracer.
func (t *Tracer) StartSpan(ctx context.Context, operationName string) (context.Context, port.Span) {
	ctx, span := t.tracer.Start(ctx, operationName)
	return ctx, &Span{span: span}
}

// Span adapts an OpenTelemetry span to port.Span.
type Span struct {
	span trace.Span
}

// End implements port.Span.
func (s *Span) End() {
	s.span.End()
}

// SetAttribute implements port.Span.
func (s *Span) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(toAttribute(key, value))
}

// SetError implements port.Span.
func (s *Span) SetError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// AddEvent implements port.Span.
func (s *Span) AddEvent(name string, attributes map[string]interface{}) {
	attrs := make([]attribute.KeyValue, 0, len(attributes))
	for k, v := range attributes {
		attrs = append(attrs, toAttribute(k, v))
	}
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

func toAttribute(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case uint:
		return attribute.Int64(key, int64(v))
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

var _ port.Tracer = (*Tracer)(nil)
