package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_StartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := NewTracer(tp)

	ctx, span := tracer.StartSpan(context.Background(), "catalog.List")
	span.SetAttribute("product_count", 3)
	span.SetAttribute("action", "list")
	span.SetAttribute("categories", []uint{1, 2})
	span.AddEvent("demand built", map[string]interface{}{"order": "title asc"})
	span.SetError(errors.New("boom"))
	span.SetError(nil)

	_, child := tracer.StartSpan(ctx, "repository.FindDemanded")
	child.End()
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	parent := spans[1]
	assert.Equal(t, "catalog.List", parent.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, parent.Attributes(), attribute.Int("product_count", 3))
	assert.Contains(t, parent.Attributes(), attribute.String("action", "list"))
	assert.Contains(t, parent.Attributes(), attribute.String("categories", "[1 2]"))
	assert.Equal(t, codes.Error, parent.Status().Code)

	var names []string
	for _, e := range parent.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "demand built")
	assert.Contains(t, names, "exception")
}
