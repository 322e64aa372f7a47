package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestGetTraceID_WithSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestSpanHelpers_SafeWithoutSpan(t *testing.T) {
	ctx := context.Background()

	RecordSpanError(ctx, nil)
	RecordSpanError(ctx, errors.New("boom"))
	SpanAttributes(ctx, attribute.String("k", "v"))
}
