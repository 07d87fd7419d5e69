package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("scheduler", "test", exporter))

	ctx, drain := StartSpan(context.Background(), "dispatcher.Drain", "INTERNAL")
	drain.WithAttributes(map[string]string{"run.id": "r1"})
	_, launch := StartSpan(ctx, "launcher.Launch date", "CLIENT")
	EndSpan(launch, errors.New("spawn failed"))
	EndSpan(drain, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "launcher.Launch date", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, "dispatcher.Drain", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)

	var nilSpan *Span
	nilSpan.WithAttributes(map[string]string{"k": "v"})
	EndSpan(nilSpan, nil)
}
