package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartRecordsOnGlobalProvider(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := trace.NewTracerProvider(trace.WithSpanProcessor(rec))

	otel.SetTracerProvider(tp)

	ctx, parent := Start(context.Background(), "parent")
	_, child := Start(ctx, "child")
	child.End()
	parent.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "child", spans[0].Name())
	require.Equal(t, "parent", spans[1].Name())
	require.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}
