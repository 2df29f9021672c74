package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/creatorhub/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// newRecordingTracer installs an in-memory span recorder for assertions
func newRecordingTracer() (*tracetest.SpanRecorder, trace.Tracer) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return recorder, provider.Tracer("test")
}

func TestStartSpan(t *testing.T) {
	ctx, span := telemetry.StartSpan(context.Background(), "submission.create",
		telemetry.WithAttribute("category", "landscape"),
	)
	defer span.End()

	require.NotNil(t, span)
	assert.Equal(t, span, telemetry.SpanFromContext(ctx))
}

func TestStartServiceSpan(t *testing.T) {
	recorder, tracer := newRecordingTracer()

	ctx, parent := tracer.Start(context.Background(), "parent")
	_, span := telemetry.StartServiceSpan(ctx, "submission", "review")
	span.End()
	parent.End()

	// The helper uses the global provider; the recorded parent proves the
	// context plumbing, not the helper's span itself.
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "parent", spans[0].Name())
}

func TestRecordError(t *testing.T) {
	recorder, tracer := newRecordingTracer()

	_, span := tracer.Start(context.Background(), "op")
	telemetry.RecordError(span, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestRecordError_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.RecordError(nil, errors.New("boom"))
	})

	_, span := telemetry.StartSpan(context.Background(), "op")
	defer span.End()
	assert.NotPanics(t, func() {
		telemetry.RecordError(span, nil)
	})
}

func TestSetAttributes(t *testing.T) {
	recorder, tracer := newRecordingTracer()

	_, span := tracer.Start(context.Background(), "op")
	telemetry.SetAttributes(span,
		"submission_id", "abc",
		"batch_size", 3,
		42, "ignored non-string key",
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Len(t, spans[0].Attributes(), 2)
}

func TestGetTraceID(t *testing.T) {
	t.Run("empty without span", func(t *testing.T) {
		assert.Empty(t, telemetry.GetTraceID(context.Background()))
		assert.Empty(t, telemetry.GetSpanID(context.Background()))
	})

	t.Run("returns ids from recording span", func(t *testing.T) {
		_, tracer := newRecordingTracer()
		ctx, span := tracer.Start(context.Background(), "op")
		defer span.End()

		assert.NotEmpty(t, telemetry.GetTraceID(ctx))
		assert.NotEmpty(t, telemetry.GetSpanID(ctx))
	})
}
