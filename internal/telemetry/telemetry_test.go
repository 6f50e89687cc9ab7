package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordSpans installs an in-memory span recorder for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)), true)
	t.Cleanup(func() {
		SetTracerProvider(noop.NewTracerProvider(), false)
	})
	return recorder
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestSampler(t *testing.T) {
	traceID := trace.TraceID{1, 2, 3}
	sampled := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     trace.SpanID{4, 5, 6},
		TraceFlags: trace.FlagsSampled,
	}))

	decide := func(rate float64, ctx context.Context) sdktrace.SamplingDecision {
		cfg := DefaultConfig()
		cfg.SampleRate = rate
		return cfg.sampler().ShouldSample(sdktrace.SamplingParameters{
			ParentContext: ctx,
			TraceID:       traceID,
			Name:          SpanCompactFile,
		}).Decision
	}

	t.Run("RootFollowsRate", func(t *testing.T) {
		assert.Equal(t, sdktrace.RecordAndSample, decide(1.0, context.Background()))
		assert.Equal(t, sdktrace.Drop, decide(0, context.Background()))
	})

	t.Run("PolicySpanFollowsCommandSpan", func(t *testing.T) {
		assert.Equal(t, sdktrace.RecordAndSample, decide(0, sampled))
	})
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())
}

func TestStartSpanWithoutInit(t *testing.T) {
	newCtx, span := StartSpan(context.Background(), "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	assert.Equal(t, "", TraceID(newCtx))
	assert.Equal(t, "", SpanID(newCtx))
}

func TestRecordErrorWithoutSpan(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		RecordError(ctx, nil)
		RecordError(ctx, errors.New("test error"))
		SetAttributes(ctx, Policy("block"))
	})
}

func TestRecordedSpans(t *testing.T) {
	recorder := recordSpans(t)
	assert.True(t, IsEnabled())

	ctx, span := StartSpan(context.Background(), SpanCompactFile, Policy("file"), DiskBlocks(42))
	assert.NotEmpty(t, TraceID(ctx))
	assert.NotEmpty(t, SpanID(ctx))

	SetAttributes(ctx, Checksum(2858))
	RecordError(ctx, errors.New("boom"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanCompactFile, spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "file", attrs[AttrPolicy])
	assert.Equal(t, "42", attrs[AttrDiskBlocks])
	assert.Equal(t, "2858", attrs[AttrChecksum])
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("RunID", func(t *testing.T) {
		attr := RunID("0b6f")
		assert.Equal(t, AttrRunID, string(attr.Key))
		assert.Equal(t, "0b6f", attr.Value.AsString())
	})

	t.Run("Input", func(t *testing.T) {
		attr := Input("stdin")
		assert.Equal(t, AttrInput, string(attr.Key))
		assert.Equal(t, "stdin", attr.Value.AsString())
	})

	t.Run("DiskRuns", func(t *testing.T) {
		attr := DiskRuns(19)
		assert.Equal(t, AttrDiskRuns, string(attr.Key))
		assert.Equal(t, int64(19), attr.Value.AsInt64())
	})

	t.Run("DiskFiles", func(t *testing.T) {
		attr := DiskFiles(10)
		assert.Equal(t, AttrDiskFiles, string(attr.Key))
		assert.Equal(t, int64(10), attr.Value.AsInt64())
	})

	t.Run("DiskFree", func(t *testing.T) {
		attr := DiskFree(14)
		assert.Equal(t, AttrDiskFree, string(attr.Key))
		assert.Equal(t, int64(14), attr.Value.AsInt64())
	})

	t.Run("ChecksumKeepsFullWidth", func(t *testing.T) {
		attr := Checksum(^uint64(0))
		assert.Equal(t, AttrChecksum, string(attr.Key))
		assert.Equal(t, "18446744073709551615", attr.Value.AsString())
	})

	t.Run("Counters", func(t *testing.T) {
		assert.Equal(t, int64(7), BlocksMoved(7).Value.AsInt64())
		assert.Equal(t, int64(3), FilesRelocated(3).Value.AsInt64())
		assert.Equal(t, int64(5), Fragments(5).Value.AsInt64())
		assert.Equal(t, int64(2), ClassesPruned(2).Value.AsInt64())
	})
}
