package telemetry_test

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
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRecordingTracer(t *testing.T, log ports.Logger) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracer(tp.Tracer("test"), log), rec
}

func TestOTelTracer_Start_Attributes(t *testing.T) {
	tracer, rec := newRecordingTracer(t, nil)

	_, span := tracer.Start(context.Background(), "compile",
		ports.WithAttribute("project", "com.acme@core"),
		ports.WithAttribute("stale", 3),
		ports.WithAttribute("sources", []string{"A.java"}),
		ports.WithAttribute("other", struct{}{}),
	)
	span.SetAttribute("incremental", true)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()
	assert.Contains(t, attrs, attribute.String("project", "com.acme@core"))
	assert.Contains(t, attrs, attribute.Int("stale", 3))
	assert.Contains(t, attrs, attribute.StringSlice("sources", []string{"A.java"}))
	assert.Contains(t, attrs, attribute.String("other", "{}"))
	assert.Contains(t, attrs, attribute.Bool("incremental", true))
}

func TestOTelSpan_Write_LineEvents(t *testing.T) {
	tracer, rec := newRecordingTracer(t, nil)

	_, span := tracer.Start(context.Background(), "run")
	_, err := span.Write([]byte("hello\r\nwor"))
	require.NoError(t, err)
	_, err = span.Write([]byte("ld\npartial"))
	require.NoError(t, err)
	span.End()

	events := rec.Ended()[0].Events()
	require.Len(t, events, 3)
	want := []string{"hello", "world", "partial"}
	for i, e := range events {
		assert.Equal(t, "log", e.Name)
		assert.Contains(t, e.Attributes, attribute.String("message", want[i]))
	}
}

func TestOTelSpan_RecordError(t *testing.T) {
	tracer, rec := newRecordingTracer(t, nil)

	_, span := tracer.Start(context.Background(), "compile")
	span.RecordError(errors.New("javac exited 1"))
	span.End()

	status := rec.Ended()[0].Status()
	assert.Equal(t, codes.Error, status.Code)
	assert.Equal(t, "javac exited 1", status.Description)
}

func TestOTelTracer_EmitPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info("build order: core → api → app")

	tracer, rec := newRecordingTracer(t, log)

	ctx, span := tracer.Start(context.Background(), "compile-workspace")
	tracer.EmitPlan(ctx, []string{"core", "api", "app"})
	span.End()

	events := rec.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "plan_emitted", events[0].Name)
}

func TestOTelTracer_NilTracer(t *testing.T) {
	tracer := telemetry.NewOTelTracer(nil, nil)
	ctx, span := tracer.Start(context.Background(), "noop")
	tracer.EmitPlan(ctx, []string{"a"})
	_, err := span.Write([]byte("x\n"))
	require.NoError(t, err)
	span.End()
}
