// Package telemetry implements ports.Tracer on OpenTelemetry. Finished spans
// are reported to the logger through a span processor.
package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
)

// InstrumentationName names the kiln tracer.
const InstrumentationName = "go.trai.ch/kiln"

// OTelTracer is a concrete implementation of ports.Tracer using OpenTelemetry.
type OTelTracer struct {
	tracer trace.Tracer
	logger ports.Logger
}

var _ ports.Tracer = (*OTelTracer)(nil)

// NewOTelTracer wraps tracer. A nil tracer records nothing.
func NewOTelTracer(tracer trace.Tracer, logger ports.Logger) *OTelTracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(InstrumentationName)
	}
	return &OTelTracer{tracer: tracer, logger: logger}
}

// NewProvider creates a tracer provider whose spans are reported to logger.
func NewProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(logger)))
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name)
	s := &OTelSpan{span: span}
	for k, v := range cfg.Attributes {
		s.SetAttribute(k, v)
	}
	return ctx, s
}

// EmitPlan records the build order on the current span and logs it.
func (t *OTelTracer) EmitPlan(ctx context.Context, projects []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("plan_emitted", trace.WithAttributes(
			attribute.StringSlice("projects", projects),
		))
	}
	if t.logger != nil && len(projects) > 0 {
		t.logger.Info("build order: " + strings.Join(projects, " "+style.Arrow+" "))
	}
}

// OTelSpan is a concrete implementation of ports.Span using OpenTelemetry.
type OTelSpan struct {
	span trace.Span
	mu   sync.Mutex
	buf  []byte
}

// End flushes any partial output line and completes the span.
func (s *OTelSpan) End() {
	s.mu.Lock()
	if len(s.buf) > 0 {
		s.addLog(s.buf)
		s.buf = nil
	}
	s.mu.Unlock()
	s.span.End()
}

// RecordError records an error for the span.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write adds one "log" event per complete line.
func (s *OTelSpan) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf = append(s.buf, p...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		s.addLog(s.buf[:i])
		s.buf = s.buf[i+1:]
	}
	return len(p), nil
}

func (s *OTelSpan) addLog(line []byte) {
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", strings.TrimSuffix(string(line), "\r"))))
}
