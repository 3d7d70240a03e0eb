package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/ui/style"
)

// Bridge implements sdktrace.SpanProcessor and reports finished spans to a logger.
// Failed spans are not reported; their error reaches the caller instead.
type Bridge struct {
	logger ports.Logger
}

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs a completion line for successful spans.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}
	if s.Status().Code == codes.Error {
		return
	}

	label := s.Name()
	for _, kv := range s.Attributes() {
		if kv.Key == "project" {
			label += " " + kv.Value.Emit()
		}
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	b.logger.Info(fmt.Sprintf("%s %s (%s)", style.Check, label, elapsed))
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
