package observability

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestFlushTelemetry(t *testing.T) {
	if err := FlushTelemetry(context.Background(), nil); err != nil {
		t.Errorf("FlushTelemetry(nil logger) error = %v", err)
	}
	if err := FlushTelemetry(context.Background(), zap.NewNop()); err != nil {
		t.Errorf("FlushTelemetry(nop logger) error = %v", err)
	}
}

func TestFlushTelemetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := FlushTelemetry(ctx, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("FlushTelemetry error = %v, want context.Canceled", err)
	}
}
