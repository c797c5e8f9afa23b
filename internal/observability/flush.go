package observability

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FlushTelemetry is the last step of graceful shutdown, after in-flight
// assessment requests have drained. Metrics are pull-based and already
// exposed on /metrics, so only the zap buffers need a final sync.
func FlushTelemetry(ctx context.Context, logger *zap.Logger) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if logger == nil {
		return nil
	}
	if err := logger.Sync(); err != nil {
		return fmt.Errorf("sync logger: %w", err)
	}
	return nil
}
