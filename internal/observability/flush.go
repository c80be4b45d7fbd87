package observability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FlushTelemetry runs at exit, after the terminal is restored. It writes the metrics
// textfile when textfilePath is set and then syncs the log sink.
func FlushTelemetry(ctx context.Context, logger *zap.Logger, textfilePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(textfilePath) != "" {
		if err := WriteTextfile(textfilePath); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
	}
	if logger != nil {
		if err := logger.Sync(); err != nil {
			return fmt.Errorf("flush logs: %w", err)
		}
	}
	return nil
}
