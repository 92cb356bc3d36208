package cli

import (
	"context"
	"errors"
	"fmt"
)

func (c *Cli) runWatch(ctx context.Context) error {
	if c.daemon == nil {
		return errors.New("watch is not available")
	}

	c.io.Printf("Watching document %s, press Ctrl+C to stop\n", c.documentID)
	err := c.daemon.Serve(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch stopped: %w", err)
	}

	snap := c.coordinator.Snapshot()
	c.io.Printf("Stopped. Syncs: %d, failed: %d, pending: %d\n",
		snap.Statistics.TotalSyncs, snap.Statistics.FailedSyncs, len(snap.PendingOperations))
	return nil
}
