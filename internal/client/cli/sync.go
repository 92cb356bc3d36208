package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/models"
)

func (c *Cli) runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	strategy := fs.String("strategy", "", "Conflict strategy")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("invalid sync arguments: %w", err)
	}

	var record *models.Record
	if fs.NArg() > 0 {
		var err error
		if record, err = c.parseRecord(fs.Arg(0)); err != nil {
			return err
		}
	}

	parsed := models.ConflictStrategy("")
	if *strategy != "" {
		var err error
		if parsed, err = models.ParseConflictStrategy(*strategy); err != nil {
			return err
		}
	}

	c.io.Println("Synchronizing...")
	err := c.coordinator.PerformSync(ctx, record, parsed)
	return c.reportSync(err)
}

func (c *Cli) runRetry(ctx context.Context) error {
	c.io.Println("Retrying sync...")
	return c.reportSync(c.coordinator.RetrySync(ctx, nil))
}

func (c *Cli) runReset() error {
	c.coordinator.ResetSync()
	c.io.Println("Sync state reset")
	return nil
}

// reportSync печатает итог синхронизации по снимку координатора
func (c *Cli) reportSync(err error) error {
	snap := c.coordinator.Snapshot()

	if err != nil {
		if errors.Is(err, clientsync.ErrAlreadySyncing) {
			c.io.Println("Sync already in progress")
			return nil
		}
		if errors.Is(err, clientsync.ErrNoRecord) {
			c.io.Println("Nothing to sync yet: pass a JSON record, e.g. famsync-client sync '{\"id\":\"profile\",\"fields\":{}}'")
		}
		return err
	}

	if snap.Status == models.SyncStatusOffline {
		c.io.Printf("Offline: change queued, %d operation(s) pending\n", len(snap.PendingOperations))
		return nil
	}

	c.io.Println("✓ Sync completed")
	if snap.Record != nil {
		c.io.Printf("Version: %d\n", snap.Record.Version)
	}
	if snap.ConflictCount > 0 {
		c.io.Printf("⚠️  Resolved %d conflicting field(s)\n", snap.ConflictCount)
	}
	return nil
}
