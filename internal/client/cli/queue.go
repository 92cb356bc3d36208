package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/internal/validation"
	"github.com/iudanet/famsync/pkg/api"
)

// parseRecord разбирает профиль из JSON аргумента.
// Отсутствующий updatedAt заменяется меткой часов правок, которая новее
// последней известной версии документа.
func (c *Cli) parseRecord(raw string) (*models.Record, error) {
	var profile api.Profile
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&profile); err != nil {
		return nil, fmt.Errorf("invalid record JSON: %w", err)
	}
	if profile.Fields == nil {
		profile.Fields = map[string]json.RawMessage{}
	}
	if profile.UpdatedAt == 0 {
		if known := c.coordinator.Snapshot().Record; known != nil {
			c.clock.Observe(known.UpdatedAt)
		}
		profile.UpdatedAt = c.clock.Tick()
	} else {
		c.clock.Observe(profile.UpdatedAt)
	}
	if err := validation.Struct(&profile); err != nil {
		return nil, err
	}
	return models.RecordFromAPI(&profile), nil
}

func (c *Cli) runQueue(args []string) error {
	if len(args) < 3 {
		return errors.New("usage: famsync-client queue <type> <resource> <json-record>")
	}

	opType, err := models.ParseOperationType(args[0])
	if err != nil {
		return err
	}
	resource := strings.TrimSpace(args[1])
	if resource == "" {
		return errors.New("resource cannot be empty")
	}
	record, err := c.parseRecord(args[2])
	if err != nil {
		return err
	}

	op := c.coordinator.QueueOperation(opType, resource, record)
	c.io.Printf("Queued %s %s (id: %s)\n", op.Type, op.Resource, op.ID)
	return nil
}

func (c *Cli) runList() error {
	state := c.queue.State()
	if len(state.Operations) == 0 {
		c.io.Println("Queue is empty")
		return nil
	}

	c.io.Printf("Pending operations: %d\n\n", len(state.Operations))
	for _, op := range state.Operations {
		c.io.Printf("%s  %-6s %-16s attempts %d/%d  queued %s\n",
			op.ID, op.Type, op.Resource, op.Attempts, op.MaxAttempts,
			op.EnqueuedAt.Format("2006-01-02 15:04:05"))
		if op.RetryNotBefore != nil {
			c.io.Printf("    next retry: %s\n", op.RetryNotBefore.Format("2006-01-02 15:04:05"))
		}
		if op.LastError != "" {
			c.io.Printf("    last error: %s\n", op.LastError)
		}
	}
	return nil
}

func (c *Cli) runCancel(args []string) error {
	if len(args) == 0 {
		return errors.New("missing operation ID. Usage: famsync-client cancel <id>")
	}
	if !c.coordinator.CancelOperation(args[0]) {
		return fmt.Errorf("operation not found with ID: %s", args[0])
	}
	c.io.Printf("Operation %s cancelled\n", args[0])
	return nil
}

func (c *Cli) runDrain(ctx context.Context) error {
	if len(c.queue.State().Operations) == 0 {
		c.io.Println("Queue is empty, nothing to deliver")
		return nil
	}

	result := c.queue.ProcessQueue(ctx, c.coordinator.Apply)

	c.io.Println("=== Queue Processing Report ===")
	c.io.Printf("Processed: %d\n", result.ProcessedCount)
	c.io.Printf("Synced:    %d\n", result.SyncedCount)
	c.io.Printf("Failed:    %d\n", result.FailedCount)
	c.io.Printf("Elapsed:   %s\n", result.TimeElapsed)
	for _, opErr := range result.Errors {
		c.io.Printf("  ✗ %s\n", opErr.Error())
	}

	if remaining := len(c.queue.State().Operations); remaining > 0 {
		c.io.Printf("\n%d operation(s) still pending\n", remaining)
	}
	if !result.Success {
		return errors.New("queue processing finished with errors")
	}
	return nil
}
