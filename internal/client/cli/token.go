package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

func (c *Cli) runToken(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("missing token. Usage: famsync-client token <value>")
	}

	value := strings.TrimSpace(args[0])
	if value == "-" {
		if err := c.tokens.DeleteToken(ctx); err != nil {
			return fmt.Errorf("failed to delete token: %w", err)
		}
		c.io.Println("Token removed")
		return nil
	}
	if value == "" {
		return errors.New("token cannot be empty")
	}

	if err := c.tokens.SaveToken(ctx, value); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	c.io.Println("Token saved")
	return nil
}
