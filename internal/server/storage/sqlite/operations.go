package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/famsync/internal/server/storage"
)

// SaveOperationStatus creates or replaces status of a client operation
func (s *Storage) SaveOperationStatus(ctx context.Context, status *storage.OperationStatus) error {
	query := `
		INSERT INTO operations (user_id, operation_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, operation_id)
		DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		status.UserID,
		status.OperationID,
		status.Status,
		status.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save operation status: %w", err)
	}

	return nil
}

// GetOperationStatus retrieves status of a client operation
// Returns ErrOperationNotFound if status was never saved
func (s *Storage) GetOperationStatus(ctx context.Context, userID, operationID string) (*storage.OperationStatus, error) {
	query := `
		SELECT user_id, operation_id, status, updated_at
		FROM operations
		WHERE user_id = ? AND operation_id = ?
	`

	status := &storage.OperationStatus{}
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, query, userID, operationID).Scan(
		&status.UserID,
		&status.OperationID,
		&status.Status,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOperationNotFound
		}
		return nil, fmt.Errorf("failed to get operation status: %w", err)
	}

	status.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return status, nil
}
