package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/internal/server/storage"
)

// GetRecord retrieves a record of the user by id
// Returns ErrRecordNotFound if record doesn't exist
func (s *Storage) GetRecord(ctx context.Context, userID, id string) (*models.Record, error) {
	query := `
		SELECT id, fields, updated_at, version
		FROM records
		WHERE user_id = ? AND id = ?
	`

	record := &models.Record{}
	var fields string

	err := s.db.QueryRowContext(ctx, query, userID, id).Scan(
		&record.ID,
		&fields,
		&record.UpdatedAt,
		&record.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	if err := json.Unmarshal([]byte(fields), &record.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode record fields: %w", err)
	}

	return record, nil
}

// SaveRecord stores the record using optimistic concurrency on version
func (s *Storage) SaveRecord(
	ctx context.Context,
	userID string,
	record *models.Record,
	expectedVersion int64,
	syncedAt time.Time,
) error {
	fields := record.Fields
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode record fields: %w", err)
	}

	// Новая запись: конфликт первичного ключа означает параллельную вставку
	if expectedVersion == 0 {
		query := `
			INSERT INTO records (user_id, id, fields, updated_at, version, synced_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, id) DO NOTHING
		`
		res, err := s.db.ExecContext(ctx, query,
			userID,
			record.ID,
			string(data),
			record.UpdatedAt,
			record.Version,
			syncedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
		return expectAffected(res)
	}

	query := `
		UPDATE records
		SET fields = ?, updated_at = ?, version = ?, synced_at = ?
		WHERE user_id = ? AND id = ? AND version = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		string(data),
		record.UpdatedAt,
		record.Version,
		syncedAt.UnixMilli(),
		userID,
		record.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectAffected(res)
}

// UserSummary aggregates record count, latest version and last sync time of the user
func (s *Storage) UserSummary(ctx context.Context, userID string) (*storage.UserSummary, error) {
	query := `
		SELECT COUNT(*), COALESCE(MAX(version), 0), MAX(synced_at)
		FROM records
		WHERE user_id = ?
	`

	summary := &storage.UserSummary{}
	var lastSync sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.Records,
		&summary.LatestVersion,
		&lastSync,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize records: %w", err)
	}

	if lastSync.Valid {
		t := time.UnixMilli(lastSync.Int64).UTC()
		summary.LastSyncTime = &t
	}

	return summary, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrVersionConflict
	}
	return nil
}
