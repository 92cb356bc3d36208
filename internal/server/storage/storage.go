package storage

import (
	"context"
	"time"

	"github.com/iudanet/famsync/internal/models"
)

//go:generate moq -out storage_mock.go . Storage

// RecordStorage defines persistence of synchronized records (one per user and document id)
type RecordStorage interface {
	// GetRecord returns the stored record
	// Returns ErrRecordNotFound if the user has no such record
	GetRecord(ctx context.Context, userID, id string) (*models.Record, error)

	// SaveRecord stores the record if the stored version still equals expectedVersion.
	// expectedVersion == 0 means the record must not exist yet.
	// Returns ErrVersionConflict otherwise.
	SaveRecord(ctx context.Context, userID string, record *models.Record, expectedVersion int64, syncedAt time.Time) error

	// UserSummary aggregates records of the user
	UserSummary(ctx context.Context, userID string) (*UserSummary, error)
}

// OperationStorage defines persistence of client operation statuses
type OperationStorage interface {
	// SaveOperationStatus creates or replaces operation status
	SaveOperationStatus(ctx context.Context, status *OperationStatus) error

	// GetOperationStatus returns ErrOperationNotFound if the status was never reported
	GetOperationStatus(ctx context.Context, userID, operationID string) (*OperationStatus, error)
}

// Storage combines all server storages
type Storage interface {
	RecordStorage
	OperationStorage
	Ping(ctx context.Context) error
}

// UserSummary aggregated sync state of one user
type UserSummary struct {
	LastSyncTime  *time.Time
	Records       int
	LatestVersion int64
}

// OperationStatus server-side status of a client operation
type OperationStatus struct {
	UpdatedAt   time.Time
	UserID      string
	OperationID string
	Status      string
}
