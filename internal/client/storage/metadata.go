package storage

import (
	"context"

	"github.com/iudanet/famsync/internal/models"
)

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveSyncStatistics saves coordinator statistics for a document
	SaveSyncStatistics(ctx context.Context, documentID string, stats models.SyncStatistics) error

	// GetSyncStatistics retrieves coordinator statistics for a document
	// Returns zero statistics if no sync has been performed yet
	GetSyncStatistics(ctx context.Context, documentID string) (models.SyncStatistics, error)

	// SaveRecord stores the last known local version of a document
	SaveRecord(ctx context.Context, record *models.Record) error

	// GetRecord retrieves the last known local version of a document
	// Returns ErrRecordNotFound if the document was never synced or edited locally
	GetRecord(ctx context.Context, id string) (*models.Record, error)
}
