package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
)

const (
	keyQueueSalt     = "queue_salt"
	keyQueueCheck    = "queue_check"
	prefixStatistics = "stats:"
)

// SaveSyncStatistics saves coordinator statistics for a document
func (s *Storage) SaveSyncStatistics(ctx context.Context, documentID string, stats models.SyncStatistics) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}
		if err := bucket.Put([]byte(prefixStatistics+documentID), data); err != nil {
			return fmt.Errorf("failed to save statistics: %w", err)
		}
		return nil
	})
}

// GetSyncStatistics retrieves coordinator statistics for a document
// Returns zero statistics if no sync has been performed yet
func (s *Storage) GetSyncStatistics(ctx context.Context, documentID string) (models.SyncStatistics, error) {
	var stats models.SyncStatistics
	if s.db == nil {
		return stats, storage.ErrStorageClosed
	}

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(prefixStatistics + documentID))
		if data == nil {
			// Первая синхронизация
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	if err != nil {
		return models.SyncStatistics{}, fmt.Errorf("failed to get statistics: %w", err)
	}

	return stats, nil
}
