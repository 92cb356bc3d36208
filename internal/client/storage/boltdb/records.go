package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
)

// SaveRecord stores the last known local version of a document
func (s *Storage) SaveRecord(ctx context.Context, record *models.Record) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if record == nil || record.ID == "" {
		return fmt.Errorf("record id is required")
	}

	// Сериализуем запись в JSON
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return fmt.Errorf("records bucket not found")
		}
		return bucket.Put([]byte(record.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// GetRecord retrieves the last known local version of a document
func (s *Storage) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var record *models.Record

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketRecords)
		if bucket == nil {
			return storage.ErrRecordNotFound
		}

		data := bucket.Get([]byte(id))
		if data == nil {
			return storage.ErrRecordNotFound
		}

		// Десериализуем
		record = &models.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			return fmt.Errorf("failed to unmarshal record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}
