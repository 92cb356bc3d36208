package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/storage"
)

var tokenKey = []byte("bearer")

// SaveToken stores bearer token
func (s *Storage) SaveToken(ctx context.Context, token string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		if err := bucket.Put(tokenKey, []byte(token)); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		return nil
	})
}

// GetToken retrieves stored bearer token
func (s *Storage) GetToken(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var token string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}
		data := bucket.Get(tokenKey)
		if data == nil {
			return storage.ErrTokenNotFound
		}
		token = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteToken removes stored bearer token
func (s *Storage) DeleteToken(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		// Проверяем существование данных
		if bucket.Get(tokenKey) == nil {
			return storage.ErrTokenNotFound
		}
		return bucket.Delete(tokenKey)
	})
}
