package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
)

var keyPending = []byte("pending")

// Заголовок значения очереди
const (
	formatPlain  byte = 0x00
	formatSealed byte = 0x01
)

// QueueStore сохраняет очередь движка согласования одним значением JSON
type QueueStore struct {
	s *Storage
}

// Queue возвращает хранилище очереди поверх той же БД
func (s *Storage) Queue() *QueueStore {
	return &QueueStore{s: s}
}

// Load читает очередь. Отсутствующее значение - пустая очередь.
func (q *QueueStore) Load(ctx context.Context) ([]models.PendingOperation, error) {
	if q.s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var raw []byte
	err := q.s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}
		// значение действительно только внутри транзакции
		raw = append([]byte(nil), bucket.Get(keyPending)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	data, err := q.decode(raw)
	if err != nil {
		return nil, err
	}

	var ops []models.PendingOperation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue: %w", err)
	}
	return ops, nil
}

// Save заменяет сохраненную очередь
func (q *QueueStore) Save(ctx context.Context, ops []models.PendingOperation) error {
	if q.s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}
	value, err := q.encode(data)
	if err != nil {
		return err
	}

	return q.s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketQueue)
		if bucket == nil {
			return fmt.Errorf("queue bucket not found")
		}
		if err := bucket.Put(keyPending, value); err != nil {
			return fmt.Errorf("failed to save queue: %w", err)
		}
		return nil
	})
}

func (q *QueueStore) encode(data []byte) ([]byte, error) {
	if q.s.sealer == nil {
		return append([]byte{formatPlain}, data...), nil
	}
	sealed, err := q.s.sealer.Seal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt queue: %w", err)
	}
	return append([]byte{formatSealed}, sealed...), nil
}

func (q *QueueStore) decode(raw []byte) ([]byte, error) {
	switch raw[0] {
	case formatPlain:
		return raw[1:], nil
	case formatSealed:
		if q.s.sealer == nil {
			return nil, storage.ErrPassphraseRequired
		}
		data, err := q.s.sealer.Open(raw[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt queue: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown queue format 0x%02x", raw[0])
	}
}
