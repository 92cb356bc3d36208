package boltdb

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/crypto"
)

var (
	// BoltDB bucket names
	bucketAuth     = []byte("auth")
	bucketQueue    = []byte("queue")
	bucketRecords  = []byte("records")
	bucketMetadata = []byte("metadata")

	queueCheckValue = []byte("famsync-queue")
)

// Option настраивает Storage
type Option func(*Storage)

// WithPassphrase включает шифрование очереди на диске
func WithPassphrase(passphrase string) Option {
	return func(s *Storage) {
		s.passphrase = passphrase
	}
}

// Storage represents BoltDB storage implementation for client
type Storage struct {
	db         *bbolt.DB
	sealer     *crypto.Sealer
	passphrase string
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string, opts ...Option) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	for _, opt := range opts {
		opt(s)
	}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	if err := s.initEncryption(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketAuth, bucketQueue, bucketRecords, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// initEncryption загружает или создает соль и получает ключ очереди.
// Если очередь уже зашифрована, а фраза не задана, возвращается ErrPassphraseRequired,
// неверная фраза дает ErrWrongPassphrase.
func (s *Storage) initEncryption() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		salt := bucket.Get([]byte(keyQueueSalt))

		if s.passphrase == "" {
			if salt != nil {
				return storage.ErrPassphraseRequired
			}
			return nil
		}

		if salt == nil {
			generated, err := crypto.GenerateSalt()
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(keyQueueSalt), generated); err != nil {
				return fmt.Errorf("failed to save queue salt: %w", err)
			}
			salt = generated
		}

		key, err := crypto.DeriveKey(s.passphrase, salt)
		if err != nil {
			return fmt.Errorf("failed to derive queue key: %w", err)
		}
		sealer, err := crypto.NewSealer(key)
		if err != nil {
			return err
		}
		if err := verifyPassphrase(tx, sealer); err != nil {
			return err
		}
		s.sealer = sealer
		return nil
	})
}

// verifyPassphrase сверяет ключ с контрольным значением рядом с солью.
// В базе без контрольного значения ключ проверяется на уже зашифрованной
// очереди, после чего значение записывается.
func verifyPassphrase(tx *bbolt.Tx, sealer *crypto.Sealer) error {
	bucket := tx.Bucket(bucketMetadata)

	if check := bucket.Get([]byte(keyQueueCheck)); check != nil {
		plain, err := sealer.Open(check)
		if err != nil || !bytes.Equal(plain, queueCheckValue) {
			return storage.ErrWrongPassphrase
		}
		return nil
	}

	if raw := tx.Bucket(bucketQueue).Get(keyPending); len(raw) > 0 && raw[0] == formatSealed {
		if _, err := sealer.Open(raw[1:]); err != nil {
			return storage.ErrWrongPassphrase
		}
	}

	sealed, err := sealer.Seal(queueCheckValue)
	if err != nil {
		return fmt.Errorf("failed to seal passphrase check: %w", err)
	}
	if err := bucket.Put([]byte(keyQueueCheck), sealed); err != nil {
		return fmt.Errorf("failed to save passphrase check: %w", err)
	}
	return nil
}

// Encrypted сообщает, шифруется ли очередь
func (s *Storage) Encrypted() bool {
	return s.sealer != nil
}
