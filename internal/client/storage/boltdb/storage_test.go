package boltdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/famsync/internal/client/connectivity"
	"github.com/iudanet/famsync/internal/client/offline"
	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
)

// createTestStorage создает временное BoltDB хранилище
func createTestStorage(t *testing.T, opts ...Option) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	store, err := New(context.Background(), dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestNew_Success(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	// Проверяем что файл БД действительно создан
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.False(t, store.Encrypted())

	// Проверяем, что бакеты существуют
	err = store.db.View(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketAuth, bucketQueue, bucketRecords, bucketMetadata} {
			if tx.Bucket(b) == nil {
				return os.ErrNotExist
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNew_InvalidPath(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "testdb.db")

	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.Nil(t, store.db)

	// Второй вызов Close ничего не делает
	assert.NoError(t, store.Close())

	_, err = store.GetToken(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	_, err = store.Queue().Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestNew_EncryptedRequiresPassphrase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "secure.db")

	store, err := New(context.Background(), dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	assert.True(t, store.Encrypted())
	require.NoError(t, store.Close())

	_, err = New(context.Background(), dbPath)
	assert.ErrorIs(t, err, storage.ErrPassphraseRequired)

	reopened, err := New(context.Background(), dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	require.NoError(t, reopened.Close())
}

func TestNew_WrongPassphraseKeepsQueue(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "secure.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	openEngine := func(store *Storage) *offline.Engine {
		t.Helper()
		engine, err := offline.NewEngine(ctx, offline.Options{
			Storage:      store.Queue(),
			Connectivity: connectivity.NewMonitor(false, nil, 0, logger),
			Logger:       logger,
			Policy:       models.DefaultRetryPolicy(),
		})
		require.NoError(t, err)
		return engine
	}

	store, err := New(ctx, dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	engine := openEngine(store)
	queued := engine.QueueOperation(models.OperationUpdate, "profile", json.RawMessage(`{"name":"precious"}`), nil)
	engine.Close()
	require.NoError(t, store.Close())

	// опечатка в фразе не открывает хранилище и не трогает очередь
	_, err = New(ctx, dbPath, WithPassphrase("typo secret"))
	require.ErrorIs(t, err, storage.ErrWrongPassphrase)

	store, err = New(ctx, dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	defer store.Close()
	engine = openEngine(store)
	defer engine.Close()

	ops := engine.State().Operations
	require.Len(t, ops, 1)
	assert.Equal(t, queued.ID, ops[0].ID)
	assert.JSONEq(t, `{"name":"precious"}`, string(ops[0].Payload))
}

func TestNew_PassphraseCheckWithoutStoredValue(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "secure.db")

	store, err := New(ctx, dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	require.NoError(t, store.Queue().Save(ctx, testOperations()))
	// база, созданная без контрольного значения
	require.NoError(t, store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketMetadata).Delete([]byte(keyQueueCheck))
	}))
	require.NoError(t, store.Close())

	// фраза сверяется с зашифрованной очередью
	_, err = New(ctx, dbPath, WithPassphrase("typo secret"))
	require.ErrorIs(t, err, storage.ErrWrongPassphrase)

	store, err = New(ctx, dbPath, WithPassphrase("family secret"))
	require.NoError(t, err)
	defer store.Close()

	err = store.db.View(func(tx *bbolt.Tx) error {
		assert.NotNil(t, tx.Bucket(bucketMetadata).Get([]byte(keyQueueCheck)))
		return nil
	})
	require.NoError(t, err)
	ops, err := store.Queue().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOperations(), ops)
}
