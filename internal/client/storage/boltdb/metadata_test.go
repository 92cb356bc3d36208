package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

func TestSaveAndGetSyncStatistics(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Изначально статистики нет
	stats, err := store.GetSyncStatistics(ctx, "profile/u1")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSyncs)

	stats.Record(120*time.Millisecond, true, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	stats.Record(80*time.Millisecond, false, time.Date(2025, 3, 1, 10, 1, 0, 0, time.UTC))
	require.NoError(t, store.SaveSyncStatistics(ctx, "profile/u1", stats))

	got, err := store.GetSyncStatistics(ctx, "profile/u1")
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	// статистика разных документов не пересекается
	other, err := store.GetSyncStatistics(ctx, "profile/u2")
	require.NoError(t, err)
	assert.Zero(t, other.TotalSyncs)
}

func TestGetSyncStatistics_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Удаляем bucket metadata напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketMetadata)
	})
	require.NoError(t, err)

	_, err = store.GetSyncStatistics(ctx, "profile/u1")
	assert.Error(t, err)
}
