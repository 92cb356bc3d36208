package models

import "time"

// SyncStatus состояние координатора синхронизации документа
type SyncStatus string

// Состояния машины синхронизации
const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
	SyncStatusOffline SyncStatus = "offline"
)

// SyncStatistics накопительные счетчики координатора.
// AverageSyncTime пересчитывается инкрементально, без хранения истории.
type SyncStatistics struct {
	LastSyncTime    time.Time     `json:"last_sync_time"`
	AverageSyncTime time.Duration `json:"average_sync_time"`
	TotalSyncs      int64         `json:"total_syncs"`
	SuccessfulSyncs int64         `json:"successful_syncs"`
	FailedSyncs     int64         `json:"failed_syncs"`
	SyncStreak      int64         `json:"sync_streak"`
}

// Record учитывает завершенную синхронизацию.
// avg' = (avg*n + duration) / (n+1), где n - количество синхронизаций до текущей.
func (s *SyncStatistics) Record(duration time.Duration, success bool, at time.Time) {
	n := s.TotalSyncs
	s.AverageSyncTime = time.Duration((int64(s.AverageSyncTime)*n + int64(duration)) / (n + 1))
	s.TotalSyncs++
	if success {
		s.SuccessfulSyncs++
		s.SyncStreak++
	} else {
		s.FailedSyncs++
		s.SyncStreak = 0
	}
	s.LastSyncTime = at
}
