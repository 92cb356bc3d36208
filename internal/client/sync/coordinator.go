// Package sync управляет жизненным циклом синхронизации одного документа:
// ручная и периодическая синхронизация, постановка в очередь без сети,
// статистика и состояние для вызывающего кода.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	httpClient "github.com/iudanet/famsync/internal/client/api"
	"github.com/iudanet/famsync/internal/client/offline"
	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/pkg/api"
)

//go:generate moq -out client_mock.go . ProtocolClient

// ProtocolClient клиент протокола синхронизации
type ProtocolClient interface {
	Sync(ctx context.Context, req api.SyncRequest) (*api.SyncResponse, error)
}

// Значения по умолчанию
const (
	DefaultSyncTimeout      = 30 * time.Second
	DefaultAutoSyncInterval = 60 * time.Second
	DefaultProcessInterval  = 10 * time.Second
	DefaultErrorDisplay     = 3 * time.Second
)

// Ключи метаданных операций, поставленных координатором
const (
	MetaDocumentID = "document_id"
	MetaUserID     = "user_id"
	MetaStrategy   = "strategy"
)

var (
	// ErrAlreadySyncing возвращается, если синхронизация уже выполняется
	ErrAlreadySyncing = errors.New("sync already in progress")
	// ErrOffline возвращается без сети при выключенном offline-режиме
	ErrOffline = errors.New("device is offline and offline mode is disabled")
	// ErrUnsuccessful сервер ответил без ошибки, но success=false
	ErrUnsuccessful = errors.New("server reported unsuccessful sync")
	// ErrNoRecord нет ни переданной, ни сохраненной записи документа
	ErrNoRecord = errors.New("no local record for document")
)

// Options параметры координатора
type Options struct {
	Client       ProtocolClient
	Engine       *offline.Engine
	Connectivity offline.Connectivity
	Metadata     storage.MetadataStorage // необязательно
	Logger       *slog.Logger
	Now          func() time.Time

	DocumentID string
	UserID     string
	Strategy   models.ConflictStrategy

	AutoSyncInterval time.Duration
	ProcessInterval  time.Duration
	SyncTimeout      time.Duration
	ErrorDisplay     time.Duration
	OfflineMode      bool
}

// Snapshot наблюдаемое состояние координатора
type Snapshot struct {
	Record            *models.Record
	Status            models.SyncStatus
	LastError         string
	PendingOperations []models.PendingOperation
	Statistics        models.SyncStatistics
	ConflictCount     int
}

type subscriber struct {
	fn func(Snapshot)
	id int
}

// Coordinator владеет статусом и статистикой одного документа.
// Очередь доступна ему только через публичные операции Engine.
type Coordinator struct {
	client   ProtocolClient
	engine   *offline.Engine
	conn     offline.Connectivity
	metadata storage.MetadataStorage
	logger   *slog.Logger
	now      func() time.Time

	record    *models.Record
	revert    *time.Timer
	cancelRun context.CancelFunc
	unsubs    []func()

	documentID string
	userID     string
	strategy   models.ConflictStrategy
	status     models.SyncStatus
	lastError  string

	pending     []models.PendingOperation
	subscribers []subscriber
	stats       models.SyncStatistics

	wg        gosync.WaitGroup
	publishMu gosync.Mutex
	mu        gosync.Mutex

	autoSyncInterval time.Duration
	processInterval  time.Duration
	syncTimeout      time.Duration
	errorDisplay     time.Duration
	conflictCount    int
	nextSubscriber   int
	offlineMode      bool
}

// NewCoordinator создает координатор и восстанавливает сохраненные
// статистику и последнюю локальную версию документа
func NewCoordinator(ctx context.Context, opts Options) (*Coordinator, error) {
	if opts.Client == nil || opts.Engine == nil || opts.Connectivity == nil {
		return nil, fmt.Errorf("client, engine and connectivity are required")
	}
	if opts.DocumentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if opts.Strategy == "" {
		opts.Strategy = models.StrategyLastWriteWins
	}
	if _, err := models.ParseConflictStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}

	c := &Coordinator{
		client:           opts.Client,
		engine:           opts.Engine,
		conn:             opts.Connectivity,
		metadata:         opts.Metadata,
		logger:           opts.Logger,
		now:              opts.Now,
		documentID:       opts.DocumentID,
		userID:           opts.UserID,
		strategy:         opts.Strategy,
		offlineMode:      opts.OfflineMode,
		autoSyncInterval: orDefault(opts.AutoSyncInterval, DefaultAutoSyncInterval),
		processInterval:  orDefault(opts.ProcessInterval, DefaultProcessInterval),
		syncTimeout:      orDefault(opts.SyncTimeout, DefaultSyncTimeout),
		errorDisplay:     orDefault(opts.ErrorDisplay, DefaultErrorDisplay),
		status:           models.SyncStatusIdle,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = c.logger.With("document_id", c.documentID)

	if c.metadata != nil {
		stats, err := c.metadata.GetSyncStatistics(ctx, c.documentID)
		if err != nil {
			c.logger.Warn("Failed to load sync statistics", "error", err)
		} else {
			c.stats = stats
		}

		record, err := c.metadata.GetRecord(ctx, c.documentID)
		switch {
		case err == nil:
			c.record = record
		case !errors.Is(err, storage.ErrRecordNotFound):
			c.logger.Warn("Failed to load local record", "error", err)
		}
	}

	if !c.conn.IsOnline() {
		c.status = models.SyncStatusOffline
	}
	c.pending = c.filterPending(c.engine.State().Operations)

	return c, nil
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

// PerformSync синхронизирует документ. record == nil означает последнюю
// известную локальную версию; пустая стратегия - стратегию координатора.
// Вызов во время выполняющейся синхронизации ничего не делает и возвращает ErrAlreadySyncing.
func (c *Coordinator) PerformSync(ctx context.Context, record *models.Record, strategy models.ConflictStrategy) error {
	if strategy == "" {
		strategy = c.strategy
	}
	if _, err := models.ParseConflictStrategy(string(strategy)); err != nil {
		return err
	}

	c.mu.Lock()
	if c.status == models.SyncStatusSyncing {
		c.mu.Unlock()
		return ErrAlreadySyncing
	}
	if record != nil {
		c.record = record.Clone()
	}
	local := c.record.Clone()
	c.stopRevertLocked()

	if !c.conn.IsOnline() {
		c.status = models.SyncStatusOffline
		if !c.offlineMode {
			c.lastError = ErrOffline.Error()
			c.mu.Unlock()
			c.persistRecord(ctx, record)
			c.publish()
			return ErrOffline
		}
		c.mu.Unlock()
		c.persistRecord(ctx, record)

		if local != nil {
			op := c.enqueue(models.OperationSync, c.documentID, local, strategy)
			c.logger.Info("Offline, sync queued", "operation_id", op.ID)
		}
		c.publish()
		return nil
	}

	if local == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNoRecord, c.documentID)
	}

	c.status = models.SyncStatusSyncing
	c.lastError = ""
	c.mu.Unlock()
	c.persistRecord(ctx, record)
	c.publish()

	start := c.now()
	callCtx, cancel := context.WithTimeout(ctx, c.syncTimeout)
	resp, err := c.client.Sync(callCtx, c.buildRequest(local, strategy, ""))
	cancel()
	if err == nil && !resp.Success {
		err = ErrUnsuccessful
	}
	duration := c.now().Sub(start)

	c.mu.Lock()
	c.stats.Record(duration, err == nil, c.now())
	stats := c.stats
	var merged *models.Record
	if err == nil {
		c.status = models.SyncStatusSuccess
		c.lastError = ""
		c.conflictCount = len(resp.Conflicts)
		if merged = models.RecordFromAPI(resp.MergedProfile); merged != nil {
			c.record = merged.Clone()
		}
		c.scheduleRevertLocked()
	} else {
		c.status = models.SyncStatusError
		c.lastError = err.Error()
	}
	c.mu.Unlock()

	c.persistStatistics(ctx, stats)
	if merged != nil {
		c.persistRecord(ctx, merged)
	}

	if err != nil {
		c.logger.Warn("Sync failed", "duration", duration, "error", err)
		// транспортная ошибка: изменение не теряется
		if c.offlineMode && httpClient.IsRetryable(err) && !errors.Is(err, ErrUnsuccessful) {
			op := c.enqueue(models.OperationSync, c.documentID, local, strategy)
			c.logger.Info("Sync queued after transport failure", "operation_id", op.ID)
		}
		c.publish()
		return fmt.Errorf("sync failed: %w", err)
	}

	c.logger.Info("Sync completed",
		"duration", duration,
		"version", resp.Version,
		"conflicts", len(resp.Conflicts),
		"changes", len(resp.Changes))
	c.publish()
	return nil
}

// RetrySync повторяет синхронизацию со стратегией координатора
func (c *Coordinator) RetrySync(ctx context.Context, record *models.Record) error {
	return c.PerformSync(ctx, record, c.strategy)
}

// QueueOperation ставит изменение документа в очередь движка
func (c *Coordinator) QueueOperation(opType models.OperationType, resource string, record *models.Record) models.PendingOperation {
	op := c.enqueue(opType, resource, record, c.strategy)
	c.publish()
	return op
}

// CancelOperation удаляет операцию из очереди. Возвращает false, если она
// уже доставлена или отброшена.
func (c *Coordinator) CancelOperation(id string) bool {
	removed := c.engine.RemoveOperation(id)
	if removed {
		c.refreshPending()
		c.publish()
	}
	return removed
}

// ResetSync возвращает координатор в idle и очищает ошибку, конфликты и
// наблюдаемый список операций. Содержимое очереди не меняется.
func (c *Coordinator) ResetSync() {
	c.mu.Lock()
	c.stopRevertLocked()
	c.status = models.SyncStatusIdle
	c.lastError = ""
	c.conflictCount = 0
	c.pending = nil
	c.mu.Unlock()

	c.logger.Info("Sync state reset")
	c.publish()
}

// Apply доставляет операцию из очереди через протокол.
// Ответы, которые не имеет смысла повторять, помечаются offline.Permanent.
func (c *Coordinator) Apply(ctx context.Context, op models.PendingOperation) error {
	var req api.SyncRequest
	if err := json.Unmarshal(op.Payload, &req); err != nil || req.LocalProfile == nil {
		return offline.Permanent(fmt.Errorf("operation %s has no replayable sync request", op.ID))
	}
	req.OperationID = op.ID

	callCtx, cancel := context.WithTimeout(ctx, c.syncTimeout)
	defer cancel()

	resp, err := c.client.Sync(callCtx, req)
	if err != nil {
		if !httpClient.IsRetryable(err) {
			return offline.Permanent(err)
		}
		return err
	}
	if !resp.Success {
		return ErrUnsuccessful
	}

	merged := models.RecordFromAPI(resp.MergedProfile)
	if merged != nil && merged.ID == c.documentID {
		c.mu.Lock()
		// более свежие локальные правки не перетираются ответом на старую операцию
		if c.record == nil || !c.record.IsNewerThan(merged) {
			c.record = merged.Clone()
		}
		c.conflictCount = len(resp.Conflicts)
		c.mu.Unlock()
		c.persistRecord(ctx, merged)
		c.publish()
	}

	c.logger.Debug("Queued operation delivered", "operation_id", op.ID, "version", resp.Version)
	return nil
}

// Snapshot возвращает текущее состояние
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe регистрирует получателя снимков состояния.
// Функция отписки идемпотентна.
func (c *Coordinator) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSubscriber++
	id := c.nextSubscriber
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	var once gosync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subscribers {
				if s.id == id {
					c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Start подписывается на сеть и очередь и запускает таймеры автосинхронизации
// и обработки очереди. Повторный вызов без Stop ничего не делает.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancelRun != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelRun = cancel
	c.mu.Unlock()

	unsubs := []func(){
		c.engine.Subscribe(c.onQueueState),
		c.conn.Subscribe(func(online bool) { c.onConnectivityChange(runCtx, online) }),
	}
	c.mu.Lock()
	c.unsubs = unsubs
	c.mu.Unlock()

	c.engine.StartAutoProcessing(c.processInterval, c.Apply)

	c.wg.Add(1)
	go c.autoSyncLoop(runCtx)

	c.logger.Info("Sync coordinator started",
		"auto_sync_interval", c.autoSyncInterval,
		"strategy", c.strategy,
		"offline_mode", c.offlineMode)
}

// Stop останавливает таймеры и отписывается от событий
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancelRun
	unsubs := c.unsubs
	c.cancelRun = nil
	c.unsubs = nil
	c.stopRevertLocked()
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	c.engine.StopAutoProcessing()
	cancel()
	c.wg.Wait()

	c.logger.Info("Sync coordinator stopped")
}

// Serve запускает координатор до отмены ctx. Совместим с suture.Service.
func (c *Coordinator) Serve(ctx context.Context) error {
	c.Start(ctx)
	<-ctx.Done()
	c.Stop()
	return ctx.Err()
}

func (c *Coordinator) String() string {
	return "sync-coordinator:" + c.documentID
}

// autoSyncLoop периодически синхронизирует документ; без сети таймер простаивает
func (c *Coordinator) autoSyncLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.autoSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			skip := c.status == models.SyncStatusOffline || c.record == nil
			c.mu.Unlock()
			if skip || !c.conn.IsOnline() {
				continue
			}
			if err := c.PerformSync(ctx, nil, c.strategy); err != nil && !errors.Is(err, ErrAlreadySyncing) {
				c.logger.Debug("Auto sync failed", "error", err)
			}
		}
	}
}

// onConnectivityChange вызывается монитором сети. Вызов, пришедший после Stop
// (или из предыдущего запуска), игнорируется.
func (c *Coordinator) onConnectivityChange(ctx context.Context, online bool) {
	c.mu.Lock()
	if c.cancelRun == nil || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	if !online {
		c.stopRevertLocked()
		c.status = models.SyncStatusOffline
		c.mu.Unlock()
		c.publish()
		return
	}

	if c.status == models.SyncStatusOffline {
		c.status = models.SyncStatusIdle
	}
	hasRecord := c.record != nil
	// Add под c.mu: Stop сбрасывает cancelRun под той же блокировкой до wg.Wait
	if hasRecord {
		c.wg.Add(1)
	}
	c.mu.Unlock()
	c.publish()

	if !hasRecord {
		return
	}
	// слушатели монитора не должны блокироваться
	go func() {
		defer c.wg.Done()
		if err := c.PerformSync(ctx, nil, c.strategy); err != nil && !errors.Is(err, ErrAlreadySyncing) {
			c.logger.Warn("Sync after reconnect failed", "error", err)
		}
	}()
}

func (c *Coordinator) onQueueState(state models.QueueState) {
	c.mu.Lock()
	c.pending = c.filterPending(state.Operations)
	c.mu.Unlock()
	c.publish()
}

func (c *Coordinator) filterPending(ops []models.PendingOperation) []models.PendingOperation {
	pending := make([]models.PendingOperation, 0, len(ops))
	for _, op := range ops {
		if op.Metadata[MetaDocumentID] == c.documentID {
			pending = append(pending, op)
		}
	}
	return pending
}

func (c *Coordinator) enqueue(
	opType models.OperationType,
	resource string,
	record *models.Record,
	strategy models.ConflictStrategy,
) models.PendingOperation {
	var payload json.RawMessage
	if record != nil {
		data, err := json.Marshal(c.buildRequest(record, strategy, ""))
		if err != nil {
			c.logger.Error("Failed to encode queued sync request", "error", err)
		}
		payload = data
	}

	op := c.engine.QueueOperation(opType, resource, payload, map[string]string{
		MetaDocumentID: c.documentID,
		MetaUserID:     c.userID,
		MetaStrategy:   string(strategy),
	})
	c.refreshPending()
	return op
}

// refreshPending зеркалирует очередь движка в наблюдаемый список
func (c *Coordinator) refreshPending() {
	ops := c.engine.State().Operations
	c.mu.Lock()
	c.pending = c.filterPending(ops)
	c.mu.Unlock()
}

func (c *Coordinator) buildRequest(record *models.Record, strategy models.ConflictStrategy, operationID string) api.SyncRequest {
	return api.SyncRequest{
		UserID:       c.userID,
		LocalProfile: record.ToAPI(),
		Strategy:     string(strategy),
		Version:      record.Version,
		OperationID:  operationID,
	}
}

// scheduleRevertLocked возвращает success в idle после окна отображения
func (c *Coordinator) scheduleRevertLocked() {
	c.stopRevertLocked()
	c.revert = time.AfterFunc(c.errorDisplay, func() {
		c.mu.Lock()
		changed := c.status == models.SyncStatusSuccess
		if changed {
			c.status = models.SyncStatusIdle
		}
		c.mu.Unlock()
		if changed {
			c.publish()
		}
	})
}

func (c *Coordinator) stopRevertLocked() {
	if c.revert != nil {
		c.revert.Stop()
		c.revert = nil
	}
}

func (c *Coordinator) persistStatistics(ctx context.Context, stats models.SyncStatistics) {
	if c.metadata == nil {
		return
	}
	if err := c.metadata.SaveSyncStatistics(ctx, c.documentID, stats); err != nil {
		c.logger.Warn("Failed to persist sync statistics", "error", err)
	}
}

func (c *Coordinator) persistRecord(ctx context.Context, record *models.Record) {
	if c.metadata == nil || record == nil {
		return
	}
	if err := c.metadata.SaveRecord(ctx, record); err != nil {
		c.logger.Warn("Failed to persist local record", "error", err)
	}
}

func (c *Coordinator) snapshotLocked() Snapshot {
	pending := make([]models.PendingOperation, 0, len(c.pending))
	for _, op := range c.pending {
		pending = append(pending, op.Clone())
	}
	return Snapshot{
		Status:            c.status,
		LastError:         c.lastError,
		ConflictCount:     c.conflictCount,
		PendingOperations: pending,
		Statistics:        c.stats,
		Record:            c.record.Clone(),
	}
}

func (c *Coordinator) publish() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	snapshot := c.snapshotLocked()
	subscribers := make([]subscriber, len(c.subscribers))
	copy(subscribers, c.subscribers)
	c.mu.Unlock()

	for _, s := range subscribers {
		s.fn(snapshot)
	}
}
