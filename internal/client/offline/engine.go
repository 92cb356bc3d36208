// Package offline реализует движок согласования: персистентную очередь
// отложенных операций, повторные попытки с экспоненциальной задержкой
// и опустошение очереди при появлении сети.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/famsync/internal/models"
)

// ApplyFunc доставляет одну операцию. Ошибка, обернутая в Permanent,
// делает операцию окончательно неудачной.
type ApplyFunc func(ctx context.Context, op models.PendingOperation) error

// Listener получает полный снимок очереди после каждой мутации
type Listener func(state models.QueueState)

// Connectivity источник состояния сети
type Connectivity interface {
	IsOnline() bool
	Subscribe(fn func(online bool)) (unsubscribe func())
}

// Options параметры движка
type Options struct {
	Storage      Storage
	Connectivity Connectivity
	Logger       *slog.Logger
	Now          func() time.Time // по умолчанию time.Now
	Rand         func() float64   // источник джиттера, по умолчанию math/rand/v2
	Policy       models.RetryPolicy
}

type listenerEntry struct {
	fn Listener
	id int
}

// Engine владеет очередью операций. Все мутации очереди сериализованы,
// функция доставки вызывается без удержания блокировок.
type Engine struct {
	storage Storage
	conn    Connectivity
	logger  *slog.Logger
	now     func() time.Time
	rand    func() float64

	ctx    context.Context
	cancel context.CancelFunc

	apply          ApplyFunc
	lastProcessed  time.Time
	unsubscribeNet func()
	autoCancel     context.CancelFunc
	autoDone       chan struct{}

	ops       []models.PendingOperation
	listeners []listenerEntry
	policy    models.RetryPolicy

	wg sync.WaitGroup
	// publishMu упорядочивает пары "мутация + уведомление"
	publishMu sync.Mutex
	mu        sync.Mutex
	autoMu    sync.Mutex

	version    uint64
	nextID     int
	online     bool
	paused     bool
	processing bool
	closed     bool
}

// NewEngine создает движок и загружает сохраненную очередь.
// Ошибка загрузки не фатальна: очередь начинается пустой.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if opts.Connectivity == nil {
		return nil, fmt.Errorf("connectivity is required")
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry policy: %w", err)
	}

	e := &Engine{
		storage: opts.Storage,
		conn:    opts.Connectivity,
		logger:  opts.Logger,
		now:     opts.Now,
		rand:    opts.Rand,
		policy:  opts.Policy,
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	ops, err := e.storage.Load(ctx)
	if err != nil {
		e.logger.Warn("Failed to load operation queue, starting empty", "error", err)
		ops = nil
	}
	for _, op := range ops {
		if op.ID == "" {
			continue
		}
		e.ops = append(e.ops, op.Clone())
	}

	e.online = e.conn.IsOnline()
	e.unsubscribeNet = e.conn.Subscribe(e.onConnectivityChange)

	e.logger.Info("Offline engine started",
		"pending", len(e.ops),
		"online", e.online,
		"max_attempts", e.policy.MaxAttempts)

	return e, nil
}

// QueueOperation ставит операцию в конец очереди. Никогда не завершается ошибкой:
// сбой сохранения логируется, очередь в памяти остается источником истины.
func (e *Engine) QueueOperation(
	opType models.OperationType,
	resource string,
	payload json.RawMessage,
	metadata map[string]string,
) models.PendingOperation {
	op := models.PendingOperation{
		ID:          uuid.New().String(),
		Type:        opType,
		Resource:    resource,
		Payload:     payload,
		EnqueuedAt:  e.now(),
		MaxAttempts: e.policy.MaxAttempts,
		Metadata:    metadata,
	}.Clone()

	e.mutate(func() bool {
		e.ops = append(e.ops, op)
		e.version++
		return true
	})

	e.logger.Debug("Operation queued", "id", op.ID, "type", op.Type, "resource", op.Resource)
	return op.Clone()
}

// RemoveOperation удаляет операцию по id. Возвращает false, если ее нет.
func (e *Engine) RemoveOperation(id string) bool {
	var removed bool
	e.mutate(func() bool {
		removed = e.removeLocked(id)
		return removed
	})
	return removed
}

// MarkForRetry учитывает неудачную попытку доставки. Если бюджет попыток
// не исчерпан, операция откладывается на backoff(attempts) и возвращается true.
// false означает, что операция исчерпала попытки (или не найдена) и должна быть удалена.
func (e *Engine) MarkForRetry(id string, cause error) bool {
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}

	var retry bool
	e.mutate(func() bool {
		idx := e.indexLocked(id)
		if idx < 0 {
			return false
		}
		op := e.ops[idx]
		delay := Backoff(e.policy, op.Attempts+1, e.rand)
		next := op.WithFailure(message, e.now(), delay)
		e.ops[idx] = next
		retry = !next.Exhausted()

		e.logger.Debug("Operation marked for retry",
			"id", id,
			"attempts", next.Attempts,
			"max_attempts", next.MaxAttempts,
			"delay", delay,
			"retry", retry)
		return true
	})
	return retry
}

// ProcessQueue выполняет один проход по очереди в порядке постановки.
// Операции с неистекшим retryNotBefore пропускаются и сохраняют позицию.
// Без сети проход не выполняется и очередь не меняется.
func (e *Engine) ProcessQueue(ctx context.Context, apply ApplyFunc) models.ReconciliationResult {
	start := e.now()
	result := models.ReconciliationResult{Errors: []models.OperationError{}}

	e.mu.Lock()
	var reason error
	switch {
	case e.closed:
		reason = ErrClosed
	case !e.online:
		reason = ErrOffline
	case e.paused:
		reason = ErrPaused
	case e.processing:
		reason = ErrAlreadyProcessing
	case apply == nil:
		reason = ErrNoApplyFunc
	}
	if reason != nil {
		e.mu.Unlock()
		result.Errors = append(result.Errors, models.OperationError{Message: reason.Error()})
		result.TimeElapsed = e.now().Sub(start)
		return result
	}
	e.processing = true
	snapshot := e.cloneOpsLocked()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.processing = false
		e.lastProcessed = e.now()
		e.mu.Unlock()
	}()

	for _, op := range snapshot {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, models.OperationError{Message: ErrCanceled.Error()})
			break
		}
		if !e.IsOnline() {
			result.Errors = append(result.Errors, models.OperationError{Message: ErrOffline.Error()})
			break
		}
		if !op.EligibleAt(e.now()) {
			continue
		}
		// операция могла быть отменена во время прохода
		if !e.contains(op.ID) {
			continue
		}

		err := apply(ctx, op)
		result.ProcessedCount++
		if err == nil {
			result.SyncedCount++
			e.RemoveOperation(op.ID)
			continue
		}

		result.FailedCount++
		if !IsPermanent(err) && e.MarkForRetry(op.ID, err) {
			e.logger.Warn("Operation delivery failed, will retry",
				"id", op.ID,
				"resource", op.Resource,
				"error", err)
			continue
		}

		if e.RemoveOperation(op.ID) {
			result.Errors = append(result.Errors, models.OperationError{
				OperationID: op.ID,
				Resource:    op.Resource,
				Message:     err.Error(),
			})
			e.logger.Error("Operation dropped after terminal failure",
				"id", op.ID,
				"resource", op.Resource,
				"permanent", IsPermanent(err),
				"error", err)
		}
	}

	result.TimeElapsed = e.now().Sub(start)
	result.Success = result.FailedCount == 0 && len(result.Errors) == 0

	e.logger.Debug("Queue processed",
		"processed", result.ProcessedCount,
		"synced", result.SyncedCount,
		"failed", result.FailedCount,
		"elapsed", result.TimeElapsed)

	return result
}

// SetApplyFunc задает функцию доставки для проходов, запускаемых движком
// самостоятельно (восстановление сети, Resume)
func (e *Engine) SetApplyFunc(apply ApplyFunc) {
	e.mu.Lock()
	e.apply = apply
	e.mu.Unlock()
}

// StartAutoProcessing запускает периодический проход по очереди.
// Повторный вызов заменяет предыдущий таймер.
func (e *Engine) StartAutoProcessing(interval time.Duration, apply ApplyFunc) {
	e.StopAutoProcessing()
	e.SetApplyFunc(apply)

	e.autoMu.Lock()
	defer e.autoMu.Unlock()

	if interval <= 0 {
		e.logger.Warn("Auto processing not started: non-positive interval", "interval", interval)
		return
	}

	ctx, cancel := context.WithCancel(e.ctx)
	done := make(chan struct{})
	e.autoCancel = cancel
	e.autoDone = done

	go e.autoLoop(ctx, interval, apply, done)

	e.logger.Info("Auto processing started", "interval", interval)
}

// StopAutoProcessing останавливает периодический проход и ждет завершения цикла
func (e *Engine) StopAutoProcessing() {
	e.autoMu.Lock()
	cancel, done := e.autoCancel, e.autoDone
	e.autoCancel, e.autoDone = nil, nil
	e.autoMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	e.logger.Info("Auto processing stopped")
}

func (e *Engine) autoLoop(ctx context.Context, interval time.Duration, apply ApplyFunc, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mu.Lock()
			ready := e.online && !e.paused && len(e.ops) > 0
			e.mu.Unlock()
			if ready {
				e.ProcessQueue(ctx, apply)
			}
		}
	}
}

// Subscribe регистрирует слушателя состояния очереди.
// Слушатели вызываются синхронно в порядке подписки и не должны менять очередь.
// Повторный вызов функции отписки ничего не делает.
func (e *Engine) Subscribe(listener Listener) (unsubscribe func()) {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: listener})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			for i, l := range e.listeners {
				if l.id == id {
					e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// State возвращает снимок состояния очереди
func (e *Engine) State() models.QueueState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Len возвращает количество операций в очереди
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ops)
}

// IsOnline возвращает состояние сети, известное движку
func (e *Engine) IsOnline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Pause приостанавливает обработку очереди. Постановка операций продолжает работать.
func (e *Engine) Pause() {
	e.mutate(func() bool {
		if e.paused {
			return false
		}
		e.paused = true
		return true
	})
}

// Resume возобновляет обработку и запускает проход, если сеть доступна
func (e *Engine) Resume() {
	var resumed bool
	e.mutate(func() bool {
		if !e.paused {
			return false
		}
		e.paused = false
		resumed = true
		return true
	})
	if resumed {
		e.triggerDrain("resume")
	}
}

// Close останавливает фоновую обработку и отписывается от монитора сети.
// Очередь остается сохраненной в хранилище.
func (e *Engine) Close() {
	e.StopAutoProcessing()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	unsubscribe := e.unsubscribeNet
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	e.cancel()
	e.wg.Wait()

	e.logger.Info("Offline engine closed")
}

// onConnectivityChange обновляет флаг сети и при переходе offline -> online
// запускает один асинхронный проход
func (e *Engine) onConnectivityChange(online bool) {
	var cameOnline bool
	e.mutate(func() bool {
		if e.online == online {
			return false
		}
		cameOnline = online && !e.online
		e.online = online
		return true
	})

	e.logger.Info("Connectivity changed", "online", online)
	if cameOnline {
		e.triggerDrain("reconnect")
	}
}

func (e *Engine) triggerDrain(reason string) {
	e.mu.Lock()
	apply := e.apply
	skip := e.closed || apply == nil || !e.online || e.paused || len(e.ops) == 0
	if !skip {
		e.wg.Add(1)
	}
	e.mu.Unlock()
	if skip {
		return
	}

	go func() {
		defer e.wg.Done()
		result := e.ProcessQueue(e.ctx, apply)
		e.logger.Info("Queue drained",
			"reason", reason,
			"synced", result.SyncedCount,
			"failed", result.FailedCount,
			"dropped", len(result.Errors))
	}()
}

// mutate выполняет fn под блокировкой; если fn сообщила об изменении,
// очередь сохраняется и слушатели получают новый снимок
func (e *Engine) mutate(fn func() bool) {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	e.mu.Lock()
	if !fn() {
		e.mu.Unlock()
		return
	}
	e.persistLocked()
	state := e.stateLocked()
	listeners := make([]listenerEntry, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()

	for _, l := range listeners {
		l.fn(state)
	}
}

func (e *Engine) persistLocked() {
	if err := e.storage.Save(e.ctx, e.cloneOpsLocked()); err != nil {
		e.logger.Warn("Failed to persist operation queue", "pending", len(e.ops), "error", err)
	}
}

func (e *Engine) stateLocked() models.QueueState {
	return models.QueueState{
		Operations:        e.cloneOpsLocked(),
		IsPaused:          e.paused,
		IsOnline:          e.online,
		QueueVersion:      e.version,
		LastProcessedTime: e.lastProcessed,
	}
}

func (e *Engine) cloneOpsLocked() []models.PendingOperation {
	ops := make([]models.PendingOperation, 0, len(e.ops))
	for _, op := range e.ops {
		ops = append(ops, op.Clone())
	}
	return ops
}

func (e *Engine) indexLocked(id string) int {
	for i, op := range e.ops {
		if op.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) removeLocked(id string) bool {
	idx := e.indexLocked(id)
	if idx < 0 {
		return false
	}
	e.ops = append(e.ops[:idx], e.ops[idx+1:]...)
	e.version++
	return true
}

func (e *Engine) contains(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexLocked(id) >= 0
}
