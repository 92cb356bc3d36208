// Package protocol реализует серверную сторону протокола синхронизации:
// лимит запросов по userId, валидацию, слияние по стратегии и версионирование записей.
package protocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/famsync/internal/merge"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/internal/server/metrics"
	"github.com/iudanet/famsync/internal/server/storage"
	"github.com/iudanet/famsync/internal/validation"
	"github.com/iudanet/famsync/pkg/api"
)

// maxSaveAttempts число попыток сохранить запись при параллельном изменении версии
const maxSaveAttempts = 3

// DefaultMaxBatch ограничение размера пакета по умолчанию
const DefaultMaxBatch = 50

// Limiter ограничивает число запросов по ключу
type Limiter interface {
	Allow(key string) (allowed bool, retryAfter time.Duration)
}

// Options зависимости сервиса
type Options struct {
	Storage  storage.Storage
	Limiter  Limiter            // nil отключает лимит
	Metrics  *metrics.Collector // nil отключает метрики
	Logger   *slog.Logger
	Now      func() time.Time
	MaxBatch int
}

// Service обрабатывает запросы протокола синхронизации
type Service struct {
	storage  storage.Storage
	limiter  Limiter
	metrics  *metrics.Collector
	logger   *slog.Logger
	now      func() time.Time
	maxBatch int
}

// NewService создает сервис протокола
func NewService(opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = DefaultMaxBatch
	}
	return &Service{
		storage:  opts.Storage,
		limiter:  opts.Limiter,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		maxBatch: opts.MaxBatch,
	}
}

// Sync сливает локальную версию записи с удаленной и сохраняет результат.
// Порядок проверок: лимит, валидация, стратегия. Отклоненный лимитом запрос не обрабатывается,
// запрос без userId сразу отклоняется валидацией.
// Удаленной версией считается remoteProfile из запроса, а при его отсутствии - сохраненная на сервере запись.
// Версия растет только при изменении содержимого.
func (s *Service) Sync(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error) {
	if req != nil && req.UserID != "" {
		if err := s.allow(req.UserID); err != nil {
			return nil, err
		}
	}

	start := s.now()
	resp, err := s.sync(ctx, req)
	s.observe(s.now().Sub(start), resp, err)
	return resp, err
}

func (s *Service) sync(ctx context.Context, req *api.SyncRequest) (*api.SyncResponse, error) {
	if err := validation.SyncRequest(req); err != nil {
		return nil, err
	}
	strategy, err := parseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}

	local := models.RecordFromAPI(req.LocalProfile)

	for attempt := 1; ; attempt++ {
		stored, err := s.storage.GetRecord(ctx, req.UserID, local.ID)
		if err != nil && !errors.Is(err, storage.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load record: %w", err)
		}

		remote := stored
		if req.RemoteProfile != nil {
			remote = models.RecordFromAPI(req.RemoteProfile)
		}

		result, err := merge.Resolve(local, remote, strategy)
		if err != nil {
			return nil, fmt.Errorf("failed to merge record: %w", err)
		}

		version, err := s.persist(ctx, req.UserID, stored, result.Merged)
		if errors.Is(err, storage.ErrVersionConflict) && attempt < maxSaveAttempts {
			s.logger.Debug("Record changed concurrently, retrying",
				"user_id", req.UserID,
				"record_id", local.ID,
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save record: %w", err)
		}

		if req.OperationID != "" {
			s.completeOperation(ctx, req.UserID, req.OperationID)
		}

		merged := result.Merged.ToAPI()
		merged.Version = version

		s.logger.Debug("Record synchronized",
			"user_id", req.UserID,
			"record_id", local.ID,
			"strategy", strategy,
			"version", version,
			"conflicts", len(result.Conflicts),
			"changes", len(result.Changes),
		)

		return &api.SyncResponse{
			Success:       true,
			HasConflicts:  result.HasConflicts(),
			Conflicts:     models.ConflictsToAPI(result.Conflicts),
			Changes:       models.ChangesToAPI(result.Changes),
			Version:       version,
			MergedProfile: merged,
		}, nil
	}
}

// persist сохраняет merged с версией stored+1. Если содержимое не изменилось,
// запись не перезаписывается и возвращается сохраненная версия.
func (s *Service) persist(ctx context.Context, userID string, stored, merged *models.Record) (int64, error) {
	var expected int64
	if stored != nil {
		if sameContent(stored, merged) {
			return stored.Version, nil
		}
		expected = stored.Version
	}

	merged.Version = expected + 1
	if err := s.storage.SaveRecord(ctx, userID, merged, expected, s.now()); err != nil {
		return 0, err
	}
	return merged.Version, nil
}

// completeOperation отмечает операцию клиента выполненной. Ошибка не влияет на результат синхронизации.
func (s *Service) completeOperation(ctx context.Context, userID, operationID string) {
	err := s.storage.SaveOperationStatus(ctx, &storage.OperationStatus{
		UserID:      userID,
		OperationID: operationID,
		Status:      api.OperationStatusCompleted,
		UpdatedAt:   s.now(),
	})
	if err != nil {
		s.logger.Warn("Failed to save operation status",
			"user_id", userID,
			"operation_id", operationID,
			"error", err,
		)
	}
}

// Status возвращает сводку синхронизации пользователя
func (s *Service) Status(ctx context.Context, userID string) (*api.SyncStatusResponse, error) {
	if err := validation.UserID(userID); err != nil {
		return nil, err
	}
	if err := s.allow(userID); err != nil {
		return nil, err
	}

	summary, err := s.storage.UserSummary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	return &api.SyncStatusResponse{
		UserID:        userID,
		Records:       summary.Records,
		LatestVersion: summary.LatestVersion,
		LastSyncTime:  summary.LastSyncTime,
	}, nil
}

// UpdateOperation сохраняет статус операции клиента
func (s *Service) UpdateOperation(ctx context.Context, userID, operationID, status string) (*api.OperationStatusResponse, error) {
	req := &api.OperationStatusRequest{UserID: userID, OperationID: operationID, Status: status}
	if err := validation.OperationStatus(req); err != nil {
		return nil, err
	}
	if err := s.allow(userID); err != nil {
		return nil, err
	}

	op := &storage.OperationStatus{
		UserID:      userID,
		OperationID: operationID,
		Status:      status,
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.storage.SaveOperationStatus(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to update operation: %w", err)
	}

	s.logger.Debug("Operation status updated",
		"user_id", userID,
		"operation_id", operationID,
		"status", status,
	)

	return &api.OperationStatusResponse{
		OperationID: op.OperationID,
		Status:      op.Status,
		UpdatedAt:   op.UpdatedAt,
	}, nil
}

// Operation возвращает сохраненный статус операции.
// Возвращает storage.ErrOperationNotFound, если статус не сообщался.
func (s *Service) Operation(ctx context.Context, userID, operationID string) (*api.OperationStatusResponse, error) {
	if err := validation.UserID(userID); err != nil {
		return nil, err
	}

	op, err := s.storage.GetOperationStatus(ctx, userID, operationID)
	if err != nil {
		return nil, err
	}

	return &api.OperationStatusResponse{
		OperationID: op.OperationID,
		Status:      op.Status,
		UpdatedAt:   op.UpdatedAt,
	}, nil
}

// Ping проверяет доступность хранилища
func (s *Service) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

// Metrics возвращает агрегированные счетчики
func (s *Service) Metrics() api.MetricsResponse {
	if s.metrics == nil {
		return api.MetricsResponse{}
	}
	return s.metrics.Snapshot()
}

func (s *Service) allow(userID string) error {
	if s.limiter == nil {
		return nil
	}
	allowed, retryAfter := s.limiter.Allow(userID)
	if allowed {
		return nil
	}

	if s.metrics != nil {
		s.metrics.ObserveRateLimited()
	}
	s.logger.Warn("Rate limit exceeded",
		"user_id", userID,
		"retry_after", retryAfter,
	)
	return &RateLimitError{UserID: userID, RetryAfter: retryAfter}
}

func (s *Service) observe(duration time.Duration, resp *api.SyncResponse, err error) {
	if s.metrics == nil {
		return
	}

	var outcome string
	conflicts := 0
	switch {
	case validation.IsValidationError(err), errors.Is(err, ErrUnknownStrategy):
		outcome = metrics.OutcomeInvalid
	case err != nil:
		outcome = metrics.OutcomeError
		s.logger.Error("Sync failed", "error", err)
	case resp.HasConflicts:
		outcome = metrics.OutcomeConflict
		conflicts = len(resp.Conflicts)
	default:
		outcome = metrics.OutcomeSuccess
	}

	s.metrics.ObserveSync(duration, outcome, conflicts)
}

// parseStrategy пустая строка означает last-write-wins
func parseStrategy(s string) (models.ConflictStrategy, error) {
	if s == "" {
		return models.StrategyLastWriteWins, nil
	}
	return models.ParseConflictStrategy(s)
}

// sameContent сравнивает поля и время изменения, без учета версии
func sameContent(a, b *models.Record) bool {
	if a.UpdatedAt != b.UpdatedAt || len(a.Fields) != len(b.Fields) {
		return false
	}
	for name := range a.Fields {
		if !a.FieldEqual(b, name) {
			return false
		}
	}
	return true
}
