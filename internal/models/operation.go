package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// OperationType тип отложенной мутации
type OperationType string

// Поддерживаемые типы операций
const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationSync   OperationType = "sync"
)

// Valid проверяет, что тип операции входит в допустимый набор
func (t OperationType) Valid() bool {
	switch t {
	case OperationCreate, OperationUpdate, OperationDelete, OperationSync:
		return true
	default:
		return false
	}
}

// ParseOperationType преобразует строку в OperationType
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown operation type %q", s)
	}
	return t, nil
}

// PendingOperation представляет одну мутацию в локальной очереди.
// После передачи в Engine значение не изменяется вызывающим кодом:
// все переходы состояния (retry bookkeeping) создают новое значение.
type PendingOperation struct {
	EnqueuedAt     time.Time         `json:"enqueued_at"`                // время постановки в очередь
	RetryNotBefore *time.Time        `json:"retry_not_before,omitempty"` // до этого времени операция пропускается
	Metadata       map[string]string `json:"metadata,omitempty"`         // произвольный контекст (например, user_id)
	ID             string            `json:"id"`                         // уникальный идентификатор (UUID)
	Type           OperationType     `json:"type"`                       // create/update/delete/sync
	Resource       string            `json:"resource"`                   // логическое имя изменяемого ресурса
	LastError      string            `json:"last_error,omitempty"`       // последняя ошибка доставки
	Payload        json.RawMessage   `json:"payload,omitempty"`          // непрозрачные данные
	Attempts       int               `json:"attempts"`                   // количество попыток доставки
	MaxAttempts    int               `json:"max_attempts"`               // потолок из RetryPolicy на момент постановки
}

// Exhausted возвращает true, если бюджет попыток исчерпан
func (op PendingOperation) Exhausted() bool {
	return op.Attempts >= op.MaxAttempts
}

// EligibleAt сообщает, может ли операция быть обработана в момент now
func (op PendingOperation) EligibleAt(now time.Time) bool {
	return op.RetryNotBefore == nil || !now.Before(*op.RetryNotBefore)
}

// WithFailure возвращает копию операции после неудачной попытки доставки.
// Если после инкремента попытки ещё остались, retryNotBefore = now + delay.
func (op PendingOperation) WithFailure(message string, now time.Time, delay time.Duration) PendingOperation {
	next := op.Clone()
	if next.Attempts < next.MaxAttempts {
		next.Attempts++
	}
	next.LastError = message
	next.RetryNotBefore = nil
	if !next.Exhausted() {
		notBefore := now.Add(delay)
		next.RetryNotBefore = &notBefore
	}
	return next
}

// Clone создает глубокую копию операции
func (op PendingOperation) Clone() PendingOperation {
	c := op
	if op.Payload != nil {
		c.Payload = append(json.RawMessage(nil), op.Payload...)
	}
	if op.Metadata != nil {
		c.Metadata = make(map[string]string, len(op.Metadata))
		for k, v := range op.Metadata {
			c.Metadata[k] = v
		}
	}
	if op.RetryNotBefore != nil {
		t := *op.RetryNotBefore
		c.RetryNotBefore = &t
	}
	return c
}

// RetryPolicy неизменяемая конфигурация повторных попыток
type RetryPolicy struct {
	MaxAttempts       int           `json:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	JitterFactor      float64       `json:"jitter_factor"`
}

// DefaultRetryPolicy возвращает политику по умолчанию
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       5,
		InitialDelay:      time.Second,
		MaxDelay:          5 * time.Minute,
		BackoffMultiplier: 2,
		JitterFactor:      0.1,
	}
}

// Validate проверяет инварианты политики
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.InitialDelay < 0 {
		return fmt.Errorf("initial delay must not be negative")
	}
	if p.InitialDelay > p.MaxDelay {
		return fmt.Errorf("initial delay %s exceeds max delay %s", p.InitialDelay, p.MaxDelay)
	}
	if p.BackoffMultiplier < 1 {
		return fmt.Errorf("backoff multiplier must be >= 1, got %v", p.BackoffMultiplier)
	}
	if p.JitterFactor < 0 {
		return fmt.Errorf("jitter factor must not be negative, got %v", p.JitterFactor)
	}
	return nil
}

// QueueState снимок состояния очереди для подписчиков
type QueueState struct {
	LastProcessedTime time.Time          `json:"last_processed_time"`
	Operations        []PendingOperation `json:"operations"`
	QueueVersion      uint64             `json:"queue_version"`
	IsPaused          bool               `json:"is_paused"`
	IsOnline          bool               `json:"is_online"`
}

// OperationError описывает терминальную ошибку операции в результате прохода
type OperationError struct {
	OperationID string `json:"operation_id"`
	Resource    string `json:"resource"`
	Message     string `json:"message"`
}

func (e OperationError) Error() string {
	if e.OperationID == "" {
		return e.Message
	}
	return fmt.Sprintf("operation %s (%s): %s", e.OperationID, e.Resource, e.Message)
}

// ReconciliationResult результат одного прохода по очереди. Никогда не сохраняется.
type ReconciliationResult struct {
	Errors         []OperationError `json:"errors"`
	TimeElapsed    time.Duration    `json:"time_elapsed"`
	ProcessedCount int              `json:"processed_count"`
	SyncedCount    int              `json:"synced_count"`
	FailedCount    int              `json:"failed_count"`
	Success        bool             `json:"success"`
}
