package api

import (
	"encoding/json"
	"time"
)

// Profile представляет версионированную запись в формате протокола
type Profile struct {
	Fields    map[string]json.RawMessage `json:"fields" validate:"max=256,dive,keys,required,max=128,endkeys,rawjson"`
	ID        string                     `json:"id" validate:"required,max=256"`
	UpdatedAt int64                      `json:"updatedAt" validate:"gte=0"` // unix ms
	Version   int64                      `json:"version" validate:"gte=0"`
}

// SyncRequest запрос на синхронизацию одной записи
type SyncRequest struct {
	LocalProfile  *Profile `json:"localProfile" validate:"required"`             // локальная версия (обязательна)
	RemoteProfile *Profile `json:"remoteProfile,omitempty" validate:"omitempty"` // удаленная версия, известная клиенту
	UserID        string   `json:"userId" validate:"required,userid"`            // идентификатор пользователя (обязателен)
	Strategy      string   `json:"strategy,omitempty"`                           // стратегия разрешения конфликтов
	OperationID   string   `json:"operationId,omitempty" validate:"max=128"`     // идентификатор операции из очереди клиента
	Version       int64    `json:"version,omitempty" validate:"gte=0"`           // версия, на которой основаны изменения
}

// Conflict конфликт по одному полю
type Conflict struct {
	Local      json.RawMessage `json:"local,omitempty"`
	Remote     json.RawMessage `json:"remote,omitempty"`
	Field      string          `json:"field"`
	Resolution string          `json:"resolution"`
}

// Change примененное изменение поля
type Change struct {
	From   json.RawMessage `json:"from,omitempty"`
	To     json.RawMessage `json:"to,omitempty"`
	Field  string          `json:"field"`
	Source string          `json:"source"`
}

// SyncResponse ответ сервера на синхронизацию
type SyncResponse struct {
	MergedProfile *Profile   `json:"mergedProfile,omitempty"` // итоговая версия записи
	Conflicts     []Conflict `json:"conflicts"`               // конфликтующие поля
	Changes       []Change   `json:"changes"`                 // примененные изменения
	Version       int64      `json:"version"`                 // итоговая версия (монотонно растет)
	Success       bool       `json:"success"`
	HasConflicts  bool       `json:"hasConflicts"`
}

// BatchSyncRequest пакет запросов одного пользователя
type BatchSyncRequest struct {
	ContinueOnError *bool         `json:"continueOnError,omitempty"` // по умолчанию true
	UserID          string        `json:"userId" validate:"required,userid"`
	Profiles        []SyncRequest `json:"profiles" validate:"required,min=1"` // элементы проверяются независимо
}

// ShouldContinueOnError возвращает значение флага с учетом значения по умолчанию
func (r *BatchSyncRequest) ShouldContinueOnError() bool {
	return r.ContinueOnError == nil || *r.ContinueOnError
}

// BatchItemResult результат обработки одного элемента пакета
type BatchItemResult struct {
	Result *SyncResponse `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Index  int           `json:"index"`
}

// BatchSyncResponse ответ на пакетную синхронизацию
type BatchSyncResponse struct {
	Results        []BatchItemResult `json:"results"`
	TotalProcessed int               `json:"totalProcessed"`
	TotalFailed    int               `json:"totalFailed"`
	Aborted        bool              `json:"aborted"`
}

// SyncStatusResponse состояние синхронизации пользователя на сервере
type SyncStatusResponse struct {
	LastSyncTime  *time.Time `json:"lastSyncTime,omitempty"`
	UserID        string     `json:"userId"`
	Records       int        `json:"records"`
	LatestVersion int64      `json:"latestVersion"`
}

// OperationStatusRequest обновление статуса операции, отслеживаемой сервером
type OperationStatusRequest struct {
	UserID      string `json:"userId" validate:"required,userid"`
	OperationID string `json:"operationId" validate:"required,max=128"`
	Status      string `json:"status" validate:"required,oneof=pending completed failed"`
}

// OperationStatusResponse подтверждение обновления статуса операции
type OperationStatusResponse struct {
	UpdatedAt   time.Time `json:"updatedAt"`
	OperationID string    `json:"operationId"`
	Status      string    `json:"status"`
}

// Статусы операций, принимаемые PUT /sync
const (
	OperationStatusPending   = "pending"
	OperationStatusCompleted = "completed"
	OperationStatusFailed    = "failed"
)

// HealthResponse ответ health check
type HealthResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
	Version   string    `json:"version"`
}

// MetricsResponse агрегированные счетчики сервера
type MetricsResponse struct {
	TotalSyncs      int64   `json:"totalSyncs"`
	SuccessfulSyncs int64   `json:"successfulSyncs"`
	FailedSyncs     int64   `json:"failedSyncs"`
	AverageSyncTime float64 `json:"averageSyncTime"` // миллисекунды
	TotalConflicts  int64   `json:"totalConflicts"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string   `json:"error"`             // описание ошибки
	Message string   `json:"message,omitempty"` // дополнительное сообщение
	Details []string `json:"details,omitempty"` // ошибки валидации
}
