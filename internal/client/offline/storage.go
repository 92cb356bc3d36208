package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/iudanet/famsync/internal/models"
)

//go:generate moq -out storage_mock.go . Storage

// Storage сохраняет очередь целиком. Engine вызывает Save после каждой мутации.
type Storage interface {
	// Load возвращает сохраненную очередь в порядке постановки.
	// Отсутствие данных - пустая очередь без ошибки.
	Load(ctx context.Context) ([]models.PendingOperation, error)

	// Save атомарно заменяет сохраненную очередь
	Save(ctx context.Context, ops []models.PendingOperation) error
}

// MemoryStorage хранит сериализованную очередь в памяти.
// Используется в тестах и когда локальная БД недоступна.
type MemoryStorage struct {
	data []byte
	mu   sync.Mutex
}

// NewMemoryStorage создает пустое хранилище
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load десериализует очередь
func (s *MemoryStorage) Load(ctx context.Context) ([]models.PendingOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 {
		return nil, nil
	}
	var ops []models.PendingOperation
	if err := json.Unmarshal(s.data, &ops); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue: %w", err)
	}
	return ops, nil
}

// Save сериализует очередь
func (s *MemoryStorage) Save(ctx context.Context, ops []models.PendingOperation) error {
	data, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("failed to marshal queue: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// SetRaw заменяет сохраненные байты как есть (например, поврежденные данные)
func (s *MemoryStorage) SetRaw(data []byte) {
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	s.mu.Unlock()
}
