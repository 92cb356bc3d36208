package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Record представляет непрозрачную версионированную запись (например, профиль).
// Движок синхронизации не интерпретирует значения полей.
type Record struct {
	Fields    map[string]json.RawMessage `json:"fields"`     // значения полей (произвольный JSON)
	ID        string                     `json:"id"`         // идентификатор документа
	UpdatedAt int64                      `json:"updated_at"` // время последнего изменения (unix ms)
	Version   int64                      `json:"version"`    // версия, присвоенная сервером
}

// FieldNames возвращает отсортированный список имен полей
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldEqual сравнивает значение поля с другой записью побайтно
// после нормализации JSON. Отсутствующее поле не равно присутствующему.
func (r *Record) FieldEqual(other *Record, field string) bool {
	a, okA := r.Fields[field]
	b, okB := other.Fields[field]
	if okA != okB {
		return false
	}
	if !okA {
		return true
	}
	return bytes.Equal(compactJSON(a), compactJSON(b))
}

// Clone создает глубокую копию записи
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	fields := make(map[string]json.RawMessage, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = append(json.RawMessage(nil), v...)
	}
	return &Record{
		ID:        r.ID,
		Fields:    fields,
		UpdatedAt: r.UpdatedAt,
		Version:   r.Version,
	}
}

// IsNewerThan определяет, изменена ли запись позже другой (LWW по UpdatedAt)
func (r *Record) IsNewerThan(other *Record) bool {
	return r.UpdatedAt > other.UpdatedAt
}

func compactJSON(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// Change описывает изменение поля, примененное при слиянии
type Change struct {
	From   json.RawMessage `json:"from,omitempty"`
	To     json.RawMessage `json:"to,omitempty"`
	Field  string          `json:"field"`
	Source string          `json:"source"` // "local" или "remote"
}

// Conflict описывает расхождение значения поля между локальной и удаленной версией
type Conflict struct {
	Local      json.RawMessage `json:"local,omitempty"`
	Remote     json.RawMessage `json:"remote,omitempty"`
	Field      string          `json:"field"`
	Resolution string          `json:"resolution"` // "local", "remote" или "manual"
}

// Источники изменений и варианты разрешения конфликта
const (
	SourceLocal      = "local"
	SourceRemote     = "remote"
	ResolutionManual = "manual"
	ResolutionLocal  = SourceLocal
	ResolutionRemote = SourceRemote
)

// ConflictStrategy именованная политика разрешения конфликтов
type ConflictStrategy string

// Поддерживаемые стратегии
const (
	StrategyLastWriteWins ConflictStrategy = "last-write-wins"
	StrategyLocalWins     ConflictStrategy = "local-wins"
	StrategyRemoteWins    ConflictStrategy = "remote-wins"
	StrategyMerge         ConflictStrategy = "merge"
	StrategyManual        ConflictStrategy = "manual"
)

// Strategies возвращает все поддерживаемые стратегии
func Strategies() []ConflictStrategy {
	return []ConflictStrategy{
		StrategyLastWriteWins,
		StrategyLocalWins,
		StrategyRemoteWins,
		StrategyMerge,
		StrategyManual,
	}
}

// ErrUnknownStrategy возвращается для неизвестной стратегии
var ErrUnknownStrategy = errors.New("unknown conflict strategy")

// ParseConflictStrategy разбирает строку в стратегию.
// Пустая строка не подставляется по умолчанию: неизвестные значения отклоняются.
func ParseConflictStrategy(s string) (ConflictStrategy, error) {
	for _, strategy := range Strategies() {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}
