// Package merge реализует стратегии разрешения конфликтов между локальной
// и удаленной версией записи. Все функции чистые и не зависят от хранилища.
package merge

import (
	"fmt"
	"sort"

	"github.com/iudanet/famsync/internal/models"
)

// Result результат слияния двух версий записи
type Result struct {
	Merged    *models.Record
	Conflicts []models.Conflict
	Changes   []models.Change
}

// HasConflicts сообщает, были ли обнаружены конфликты
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Resolve сливает local и remote согласно стратегии.
// remote == nil означает, что удаленной версии нет: результатом становится local без изменений.
// Поля сравниваются по объединению имен; совпадающие значения не порождают ни изменений, ни конфликтов.
func Resolve(local, remote *models.Record, strategy models.ConflictStrategy) (*Result, error) {
	if local == nil {
		return nil, fmt.Errorf("local record is required")
	}
	resolver, ok := resolvers[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStrategy, strategy)
	}

	if remote == nil {
		return &Result{
			Merged:    local.Clone(),
			Conflicts: []models.Conflict{},
			Changes:   []models.Change{},
		}, nil
	}

	merged := remote.Clone()
	merged.ID = local.ID
	if local.UpdatedAt > merged.UpdatedAt {
		merged.UpdatedAt = local.UpdatedAt
	}

	result := &Result{
		Merged:    merged,
		Conflicts: []models.Conflict{},
		Changes:   []models.Change{},
	}

	for _, field := range unionFields(local, remote) {
		if local.FieldEqual(remote, field) {
			continue
		}
		resolver(local, remote, field, result)
	}

	return result, nil
}

// fieldResolver решает судьбу одного расходящегося поля
type fieldResolver func(local, remote *models.Record, field string, result *Result)

var resolvers = map[models.ConflictStrategy]fieldResolver{
	models.StrategyLastWriteWins: resolveLastWriteWins,
	models.StrategyLocalWins:     resolveLocalWins,
	models.StrategyRemoteWins:    resolveRemoteWins,
	models.StrategyMerge:         resolveMerge,
	models.StrategyManual:        resolveManual,
}

// resolveLastWriteWins: побеждает более свежая версия.
// При равных UpdatedAt побеждает локальная версия и конфликт не фиксируется.
func resolveLastWriteWins(local, remote *models.Record, field string, result *Result) {
	switch {
	case remote.UpdatedAt > local.UpdatedAt:
		takeRemote(local, remote, field, result)
		result.Conflicts = append(result.Conflicts, conflict(local, remote, field, models.ResolutionRemote))
	case local.UpdatedAt > remote.UpdatedAt:
		takeLocal(local, remote, field, result)
		result.Conflicts = append(result.Conflicts, conflict(local, remote, field, models.ResolutionLocal))
	default:
		takeLocal(local, remote, field, result)
	}
}

func resolveLocalWins(local, remote *models.Record, field string, result *Result) {
	takeLocal(local, remote, field, result)
	result.Conflicts = append(result.Conflicts, conflict(local, remote, field, models.ResolutionLocal))
}

func resolveRemoteWins(local, remote *models.Record, field string, result *Result) {
	takeRemote(local, remote, field, result)
	result.Conflicts = append(result.Conflicts, conflict(local, remote, field, models.ResolutionRemote))
}

// resolveMerge: поле, присутствующее только с одной стороны, сохраняется без конфликта,
// расходящиеся значения разрешаются по LWW.
func resolveMerge(local, remote *models.Record, field string, result *Result) {
	_, inLocal := local.Fields[field]
	_, inRemote := remote.Fields[field]
	switch {
	case inLocal && !inRemote:
		takeLocal(local, remote, field, result)
	case inRemote && !inLocal:
		// удаленное значение уже в merged
	default:
		resolveLastWriteWins(local, remote, field, result)
	}
}

// resolveManual ничего не применяет: в merged остается удаленное значение,
// а расхождение возвращается вызывающему для ручного разрешения.
func resolveManual(local, remote *models.Record, field string, result *Result) {
	result.Conflicts = append(result.Conflicts, conflict(local, remote, field, models.ResolutionManual))
}

func takeLocal(local, remote *models.Record, field string, result *Result) {
	value, ok := local.Fields[field]
	if ok {
		result.Merged.Fields[field] = append([]byte(nil), value...)
	} else {
		delete(result.Merged.Fields, field)
	}
	result.Changes = append(result.Changes, models.Change{
		Field:  field,
		From:   remote.Fields[field],
		To:     local.Fields[field],
		Source: models.SourceLocal,
	})
}

func takeRemote(local, remote *models.Record, field string, result *Result) {
	// merged уже содержит удаленное значение
	result.Changes = append(result.Changes, models.Change{
		Field:  field,
		From:   local.Fields[field],
		To:     remote.Fields[field],
		Source: models.SourceRemote,
	})
}

func conflict(local, remote *models.Record, field, resolution string) models.Conflict {
	return models.Conflict{
		Field:      field,
		Local:      local.Fields[field],
		Remote:     remote.Fields[field],
		Resolution: resolution,
	}
}

func unionFields(local, remote *models.Record) []string {
	seen := make(map[string]struct{}, len(local.Fields)+len(remote.Fields))
	names := make([]string, 0, len(local.Fields)+len(remote.Fields))
	for _, name := range append(local.FieldNames(), remote.FieldNames()...) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
