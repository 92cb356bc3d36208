// Package connectivity отслеживает доступность сервера синхронизации
// и уведомляет подписчиков о переходах online/offline.
package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

//go:generate moq -out probe_mock.go . Probe

// Probe проверяет доступность сети
type Probe interface {
	Check(ctx context.Context) bool
}

type listener struct {
	fn func(online bool)
	id int
}

// Monitor хранит текущее состояние сети. Менять его может только сам монитор
// (по результатам Probe) или явный вызов Set.
type Monitor struct {
	probe     Probe
	logger    *slog.Logger
	listeners []listener
	interval  time.Duration
	// notifyMu упорядочивает доставку переходов
	notifyMu sync.Mutex
	mu       sync.Mutex
	nextID   int
	online   bool
}

// NewMonitor создает монитор с начальным состоянием initial.
// probe может быть nil: тогда состояние меняется только через Set.
func NewMonitor(initial bool, probe Probe, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		online:   initial,
		probe:    probe,
		interval: interval,
		logger:   logger,
	}
}

// IsOnline возвращает текущее состояние
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set устанавливает состояние. Слушатели вызываются синхронно, по одному разу
// на каждый реальный переход, в порядке подписки. Возвращает true, если состояние изменилось.
// Слушатели не должны вызывать Set.
func (m *Monitor) Set(online bool) bool {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return false
	}
	m.online = online
	listeners := make([]listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.logger.Info("Connectivity transition", "online", online)
	for _, l := range listeners {
		l.fn(online)
	}
	return true
}

// Subscribe регистрирует слушателя переходов. Функция отписки идемпотентна.
func (m *Monitor) Subscribe(fn func(online bool)) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, l := range m.listeners {
				if l.id == id {
					m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// CheckNow выполняет одну проверку probe и применяет результат
func (m *Monitor) CheckNow(ctx context.Context) bool {
	if m.probe == nil {
		return m.IsOnline()
	}
	online := m.probe.Check(ctx)
	m.Set(online)
	return online
}

// Serve периодически опрашивает probe до отмены ctx.
// Сигнатура совместима с suture.Service.
func (m *Monitor) Serve(ctx context.Context) error {
	if m.probe == nil || m.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	m.CheckNow(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

func (m *Monitor) String() string {
	return "connectivity-monitor"
}
