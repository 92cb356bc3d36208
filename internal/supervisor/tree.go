// Package supervisor запускает долгоживущие компоненты (HTTP сервер, монитор сети,
// координатор синхронизации) под деревом suture с перезапуском при сбоях.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Config параметры перезапуска
type Config struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

// DefaultConfig значения suture по умолчанию
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Tree дерево из двух слоев: network (мониторы, HTTP) и sync (координаторы).
// Сбой в одном слое не перезапускает другой.
type Tree struct {
	root    *suture.Supervisor
	network *suture.Supervisor
	sync    *suture.Supervisor
}

// New создает дерево. События suture пишутся в logger.
func New(name string, logger *slog.Logger, cfg Config) *Tree {
	def := DefaultConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.FailureDecay == 0 {
		cfg.FailureDecay = def.FailureDecay
	}
	if cfg.FailureBackoff == 0 {
		cfg.FailureBackoff = def.FailureBackoff
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	// MustHook объявлен на указателе
	handler := &sutureslog.Handler{Logger: logger}

	childSpec := suture.Spec{
		FailureThreshold: cfg.FailureThreshold,
		FailureDecay:     cfg.FailureDecay,
		FailureBackoff:   cfg.FailureBackoff,
		Timeout:          cfg.ShutdownTimeout,
	}
	rootSpec := childSpec
	rootSpec.EventHook = handler.MustHook()

	t := &Tree{
		root:    suture.New(name, rootSpec),
		network: suture.New("network", childSpec),
		sync:    suture.New("sync", childSpec),
	}
	t.root.Add(t.network)
	t.root.Add(t.sync)
	return t
}

// AddNetwork добавляет сервис в слой network
func (t *Tree) AddNetwork(svc suture.Service) suture.ServiceToken {
	return t.network.Add(svc)
}

// AddSync добавляет сервис в слой sync
func (t *Tree) AddSync(svc suture.Service) suture.ServiceToken {
	return t.sync.Add(svc)
}

// Serve блокируется до отмены ctx
func (t *Tree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground запускает дерево в отдельной горутине
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport сервисы, не остановившиеся за ShutdownTimeout
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
