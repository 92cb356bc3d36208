// Package cli реализует команды клиента famsync
package cli

import (
	"context"
	"time"

	"github.com/iudanet/famsync/internal/client/iocli"
	"github.com/iudanet/famsync/internal/client/offline"
	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/clock"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/pkg/api"
)

//go:generate moq -out coordinator_mock.go . Coordinator
//go:generate moq -out queue_mock.go . Queue
//go:generate moq -out server_mock.go . ServerClient
//go:generate moq -out token_mock.go . TokenStore
//go:generate moq -out daemon_mock.go . Daemon

// Coordinator координатор синхронизации документа
type Coordinator interface {
	PerformSync(ctx context.Context, record *models.Record, strategy models.ConflictStrategy) error
	RetrySync(ctx context.Context, record *models.Record) error
	QueueOperation(opType models.OperationType, resource string, record *models.Record) models.PendingOperation
	CancelOperation(id string) bool
	ResetSync()
	Apply(ctx context.Context, op models.PendingOperation) error
	Snapshot() clientsync.Snapshot
}

// Queue очередь движка согласования
type Queue interface {
	State() models.QueueState
	ProcessQueue(ctx context.Context, apply offline.ApplyFunc) models.ReconciliationResult
}

// ServerClient запросы к серверу, не меняющие данные
type ServerClient interface {
	GetStatus(ctx context.Context, userID string) (*api.SyncStatusResponse, error)
	Health(ctx context.Context) (*api.HealthResponse, error)
}

// TokenStore хранилище bearer токена
type TokenStore interface {
	SaveToken(ctx context.Context, token string) error
	GetToken(ctx context.Context) (string, error)
	DeleteToken(ctx context.Context) error
}

// Daemon фоновый процесс команды watch
type Daemon interface {
	Serve(ctx context.Context) error
}

// Options зависимости команд
type Options struct {
	IO          iocli.IO
	Coordinator Coordinator
	Queue       Queue
	Server      ServerClient // nil - команда status не опрашивает сервер
	Tokens      TokenStore
	Daemon      Daemon
	Now         func() time.Time
	UserID      string
	DocumentID  string
}

type Cli struct {
	io          iocli.IO
	coordinator Coordinator
	queue       Queue
	server      ServerClient
	tokens      TokenStore
	daemon      Daemon
	clock       *clock.Clock
	userID      string
	documentID  string
}

func New(opts Options) *Cli {
	c := &Cli{
		io:          opts.IO,
		coordinator: opts.Coordinator,
		queue:       opts.Queue,
		server:      opts.Server,
		tokens:      opts.Tokens,
		daemon:      opts.Daemon,
		clock:       clock.New(opts.Now),
		userID:      opts.UserID,
		documentID:  opts.DocumentID,
	}
	if c.io == nil {
		c.io = iocli.NewStdio()
	}
	return c
}
