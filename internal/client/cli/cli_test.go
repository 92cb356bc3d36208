package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/famsync/internal/client/iocli"
	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testOutput собирает вывод команд
type testOutput struct {
	lines []string
	buf   bytes.Buffer
}

func (o *testOutput) String() string {
	return strings.Join(o.lines, "\n") + o.buf.String()
}

func newTestIO() (*iocli.IOMock, *testOutput) {
	out := &testOutput{}
	mock := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			out.lines = append(out.lines, joinArgs(a))
		},
		PrintfFunc: func(format string, a ...any) {
			out.lines = append(out.lines, fmt.Sprintf(format, a...))
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.buf.Write(p)
		},
	}
	return mock, out
}

func joinArgs(args []any) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	return strings.Join(parts, " ")
}

func newTestCli(opts Options) (*Cli, *testOutput) {
	mockIO, out := newTestIO()
	opts.IO = mockIO
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	if opts.DocumentID == "" {
		opts.DocumentID = "profile"
	}
	return New(opts), out
}

func TestCli_Run_UnknownCommand(t *testing.T) {
	c, _ := newTestCli(Options{})

	err := c.Run(context.Background(), "register", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, err.Error(), "register")
}

func TestCli_Run_Token(t *testing.T) {
	ctx := context.Background()

	t.Run("save", func(t *testing.T) {
		tokens := &TokenStoreMock{
			SaveTokenFunc: func(ctx context.Context, token string) error { return nil },
		}
		c, out := newTestCli(Options{Tokens: tokens})

		require.NoError(t, c.Run(ctx, "token", []string{" abc.def "}))
		require.Len(t, tokens.SaveTokenCalls(), 1)
		assert.Equal(t, "abc.def", tokens.SaveTokenCalls()[0].Token)
		assert.Contains(t, out.String(), "Token saved")
	})

	t.Run("delete", func(t *testing.T) {
		tokens := &TokenStoreMock{
			DeleteTokenFunc: func(ctx context.Context) error { return nil },
		}
		c, out := newTestCli(Options{Tokens: tokens})

		require.NoError(t, c.Run(ctx, "token", []string{"-"}))
		assert.Len(t, tokens.DeleteTokenCalls(), 1)
		assert.Contains(t, out.String(), "Token removed")
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestCli(Options{Tokens: &TokenStoreMock{}})
		assert.Error(t, c.Run(ctx, "token", nil))
		assert.Error(t, c.Run(ctx, "token", []string{"  "}))
	})

	t.Run("storage error", func(t *testing.T) {
		tokens := &TokenStoreMock{
			SaveTokenFunc: func(ctx context.Context, token string) error { return errors.New("disk full") },
		}
		c, _ := newTestCli(Options{Tokens: tokens})

		err := c.Run(ctx, "token", []string{"abc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestCli_Run_Watch(t *testing.T) {
	t.Run("no daemon", func(t *testing.T) {
		c, _ := newTestCli(Options{})
		assert.Error(t, c.Run(context.Background(), "watch", nil))
	})

	t.Run("stops on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		daemon := &DaemonMock{
			ServeFunc: func(ctx context.Context) error {
				cancel()
				<-ctx.Done()
				return ctx.Err()
			},
		}
		coordinator := &CoordinatorMock{
			SnapshotFunc: func() clientsync.Snapshot {
				return clientsync.Snapshot{
					Statistics: models.SyncStatistics{TotalSyncs: 4, FailedSyncs: 1},
				}
			},
		}
		c, out := newTestCli(Options{Daemon: daemon, Coordinator: coordinator})

		require.NoError(t, c.Run(ctx, "watch", nil))
		assert.Contains(t, out.String(), "Watching document profile")
		assert.Contains(t, out.String(), "Syncs: 4, failed: 1, pending: 0")
	})

	t.Run("daemon failure", func(t *testing.T) {
		daemon := &DaemonMock{
			ServeFunc: func(ctx context.Context) error { return errors.New("boom") },
		}
		c, _ := newTestCli(Options{Daemon: daemon, Coordinator: &CoordinatorMock{}})

		err := c.Run(context.Background(), "watch", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	err := PrintUsage(&buf, UsageData{
		ServerURL:  "http://localhost:8080",
		DBPath:     "famsync-client.db",
		DocumentID: "profile",
		Strategies: []string{"last-write-wins", "local-wins"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "default: http://localhost:8080")
	assert.Contains(t, out, "Strategies: last-write-wins, local-wins")
	for _, cmd := range []string{"token", "queue", "list", "cancel", "sync", "retry", "reset", "status", "drain", "watch"} {
		assert.Contains(t, out, "\n  "+cmd+" ")
	}
}
