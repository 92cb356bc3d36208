package cli

import (
	"context"
	"strings"
	"text/template"
	"time"

	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/pkg/api"
)

var templateFuncs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"timefmt": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format(time.RFC3339)
	},
	"millis": func(ms int64) string {
		if ms == 0 {
			return "unknown"
		}
		return time.UnixMilli(ms).UTC().Format(time.RFC3339)
	},
	"round": func(d time.Duration) time.Duration { return d.Round(time.Millisecond) },
}

const statusTemplate = `=== Sync Status ===

Document:  {{.DocumentID}}
{{- if .UserID}}
User:      {{.UserID}}
{{- end}}
Status:    {{.Snapshot.Status}}
{{- if .Snapshot.LastError}}
Error:     {{.Snapshot.LastError}}
{{- end}}
{{- with .Snapshot.Record}}
Version:   {{.Version}}
Updated:   {{millis .UpdatedAt}}
Fields:    {{join .FieldNames}}
{{- else}}
Record:    none
{{- end}}
{{- if .Snapshot.ConflictCount}}
Conflicts: {{.Snapshot.ConflictCount}}
{{- end}}

=== Statistics ===

Total syncs:   {{.Snapshot.Statistics.TotalSyncs}}
Successful:    {{.Snapshot.Statistics.SuccessfulSyncs}}
Failed:        {{.Snapshot.Statistics.FailedSyncs}}
Streak:        {{.Snapshot.Statistics.SyncStreak}}
Average time:  {{round .Snapshot.Statistics.AverageSyncTime}}
Last sync:     {{timefmt .Snapshot.Statistics.LastSyncTime}}

=== Queue ===

Pending:   {{len .Queue.Operations}}
Network:   {{if .Queue.IsOnline}}online{{else}}offline{{end}}
{{- if .Queue.IsPaused}}
Paused:    yes
{{- end}}
{{- if .Health}}

=== Server ===

Health:         {{.Health.Status}} ({{.Health.Version}})
{{- with .Server}}
Records:        {{.Records}}
Latest version: {{.LatestVersion}}
{{- with .LastSyncTime}}
Last sync:      {{timefmt .}}
{{- end}}
{{- end}}
{{- end}}
{{- if .ServerError}}

Server: unavailable ({{.ServerError}})
{{- end}}
`

var statusTmpl = template.Must(template.New("status").Funcs(templateFuncs).Parse(statusTemplate))

type statusView struct {
	Snapshot    clientsync.Snapshot
	Queue       models.QueueState
	Server      *api.SyncStatusResponse
	Health      *api.HealthResponse
	DocumentID  string
	UserID      string
	ServerError string
}

func (c *Cli) runStatus(ctx context.Context) error {
	view := statusView{
		Snapshot:   c.coordinator.Snapshot(),
		Queue:      c.queue.State(),
		DocumentID: c.documentID,
		UserID:     c.userID,
	}

	if c.server != nil && view.Queue.IsOnline {
		c.fillServerStatus(ctx, &view)
	}

	return statusTmpl.Execute(c.io, view)
}

// fillServerStatus дополняет вид ответами сервера. Ошибка не прерывает команду.
func (c *Cli) fillServerStatus(ctx context.Context, view *statusView) {
	health, err := c.server.Health(ctx)
	if err != nil {
		view.ServerError = err.Error()
		return
	}
	view.Health = health

	if c.userID == "" {
		return
	}
	status, err := c.server.GetStatus(ctx, c.userID)
	if err != nil {
		view.ServerError = err.Error()
		return
	}
	view.Server = status
}
