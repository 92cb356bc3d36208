package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/template"
)

// ErrUnknownCommand неизвестная команда
var ErrUnknownCommand = errors.New("unknown command")

// Run выполняет команду. args не содержит имени команды.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "token":
		return c.runToken(ctx, args)
	case "queue":
		return c.runQueue(args)
	case "list":
		return c.runList()
	case "cancel":
		return c.runCancel(args)
	case "sync":
		return c.runSync(ctx, args)
	case "retry":
		return c.runRetry(ctx)
	case "reset":
		return c.runReset()
	case "status":
		return c.runStatus(ctx)
	case "drain":
		return c.runDrain(ctx)
	case "watch":
		return c.runWatch(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

const usageTemplate = `famsync client

Usage:
  famsync-client [OPTIONS] COMMAND [ARGS]

Options:
  -version            Show version information
  -config PATH        Path to YAML config file
  -server URL         Server URL (default: {{.ServerURL}})
  -db PATH            Path to local database (default: {{.DBPath}})
  -user ID            User id sent with every request
  -document ID        Document to synchronize (default: {{.DocumentID}})
  -debug              Enable debug logging

Environment:
  FAMSYNC_QUEUE_PASSPHRASE   Passphrase of the encrypted local queue
  FAMSYNC_*                  Any config key, e.g. FAMSYNC_SERVER_URL

Commands:
  token <value>                      Store bearer token ("-" deletes it)
  queue <type> <resource> <record>   Queue a change (create, update, delete, sync)
  list                               Show pending operations
  cancel <id>                        Remove a pending operation
  sync [-strategy S] [record]        Synchronize the document now
  retry                              Repeat sync with the configured strategy
  reset                              Clear error and conflict state
  status                             Show sync state and statistics
  drain                              Deliver queued operations once
  watch                              Run auto sync until interrupted

Records are JSON profiles: {"id":"...","fields":{...},"updatedAt":<unix ms>}
Strategies: {{join .Strategies}}
`

// UsageData значения по умолчанию для справки
type UsageData struct {
	ServerURL  string
	DBPath     string
	DocumentID string
	Strategies []string
}

// PrintUsage выводит справку
func PrintUsage(w io.Writer, data UsageData) error {
	tmpl := template.Must(template.New("usage").Funcs(templateFuncs).Parse(usageTemplate))
	return tmpl.Execute(w, data)
}
