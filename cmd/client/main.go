package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/famsync/internal/client/api"
	"github.com/iudanet/famsync/internal/client/cli"
	"github.com/iudanet/famsync/internal/client/connectivity"
	"github.com/iudanet/famsync/internal/client/iocli"
	"github.com/iudanet/famsync/internal/client/offline"
	"github.com/iudanet/famsync/internal/client/storage"
	"github.com/iudanet/famsync/internal/client/storage/boltdb"
	clientsync "github.com/iudanet/famsync/internal/client/sync"
	"github.com/iudanet/famsync/internal/config"
	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/internal/supervisor"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const passphraseAttempts = 3

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	serverURL := flag.String("server", "", "Server URL (overrides config)")
	dbPath := flag.String("db", "", "Path to local database (overrides config)")
	userID := flag.String("user", "", "User id (overrides config)")
	documentID := flag.String("document", "", "Document id (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.LoadClient(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	overrides := []struct {
		dst *string
		val string
	}{
		{&cfg.ServerURL, *serverURL},
		{&cfg.DBPath, *dbPath},
		{&cfg.UserID, *userID},
		{&cfg.DocumentID, *documentID},
	}
	for _, o := range overrides {
		if o.val != "" {
			*o.dst = o.val
		}
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage(cfg)
		os.Exit(1)
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	} else if args[0] == "watch" {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(cfg, logger, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			printUsage(cfg)
		}
		os.Exit(1)
	}
}

func run(cfg *config.ClientConfig, logger *slog.Logger, command string, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stdio := iocli.NewStdio()

	store, err := openStorage(ctx, cfg, stdio)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Команда token не требует сети
	if command == "token" {
		return cli.New(cli.Options{IO: stdio, Tokens: store}).Run(ctx, command, args)
	}

	monitor := connectivity.NewMonitor(false, connectivity.NewHTTPProbe(cfg.ServerURL, cfg.SyncTimeout), cfg.ProbeInterval, logger)
	monitor.CheckNow(ctx)

	engine, err := offline.NewEngine(ctx, offline.Options{
		Storage:      store.Queue(),
		Connectivity: monitor,
		Logger:       logger,
		Policy:       cfg.RetryPolicy(),
	})
	if err != nil {
		return fmt.Errorf("failed to start offline engine: %w", err)
	}
	defer engine.Close()

	client := api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.SyncTimeout),
		api.WithLogger(logger),
		api.WithTokenSource(tokenSource(store)),
	)

	coordinator, err := clientsync.NewCoordinator(ctx, clientsync.Options{
		Client:           client,
		Engine:           engine,
		Connectivity:     monitor,
		Metadata:         store,
		Logger:           logger,
		DocumentID:       cfg.DocumentID,
		UserID:           cfg.UserID,
		Strategy:         cfg.Strategy(),
		AutoSyncInterval: cfg.AutoSyncInterval,
		ProcessInterval:  cfg.ProcessInterval,
		SyncTimeout:      cfg.SyncTimeout,
		OfflineMode:      cfg.OfflineMode,
	})
	if err != nil {
		return fmt.Errorf("failed to create sync coordinator: %w", err)
	}

	tree := supervisor.New("famsync-client", logger, supervisor.DefaultConfig())
	tree.AddNetwork(monitor)
	tree.AddSync(coordinator)

	c := cli.New(cli.Options{
		IO:          stdio,
		Coordinator: coordinator,
		Queue:       engine,
		Server:      client,
		Tokens:      store,
		Daemon:      tree,
		UserID:      cfg.UserID,
		DocumentID:  cfg.DocumentID,
	})
	return c.Run(ctx, command, args)
}

// openStorage открывает локальную базу. Для зашифрованной очереди без
// настроенной парольной фразы она запрашивается интерактивно, неверная
// фраза запрашивается повторно.
func openStorage(ctx context.Context, cfg *config.ClientConfig, io iocli.IO) (*boltdb.Storage, error) {
	var opts []boltdb.Option
	if cfg.QueuePassphrase != "" {
		opts = append(opts, boltdb.WithPassphrase(cfg.QueuePassphrase))
	}

	store, err := boltdb.New(ctx, cfg.DBPath, opts...)
	prompted := errors.Is(err, storage.ErrPassphraseRequired)
	for attempt := 0; prompted && attempt < passphraseAttempts; attempt++ {
		if attempt > 0 {
			io.Println("Wrong passphrase, try again")
		}
		passphrase, perr := io.ReadPassword("Queue passphrase: ")
		if perr != nil {
			return nil, fmt.Errorf("failed to read passphrase: %w", perr)
		}
		store, err = boltdb.New(ctx, cfg.DBPath, boltdb.WithPassphrase(passphrase))
		if !errors.Is(err, storage.ErrWrongPassphrase) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func tokenSource(tokens storage.TokenStorage) api.TokenSource {
	return func(ctx context.Context) (string, error) {
		token, err := tokens.GetToken(ctx)
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", errors.New("no bearer token stored, run 'famsync-client token <value>'")
		}
		return token, err
	}
}

func printUsage(cfg *config.ClientConfig) {
	strategies := make([]string, 0, len(models.Strategies()))
	for _, s := range models.Strategies() {
		strategies = append(strategies, string(s))
	}
	_ = cli.PrintUsage(os.Stdout, cli.UsageData{
		ServerURL:  cfg.ServerURL,
		DBPath:     cfg.DBPath,
		DocumentID: cfg.DocumentID,
		Strategies: strategies,
	})
}

func printVersion() {
	fmt.Printf("famsync client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
