package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/famsync/internal/config"
	"github.com/iudanet/famsync/internal/server"
	"github.com/iudanet/famsync/internal/server/auth"
	"github.com/iudanet/famsync/internal/server/handlers"
	"github.com/iudanet/famsync/internal/server/metrics"
	"github.com/iudanet/famsync/internal/server/middleware"
	"github.com/iudanet/famsync/internal/server/protocol"
	"github.com/iudanet/famsync/internal/server/storage/sqlite"
	"github.com/iudanet/famsync/internal/supervisor"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file")
	listenAddr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	issueToken := flag.String("issue-token", "", "Print a signed token for the given userId and exit (requires jwt_secret)")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of a token issued with -issue-token")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	if *issueToken != "" {
		if err := printToken(cfg, *issueToken, *tokenTTL); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.ServerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()
	if version, err := store.SchemaVersion(ctx); err == nil {
		logger.Info("Database ready", "path", cfg.DBPath, "schema_version", version)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow, logger)
	defer limiter.Stop()

	collector := metrics.New()
	service := protocol.NewService(protocol.Options{
		Storage:  store,
		Limiter:  limiter,
		Metrics:  collector,
		Logger:   logger,
		MaxBatch: cfg.MaxBatch,
	})

	verifier := auth.NewVerifier(cfg.JWTSecret)
	if !verifier.VerifiesSignature() {
		logger.Warn("jwt_secret is empty, bearer tokens are checked for presence only")
	}

	router := server.NewRouter(server.RouterConfig{
		Logger:     logger,
		Sync:       handlers.NewSyncHandler(logger, service),
		Health:     handlers.NewHealthHandler(logger, service, Version),
		Metrics:    handlers.NewMetricsHandler(logger, service),
		Prometheus: collector.Handler(),
		Verifier:   verifier,
		IPLimit:    cfg.IPRateLimit,
		IPWindow:   time.Minute,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tree := supervisor.New("famsync-server", logger, supervisor.Config{ShutdownTimeout: cfg.ShutdownTimeout})
	tree.AddNetwork(supervisor.NewHTTPService(httpServer, cfg.ShutdownTimeout))

	logger.Info("Sync server starting",
		"addr", cfg.ListenAddr,
		"db", cfg.DBPath,
		"rate_limit", cfg.RateLimit,
		"rate_window", cfg.RateWindow,
		"version", Version,
	)

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logger.Info("Sync server stopped")
	return nil
}

func printToken(cfg *config.ServerConfig, userID string, ttl time.Duration) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is not configured")
	}
	token, err := auth.IssueToken([]byte(cfg.JWTSecret), userID, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func printVersion() {
	fmt.Printf("famsync server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
