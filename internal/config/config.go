// Package config загружает конфигурацию клиента и сервера слоями:
// значения по умолчанию, затем YAML-файл, затем переменные окружения FAMSYNC_*.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/iudanet/famsync/internal/models"
	"github.com/iudanet/famsync/internal/validation"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "FAMSYNC_"

// ClientConfig настройки клиента
type ClientConfig struct {
	ServerURL         string        `koanf:"server_url"`
	DBPath            string        `koanf:"db_path"`
	UserID            string        `koanf:"user_id"`
	DocumentID        string        `koanf:"document_id"`
	DefaultStrategy   string        `koanf:"default_strategy"`
	QueuePassphrase   string        `koanf:"queue_passphrase"` // пусто - очередь хранится без шифрования
	AutoSyncInterval  time.Duration `koanf:"auto_sync_interval"`
	ProcessInterval   time.Duration `koanf:"process_interval"`
	ProbeInterval     time.Duration `koanf:"probe_interval"`
	SyncTimeout       time.Duration `koanf:"sync_timeout"`
	InitialDelay      time.Duration `koanf:"initial_delay"`
	MaxDelay          time.Duration `koanf:"max_delay"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier"`
	JitterFactor      float64       `koanf:"jitter_factor"`
	MaxAttempts       int           `koanf:"max_attempts"`
	OfflineMode       bool          `koanf:"offline_mode"`
}

// ServerConfig настройки сервера протокола
type ServerConfig struct {
	ListenAddr      string        `koanf:"listen_addr"`
	DBPath          string        `koanf:"db_path"`
	JWTSecret       string        `koanf:"jwt_secret"` // пусто - проверяется только наличие токена
	RateWindow      time.Duration `koanf:"rate_window"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       int           `koanf:"rate_limit"`
	IPRateLimit     int           `koanf:"ip_rate_limit"` // запросов в минуту с одного IP
	MaxBatch        int           `koanf:"max_batch"`
}

// DefaultClient возвращает настройки клиента по умолчанию
func DefaultClient() ClientConfig {
	policy := models.DefaultRetryPolicy()
	return ClientConfig{
		ServerURL:         "http://localhost:8080",
		DBPath:            "famsync-client.db",
		DocumentID:        "profile",
		DefaultStrategy:   string(models.StrategyLastWriteWins),
		AutoSyncInterval:  60 * time.Second,
		ProcessInterval:   10 * time.Second,
		ProbeInterval:     15 * time.Second,
		SyncTimeout:       30 * time.Second,
		MaxAttempts:       policy.MaxAttempts,
		InitialDelay:      policy.InitialDelay,
		MaxDelay:          policy.MaxDelay,
		BackoffMultiplier: policy.BackoffMultiplier,
		JitterFactor:      policy.JitterFactor,
		OfflineMode:       true,
	}
}

// DefaultServer возвращает настройки сервера по умолчанию
func DefaultServer() ServerConfig {
	return ServerConfig{
		ListenAddr:      ":8080",
		DBPath:          "famsync-server.db",
		RateLimit:       100,
		RateWindow:      60 * time.Second,
		IPRateLimit:     600,
		MaxBatch:        50,
		ShutdownTimeout: 10 * time.Second,
	}
}

// LoadClient загружает настройки клиента. path может быть пустым.
func LoadClient(path string) (*ClientConfig, error) {
	cfg := DefaultClient()
	if err := load(&cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return &cfg, nil
}

// LoadServer загружает настройки сервера. path может быть пустым.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := DefaultServer()
	if err := load(&cfg, path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return &cfg, nil
}

// load накладывает слои на cfg, который уже содержит значения по умолчанию
func load(cfg any, path string) error {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// FAMSYNC_SERVER_URL -> server_url
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}

func envTransform(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}

// RetryPolicy собирает политику повторов из настроек
func (c *ClientConfig) RetryPolicy() models.RetryPolicy {
	return models.RetryPolicy{
		MaxAttempts:       c.MaxAttempts,
		InitialDelay:      c.InitialDelay,
		MaxDelay:          c.MaxDelay,
		BackoffMultiplier: c.BackoffMultiplier,
		JitterFactor:      c.JitterFactor,
	}
}

// Strategy возвращает стратегию по умолчанию
func (c *ClientConfig) Strategy() models.ConflictStrategy {
	return models.ConflictStrategy(c.DefaultStrategy)
}

// Validate проверяет согласованность настроек клиента
func (c *ClientConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.DocumentID == "" {
		return fmt.Errorf("document_id is required")
	}
	if _, err := models.ParseConflictStrategy(c.DefaultStrategy); err != nil {
		return fmt.Errorf("default_strategy: %w", err)
	}
	if err := c.RetryPolicy().Validate(); err != nil {
		return fmt.Errorf("retry policy: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"auto_sync_interval": c.AutoSyncInterval,
		"process_interval":   c.ProcessInterval,
		"probe_interval":     c.ProbeInterval,
		"sync_timeout":       c.SyncTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.UserID != "" {
		if err := validation.ValidateUserID(c.UserID); err != nil {
			return fmt.Errorf("user_id: %w", err)
		}
	}
	if c.QueuePassphrase != "" {
		if err := validation.ValidatePassphrase(c.QueuePassphrase); err != nil {
			return fmt.Errorf("queue_passphrase: %w", err)
		}
	}
	return nil
}

// Validate проверяет согласованность настроек сервера
func (c *ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be at least 1")
	}
	if c.RateWindow <= 0 {
		return fmt.Errorf("rate_window must be positive")
	}
	if c.IPRateLimit < 0 {
		return fmt.Errorf("ip_rate_limit must not be negative")
	}
	if c.MaxBatch < 1 {
		return fmt.Errorf("max_batch must be at least 1")
	}
	return nil
}
