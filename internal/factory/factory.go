package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/playerregistry/internal/services/player"
	"github.com/mcoot/playerregistry/internal/storage"
	"github.com/mcoot/playerregistry/internal/storage/breaker"
	"github.com/mcoot/playerregistry/internal/storage/memory"
	"github.com/mcoot/playerregistry/internal/storage/postgres"
	redisstorage "github.com/mcoot/playerregistry/internal/storage/redis"
	"github.com/mcoot/playerregistry/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// Services
	PlayerService *player.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds PostgreSQL settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// BreakerConfig wraps the storage in a circuit breaker when set
	BreakerConfig *breaker.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	store, err := newStorage(ctx, storageType, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.BreakerConfig != nil {
		store = breaker.New(storageType, store, *cfg.BreakerConfig, logger)
	}

	logger.Info("storage ready",
		slog.String("type", storageType),
		slog.Bool("breaker", cfg.BreakerConfig != nil),
	)
	return newWithStorage(store, logger), nil
}

func newStorage(ctx context.Context, storageType string, cfg Config) (storage.Storage, error) {
	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return postgres.New(ctx, *cfg.PostgresConfig)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of memory, redis, postgres, sqlite", storageType)
	}
}

// newWithStorage creates an App over the given storage (useful for testing)
func newWithStorage(store storage.Storage, logger *slog.Logger) *App {
	return &App{
		Storage:       store,
		PlayerService: player.New(store, logger),
	}
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
