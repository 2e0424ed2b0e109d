package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mverkerk/rpsbattle/internal/dependencies/clock"
	"github.com/mverkerk/rpsbattle/internal/dependencies/random"
	"github.com/mverkerk/rpsbattle/internal/services/battle"
	"github.com/mverkerk/rpsbattle/internal/services/damage"
	"github.com/mverkerk/rpsbattle/internal/storage"
	"github.com/mverkerk/rpsbattle/internal/storage/memory"
	redisstorage "github.com/mverkerk/rpsbattle/internal/storage/redis"
	"github.com/mverkerk/rpsbattle/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DamageService    *damage.Service
	BattleController *battle.Controller
	Hub              *ws.Hub
	Gateway          *ws.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	damageService := damage.New(rnd)
	battleController := battle.NewController(store, damageService, clk, rnd, logger)
	hub := ws.NewHub(logger)
	gateway := ws.NewGateway(battleController, hub, clk, logger)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		DamageService:    damageService,
		BattleController: battleController,
		Hub:              hub,
		Gateway:          gateway,
	}
}
