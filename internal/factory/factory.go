package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/memoriagame/memoria/internal/dependencies/clock"
	"github.com/memoriagame/memoria/internal/dependencies/random"
	"github.com/memoriagame/memoria/internal/gateway"
	"github.com/memoriagame/memoria/internal/services/admin"
	"github.com/memoriagame/memoria/internal/services/auth"
	"github.com/memoriagame/memoria/internal/services/board"
	"github.com/memoriagame/memoria/internal/services/game"
	"github.com/memoriagame/memoria/internal/storage"
	"github.com/memoriagame/memoria/internal/storage/memory"
	redisstorage "github.com/memoriagame/memoria/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Registry storage.Registry

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	BoardService *board.Service
	Scheduler    *game.Scheduler
	AuthService  *auth.Service
	AdminService *admin.Service
	Hub          *gateway.Hub
	Gateway      *gateway.Gateway
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
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var registry storage.Registry
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		registry = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisRegistry, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		registry = redisRegistry
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(registry, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(registry storage.Registry, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// The hub is the broadcaster every service publishes through
	hub := gateway.NewHub(logger)

	boardService := board.New(rnd)
	scheduler := game.NewScheduler(registry, boardService, clk, hub, logger)
	authService := auth.New(registry, logger)
	adminService := admin.New(registry, scheduler, hub, logger)
	gw := gateway.New(hub, registry, authService, scheduler, adminService, logger)

	return &App{
		Registry:     registry,
		Clock:        clk,
		Random:       rnd,
		BoardService: boardService,
		Scheduler:    scheduler,
		AuthService:  authService,
		AdminService: adminService,
		Hub:          hub,
		Gateway:      gw,
	}
}
