package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/playtracker/internal/dependencies/clock"
	"github.com/mcoot/playtracker/internal/services/accounts"
	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/services/bootstrap"
	"github.com/mcoot/playtracker/internal/services/sweeper"
	"github.com/mcoot/playtracker/internal/storage"
	"github.com/mcoot/playtracker/internal/storage/gormstore"
	"github.com/mcoot/playtracker/internal/storage/memory"
	redisstorage "github.com/mcoot/playtracker/internal/storage/redis"
)

// Session store type constants
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store    *gormstore.Store
	Sessions storage.SessionStore

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService    *auth.Service
	AccountService *accounts.Service
	Bootstrap      *bootstrap.Service
	Sweeper        *sweeper.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Database selects and locates the user database
	Database gormstore.Config
	// AuthConfig must carry a SecretKey
	AuthConfig auth.Config
	// BootstrapConfig holds the admin seed settings
	BootstrapConfig bootstrap.Config
	// SweepInterval is how often expired sessions are purged.
	// If zero, defaults to sweeper.DefaultInterval
	SweepInterval time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// SessionStoreType selects the session backend ("memory" or "redis")
	// If empty, defaults to "memory"
	SessionStoreType string
	// RedisConfig holds Redis connection settings (required if SessionStoreType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	sessions, sessionCloser, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	store, err := gormstore.Open(cfg.Database)
	if err != nil {
		if sessionCloser != nil {
			_ = sessionCloser.Close()
		}
		return nil, fmt.Errorf("open database: %w", err)
	}

	app, err := newWithDependencies(store, sessions, clock.New(), cfg, logger)
	if err != nil {
		_ = store.Close()
		if sessionCloser != nil {
			_ = sessionCloser.Close()
		}
		return nil, err
	}
	if sessionCloser != nil {
		app.closers = append(app.closers, sessionCloser)
	}
	return app, nil
}

func newSessionStore(cfg Config) (storage.SessionStore, io.Closer, error) {
	storeType := cfg.SessionStoreType
	if storeType == "" {
		storeType = SessionStoreMemory
	}

	switch storeType {
	case SessionStoreMemory:
		return memory.New(), nil, nil
	case SessionStoreRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when SessionStoreType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, redisStore, nil
	default:
		return nil, nil, errors.New("invalid SessionStoreType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store *gormstore.Store, sessions storage.SessionStore, clk clock.Clock, cfg Config, logger *slog.Logger) (*App, error) {
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg.SessionDuration = auth.DefaultConfig().SessionDuration
	}
	authService, err := auth.New(store, sessions, clk, authCfg, logger)
	if err != nil {
		return nil, err
	}

	bootstrapCfg := cfg.BootstrapConfig
	if bootstrapCfg.AdminEmail == "" {
		bootstrapCfg.AdminEmail = bootstrap.DefaultConfig().AdminEmail
	}

	interval := cfg.SweepInterval
	if interval == 0 {
		interval = sweeper.DefaultInterval
	}
	sweep, err := sweeper.New(sessions, clk, interval, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Store:          store,
		Sessions:       sessions,
		Clock:          clk,
		AuthService:    authService,
		AccountService: accounts.New(store, logger),
		Bootstrap:      bootstrap.New(store, clk, bootstrapCfg, logger),
		Sweeper:        sweep,
		closers:        []io.Closer{store},
	}, nil
}

// Close stops background work and releases storage connections
func (a *App) Close() error {
	errs := []error{a.Sweeper.Stop()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
