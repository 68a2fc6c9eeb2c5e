package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/playtracker/internal/storage/gormstore"
	redisstorage "github.com/mcoot/playtracker/internal/storage/redis"
	"github.com/mcoot/playtracker/internal/web"
)

// Environments
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Session store types
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Values used only when APP_ENV=development
const (
	devSecretKey     = "987654321"
	devAdminPassword = "987654321"
)

// Config holds the application configuration
type Config struct {
	Env       string
	LogLevel  slog.Level
	StaticDir string

	Server   web.ServerConfig
	Database gormstore.Config

	SessionStore    string
	Redis           redisstorage.Config
	SessionDuration time.Duration
	SweepInterval   time.Duration

	SecretKey     string
	AdminPassword string
	AdminEmail    string
}

// Default returns the configuration used when nothing is set.
// Secrets are left empty.
func Default() Config {
	return Config{
		Env:             EnvProduction,
		LogLevel:        slog.LevelInfo,
		StaticDir:       "internal/web/static",
		Server:          web.DefaultServerConfig(),
		Database:        gormstore.DefaultConfig(),
		SessionStore:    SessionStoreMemory,
		Redis:           redisstorage.DefaultConfig(),
		SessionDuration: 24 * time.Hour,
		SweepInterval:   10 * time.Minute,
		AdminEmail:      "admin@example.com",
	}
}

// Load reads envFile, if it exists, into the process environment and then
// builds the configuration from the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the configuration from a variable lookup function
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("APP_ENV", &cfg.Env)
	p.level("LOG_LEVEL", &cfg.LogLevel)
	p.str("STATIC_DIR", &cfg.StaticDir)

	p.str("HTTP_HOST", &cfg.Server.Host)
	p.integer("HTTP_PORT", &cfg.Server.Port)

	p.str("DB_DRIVER", &cfg.Database.Driver)
	p.str("DATABASE_URL", &cfg.Database.DSN)
	cfg.Database.Debug = cfg.LogLevel <= slog.LevelDebug

	p.str("SESSION_STORE", &cfg.SessionStore)
	p.str("REDIS_URL", &cfg.Redis.URL)
	p.duration("SESSION_DURATION", &cfg.SessionDuration)
	p.duration("SESSION_SWEEP_INTERVAL", &cfg.SweepInterval)

	p.str("SECRET_KEY", &cfg.SecretKey)
	p.str("ADMIN_PASSWORD", &cfg.AdminPassword)
	p.str("ADMIN_EMAIL", &cfg.AdminEmail)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}

	cfg.ApplyEnvDefaults()
	return cfg, nil
}

// ApplyEnvDefaults fills in development-only secrets
func (c *Config) ApplyEnvDefaults() {
	if c.Env != EnvDevelopment {
		return
	}
	if c.SecretKey == "" {
		c.SecretKey = devSecretKey
	}
	if c.AdminPassword == "" {
		c.AdminPassword = devAdminPassword
	}
}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvProduction, EnvDevelopment:
	default:
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env))
	}

	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required"))
	}

	switch c.Database.Driver {
	case gormstore.DriverSQLite:
	case gormstore.DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", gormstore.DriverSQLite, gormstore.DriverPostgres, c.Database.Driver))
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.Server.Port))
	}
	if c.SessionDuration <= 0 {
		errs = append(errs, errors.New("SESSION_DURATION must be positive"))
	}

	return errors.Join(errs...)
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) integer(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (p *parser) duration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func (p *parser) level(key string, dst *slog.Level) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	if err := dst.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
}
