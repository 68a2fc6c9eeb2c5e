package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/playtracker/internal/config"
	"github.com/mcoot/playtracker/internal/factory"
	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/services/bootstrap"
)

// flags holds command-line overrides of the environment configuration
type flags struct {
	EnvFile   string
	Host      string
	Port      int
	DBDriver  string
	DSN       string
	Sessions  string
	RedisURL  string
	StaticDir string
	LogLevel  string
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.EnvFile, "env-file", ".env", "Dotenv file to load if present")
	pf.StringVar(&f.DBDriver, "db-driver", "", "Database driver: sqlite, postgres (env: DB_DRIVER)")
	pf.StringVar(&f.DSN, "database-url", "", "SQLite path or PostgreSQL DSN (env: DATABASE_URL)")
	pf.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error (env: LOG_LEVEL)")
}

func (f *flags) registerServe(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.Host, "host", "", "Listen host (env: HTTP_HOST)")
	fl.IntVar(&f.Port, "port", 0, "Listen port (env: HTTP_PORT)")
	fl.StringVar(&f.Sessions, "session-store", "", "Session store: memory, redis (env: SESSION_STORE)")
	fl.StringVar(&f.RedisURL, "redis-url", "", "Redis URL (env: REDIS_URL)")
	fl.StringVar(&f.StaticDir, "static-dir", "", "Static files directory (env: STATIC_DIR)")
}

// load reads the environment and applies flags the user set explicitly
func (f *flags) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(f.EnvFile)
	if err != nil {
		return config.Config{}, err
	}

	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("host", func() { cfg.Server.Host = f.Host })
	set("port", func() { cfg.Server.Port = f.Port })
	set("db-driver", func() { cfg.Database.Driver = f.DBDriver })
	set("database-url", func() { cfg.Database.DSN = f.DSN })
	set("session-store", func() { cfg.SessionStore = f.Sessions })
	set("redis-url", func() { cfg.Redis.URL = f.RedisURL })
	set("static-dir", func() { cfg.StaticDir = f.StaticDir })
	set("log-level", func() {
		if err = cfg.LogLevel.UnmarshalText([]byte(f.LogLevel)); err == nil {
			cfg.Database.Debug = cfg.LogLevel <= slog.LevelDebug
		}
	})
	if err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds the JSON logger used by every command
func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// factoryConfig maps the application configuration to the factory
func factoryConfig(cfg config.Config, logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Database: cfg.Database,
		AuthConfig: auth.Config{
			SecretKey:       cfg.SecretKey,
			AdminPassword:   cfg.AdminPassword,
			SessionDuration: cfg.SessionDuration,
		},
		BootstrapConfig: bootstrap.Config{
			AdminPassword: cfg.AdminPassword,
			AdminEmail:    cfg.AdminEmail,
		},
		SweepInterval:    cfg.SweepInterval,
		Logger:           logger,
		SessionStoreType: cfg.SessionStore,
	}
	if cfg.SessionStore == config.SessionStoreRedis {
		redisCfg := cfg.Redis
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// findStaticDir looks for the static files directory
func findStaticDir(configured string) string {
	candidates := []string{
		configured,
		"./" + configured,
		filepath.Join(os.Getenv("PWD"), configured),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	return configured
}
