package gormstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/playtracker/internal/model"
)

// Store owns the relational database handle
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database
func Open(cfg Config) (*Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DSN == "" && cfg.Driver == DriverSQLite {
		cfg.DSN = DefaultConfig().DSN
	}

	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch cfg.Driver {
	case DriverSQLite:
		return openSQLite(cfg, gormCfg)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres driver requires a DSN")
		}
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return New(db), nil
	default:
		return nil, fmt.Errorf("invalid database driver %q: must be 'sqlite' or 'postgres'", cfg.Driver)
	}
}

func openSQLite(cfg Config, gormCfg *gorm.Config) (*Store, error) {
	if dir := filepath.Dir(cfg.DSN); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	busy := cfg.BusyTimeout
	if busy == 0 {
		busy = DefaultConfig().BusyTimeout
	}
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", cfg.DSN, busy.Milliseconds())

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection shared by every request goroutine
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return New(db), nil
}

// New wraps an existing GORM handle
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema if it is missing. Safe to call repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.User{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Do runs fn inside a unit of work. The work is committed when fn returns nil
// and rolled back otherwise.
func (s *Store) Do(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UnitOfWork{tx: tx})
	})
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
