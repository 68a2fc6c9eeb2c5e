package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/playtracker/internal/dependencies/clock"
	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/storage/gormstore"
)

// ErrMissingAdminPassword is returned when no seed password is configured
var ErrMissingAdminPassword = errors.New("admin seed password is required")

// Config holds the administrator seed settings
type Config struct {
	AdminPassword string
	AdminEmail    string
}

// DefaultConfig returns the default seed settings.
// The password has no default.
func DefaultConfig() Config {
	return Config{
		AdminEmail: "admin@example.com",
	}
}

// Service prepares the database on first run
type Service struct {
	store  *gormstore.Store
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger
}

// New creates a new bootstrap service
func New(store *gormstore.Store, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = DefaultConfig().AdminEmail
	}
	return &Service{
		store:  store,
		clock:  clk,
		cfg:    cfg,
		logger: logger,
	}
}

// Run creates the schema if missing and seeds the administrator account.
// Running it again leaves an existing administrator untouched.
func (s *Service) Run(ctx context.Context) error {
	if err := s.store.Migrate(ctx); err != nil {
		return err
	}

	created, err := s.seedAdmin(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if created {
		s.logger.Info("admin user seeded", slog.String("name", model.AdminName))
	} else {
		s.logger.Debug("admin user already present", slog.String("name", model.AdminName))
	}
	return nil
}

func (s *Service) seedAdmin(ctx context.Context) (bool, error) {
	created := false
	err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		count, err := uow.CountByName(model.AdminName)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if s.cfg.AdminPassword == "" {
			return ErrMissingAdminPassword
		}

		hash, err := model.HashPassword(s.cfg.AdminPassword)
		if err != nil {
			return err
		}

		created = true
		return uow.Add(&model.User{
			Name:      model.AdminName,
			Password:  hash,
			Email:     s.cfg.AdminEmail,
			Antiquity: clock.Today(s.clock),
			IsAdmin:   true,
		})
	})
	return created, err
}
