package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/storage/gormstore"
)

// Profile is a user with their play distribution
type Profile struct {
	User             model.User
	TetrisPercentage float64
	CodPercentage    float64
}

// Service handles account queries and admin mutations
type Service struct {
	store  *gormstore.Store
	logger *slog.Logger
}

// New creates a new accounts service
func New(store *gormstore.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Get returns a single user
func (s *Service) Get(ctx context.Context, id model.UserID) (*model.User, error) {
	var user *model.User
	err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		var err error
		user, err = uow.UserByID(id)
		return err
	})
	return user, err
}

// IsAdmin reports whether the user currently holds the admin flag.
// A missing user is not an admin.
func (s *Service) IsAdmin(ctx context.Context, id model.UserID) (bool, error) {
	user, err := s.Get(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// Profile returns the user with the share of plays per game
func (s *Service) Profile(ctx context.Context, id model.UserID) (*Profile, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tetris, cod := model.PlayShare(user.TetrisCount, user.CodCount)
	return &Profile{
		User:             *user,
		TetrisPercentage: tetris,
		CodPercentage:    cod,
	}, nil
}

// List returns every user
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		var err error
		users, err = uow.ListUsers()
		return err
	})
	return users, err
}

// AdjustRanking applies a rank operation to the user.
// Unrecognized operations leave the ranking untouched.
func (s *Service) AdjustRanking(ctx context.Context, id model.UserID, op model.RankOperation) error {
	delta := op.Delta()
	if delta == 0 {
		s.logger.Debug("ignoring unknown rank operation", slog.String("operation", string(op)))
		return nil
	}

	if err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		return uow.AdjustRanking(id, delta)
	}); err != nil {
		return err
	}

	s.logger.Info("ranking adjusted",
		slog.Uint64("user_id", uint64(id)),
		slog.Int("delta", delta),
	)
	return nil
}

// Delete removes the user
func (s *Service) Delete(ctx context.Context, id model.UserID) error {
	if err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		return uow.Delete(id)
	}); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Uint64("user_id", uint64(id)))
	return nil
}

// RecordPlay adds one play of game to the user's counters
func (s *Service) RecordPlay(ctx context.Context, id model.UserID, game model.Game) error {
	return s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		return uow.IncrementPlays(id, game)
	})
}
