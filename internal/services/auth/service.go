package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/playtracker/internal/dependencies/clock"
	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/storage"
	"github.com/mcoot/playtracker/internal/storage/gormstore"
)

// Errors
var (
	ErrMissingFields      = errors.New("name, password and email are required")
	ErrNameTaken          = errors.New("a user with that name already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrAdminPassword      = errors.New("incorrect administrator password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrMissingSecret      = errors.New("session signing secret is required")
)

// Session is an authenticated session together with its signed cookie token
type Session struct {
	Token string
	model.Session
}

// SignupRequest carries the fields of the signup form
type SignupRequest struct {
	Name            string
	Password        string
	ConfirmPassword string
	Email           string
	IsAdmin         bool
	AdminPassword   string
}

// Config holds configuration for the auth service
type Config struct {
	// SecretKey signs session tokens
	SecretKey string
	// AdminPassword must be supplied to sign up as an administrator
	AdminPassword   string
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration.
// Secrets have no default and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service handles signup, login and session management
type Service struct {
	store    *gormstore.Store
	sessions storage.SessionStore
	clock    clock.Clock
	logger   *slog.Logger

	secret          []byte
	adminPassword   string
	sessionDuration time.Duration
}

// New creates a new auth service
func New(store *gormstore.Store, sessions storage.SessionStore, clk clock.Clock, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		store:           store,
		sessions:        sessions,
		clock:           clk,
		logger:          logger,
		secret:          []byte(cfg.SecretKey),
		adminPassword:   cfg.AdminPassword,
		sessionDuration: cfg.SessionDuration,
	}, nil
}

// Signup validates the form and creates the account
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || req.Password == "" || email == "" {
		return nil, ErrMissingFields
	}

	var user *model.User
	err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		count, err := uow.CountByName(name)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrNameTaken
		}

		if req.Password != req.ConfirmPassword {
			return ErrPasswordMismatch
		}

		hash, err := model.HashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		if req.IsAdmin && !s.checkAdminPassword(req.AdminPassword) {
			return ErrAdminPassword
		}

		user = &model.User{
			Name:      name,
			Password:  hash,
			Email:     email,
			Antiquity: clock.Today(s.clock),
			IsAdmin:   req.IsAdmin,
		}
		return uow.Add(user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("name", user.Name),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return user, nil
}

// Login verifies credentials and opens a session
func (s *Service) Login(ctx context.Context, name, password string) (*Session, error) {
	var user *model.User
	err := s.store.Do(ctx, func(uow *gormstore.UnitOfWork) error {
		var err error
		user, err = uow.UserByName(strings.TrimSpace(name))
		return err
	})
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, user)
}

// ValidateToken checks a cookie token and returns its live session
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Session, error) {
	c, err := s.parseToken(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session, err := s.sessions.GetSession(ctx, model.SessionID(c.SessionID))
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	if session.UserID != c.UserID {
		return nil, ErrInvalidSession
	}

	if session.Expired(s.clock.Now()) {
		_ = s.sessions.DeleteSession(ctx, session.ID)
		return nil, ErrInvalidSession
	}

	return session, nil
}

// Logout removes the session behind a token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	c, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	return s.sessions.DeleteSession(ctx, model.SessionID(c.SessionID))
}

// SessionDuration returns how long new sessions stay valid
func (s *Service) SessionDuration() time.Duration {
	return s.sessionDuration
}

func (s *Service) checkAdminPassword(candidate string) bool {
	if s.adminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.adminPassword)) == 1
}

// createSession stores a new session for the user and signs its token
func (s *Service) createSession(ctx context.Context, user *model.User) (*Session, error) {
	now := s.clock.Now()
	session := model.Session{
		ID:        model.SessionID(uuid.NewString()),
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	if err := s.sessions.SaveSession(ctx, &session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.signToken(&session)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, Session: session}, nil
}
