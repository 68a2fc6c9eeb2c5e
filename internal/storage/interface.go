package storage

import (
	"context"
	"time"

	"github.com/mcoot/playtracker/internal/model"
)

// SessionStore defines the interface for server-side session persistence
type SessionStore interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error

	// DeleteExpired removes sessions that lapsed before now and returns how many were removed.
	// Stores with native expiry may return 0.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
