package model

import "time"

// SessionID uniquely identifies a server-side login session
type SessionID string

// Session is the ephemeral login state tied to a browser cookie
type Session struct {
	ID        SessionID
	UserID    UserID
	IsAdmin   bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has lapsed at the given time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
