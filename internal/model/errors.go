package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrMissingAntiquity = errors.New("user account date is required")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Game errors
	ErrUnknownGame = errors.New("unknown game")
)
