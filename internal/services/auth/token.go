package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/playtracker/internal/model"
)

// claims is the payload of the session cookie
type claims struct {
	SessionID string       `json:"sid"`
	UserID    model.UserID `json:"uid"`
	IsAdmin   bool         `json:"adm"`
	jwt.RegisteredClaims
}

func (s *Service) signToken(session *model.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: string(session.ID),
		UserID:    session.UserID,
		IsAdmin:   session.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *Service) parseToken(token string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
