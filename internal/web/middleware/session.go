package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/services/accounts"
	"github.com/mcoot/playtracker/internal/services/auth"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"

	// SessionCookieName is the cookie carrying the signed session token
	SessionCookieName = "session"
)

// Messages for authorization failures
const (
	msgNoPermission = "You do not have permission to access this page."
)

// GetSession retrieves the current session from the request context
// Returns nil if the request is not logged in
func GetSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionContextKey).(*model.Session)
	return session
}

// SetSessionCookie stores a signed session token on the client
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the session cookie from the client
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session returns middleware that loads the session behind the cookie, if any.
// Stale or forged cookies are cleared. Other lookup failures leave the
// cookie in place and serve the request anonymously.
func Session(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var session *model.Session

			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				session, err = authService.ValidateToken(r.Context(), cookie.Value)
				switch {
				case errors.Is(err, auth.ErrInvalidSession):
					session = nil
					ClearSessionCookie(w)
				case err != nil:
					session = nil
					logger.Error("session lookup failed",
						slog.String("request_id", w.Header().Get(RequestIDHeader)),
						slog.String("error", err.Error()),
					)
				}
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin redirects to the login page unless the request has a session
func RequireLogin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()) == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin redirects to the login page without a session and refuses,
// with 403, sessions whose user does not currently hold the admin flag
func RequireAdmin(accountService *accounts.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			if session == nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			isAdmin, err := accountService.IsAdmin(r.Context(), session.UserID)
			if err != nil {
				logger.Error("admin check failed",
					slog.Uint64("user_id", uint64(session.UserID)),
					slog.String("error", err.Error()),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !isAdmin {
				http.Error(w, msgNoPermission, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
