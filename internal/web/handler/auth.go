package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/web/middleware"
	"github.com/mcoot/playtracker/internal/web/templates/pages"
)

const msgLoginFailed = "Incorrect user name or password."

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// SignupPage renders the signup form
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Signup(pages.SignupData{
		PageData: pageData(r, "Sign up"),
	}))
}

// Signup handles signup form submission
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data.")
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}

	_, isAdmin := r.PostForm["is_admin"]
	req := auth.SignupRequest{
		Name:            r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		Email:           r.PostFormValue("email"),
		IsAdmin:         isAdmin,
		AdminPassword:   r.PostFormValue("admin_password"),
	}

	_, err := h.authService.Signup(r.Context(), req)
	switch {
	case err == nil:
		middleware.SetFlash(w, "success", "Account created. You can now log in.")
		http.Redirect(w, r, "/", http.StatusFound)
	case errors.Is(err, auth.ErrMissingFields):
		middleware.SetFlash(w, "error", "Name, password and email are required.")
		http.Redirect(w, r, "/signup", http.StatusFound)
	case errors.Is(err, auth.ErrNameTaken):
		middleware.SetFlash(w, "error", "A user with that name already exists.")
		http.Redirect(w, r, "/signup", http.StatusFound)
	case errors.Is(err, auth.ErrPasswordMismatch):
		middleware.SetFlash(w, "error", "Passwords do not match.")
		http.Redirect(w, r, "/signup", http.StatusFound)
	case errors.Is(err, auth.ErrAdminPassword):
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Incorrect administrator password."))
	default:
		h.logger.Error("signup failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// LoginPage renders the login form
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
	}))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", "Invalid form data.")
		return
	}

	name := r.PostFormValue("name")
	password := r.PostFormValue("password")

	session, err := h.authService.Login(r.Context(), name, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		h.renderLoginError(w, r, name, msgLoginFailed)
		return
	}

	middleware.SetSessionCookie(w, session.Token, h.authService.SessionDuration())

	if session.IsAdmin {
		http.Redirect(w, r, "/admin/users", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// Logout ends the current session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("logout failed", slog.String("error", err.Error()))
		}
	}

	middleware.ClearSessionCookie(w)
	middleware.SetFlash(w, "info", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, name, message string) {
	render(w, r, pages.Login(pages.LoginData{
		PageData: pageData(r, "Log in"),
		Name:     name,
		Error:    message,
	}))
}
