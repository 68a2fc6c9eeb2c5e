package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playtracker/internal/services/accounts"
	"github.com/mcoot/playtracker/internal/services/auth"
	"github.com/mcoot/playtracker/internal/web/handler"
	"github.com/mcoot/playtracker/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	AccountService *accounts.Service
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	profileHandler := handler.NewProfileHandler(cfg.AccountService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AccountService, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Everything else sees the flash message and the session, if any
	app := r.NewRoute().Subrouter()
	app.Use(middleware.Flash())
	app.Use(middleware.Session(cfg.AuthService, cfg.Logger))

	// Public routes
	app.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	app.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	app.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	app.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	app.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	app.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Logged-in routes
	player := app.NewRoute().Subrouter()
	player.Use(middleware.RequireLogin())
	player.HandleFunc("/profile", profileHandler.View).Methods(http.MethodGet)
	player.HandleFunc("/game_played/{game}", profileHandler.GamePlayed).Methods(http.MethodPost)

	// Admin routes
	admin := app.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin(cfg.AccountService, cfg.Logger))
	admin.HandleFunc("/admin/users", adminHandler.Users).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/rank", adminHandler.RankUsers).Methods(http.MethodGet)
	admin.HandleFunc("/admin/users/{id:[0-9]+}/rank", adminHandler.Rank).Methods(http.MethodPost)
	admin.HandleFunc("/admin/users/{id:[0-9]+}/delete", adminHandler.Delete).Methods(http.MethodPost)

	return r
}
