package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/services/accounts"
	"github.com/mcoot/playtracker/internal/web/middleware"
	"github.com/mcoot/playtracker/internal/web/templates/pages"
)

// ProfileHandler handles the player's own pages and actions
type ProfileHandler struct {
	accountService *accounts.Service
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(accountService *accounts.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// View renders the logged-in user's profile
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	profile, err := h.accountService.Profile(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Account was deleted while the session was live
			middleware.ClearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h.logger.Error("load profile failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, pages.Profile(pages.ProfileData{
		PageData:         pageData(r, "Profile"),
		User:             profile.User,
		TetrisPercentage: profile.TetrisPercentage,
		CodPercentage:    profile.CodPercentage,
	}))
}

// GamePlayed records one play of the game named in the path
func (h *ProfileHandler) GamePlayed(w http.ResponseWriter, r *http.Request) {
	game, err := model.ParseGame(mux.Vars(r)["game"])
	if err != nil {
		http.Error(w, "Unknown game.", http.StatusBadRequest)
		return
	}

	session := middleware.GetSession(r.Context())
	if session == nil {
		http.Error(w, "User not authenticated.", http.StatusBadRequest)
		return
	}

	if err := h.accountService.RecordPlay(r.Context(), session.UserID, game); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			http.Error(w, "User not authenticated.", http.StatusBadRequest)
			return
		}
		h.logger.Error("record play failed",
			slog.String("game", game.String()),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile", http.StatusFound)
}
