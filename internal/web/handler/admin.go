package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/services/accounts"
	"github.com/mcoot/playtracker/internal/web/templates/pages"
)

// AdminHandler handles the user administration pages
type AdminHandler struct {
	accountService *accounts.Service
	logger         *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(accountService *accounts.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Users lists every user
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, "Users")
}

// RankUsers lists every user for the ranking screen
func (h *AdminHandler) RankUsers(w http.ResponseWriter, r *http.Request) {
	h.renderUsers(w, r, "Ranking")
}

// Rank applies the submitted operation to the user's ranking
func (h *AdminHandler) Rank(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	op := model.RankOperation(r.PostFormValue("operation"))
	if err := h.accountService.AdjustRanking(r.Context(), id, op); err != nil {
		h.fail(w, "adjust ranking failed", id, err)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

// Delete removes the user
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFromPath(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete user failed", id, err)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

func (h *AdminHandler) renderUsers(w http.ResponseWriter, r *http.Request, title string) {
	users, err := h.accountService.List(r.Context())
	if err != nil {
		h.logger.Error("list users failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, pages.AdminUsers(pages.AdminUsersData{
		PageData: pageData(r, title),
		Users:    users,
	}))
}

// fail answers store errors, including a missing target user, with a 500
func (h *AdminHandler) fail(w http.ResponseWriter, msg string, id model.UserID, err error) {
	h.logger.Error(msg,
		slog.Uint64("user_id", uint64(id)),
		slog.String("error", err.Error()),
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func userIDFromPath(r *http.Request) (model.UserID, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return model.UserID(id), true
}
