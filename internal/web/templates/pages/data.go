package pages

import (
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/playtracker/internal/model"
	"github.com/mcoot/playtracker/internal/web/templates/layout"
)

// HomeData holds data for the landing page
type HomeData struct {
	layout.PageData
}

// SignupData holds data for the signup page
type SignupData struct {
	layout.PageData
}

// LoginData holds data for the login page
type LoginData struct {
	layout.PageData
	Name  string
	Error string
}

// ProfileData holds data for the profile page
type ProfileData struct {
	layout.PageData
	User             model.User
	TetrisPercentage float64
	CodPercentage    float64
}

func (d ProfileData) share(game model.Game) float64 {
	if game == model.GameCod {
		return d.CodPercentage
	}
	return d.TetrisPercentage
}

// AdminUsersData holds data for the admin user listing
type AdminUsersData struct {
	layout.PageData
	Users []model.User
}

func date(t time.Time) string {
	return t.Format("2006-01-02")
}

func count(n int) string {
	return strconv.Itoa(n)
}

func percentage(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

func userID(id model.UserID) string {
	return strconv.FormatUint(uint64(id), 10)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func playAction(game model.Game) templ.SafeURL {
	return templ.SafeURL("/game_played/" + game.String())
}

func rankAction(id model.UserID) templ.SafeURL {
	return templ.SafeURL("/admin/users/" + userID(id) + "/rank")
}

func deleteAction(id model.UserID) templ.SafeURL {
	return templ.SafeURL("/admin/users/" + userID(id) + "/delete")
}
