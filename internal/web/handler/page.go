package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/playtracker/internal/web/middleware"
	"github.com/mcoot/playtracker/internal/web/templates/layout"
)

// pageData builds the shared page fields from the request context
func pageData(r *http.Request, title string) layout.PageData {
	data := layout.PageData{
		Title: title,
		Flash: middleware.GetFlash(r.Context()),
	}
	if session := middleware.GetSession(r.Context()); session != nil {
		data.LoggedIn = true
		data.IsAdmin = session.IsAdmin
	}
	return data
}

// render writes an HTML component with a 200 status
func render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
