package dashboard

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"fare-dashboard/internal/dashboard/states"
	"fare-dashboard/internal/stories/fares"
	"fare-dashboard/internal/stories/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type loginData struct {
	Error string
}

type tableRow struct {
	Record   fares.FareRecord
	Selected bool
}

type dashboardData struct {
	Username string

	Criteria fares.FilterCriteria
	Status   fares.SearchStatus
	Error    string

	Rows          []tableRow
	Count         int
	SelectionSize int
	AllSelected   bool

	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool

	EditOpen             bool
	EditForm             fares.EditForm
	FieldErrors          []fares.FieldError
	ConfirmingDeactivate bool
	ConfirmMessage       string

	Notice     string
	NoticeKind string
}

func (rt *Router) renderLogin(w http.ResponseWriter, errMsg string) {
	if err := pageTemplates.ExecuteTemplate(w, "login.html", loginData{Error: errMsg}); err != nil {
		rt.logger.Error("render login failed", slog.Any("error", err))
	}
}

func (rt *Router) renderDashboard(w http.ResponseWriter, sess *session.Session, view *states.View) {
	ws := view.Workspace

	rows := make([]tableRow, 0, len(ws.PageRecords()))
	for _, rec := range ws.PageRecords() {
		rows = append(rows, tableRow{Record: rec, Selected: ws.Selected(rec.ID)})
	}

	data := dashboardData{
		Username: sess.Username,

		Criteria: ws.Criteria(),
		Status:   ws.Status(),
		Error:    ws.LastError(),

		Rows:          rows,
		Count:         ws.Count(),
		SelectionSize: ws.SelectionSize(),
		AllSelected:   ws.Count() > 0 && ws.SelectionSize() == ws.Count(),

		Page:       ws.CurrentPage(),
		TotalPages: ws.TotalPages(),
		HasPrev:    ws.CurrentPage() > 1,
		HasNext:    ws.CurrentPage() < ws.TotalPages(),

		EditOpen:             view.EditOpen,
		EditForm:             view.Edit.Form,
		FieldErrors:          view.Edit.FieldErrors(),
		ConfirmingDeactivate: view.ConfirmingDeactivate,

		Notice:     view.Notice,
		NoticeKind: view.NoticeKind,
	}
	if view.ConfirmingDeactivate {
		data.ConfirmMessage = rt.loc.Get("edit.confirm_deactivate",
			map[string]interface{}{"count": ws.SelectionSize()})
	}

	// Notifications are transient: shown once, then dropped.
	view.Notice = ""
	view.NoticeKind = ""

	if err := pageTemplates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		rt.logger.Error("render dashboard failed", slog.Any("error", err))
	}
}
