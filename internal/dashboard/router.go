package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"fare-dashboard/internal/dashboard/states"
	"fare-dashboard/internal/metrics"
	"fare-dashboard/internal/stories/session"
)

const sessionCookie = "fare_session"

type ctxKey int

const sessionCtxKey ctxKey = 0

// Router serves the dashboard web surface.
type Router struct {
	sessions     sessionService
	fares        fareService
	snapshots    snapshotStorage
	states       *states.Manager
	loc          localizer
	logger       *slog.Logger
	cookieSecure bool
}

func NewRouter(
	sessions sessionService,
	fareService fareService,
	snapshots snapshotStorage,
	stateManager *states.Manager,
	loc localizer,
	cookieSecure bool,
	logger *slog.Logger,
) *Router {
	return &Router{
		sessions:     sessions,
		fares:        fareService,
		snapshots:    snapshots,
		states:       stateManager,
		loc:          loc,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

func (rt *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(metrics.HTTPMiddleware)

	r.Get("/login", rt.handleLoginPage)
	r.Post("/login", rt.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(rt.requireAuth)

		r.Get("/", rt.handleDashboard)
		r.Post("/logout", rt.handleLogout)

		r.Post("/search", rt.handleSearch)
		r.Post("/filters/clear", rt.handleClearFilters)

		r.Post("/select/{fareID}", rt.handleSelect)
		r.Post("/select-all", rt.handleSelectAll)
		r.Post("/page", rt.handlePage)

		r.Post("/edit/open", rt.handleEditOpen)
		r.Post("/edit/close", rt.handleEditClose)
		r.Post("/edit/submit", rt.handleEditSubmit)
		r.Post("/edit/confirm-deactivate", rt.handleConfirmDeactivate)
		r.Post("/edit/dismiss-deactivate", rt.handleDismissDeactivate)
	})

	return r
}

// requireAuth restores the persisted session from the cookie and redirects
// unauthenticated requests to the login page.
func (rt *Router) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := rt.sessions.Restore(r.Context(), cookieValue(r))
		if err != nil {
			rt.logger.Error("session restore failed", slog.Any("error", err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if sess == nil {
			rt.clearCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey, sess)))
	})
}

func currentSession(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionCtxKey).(*session.Session)
	return sess
}

func cookieValue(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (rt *Router) setCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   rt.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (rt *Router) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   rt.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
