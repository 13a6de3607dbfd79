package dashboard

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"fare-dashboard/internal/dashboard/states"
	"fare-dashboard/internal/infra/fareapi"
	"fare-dashboard/internal/metrics"
	"fare-dashboard/internal/stories/fares"
)

func (rt *Router) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	rt.renderLogin(w, "")
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess, err := rt.sessions.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		rt.logger.Error("login failed", slog.Any("error", err))
		metrics.IncLogin("error")
		rt.renderLogin(w, rt.loc.Get("errors.unexpected", nil))
		return
	}
	if sess == nil {
		metrics.IncLogin("rejected")
		rt.renderLogin(w, rt.loc.Get("login.invalid", nil))
		return
	}

	metrics.IncLogin("ok")
	rt.setCookie(w, sess.ID)

	view := rt.states.GetView(sess.ID)
	view.Lock()
	view.Notice = rt.loc.Get("login.welcome", map[string]interface{}{"username": sess.Username})
	view.NoticeKind = "success"
	view.Unlock()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if err := rt.sessions.Logout(r.Context(), sess); err != nil {
		rt.logger.Error("logout failed", slog.Any("error", err))
	}
	rt.states.Clear(sess.ID)
	rt.clearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (rt *Router) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	view := rt.states.GetView(sess.ID)
	view.Lock()
	defer view.Unlock()

	// One-time restore of the last search after a reload or restart. A failed
	// read leaves Restored unset so the next request retries.
	if !view.Restored {
		if view.Workspace.Status() != fares.StatusIdle {
			view.Restored = true
		} else if records, err := rt.snapshots.GetFareSnapshot(r.Context(), sess.Username); err != nil {
			rt.logger.Error("snapshot restore failed", slog.Any("error", err))
		} else {
			view.Restored = true
			if len(records) > 0 {
				seq := view.Workspace.BeginSearch()
				view.Workspace.ApplyResults(seq, records)
			}
		}
	}

	rt.renderDashboard(w, sess, view)
}

func (rt *Router) handleSearch(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	view := rt.states.GetView(sess.ID)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	view.Lock()
	for _, key := range []string{
		fares.FilterOrigin, fares.FilterDestination, fares.FilterBookingClass,
		fares.FilterFareCode, fares.FilterFlightDate, fares.FilterCurrency,
	} {
		if r.PostForm.Has(key) {
			view.Workspace.SetFilter(key, strings.TrimSpace(r.PostFormValue(key)))
		}
	}
	criteria := view.Workspace.Criteria()
	seq := view.Workspace.BeginSearch()
	view.Unlock()

	// The view is unlocked during the upstream call; the sequence token sorts
	// out whichever search finishes after a newer one has begun.
	records, err := rt.fares.Search(r.Context(), criteria)

	view.Lock()
	defer view.Unlock()

	if err != nil {
		view.Workspace.FailSearch(seq, err.Error())
		if err == fares.ErrMissingSector {
			metrics.IncSearch("validation")
		} else {
			metrics.IncSearch("error")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if view.Workspace.ApplyResults(seq, records) {
		if err := rt.snapshots.ReplaceFareSnapshot(r.Context(), sess.Username, records); err != nil {
			rt.logger.Error("snapshot save failed", slog.Any("error", err))
		}
		view.Notice = rt.loc.Get("search.complete", map[string]interface{}{"count": len(records)})
		view.NoticeKind = "success"
		metrics.IncSearch("ok")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleClearFilters(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	view.Workspace.ClearFilters()
	view.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleSelect(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	view.Workspace.Toggle(chi.URLParam(r, "fareID"))
	view.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	view.Workspace.ToggleAll()
	view.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handlePage(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	view.Lock()
	defer view.Unlock()

	switch r.PostFormValue("dir") {
	case "next":
		view.Workspace.NextPage()
	case "prev":
		view.Workspace.PrevPage()
	default:
		if n, err := strconv.Atoi(r.PostFormValue("page")); err == nil {
			view.Workspace.GoToPage(n)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleEditOpen(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	defer view.Unlock()

	selected := view.Workspace.SelectedRecords()
	if len(selected) == 0 {
		view.Notice = rt.loc.Get("edit.nothing_selected", nil)
		view.NoticeKind = "error"
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view.Edit = fares.NewEditFlow()
	// Pre-fill from the selection, the way the edit form opens in the UI.
	view.Edit.Form.ValidOnFlight = strings.Join(
		lo.Map(selected, func(rec fares.FareRecord, _ int) string { return rec.ValidOnFlight }),
		", ")
	view.EditOpen = true
	view.ConfirmingDeactivate = false

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleEditClose(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	view.EditOpen = false
	view.ConfirmingDeactivate = false
	view.Edit = fares.NewEditFlow()
	view.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rt *Router) handleEditSubmit(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	view := rt.states.GetView(sess.ID)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	view.Lock()
	defer view.Unlock()

	form := &view.Edit.Form
	form.DateFrom = r.PostFormValue("flightDateFrom")
	form.DateTo = r.PostFormValue("flightDateTo")
	form.Amount = r.PostFormValue("fareAmount")
	form.ValidOnFlight = r.PostFormValue("validOnFlight")
	if r.PostFormValue("editType") == string(fares.EditTypeCopy) {
		form.EditType = fares.EditTypeCopy
	} else {
		form.EditType = fares.EditTypeUpdate
	}
	form.Inactive = r.PostFormValue("status") == "inactive"

	rt.submitEdit(w, r, view)
}

func (rt *Router) handleConfirmDeactivate(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	defer view.Unlock()
	view.ConfirmingDeactivate = false
	view.Edit.ConfirmDeactivate()
	rt.submitEdit(w, r, view)
}

func (rt *Router) handleDismissDeactivate(w http.ResponseWriter, r *http.Request) {
	view := rt.states.GetView(currentSession(r).ID)
	view.Lock()
	view.ConfirmingDeactivate = false
	view.Edit.DismissDeactivate()
	view.Notice = rt.loc.Get("edit.deactivate_cancelled", nil)
	view.NoticeKind = "info"
	view.Unlock()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// submitEdit runs with the view lock held by its caller.
func (rt *Router) submitEdit(w http.ResponseWriter, r *http.Request, view *states.View) {
	sess := currentSession(r)
	action := strings.ToUpper(string(view.Edit.Form.EditType))

	result, err := rt.fares.SubmitEdit(r.Context(), view.Edit, view.Workspace, sess.Username)
	switch {
	case err == nil:
		metrics.IncFareUpdate(action, "ok")
		view.Notice = rt.loc.Get("edit.success", map[string]interface{}{"message": result.Message})
		view.NoticeKind = "success"
		view.EditOpen = false
		view.Edit = fares.NewEditFlow()

	case err == fares.ErrValidation:
		// Field errors render inline next to the form fields.

	case err == fares.ErrDeactivateNotConfirmed:
		view.ConfirmingDeactivate = true

	case err == fares.ErrNothingSelected:
		view.Notice = rt.loc.Get("edit.nothing_selected", nil)
		view.NoticeKind = "error"
		view.EditOpen = false

	case err == fares.ErrNotAuthenticated:
		metrics.IncFareUpdate(action, "auth")
		view.Notice = rt.loc.Get("edit.auth_required", nil)
		view.NoticeKind = "error"

	default:
		if statusErr, ok := err.(*fareapi.StatusError); ok {
			metrics.IncFareUpdate(action, "http_error")
			view.Notice = statusErr.Error()
		} else {
			metrics.IncFareUpdate(action, "error")
			view.Notice = rt.loc.Get("errors.unexpected", nil)
		}
		view.NoticeKind = "error"
		view.Edit.Reset()
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
