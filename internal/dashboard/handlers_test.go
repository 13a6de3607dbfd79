package dashboard

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"fare-dashboard/internal/dashboard/states"
	"fare-dashboard/internal/metrics"
	"fare-dashboard/internal/stories/fares"
	"fare-dashboard/internal/stories/session"
)

type fareServiceStub struct {
	searchFn func(ctx context.Context, criteria fares.FilterCriteria) ([]fares.FareRecord, error)
}

func (s *fareServiceStub) Search(ctx context.Context, criteria fares.FilterCriteria) ([]fares.FareRecord, error) {
	return s.searchFn(ctx, criteria)
}

func (s *fareServiceStub) SubmitEdit(_ context.Context, _ *fares.EditFlow, _ *fares.Workspace, _ string) (*fares.EditResult, error) {
	return nil, errors.New("not wired in this test")
}

type snapshotStub struct {
	records      []fares.FareRecord
	getErr       error
	replaceCalls int
}

func (s *snapshotStub) ReplaceFareSnapshot(_ context.Context, _ string, _ []fares.FareRecord) error {
	s.replaceCalls++
	return nil
}

func (s *snapshotStub) GetFareSnapshot(_ context.Context, _ string) ([]fares.FareRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.records, nil
}

// keyLocalizer renders every message as its catalog key.
type keyLocalizer struct{}

func (keyLocalizer) Get(key string, _ map[string]interface{}) string { return key }

func newTestRouter(fareSvc fareService, snapshots snapshotStorage) *Router {
	return &Router{
		fares:     fareSvc,
		snapshots: snapshots,
		states:    states.NewManager(fares.Defaults{FareCode: "E1", BookingClass: "E", Currency: "NPR"}),
		loc:       keyLocalizer{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func authedRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	sess := &session.Session{ID: "sess-1", Username: "admin", Token: "tok"}
	return req.WithContext(context.WithValue(req.Context(), sessionCtxKey, sess))
}

// counterValue scrapes the metrics endpoint for one series. Absent series read
// as zero.
func counterValue(t *testing.T, series string) float64 {
	t.Helper()
	metrics.Register()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if !strings.HasPrefix(line, series) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, series)), 64)
		if err != nil {
			t.Fatalf("parse %q: %v", line, err)
		}
		return v
	}
	return 0
}

func TestSearchStaleResultDiscarded(t *testing.T) {
	snapshots := &snapshotStub{}
	fareSvc := &fareServiceStub{}
	rt := newTestRouter(fareSvc, snapshots)

	// While this search is in flight a newer one begins, so its token goes
	// stale before the results come back.
	fareSvc.searchFn = func(_ context.Context, _ fares.FilterCriteria) ([]fares.FareRecord, error) {
		view := rt.states.GetView("sess-1")
		view.Lock()
		view.Workspace.BeginSearch()
		view.Unlock()
		return []fares.FareRecord{{ID: "fare-1"}}, nil
	}

	const okSeries = `dashboard_fare_searches_total{outcome="ok"}`
	okBefore := counterValue(t, okSeries)

	form := url.Values{"origin": {"KTM"}, "destination": {"PKR"}}
	rt.handleSearch(httptest.NewRecorder(), authedRequest(http.MethodPost, "/search", form))

	view := rt.states.GetView("sess-1")
	view.Lock()
	defer view.Unlock()

	if view.Workspace.Count() != 0 {
		t.Errorf("stale result installed: Count() = %d", view.Workspace.Count())
	}
	if snapshots.replaceCalls != 0 {
		t.Errorf("stale result persisted %d time(s)", snapshots.replaceCalls)
	}
	if view.Notice != "" {
		t.Errorf("notice %q set for a discarded result", view.Notice)
	}
	if okAfter := counterValue(t, okSeries); okAfter != okBefore {
		t.Errorf("success counter advanced for a discarded result: %v -> %v", okBefore, okAfter)
	}
}

func TestSearchSuccessInstallsResults(t *testing.T) {
	snapshots := &snapshotStub{}
	fareSvc := &fareServiceStub{
		searchFn: func(_ context.Context, _ fares.FilterCriteria) ([]fares.FareRecord, error) {
			return []fares.FareRecord{{ID: "fare-1"}, {ID: "fare-2"}}, nil
		},
	}
	rt := newTestRouter(fareSvc, snapshots)

	form := url.Values{"origin": {"KTM"}, "destination": {"PKR"}}
	rt.handleSearch(httptest.NewRecorder(), authedRequest(http.MethodPost, "/search", form))

	view := rt.states.GetView("sess-1")
	view.Lock()
	defer view.Unlock()

	if view.Workspace.Count() != 2 {
		t.Errorf("Count() = %d, want 2", view.Workspace.Count())
	}
	if snapshots.replaceCalls != 1 {
		t.Errorf("snapshot replaced %d time(s), want 1", snapshots.replaceCalls)
	}
	if view.Notice != "search.complete" {
		t.Errorf("Notice = %q, want search.complete", view.Notice)
	}
}

func TestDashboardRetriesSnapshotRestoreAfterFailure(t *testing.T) {
	snapshots := &snapshotStub{
		records: []fares.FareRecord{{ID: "fare-1"}},
		getErr:  errors.New("database is locked"),
	}
	rt := newTestRouter(&fareServiceStub{}, snapshots)

	rt.handleDashboard(httptest.NewRecorder(), authedRequest(http.MethodGet, "/", nil))

	view := rt.states.GetView("sess-1")
	view.Lock()
	if view.Restored {
		t.Error("Restored set despite a failed snapshot read")
	}
	if view.Workspace.Count() != 0 {
		t.Errorf("Count() = %d after failed restore, want 0", view.Workspace.Count())
	}
	view.Unlock()

	// The read recovers; the next request restores the cached rows.
	snapshots.getErr = nil
	rt.handleDashboard(httptest.NewRecorder(), authedRequest(http.MethodGet, "/", nil))

	view.Lock()
	defer view.Unlock()
	if !view.Restored {
		t.Error("Restored not set after a successful read")
	}
	if view.Workspace.Count() != 1 {
		t.Errorf("Count() = %d after restore, want 1", view.Workspace.Count())
	}
	if view.Workspace.Status() != fares.StatusLoaded {
		t.Errorf("Status() = %q, want %q", view.Workspace.Status(), fares.StatusLoaded)
	}
}

func TestDashboardEmptySnapshotRestoresOnce(t *testing.T) {
	snapshots := &snapshotStub{}
	rt := newTestRouter(&fareServiceStub{}, snapshots)

	rt.handleDashboard(httptest.NewRecorder(), authedRequest(http.MethodGet, "/", nil))

	view := rt.states.GetView("sess-1")
	view.Lock()
	defer view.Unlock()
	if !view.Restored {
		t.Error("Restored not set after an empty read")
	}
	if view.Workspace.Status() != fares.StatusIdle {
		t.Errorf("Status() = %q after empty restore, want %q", view.Workspace.Status(), fares.StatusIdle)
	}
}
