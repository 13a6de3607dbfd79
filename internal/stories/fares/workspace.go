package fares

import "github.com/samber/lo"

// SearchStatus is the table display state. An empty result is its own state,
// not an error.
type SearchStatus string

const (
	StatusIdle      SearchStatus = "idle"
	StatusLoading   SearchStatus = "loading"
	StatusLoaded    SearchStatus = "loaded"
	StatusNoResults SearchStatus = "no_results"
	StatusFailed    SearchStatus = "failed"
)

// Workspace holds one user's dashboard state: filter criteria, the result set
// of the last search, pagination and the selection. It is driven by a single
// logical task at a time; concurrent searches are ordered by a monotonic
// sequence token so a stale completion can never clobber a newer search.
type Workspace struct {
	defaults  Defaults
	criteria  FilterCriteria
	records   []FareRecord
	page      int
	selected  map[string]struct{}
	status    SearchStatus
	lastError string
	searchSeq uint64
}

func NewWorkspace(defaults Defaults) *Workspace {
	return &Workspace{
		defaults: defaults,
		criteria: DefaultCriteria(defaults),
		page:     1,
		selected: make(map[string]struct{}),
		status:   StatusIdle,
	}
}

func (w *Workspace) Criteria() FilterCriteria {
	return w.criteria
}

// SetFilter replaces one criteria field. There is no cross-field validation
// here and no implicit search. Unknown keys are ignored.
func (w *Workspace) SetFilter(key, value string) {
	switch key {
	case FilterOrigin:
		w.criteria.Origin = value
	case FilterDestination:
		w.criteria.Destination = value
	case FilterBookingClass:
		w.criteria.BookingClass = value
	case FilterFareCode:
		w.criteria.FareCode = value
	case FilterFlightDate:
		w.criteria.FlightDate = value
	case FilterCurrency:
		w.criteria.Currency = value
	}
}

// ClearFilters resets the criteria to the deployment defaults.
func (w *Workspace) ClearFilters() {
	w.criteria = DefaultCriteria(w.defaults)
}

// BeginSearch drops the previous result set and selection before any network
// call is made (clear-on-search policy: a failed search leaves the table
// empty, it does not restore old rows). The returned token must be handed
// back to ApplyResults or FailSearch.
func (w *Workspace) BeginSearch() uint64 {
	w.searchSeq++
	w.records = nil
	w.page = 1
	w.selected = make(map[string]struct{})
	w.status = StatusLoading
	w.lastError = ""
	return w.searchSeq
}

// ApplyResults installs a completed search. A stale token (an older search
// finishing after a newer one started) is discarded and the call reports
// false.
func (w *Workspace) ApplyResults(seq uint64, records []FareRecord) bool {
	if seq != w.searchSeq {
		return false
	}
	w.records = records
	w.page = 1
	w.selected = make(map[string]struct{})
	if len(records) == 0 {
		w.status = StatusNoResults
	} else {
		w.status = StatusLoaded
	}
	return true
}

// FailSearch records a search failure. The result set stays cleared.
func (w *Workspace) FailSearch(seq uint64, message string) bool {
	if seq != w.searchSeq {
		return false
	}
	w.status = StatusFailed
	w.lastError = message
	return true
}

func (w *Workspace) Status() SearchStatus {
	return w.status
}

func (w *Workspace) LastError() string {
	return w.lastError
}

func (w *Workspace) Records() []FareRecord {
	return w.records
}

func (w *Workspace) Count() int {
	return len(w.records)
}

func (w *Workspace) TotalPages() int {
	pages := (len(w.records) + PageSize - 1) / PageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func (w *Workspace) CurrentPage() int {
	return w.page
}

// GoToPage moves to page n. Out-of-range requests are no-ops, mirroring the
// disabled pager buttons at the bounds.
func (w *Workspace) GoToPage(n int) bool {
	if n < 1 || n > w.TotalPages() {
		return false
	}
	w.page = n
	return true
}

func (w *Workspace) NextPage() bool {
	return w.GoToPage(w.page + 1)
}

func (w *Workspace) PrevPage() bool {
	return w.GoToPage(w.page - 1)
}

// PageRecords returns the slice of the result set visible on the current page.
func (w *Workspace) PageRecords() []FareRecord {
	start := (w.page - 1) * PageSize
	if start >= len(w.records) {
		return nil
	}
	end := start + PageSize
	if end > len(w.records) {
		end = len(w.records)
	}
	return w.records[start:end]
}

// Toggle flips the selection of a single record. IDs not present in the
// current result set are ignored so the selection can never reference a stale
// identifier.
func (w *Workspace) Toggle(fareID string) {
	if !lo.ContainsBy(w.records, func(r FareRecord) bool { return r.ID == fareID }) {
		return
	}
	if _, ok := w.selected[fareID]; ok {
		delete(w.selected, fareID)
	} else {
		w.selected[fareID] = struct{}{}
	}
}

// ToggleAll selects every record of the full filtered result set, or clears
// the selection when the full set is already selected. It deliberately spans
// all pages, not just the visible one.
func (w *Workspace) ToggleAll() {
	if len(w.selected) == len(w.records) {
		w.selected = make(map[string]struct{})
		return
	}
	w.selected = make(map[string]struct{}, len(w.records))
	for _, r := range w.records {
		w.selected[r.ID] = struct{}{}
	}
}

func (w *Workspace) ClearSelection() {
	w.selected = make(map[string]struct{})
}

func (w *Workspace) SelectionSize() int {
	return len(w.selected)
}

func (w *Workspace) Selected(fareID string) bool {
	_, ok := w.selected[fareID]
	return ok
}

// SelectedRecords is recomputed from (records, selection) on every call,
// never cached, so it cannot go stale.
func (w *Workspace) SelectedRecords() []FareRecord {
	return lo.Filter(w.records, func(r FareRecord, _ int) bool {
		_, ok := w.selected[r.ID]
		return ok
	})
}

// SelectedIDs returns the selected identifiers in result-set order.
func (w *Workspace) SelectedIDs() []string {
	return lo.Map(w.SelectedRecords(), func(r FareRecord, _ int) string { return r.ID })
}
