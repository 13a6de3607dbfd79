package states

import (
	"sync"
	"time"

	"fare-dashboard/internal/stories/fares"
)

// View is one browser session's dashboard state: the workspace (filters,
// results, pagination, selection) and the edit surface. Concurrent requests
// carrying the same cookie share one View, so handlers must hold its lock
// while reading or mutating anything inside.
type View struct {
	mu sync.Mutex

	Workspace *fares.Workspace
	Edit      *fares.EditFlow

	EditOpen             bool
	ConfirmingDeactivate bool
	Restored             bool

	Notice     string
	NoticeKind string
}

// Lock serializes access to the view. The manager's own mutex only guards the
// view map; the view's contents need this one.
func (v *View) Lock() { v.mu.Lock() }

func (v *View) Unlock() { v.mu.Unlock() }

// Manager keeps dashboard views in memory, keyed by session ID.
type Manager struct {
	mu       sync.RWMutex
	views    map[string]*View
	touched  map[string]time.Time
	defaults fares.Defaults
	now      func() time.Time
}

func NewManager(defaults fares.Defaults) *Manager {
	return &Manager{
		views:    make(map[string]*View),
		touched:  make(map[string]time.Time),
		defaults: defaults,
		now:      time.Now,
	}
}

// GetView returns the session's view, creating a fresh one on first access.
func (m *Manager) GetView(sessionID string) *View {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, exists := m.views[sessionID]
	if !exists {
		view = &View{
			Workspace: fares.NewWorkspace(m.defaults),
			Edit:      fares.NewEditFlow(),
		}
		m.views[sessionID] = view
	}
	m.touched[sessionID] = m.now()
	return view
}

// Clear drops the session's view.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.views, sessionID)
	delete(m.touched, sessionID)
}

// SweepIdle removes views untouched for longer than maxIdle and reports how
// many were dropped.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	removed := 0
	for id, at := range m.touched {
		if at.Before(cutoff) {
			delete(m.views, id)
			delete(m.touched, id)
			removed++
		}
	}
	return removed
}
