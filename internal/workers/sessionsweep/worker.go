package sessionsweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Worker removes expired sessions together with their persisted search
// snapshots and evicts idle in-memory dashboard views.
type Worker struct {
	storage  Storage
	states   StateManager
	schedule string
	maxIdle  time.Duration
	logger   *slog.Logger
	cron     *cron.Cron
}

// NewWorker creates a new session sweep worker
func NewWorker(storage Storage, states StateManager, schedule string, maxIdle time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		storage:  storage,
		states:   states,
		schedule: schedule,
		maxIdle:  maxIdle,
		logger:   logger,
		cron:     cron.New(),
	}
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "sessionsweep"
}

// Start starts the session sweep worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx := context.Background()
		if err := w.run(ctx); err != nil {
			w.logger.Error("Session sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule session sweep worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping session sweep worker")
	w.cron.Stop()
}

func (w *Worker) run(ctx context.Context) error {
	w.logger.Info("Running session sweep")

	sessions, err := w.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}

	snapshots, err := w.storage.DeleteOrphanSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("delete orphan snapshots: %w", err)
	}

	views := w.states.SweepIdle(w.maxIdle)

	w.logger.Info("Session sweep completed",
		"expired_sessions", sessions,
		"orphan_snapshots", snapshots,
		"evicted_views", views)
	return nil
}
