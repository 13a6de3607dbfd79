package sessionsweep

import (
	"context"
	"time"
)

type (
	// Storage provides database operations
	Storage interface {
		DeleteExpiredSessions(ctx context.Context) (int64, error)
		DeleteOrphanSnapshots(ctx context.Context) (int64, error)
	}

	// StateManager evicts in-memory views that have gone idle
	StateManager interface {
		SweepIdle(maxIdle time.Duration) int
	}
)
