package environment

import (
	"context"
	"log/slog"

	"fare-dashboard/internal/config"
	"fare-dashboard/internal/dashboard"
	"fare-dashboard/internal/dashboard/states"
	"fare-dashboard/internal/localization"
	"fare-dashboard/internal/storage"
	"fare-dashboard/internal/stories/fares"
	"fare-dashboard/internal/stories/session"
	"fare-dashboard/internal/workers"
	"fare-dashboard/internal/workers/sessionsweep"

	"github.com/pkg/errors"
)

type Services struct {
	Router        *dashboard.Router
	WorkerManager *workers.Manager
}

func newServices(ctx context.Context, clients *Clients, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	var s Services

	storageImpl := storage.New(clients.SQLiteDB.DB)
	if err := storageImpl.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "migrate storage")
	}

	defaults := fares.Defaults{
		FareCode:     cfg.Filters.FareCode,
		BookingClass: cfg.Filters.BookingClass,
		Currency:     cfg.Filters.Currency,
	}

	sessionService := session.NewService(storageImpl, clients.FareAPI, cfg.Session.TTL, logger.With("component", "session"))
	fareService := fares.NewService(clients.FareAPI, defaults, logger.With("component", "fares"))

	stateManager := states.NewManager(defaults)

	loc, err := localization.NewService()
	if err != nil {
		return nil, errors.Wrap(err, "load translations")
	}

	s.Router = dashboard.NewRouter(
		sessionService,
		fareService,
		storageImpl,
		stateManager,
		loc,
		cfg.Web.CookieSecure,
		logger.With("component", "dashboard"),
	)

	sweeper := sessionsweep.NewWorker(
		storageImpl,
		stateManager,
		cfg.Session.SweepSchedule,
		cfg.Session.TTL,
		logger.With("component", "sessionsweep"),
	)
	s.WorkerManager = workers.NewManager(logger.With("component", "workers"), sweeper)

	return &s, nil
}
