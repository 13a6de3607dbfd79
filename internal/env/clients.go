package environment

import (
	"context"
	"log/slog"
	"time"

	"fare-dashboard/internal/config"
	"fare-dashboard/internal/infra/fareapi"
	"fare-dashboard/internal/infra/sqlite3"
)

type Clients struct {
	SQLiteDB *sqlite3.DB
	FareAPI  *fareapi.Client
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fareClient, err := fareapi.NewClient(cfg.FareAPI, logger.With("component", "fareapi"))
	if err != nil {
		return nil, err
	}

	return &Clients{
		SQLiteDB: sqliteDB,
		FareAPI:  fareClient,
	}, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	maxLifetimeStr := cfg.DB.MaxLifetime
	if maxLifetimeStr == "" {
		maxLifetimeStr = "5m"
	}
	maxLifetime, err := time.ParseDuration(maxLifetimeStr)
	if err != nil {
		return nil, err
	}

	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(maxLifetime),
	}

	return sqlite3.New(ctx, opts...)
}
