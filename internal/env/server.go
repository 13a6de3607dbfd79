package environment

import (
	"context"
	"log/slog"
	"net/http"

	"fare-dashboard/internal/config"
)

type Servers struct {
	HTTP struct {
		Observability *http.Server
		Web           *http.Server
	}
}

func newServers(ctx context.Context, cfg config.Config, logger *slog.Logger, clients *Clients, services *Services) *Servers {
	var servers Servers

	servers.HTTP.Web = &http.Server{
		Addr:              cfg.Web.ADDR(),
		Handler:           services.Router.Routes(),
		ReadTimeout:       cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
		IdleTimeout:       cfg.Web.IdleTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
	}
	servers.HTTP.Observability = initObservability(ctx, logger.WithGroup("http"), clients, cfg)

	return &servers
}
