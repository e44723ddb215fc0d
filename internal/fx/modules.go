package fx

import (
	"mkworld-overlay/internal/api"
	"mkworld-overlay/internal/cache"
	"mkworld-overlay/internal/config"
	"mkworld-overlay/internal/database"
	"mkworld-overlay/internal/logger"
	"mkworld-overlay/internal/metrics"
	"mkworld-overlay/internal/repository"
	"mkworld-overlay/internal/server"
	"mkworld-overlay/internal/service"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func ProvideRegistry() (*prometheus.Registry, prometheus.Registerer, prometheus.Gatherer) {
	reg := metrics.NewRegistry()
	return reg, reg, reg
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(clockwork.NewRealClock),
	// metrics
	fx.Provide(ProvideRegistry),
	fx.Provide(metrics.New),
	// storage
	fx.Provide(database.New),
	fx.Provide(
		fx.Annotate(repository.NewMMRHistoryRepository, fx.As(new(service.HistoryStore))),
	),
	fx.Provide(cache.NewFromConfig),
	// api client
	fx.Provide(
		fx.Annotate(api.NewLoungeClient, fx.As(new(service.PlayerFetcher))),
	),
	// svc
	fx.Provide(
		fx.Annotate(service.NewPlayerService, fx.As(new(server.PlayerProvider))),
	),
	// server
	fx.Provide(server.NewPlayerHandler),
	fx.Provide(server.NewRouter),
)
