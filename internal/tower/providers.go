package tower

import (
	"github.com/goava/di"

	"github.com/hirewire/control-tower/internal/tower/internal/config"
	"github.com/hirewire/control-tower/internal/tower/internal/handlers"
	"github.com/hirewire/control-tower/internal/tower/internal/routes"
	"github.com/hirewire/control-tower/internal/tower/internal/services"
	"github.com/hirewire/control-tower/internal/tower/internal/workers"
	"github.com/hirewire/control-tower/pkg/environments"
)

func ConfigProviders() di.Option {
	return di.Options(
		di.Provide(config.NewConnectorCatalogConfig, di.As(new(environments.ConfigModule))),
		di.Provide(environments.Func(ServiceProviders)),
	)
}

func ServiceProviders() di.Option {
	return di.Options(

		// provide the service constructors
		di.Provide(services.NewKeyLock),
		di.Provide(services.NewConnectorsService, di.As(new(services.ConnectorsService))),
		di.Provide(services.NewIncidentsService, di.As(new(services.IncidentsService))),
		di.Provide(services.NewAuditService, di.As(new(services.AuditService))),
		di.Provide(services.NewSyncOrchestrator, di.As(new(services.SyncOrchestrator))),
		di.Provide(services.NewTowerService, di.As(new(services.TowerService))),

		di.Provide(handlers.NewTowerHandler),
		di.Provide(routes.NewRouteLoader),

		// Types registered as a BootService are started when the env is started
		di.Provide(workers.NewSyncManager, di.As(new(environments.BootService))),
	)
}
