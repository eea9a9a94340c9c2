package environments

import (
	"github.com/goava/di"

	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/config"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/server"
	"github.com/hirewire/control-tower/pkg/services/sentry"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
)

func ConfigProviders() di.Option {
	return di.Options(
		di.Provide(func(env *Env) config.EnvName {
			return config.EnvName(env.Name)
		}),

		// Add the env types
		di.Provide(newDevelopmentEnvLoader, di.Tags{"env": DevelopmentEnv}),
		di.Provide(newTestingEnvLoader, di.Tags{"env": TestingEnv}),
		di.Provide(newProductionEnvLoader, di.Tags{"env": ProductionEnv}),

		// Add config types
		di.Provide(server.NewServerConfig, di.As(new(ConfigModule))),
		di.Provide(server.NewMetricsConfig, di.As(new(ConfigModule))),
		di.Provide(server.NewHealthCheckConfig, di.As(new(ConfigModule))),
		di.Provide(db.NewDatabaseConfig, di.As(new(ConfigModule))),
		di.Provide(config.NewSentryConfig, di.As(new(ConfigModule))),

		di.ProvideValue(AfterCreateServicesHook{
			Func: sentry.Initialize,
		}),

		di.Provide(Func(CoreServiceProviders)),
	)
}

func CoreServiceProviders() di.Option {
	return di.Options(

		// provide the service constructors
		di.Provide(db.NewConnectionFactory),
		di.Provide(signalbus.NewSignalBusMemory),
		di.Provide(auth.NewAuthMiddleware),

		// Types registered as a BootService are started when the env is started
		di.Provide(server.NewAPIServer, di.As(new(BootService))),
		di.Provide(server.NewMetricsServer, di.As(new(BootService))),
		di.Provide(server.NewHealthCheckServer, di.As(new(BootService))),
	)
}
