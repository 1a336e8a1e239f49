package bootstrap

import (
	"clinic-parking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	components.GatewayModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
	CronModule,
)
