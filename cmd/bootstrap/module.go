package bootstrap

import (
	"shop-order-scheduler/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule wires everything except config and the HTTP engine so tests can
// supply their own.
var CoreModule = fx.Options(
	LoggerModule,
	JWTModule,
	JournalModule,
	components.StoreModule,
	components.MessagingModule,
	components.UseCaseModule,
	components.HandlerModule,
)

var Module = fx.Options(
	ConfigModule,
	CoreModule,
)
