package components

import (
	"clinic-parking/internal/handler"
	"clinic-parking/internal/handler/api"
	"clinic-parking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCheckinHandler,
		api.NewWebhookHandler,
		api.NewExtendHandler,
		api.NewCronHandler,
		api.NewAdminHandler,
		api.NewAuthHandler,
		api.NewStatusHandler,
		middleware.NewAuthMiddleware,
		func(
			checkin *api.CheckinHandler,
			webhook *api.WebhookHandler,
			extend *api.ExtendHandler,
			cron *api.CronHandler,
			admin *api.AdminHandler,
			auth *api.AuthHandler,
			status *api.StatusHandler,
		) handler.Handlers {
			return handler.Handlers{
				Checkin: checkin,
				Webhook: webhook,
				Extend:  extend,
				Cron:    cron,
				Admin:   admin,
				Auth:    auth,
				Status:  status,
			}
		},
	),
	fx.Invoke(handler.NewRouter),
)
