package components

import (
	"time"

	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/pkg/clock"
	"clinic-parking/internal/pkg/config"
	"clinic-parking/internal/pkg/exttoken"
	"clinic-parking/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		func(pool *pgxpool.Pool) db.Pool { return pool },
		func(cfg config.Config) (*time.Location, error) {
			return time.LoadLocation(cfg.Server.Timezone)
		},
		usecase.NewOpConfigProvider,
		usecase.NewCheckinCommands,
		usecase.NewReconcileCommands,
		usecase.NewExtendCommands,
		usecase.NewAdminCommands,
		usecase.NewAuthCommands,
		usecase.NewLotQueries,
		func(
			sessionRepo usecase.SessionRepository,
			notifier usecase.Notifier,
			tokens *exttoken.Service,
			cfg config.Config,
			pool db.Pool,
			clk clock.Clock,
			loc *time.Location,
		) usecase.NotifyCommands {
			return usecase.NewNotifyCommands(sessionRepo, notifier, tokens, cfg.Notify, cfg.Server.BaseURL, pool, clk, loc)
		},
	),
)
