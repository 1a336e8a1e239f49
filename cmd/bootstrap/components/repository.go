package components

import (
	repo_impl "clinic-parking/internal/infra/repository"
	"clinic-parking/internal/usecase"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewSpotRepository,
			fx.As(new(usecase.SpotRepository)),
		),
		fx.Annotate(
			repo_impl.NewVehicleRepository,
			fx.As(new(usecase.VehicleRepository)),
		),
		fx.Annotate(
			repo_impl.NewPermitRepository,
			fx.As(new(usecase.PermitRepository)),
		),
		fx.Annotate(
			repo_impl.NewSessionRepository,
			fx.As(new(usecase.SessionRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(usecase.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewConfigRepository,
			fx.As(new(usecase.ConfigRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(usecase.UserRepository)),
		),
	),
)
