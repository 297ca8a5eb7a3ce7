package components

import (
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/usecase"
	"mcdee-marketplace/internal/usecase/commands"
	"mcdee-marketplace/internal/usecase/queries"
	"mcdee-marketplace/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewKYCCommands,
		commands.NewListingCommands,
		commands.NewBookingCommands,
		commands.NewProductCommands,
		commands.NewCartCommands,
		commands.NewOrderCommands,
		commands.NewServiceCommands,
		commands.NewClientErrorCommands,
		NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewKYCQueries,
		queries.NewAdminQueries,
		queries.NewListingQueries,
		queries.NewBookingQueries,
		queries.NewProductQueries,
		queries.NewCartQueries,
		queries.NewOrderQueries,
		queries.NewServiceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewPaymentCommands(
	uow shared.UnitOfWork,
	gateway shared.PaymentGateway,
	locker shared.Locker,
	users queries.UserReadStore,
	cfg config.Config,
	clk clock.Clock,
) commands.PaymentCommands {
	return commands.NewPaymentCommands(uow, gateway, locker, users, cfg.Payment, clk)
}
