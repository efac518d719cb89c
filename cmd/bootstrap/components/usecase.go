package components

import (
	"log/slog"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/infra/notify"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/usecase/commands"
	"pawmarket/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	booking.NewFactory,
	fx.Annotate(
		func(logger *slog.Logger) *notify.SlogNotifier {
			return notify.NewSlogNotifier(logger)
		},
		fx.As(new(commands.NotificationService)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)
