package components

import (
	repo_impl "pawmarket/internal/infra/repository"
	"pawmarket/internal/usecase/commands"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewRepositoryDB,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewServiceRepository,
			fx.As(new(commands.ServiceRepository)),
		),
		fx.Annotate(
			repo_impl.NewProviderRepository,
			fx.As(new(commands.ProviderRepository)),
		),
		fx.Annotate(
			repo_impl.NewPetRepository,
			fx.As(new(commands.PetRepository)),
		),
	),
)

func NewRepositoryDB(pool *pgxpool.Pool) repo_impl.DB {
	return pool
}
