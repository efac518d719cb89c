package repository

import (
	"context"
	"errors"

	"pawmarket/internal/infra"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ServiceRepository struct {
	db DB
}

func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.ServiceSnapshot, error) {
	query := `
		SELECT id, provider_id, name, price_cents, duration_minutes, max_pets, active
		FROM services
		WHERE id = $1`

	var svc commands.ServiceSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&svc.ID, &svc.ProviderID, &svc.Name,
		&svc.PriceCents, &svc.DurationMinutes, &svc.MaxPets, &svc.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "service not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find service", err)
	}
	return &svc, nil
}
