package repository

import (
	"context"

	"pawmarket/internal/infra"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

type PetRepository struct {
	db DB
}

func NewPetRepository(db DB) *PetRepository {
	return &PetRepository{db: db}
}

func (r *PetRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]commands.PetSnapshot, error) {
	query := `
		SELECT id, owner_id, name, species
		FROM pets
		WHERE owner_id = $1
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list pets", err)
	}
	defer rows.Close()

	var out []commands.PetSnapshot
	for rows.Next() {
		var pet commands.PetSnapshot
		if err := rows.Scan(&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan pet row", err)
		}
		out = append(out, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate pet rows", err)
	}
	return out, nil
}
