package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProviderRepository struct {
	db DB
}

func NewProviderRepository(db DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commands.ProviderSnapshot, error) {
	query := `
		SELECT id, name, schedule, active
		FROM providers
		WHERE id = $1`

	var (
		prov        commands.ProviderSnapshot
		scheduleRaw []byte
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&prov.ID, &prov.Name, &scheduleRaw, &prov.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "provider not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find provider", err)
	}

	weekly, err := decodeSchedule(scheduleRaw)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode provider schedule", err)
	}
	prov.Schedule = weekly
	return &prov, nil
}

// intervalDoc is the JSONB shape of one opening-hours row, keyed under the
// lowercase weekday name ("monday" .. "sunday").
type intervalDoc struct {
	Start     schedule.LocalTime `json:"start"`
	End       schedule.LocalTime `json:"end"`
	Available bool               `json:"available"`
}

var weekdayKeys = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func decodeSchedule(raw []byte) (schedule.WeeklySchedule, error) {
	if len(raw) == 0 {
		return schedule.WeeklySchedule{}, nil
	}

	var doc map[string][]intervalDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return schedule.WeeklySchedule{}, err
	}

	days := make(map[time.Weekday][]schedule.Interval, len(doc))
	for key, rows := range doc {
		day, ok := weekdayKeys[key]
		if !ok {
			return schedule.WeeklySchedule{}, errors.New("unknown weekday key: " + key)
		}
		for _, row := range rows {
			interval, err := schedule.NewInterval(row.Start, row.End, row.Available)
			if err != nil {
				return schedule.WeeklySchedule{}, err
			}
			days[day] = append(days[day], interval)
		}
	}
	return schedule.NewWeeklySchedule(days)
}
