package queries

import (
	"context"

	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

// AvailabilityQueries re-derives bookable slots on demand from the provider's
// recurring schedule, the service duration and the current non-cancelled
// bookings.
//
// Schedule edits never invalidate stored bookings: existing bookings are
// grandfathered. A shrunk schedule only constrains new candidates; either
// party can still cancel a booking that no longer fits the open hours.
type AvailabilityQueries interface {
	ListSlots(ctx context.Context, providerID, serviceID uuid.UUID, date schedule.CalendarDate) ([]schedule.TimeSlot, error)
}

type availabilityQueriesImpl struct {
	bookings  commands.BookingRepository
	services  commands.ServiceRepository
	providers commands.ProviderRepository
	clock     clock.Clock
}

func NewAvailabilityQueries(
	bookings commands.BookingRepository,
	services commands.ServiceRepository,
	providers commands.ProviderRepository,
	clk clock.Clock,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		bookings:  bookings,
		services:  services,
		providers: providers,
		clock:     clk,
	}
}

func (q *availabilityQueriesImpl) ListSlots(ctx context.Context, providerID, serviceID uuid.UUID, date schedule.CalendarDate) ([]schedule.TimeSlot, error) {
	svc, err := q.services.FindByID(ctx, serviceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	if !svc.Active || svc.ProviderID != providerID {
		return nil, errs.ErrServiceNotFound
	}

	prov, err := q.providers.FindByID(ctx, providerID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrProviderNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	if !prov.Active {
		return nil, errs.ErrProviderNotFound
	}

	existing, err := q.bookings.ListByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	var busy []schedule.TimeSlot
	for _, b := range existing {
		if !b.IsCancelled() {
			busy = append(busy, b.Slot())
		}
	}

	// An empty result is a valid state ("no availability"), not an error.
	return schedule.GenerateSlots(date, svc.DurationMinutes, prov.Schedule, busy, q.clock.Now()), nil
}

// ToSlotViews renders slots for a given date into the read model shape.
func ToSlotViews(date schedule.CalendarDate, slots []schedule.TimeSlot) []SlotView {
	views := make([]SlotView, len(slots))
	for i, s := range slots {
		views[i] = SlotView{
			Date:  date.String(),
			Start: s.Start().String(),
			End:   s.End().String(),
		}
	}
	return views
}
