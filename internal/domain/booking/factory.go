package booking

import (
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/pkg/clock"

	"github.com/google/uuid"
)

// ServiceSpec is the slice of a service the factory needs; the full service
// record lives with an external collaborator.
type ServiceSpec struct {
	ID              uuid.UUID
	ProviderID      uuid.UUID
	PriceCents      int64
	DurationMinutes int
	MaxPets         int
	Active          bool
}

type Factory struct {
	Clock clock.Clock
}

func NewFactory(clk clock.Clock) *Factory {
	return &Factory{Clock: clk}
}

// CreateBooking builds a new booking from the current service snapshot.
// Price is always recomputed here as unit price times pet count, never taken
// from a value cached earlier in the flow. The entity enters at pending, or
// at confirmed when payment already reported success.
func (f *Factory) CreateBooking(
	svc ServiceSpec,
	customerID uuid.UUID,
	petIDs []uuid.UUID,
	date schedule.CalendarDate,
	slot schedule.TimeSlot,
	note Note,
	paymentConfirmed bool,
) (*Booking, error) {
	if !svc.Active {
		return nil, ErrInactiveService
	}
	if slot.DurationMinutes() != svc.DurationMinutes {
		return nil, ErrSlotDurationMismatch
	}
	pets := dedupePets(petIDs)
	if svc.MaxPets > 0 && len(pets) > svc.MaxPets {
		return nil, ErrTooManyPets
	}

	unit, err := NewMoney(svc.PriceCents)
	if err != nil {
		return nil, ErrNegativePrice
	}

	status := StatusPending
	if paymentConfirmed {
		status = StatusConfirmed
	}

	return NewBooking(
		customerID,
		svc.ProviderID,
		svc.ID,
		pets,
		date,
		slot,
		unit.Mul(len(pets)),
		status,
		note,
		f.Clock.Now(),
	)
}
