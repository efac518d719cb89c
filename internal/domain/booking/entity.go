package booking

import (
	"errors"
	"time"

	"pawmarket/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrNoPets               = errors.New("booking must reference at least one pet")
	ErrTooManyPets          = errors.New("too many pets for this service")
	ErrSlotDurationMismatch = errors.New("slot duration does not match service duration")
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrIllegalTransition    = errors.New("illegal status transition")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInactiveService      = errors.New("service is not active")
)

// DefaultCancelReason is recorded when a caller cancels without giving one;
// a cancellation is never stored with a blank reason.
const DefaultCancelReason = "cancelled without a stated reason"

// Booking is the reservation entity. It is never physically deleted;
// cancellation is a status so history and audit queries keep working.
type Booking struct {
	id           uuid.UUID
	customerID   uuid.UUID
	providerID   uuid.UUID
	serviceID    uuid.UUID
	petIDs       []uuid.UUID
	date         schedule.CalendarDate
	slot         schedule.TimeSlot
	price        Money
	status       Status
	cancelReason string
	note         Note
	createdAt    time.Time
	updatedAt    time.Time
}

func NewBooking(
	customerID, providerID, serviceID uuid.UUID,
	petIDs []uuid.UUID,
	date schedule.CalendarDate,
	slot schedule.TimeSlot,
	price Money,
	status Status,
	note Note,
	now time.Time,
) (*Booking, error) {
	pets := dedupePets(petIDs)
	if len(pets) == 0 {
		return nil, ErrNoPets
	}
	if status != StatusPending && status != StatusConfirmed {
		return nil, ErrInvalidStatus
	}

	return &Booking{
		id:         uuid.New(),
		customerID: customerID,
		providerID: providerID,
		serviceID:  serviceID,
		petIDs:     pets,
		date:       date,
		slot:       slot,
		price:      price,
		status:     status,
		note:       note,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructBooking(
	id, customerID, providerID, serviceID uuid.UUID,
	petIDs []uuid.UUID,
	date schedule.CalendarDate,
	slot schedule.TimeSlot,
	price Money,
	status Status,
	cancelReason string,
	note Note,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		customerID:   customerID,
		providerID:   providerID,
		serviceID:    serviceID,
		petIDs:       append([]uuid.UUID(nil), petIDs...),
		date:         date,
		slot:         slot,
		price:        price,
		status:       status,
		cancelReason: cancelReason,
		note:         note,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Confirm moves a pending booking to confirmed (payment reported success).
func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusPending {
		return ErrIllegalTransition
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// Cancel is legal only from pending or confirmed. An omitted reason falls
// back to DefaultCancelReason rather than being stored blank.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !b.status.CanCancel() {
		return ErrIllegalTransition
	}
	if reason == "" {
		reason = DefaultCancelReason
	}
	b.status = StatusCancelled
	b.cancelReason = reason
	b.updatedAt = now
	return nil
}

// Complete is driven by an external scheduler once the service date has
// passed; it is rejected from the terminal states.
func (b *Booking) Complete(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrIllegalTransition
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// StartsAt composes (date, slot.start) into a single comparable instant for
// cross-date ordering and past/future windowing.
func (b *Booking) StartsAt() time.Time {
	return b.date.At(b.slot.Start())
}

func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) CustomerID() uuid.UUID       { return b.customerID }
func (b *Booking) ProviderID() uuid.UUID       { return b.providerID }
func (b *Booking) ServiceID() uuid.UUID        { return b.serviceID }
func (b *Booking) Date() schedule.CalendarDate { return b.date }
func (b *Booking) Slot() schedule.TimeSlot     { return b.slot }
func (b *Booking) Price() Money                { return b.price }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) CancelReason() string        { return b.cancelReason }
func (b *Booking) Note() Note                  { return b.note }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }

func (b *Booking) PetIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), b.petIDs...)
}

func (b *Booking) HasPet(petID uuid.UUID) bool {
	for _, id := range b.petIDs {
		if id == petID {
			return true
		}
	}
	return false
}

func dedupePets(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
