package usecase

import (
	"context"
	"sync/atomic"

	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase/commands"
	"pawmarket/internal/usecase/queries"

	"github.com/google/uuid"
)

type Step string

const (
	StepSelecting Step = "selecting"
	StepCart      Step = "cart"
	StepCheckout  Step = "checkout"
	StepConfirmed Step = "confirmed"
)

// ReservationDraft is the ephemeral, client-held state of an in-progress
// reservation. It is a plain serializable value; every transition returns a
// new draft instead of mutating in place. The draft carries no price, since
// the price is recomputed from the current service record at submission.
type ReservationDraft struct {
	CustomerID uuid.UUID             `json:"customer_id"`
	ServiceID  uuid.UUID             `json:"service_id"`
	ProviderID uuid.UUID             `json:"provider_id"`
	Date       schedule.CalendarDate `json:"date"`
	Slot       schedule.TimeSlot     `json:"slot"`
	PetIDs     []uuid.UUID           `json:"pet_ids"`
	Note       string                `json:"note,omitempty"`
	Step       Step                  `json:"step"`
}

// NewDraft starts a flow when a customer picks a service.
func NewDraft(customerID, serviceID uuid.UUID) ReservationDraft {
	return ReservationDraft{
		CustomerID: customerID,
		ServiceID:  serviceID,
		Step:       StepSelecting,
	}
}

// WithSelection records the chosen provider, date and slot while selecting.
func (d ReservationDraft) WithSelection(providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) ReservationDraft {
	d.ProviderID = providerID
	d.Date = date
	d.Slot = slot
	return d
}

// AddPet appends a pet preserving addition order; duplicates are ignored.
func (d ReservationDraft) AddPet(petID uuid.UUID) ReservationDraft {
	for _, id := range d.PetIDs {
		if id == petID {
			return d
		}
	}
	d.PetIDs = append(append([]uuid.UUID(nil), d.PetIDs...), petID)
	return d
}

// RemovePet drops a pet from the selection. Removing the last remaining pet
// while in cart or checkout is rejected and the selection stays unchanged.
func (d ReservationDraft) RemovePet(petID uuid.UUID) (ReservationDraft, error) {
	idx := -1
	for i, id := range d.PetIDs {
		if id == petID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, nil
	}
	if len(d.PetIDs) == 1 && (d.Step == StepCart || d.Step == StepCheckout) {
		return d, errs.ErrLastPetRemoval
	}
	pets := make([]uuid.UUID, 0, len(d.PetIDs)-1)
	pets = append(pets, d.PetIDs[:idx]...)
	pets = append(pets, d.PetIDs[idx+1:]...)
	d.PetIDs = pets
	return d, nil
}

// BackToCart is the checkout → cart edit edge.
func (d ReservationDraft) BackToCart() (ReservationDraft, error) {
	if d.Step != StepCheckout {
		return d, errs.ErrInvalidStep
	}
	d.Step = StepCart
	return d, nil
}

// BackToSelecting is the cart → selecting edit edge.
func (d ReservationDraft) BackToSelecting() (ReservationDraft, error) {
	if d.Step != StepCart {
		return d, errs.ErrInvalidStep
	}
	d.Step = StepSelecting
	return d, nil
}

// ReservationFlow drives a draft through selecting → cart → checkout →
// confirmed. One flow instance belongs to one draft; the instance holds the
// single in-flight submission guard.
type ReservationFlow struct {
	services     commands.ServiceRepository
	providers    commands.ProviderRepository
	pets         commands.PetRepository
	availability queries.AvailabilityQueries
	bookings     commands.BookingCommands
	ledger       queries.BookingQueries

	submitting atomic.Bool
}

func NewReservationFlow(
	services commands.ServiceRepository,
	providers commands.ProviderRepository,
	pets commands.PetRepository,
	availability queries.AvailabilityQueries,
	bookings commands.BookingCommands,
	ledger queries.BookingQueries,
) *ReservationFlow {
	return &ReservationFlow{
		services:     services,
		providers:    providers,
		pets:         pets,
		availability: availability,
		bookings:     bookings,
		ledger:       ledger,
	}
}

// ToCart validates the selection and advances selecting → cart. A service or
// provider that no longer resolves aborts the step and leaves the draft in
// selecting.
func (f *ReservationFlow) ToCart(ctx context.Context, d ReservationDraft) (ReservationDraft, error) {
	if d.Step != StepSelecting {
		return d, errs.ErrInvalidStep
	}
	if d.Date.IsZero() || d.Slot.DurationMinutes() == 0 || len(d.PetIDs) == 0 {
		return d, errs.ErrDomainValidation
	}

	svc, err := f.services.FindByID(ctx, d.ServiceID)
	if err != nil || !svc.Active {
		return d, markNotFound(err, errs.ErrServiceNotFound)
	}
	if svc.ProviderID != d.ProviderID {
		return d, errs.ErrServiceNotFound
	}
	if svc.MaxPets > 0 && len(d.PetIDs) > svc.MaxPets {
		return d, errs.ErrDomainValidation
	}

	prov, err := f.providers.FindByID(ctx, d.ProviderID)
	if err != nil || !prov.Active {
		return d, markNotFound(err, errs.ErrProviderNotFound)
	}

	owned, err := f.pets.ListByOwner(ctx, d.CustomerID)
	if err != nil {
		return d, errs.Mark(err, errs.ErrStorageFailure)
	}
	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, p := range owned {
		ownedSet[p.ID] = struct{}{}
	}
	for _, id := range d.PetIDs {
		if _, ok := ownedSet[id]; !ok {
			return d, errs.ErrPetNotFound
		}
	}

	d.Step = StepCart
	return d, nil
}

// ToCheckout re-validates that the chosen slot is still free before cart →
// checkout. The authoritative booking list may have changed since slots were
// first displayed; this is a best-effort early rejection, the store still
// decides the race at creation.
func (f *ReservationFlow) ToCheckout(ctx context.Context, d ReservationDraft) (ReservationDraft, error) {
	if d.Step != StepCart {
		return d, errs.ErrInvalidStep
	}

	slots, err := f.availability.ListSlots(ctx, d.ProviderID, d.ServiceID, d.Date)
	if err != nil {
		return d, err
	}
	for _, s := range slots {
		if s.Equal(d.Slot) {
			d.Step = StepCheckout
			return d, nil
		}
	}
	return d, errs.ErrSlotNoLongerAvailable
}

// Submit performs checkout → confirmed. On success the draft is spent and the
// new booking ID is returned; on any failure the caller's draft is unchanged
// so the user can retry. A second submission while one is outstanding is
// refused.
func (f *ReservationFlow) Submit(ctx context.Context, d ReservationDraft, paymentConfirmed bool) (uuid.UUID, error) {
	if d.Step != StepCheckout {
		return uuid.Nil, errs.ErrInvalidStep
	}
	if !f.submitting.CompareAndSwap(false, true) {
		return uuid.Nil, errs.ErrSubmissionInFlight
	}
	defer f.submitting.Store(false)

	var note *string
	if d.Note != "" {
		note = &d.Note
	}

	created, err := f.bookings.CreateBooking(ctx, commands.CreateBookingParams{
		CustomerID:       d.CustomerID,
		ServiceID:        d.ServiceID,
		PetIDs:           d.PetIDs,
		Date:             d.Date,
		Start:            d.Slot.Start(),
		Note:             note,
		PaymentConfirmed: paymentConfirmed,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID(), nil
}

// ExistingSubmission checks the ledger for a booking matching the draft.
// After an ambiguous submission failure (for example a timeout with no
// definitive outcome) this must be consulted before retrying Submit, so an
// already-accepted reservation is not duplicated.
func (f *ReservationFlow) ExistingSubmission(ctx context.Context, d ReservationDraft) (*queries.BookingView, error) {
	return f.ledger.FindByDraft(ctx, d.CustomerID, d.ProviderID, d.Date, d.Slot)
}

func markNotFound(err error, sentinel error) error {
	if err == nil {
		return sentinel
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, sentinel)
	}
	return errs.Mark(err, errs.ErrStorageFailure)
}
