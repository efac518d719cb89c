package commands

import (
	"context"
	"errors"
	"log/slog"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	CustomerID uuid.UUID
	ServiceID  uuid.UUID
	PetIDs     []uuid.UUID
	Date       schedule.CalendarDate
	Start      schedule.LocalTime
	Note       *string
	// PaymentConfirmed is reported by the external payment collaborator;
	// when true the booking enters at confirmed instead of pending.
	PaymentConfirmed bool
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, params CreateBookingParams) (*booking.Booking, error)
	ConfirmBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*booking.Booking, error)
	CompleteBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

type bookingCommandsImpl struct {
	bookings  BookingRepository
	services  ServiceRepository
	providers ProviderRepository
	factory   *booking.Factory
	notifier  NotificationService
	clock     clock.Clock
}

func NewBookingCommands(
	bookings BookingRepository,
	services ServiceRepository,
	providers ProviderRepository,
	factory *booking.Factory,
	notifier NotificationService,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		bookings:  bookings,
		services:  services,
		providers: providers,
		factory:   factory,
		notifier:  notifier,
		clock:     clk,
	}
}

// CreateBooking derives the slot from the current service duration, verifies
// it is still generatable against the provider schedule and existing
// bookings, and then relies on the repository's atomic check-then-insert for
// the authoritative no-double-booking guarantee. The pre-check only improves
// error quality; two racing submissions are decided by the store.
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, params CreateBookingParams) (*booking.Booking, error) {
	svc, err := c.resolveService(ctx, params.ServiceID)
	if err != nil {
		return nil, err
	}

	prov, err := c.resolveProvider(ctx, svc.ProviderID)
	if err != nil {
		return nil, err
	}

	end, ok := params.Start.Add(svc.DurationMinutes)
	if !ok {
		return nil, errs.ErrSlotNoLongerAvailable
	}
	slot, err := schedule.NewTimeSlot(params.Start, end)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	busy, err := c.busySlots(ctx, prov.ID, params.Date)
	if err != nil {
		return nil, err
	}
	candidates := schedule.GenerateSlots(params.Date, svc.DurationMinutes, prov.Schedule, busy, c.clock.Now())
	if !containsSlot(candidates, slot) {
		return nil, errs.ErrSlotNoLongerAvailable
	}

	note := booking.NewNote("")
	if params.Note != nil {
		note = booking.NewNote(*params.Note)
	}

	entity, err := c.factory.CreateBooking(
		booking.ServiceSpec{
			ID:              svc.ID,
			ProviderID:      svc.ProviderID,
			PriceCents:      svc.PriceCents,
			DurationMinutes: svc.DurationMinutes,
			MaxPets:         svc.MaxPets,
			Active:          svc.Active,
		},
		params.CustomerID,
		params.PetIDs,
		params.Date,
		slot,
		note,
		params.PaymentConfirmed,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.bookings.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errs.ErrBookingConflict)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	// Notification is best-effort; the created booking is already durable.
	if notifyErr := c.notifier.BookingCreated(ctx, entity); notifyErr != nil {
		slog.Warn("booking created notification failed", "booking_id", entity.ID(), "error", notifyErr)
	}

	return entity, nil
}

func (c *bookingCommandsImpl) ConfirmBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return c.transition(ctx, id, func(b *booking.Booking) error {
		return b.Confirm(c.clock.Now())
	})
}

func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, id uuid.UUID, reason string) (*booking.Booking, error) {
	return c.transition(ctx, id, func(b *booking.Booking) error {
		return b.Cancel(reason, c.clock.Now())
	})
}

func (c *bookingCommandsImpl) CompleteBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return c.transition(ctx, id, func(b *booking.Booking) error {
		return b.Complete(c.clock.Now())
	})
}

func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	apply func(*booking.Booking) error,
) (*booking.Booking, error) {
	entity, err := c.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	if err := apply(entity); err != nil {
		if errors.Is(err, booking.ErrIllegalTransition) {
			return nil, errs.Mark(err, errs.ErrIllegalTransition)
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	if err := c.bookings.UpdateStatus(ctx, entity); err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}

	if notifyErr := c.notifier.BookingStatusChanged(ctx, entity); notifyErr != nil {
		slog.Warn("booking status notification failed", "booking_id", entity.ID(), "status", entity.Status(), "error", notifyErr)
	}

	return entity, nil
}

func (c *bookingCommandsImpl) resolveService(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error) {
	svc, err := c.services.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrServiceNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	if !svc.Active {
		// Deactivated upstream is indistinguishable from deleted for callers.
		return nil, errs.ErrServiceNotFound
	}
	return svc, nil
}

func (c *bookingCommandsImpl) resolveProvider(ctx context.Context, id uuid.UUID) (*ProviderSnapshot, error) {
	prov, err := c.providers.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrProviderNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	if !prov.Active {
		return nil, errs.ErrProviderNotFound
	}
	return prov, nil
}

func (c *bookingCommandsImpl) busySlots(ctx context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]schedule.TimeSlot, error) {
	existing, err := c.bookings.ListByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	var busy []schedule.TimeSlot
	for _, b := range existing {
		if !b.IsCancelled() {
			busy = append(busy, b.Slot())
		}
	}
	return busy, nil
}

func containsSlot(slots []schedule.TimeSlot, slot schedule.TimeSlot) bool {
	for _, s := range slots {
		if s.Equal(slot) {
			return true
		}
	}
	return false
}
