package commands

import (
	"context"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"

	"github.com/google/uuid"
)

// Snapshots are read models of the external collaborators (service catalog,
// provider directory, pet registry); the booking core never owns those
// records.

type ServiceSnapshot struct {
	ID              uuid.UUID
	ProviderID      uuid.UUID
	Name            string
	PriceCents      int64
	DurationMinutes int
	MaxPets         int
	Active          bool
}

type ProviderSnapshot struct {
	ID       uuid.UUID
	Name     string
	Schedule schedule.WeeklySchedule
	Active   bool
}

type PetSnapshot struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Species string
}

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ServiceSnapshot, error)
}

type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProviderSnapshot, error)
}

type PetRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]PetSnapshot, error)
}

// BookingRepository is the authoritative booking store. Create must enforce
// at-most-one non-cancelled booking per (provider, date, overlapping slot)
// atomically and report violations as a conflict-kind repository error.
type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*booking.Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*booking.Booking, error)
	ListByProviderAndDate(ctx context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]*booking.Booking, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	// FindMatchingDraft locates a non-cancelled booking with the same
	// customer, provider, date and slot. Used to resolve ambiguous
	// submission failures before any retry.
	FindMatchingDraft(ctx context.Context, customerID, providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) (*booking.Booking, error)
}

// NotificationService is best-effort: failures are logged and never revert
// the booking they follow.
type NotificationService interface {
	BookingCreated(ctx context.Context, b *booking.Booking) error
	BookingStatusChanged(ctx context.Context, b *booking.Booking) error
}
