package memstore

import (
	"context"
	"sync"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"

	"github.com/google/uuid"
)

// BookingStore is an in-memory authoritative booking store. The conflict
// check and insert run under one lock, so at most one non-cancelled booking
// exists per provider, date and overlapping slot even under concurrent
// submissions. Reads are read-after-write consistent.
type BookingStore struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*booking.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{
		byID: make(map[uuid.UUID]*booking.Booking),
	}
}

func (s *BookingStore) Create(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.IsCancelled() {
			continue
		}
		if existing.ProviderID() == b.ProviderID() &&
			existing.Date().Equal(b.Date()) &&
			existing.Slot().Overlaps(b.Slot()) {
			return infra.WrapRepoErr(infra.KindConflict, "slot already booked", nil)
		}
	}

	s.byID[b.ID()] = clone(b)
	return nil
}

func (s *BookingStore) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return clone(b), nil
}

func (s *BookingStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.CustomerID() == customerID
	}), nil
}

func (s *BookingStore) ListByProvider(_ context.Context, providerID uuid.UUID) ([]*booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.ProviderID() == providerID
	}), nil
}

func (s *BookingStore) ListByProviderAndDate(_ context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]*booking.Booking, error) {
	return s.list(func(b *booking.Booking) bool {
		return b.ProviderID() == providerID && b.Date().Equal(date)
	}), nil
}

func (s *BookingStore) UpdateStatus(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[b.ID()]; !ok {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	s.byID[b.ID()] = clone(b)
	return nil
}

func (s *BookingStore) FindMatchingDraft(_ context.Context, customerID, providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) (*booking.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.byID {
		if b.IsCancelled() {
			continue
		}
		if b.CustomerID() == customerID &&
			b.ProviderID() == providerID &&
			b.Date().Equal(date) &&
			b.Slot().Equal(slot) {
			return clone(b), nil
		}
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "no booking matches draft", nil)
}

func (s *BookingStore) list(match func(*booking.Booking) bool) []*booking.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range s.byID {
		if match(b) {
			out = append(out, clone(b))
		}
	}
	return out
}

// clone keeps stored entities isolated from caller mutations.
func clone(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(
		b.ID(), b.CustomerID(), b.ProviderID(), b.ServiceID(),
		b.PetIDs(), b.Date(), b.Slot(), b.Price(), b.Status(),
		b.CancelReason(), b.Note(), b.CreatedAt(), b.UpdatedAt(),
	)
}
