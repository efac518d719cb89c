package queries

import (
	"context"
	"log/slog"
	"sort"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, filter BookingFilter) ([]*BookingView, error)
	ListForProvider(ctx context.Context, providerID uuid.UUID, filter BookingFilter) ([]*BookingView, error)
	// BookingsOnDate groups by exact calendar-date equality, ordered by slot
	// start; used for calendar day cells and day-detail lists.
	BookingsOnDate(ctx context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]*BookingView, error)
	// FindByDraft resolves ambiguous submission failures: it reports whether a
	// non-cancelled booking matching the draft's identity already exists.
	FindByDraft(ctx context.Context, customerID, providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) (*BookingView, error)
}

type bookingQueriesImpl struct {
	bookings  commands.BookingRepository
	services  commands.ServiceRepository
	providers commands.ProviderRepository
	pets      commands.PetRepository
	clock     clock.Clock
}

func NewBookingQueries(
	bookings commands.BookingRepository,
	services commands.ServiceRepository,
	providers commands.ProviderRepository,
	pets commands.PetRepository,
	clk clock.Clock,
) BookingQueries {
	return &bookingQueriesImpl{
		bookings:  bookings,
		services:  services,
		providers: providers,
		pets:      pets,
		clock:     clk,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	entity, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	return q.toView(ctx, entity), nil
}

func (q *bookingQueriesImpl) ListForCustomer(ctx context.Context, customerID uuid.UUID, filter BookingFilter) ([]*BookingView, error) {
	rows, err := q.bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	return q.filterAndJoin(ctx, rows, filter), nil
}

func (q *bookingQueriesImpl) ListForProvider(ctx context.Context, providerID uuid.UUID, filter BookingFilter) ([]*BookingView, error) {
	rows, err := q.bookings.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	return q.filterAndJoin(ctx, rows, filter), nil
}

func (q *bookingQueriesImpl) BookingsOnDate(ctx context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]*BookingView, error) {
	rows, err := q.bookings.ListByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Slot().Start().Before(rows[j].Slot().Start())
	})
	views := make([]*BookingView, len(rows))
	for i, b := range rows {
		views[i] = q.toView(ctx, b)
	}
	return views, nil
}

func (q *bookingQueriesImpl) FindByDraft(ctx context.Context, customerID, providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) (*BookingView, error) {
	entity, err := q.bookings.FindMatchingDraft(ctx, customerID, providerID, date, slot)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrStorageFailure)
	}
	return q.toView(ctx, entity), nil
}

// filterAndJoin applies the AND-composed filter and returns views newest
// first by the composed (date, slot.start) instant, then by creation time.
func (q *bookingQueriesImpl) filterAndJoin(ctx context.Context, rows []*booking.Booking, filter BookingFilter) []*BookingView {
	now := q.clock.Now()

	matched := rows[:0:0]
	for _, b := range rows {
		if filter.PetID != nil && !b.HasPet(*filter.PetID) {
			continue
		}
		if filter.Status != nil && b.Status() != *filter.Status {
			continue
		}
		switch filter.Window {
		case WindowPast:
			if !b.StartsAt().Before(now) {
				continue
			}
		case WindowFuture:
			if b.StartsAt().Before(now) {
				continue
			}
		}
		matched = append(matched, b)
	}

	sort.Slice(matched, func(i, j int) bool {
		si, sj := matched[i].StartsAt(), matched[j].StartsAt()
		if !si.Equal(sj) {
			return si.After(sj)
		}
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	views := make([]*BookingView, len(matched))
	for i, b := range matched {
		views[i] = q.toView(ctx, b)
	}
	return views
}

func (q *bookingQueriesImpl) toView(ctx context.Context, b *booking.Booking) *BookingView {
	view := &BookingView{
		ID:         b.ID(),
		CustomerID: b.CustomerID(),
		ProviderID: b.ProviderID(),
		ServiceID:  b.ServiceID(),
		PetIDs:     b.PetIDs(),
		Date:       b.Date().String(),
		Slot:       b.Slot().String(),
		PriceCents: b.Price().Cents(),
		Status:     b.Status().String(),
		CreatedAt:  b.CreatedAt(),
		UpdatedAt:  b.UpdatedAt(),
	}
	if reason := b.CancelReason(); reason != "" {
		view.CancelReason = &reason
	}
	if note := b.Note(); !note.IsEmpty() {
		s := note.String()
		view.Note = &s
	}

	// Joins are tolerant: a record deleted upstream leaves its name blank in
	// the view instead of failing the whole query.
	if svc, err := q.services.FindByID(ctx, b.ServiceID()); err == nil {
		view.ServiceName = svc.Name
	} else {
		slog.Warn("booking view: service did not resolve", "service_id", b.ServiceID(), "error", err)
	}
	if prov, err := q.providers.FindByID(ctx, b.ProviderID()); err == nil {
		view.ProviderName = prov.Name
	} else {
		slog.Warn("booking view: provider did not resolve", "provider_id", b.ProviderID(), "error", err)
	}
	if pets, err := q.pets.ListByOwner(ctx, b.CustomerID()); err == nil {
		byID := make(map[uuid.UUID]string, len(pets))
		for _, p := range pets {
			byID[p.ID] = p.Name
		}
		for _, id := range b.PetIDs() {
			if name, ok := byID[id]; ok {
				view.PetNames = append(view.PetNames, name)
			}
		}
	}
	return view
}
