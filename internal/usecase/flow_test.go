//go:build unit

package usecase_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra/memstore"
	"pawmarket/internal/infra/notify"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase"
	"pawmarket/internal/usecase/commands"
	"pawmarket/internal/usecase/queries"
	"pawmarket/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flowFixture struct {
	bookings  *memstore.BookingStore
	services  *memstore.ServiceStore
	providers *memstore.ProviderStore
	pets      *memstore.PetStore
	clock     *clock.MockClock
	commands  commands.BookingCommands
	ledger    queries.BookingQueries
	flow      *usecase.ReservationFlow

	customerID uuid.UUID
	providerID uuid.UUID
	serviceID  uuid.UUID
	petID      uuid.UUID
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()

	f := &flowFixture{
		bookings:  memstore.NewBookingStore(),
		services:  memstore.NewServiceStore(),
		providers: memstore.NewProviderStore(),
		pets:      memstore.NewPetStore(),
		clock:     clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)),

		customerID: uuid.New(),
		providerID: uuid.New(),
		serviceID:  uuid.New(),
		petID:      uuid.New(),
	}

	weekly := builder.NewScheduleBuilder().
		WithOpen(time.Monday, "09:00-12:00").
		MustBuild()

	f.services.Put(commands.ServiceSnapshot{
		ID:              f.serviceID,
		ProviderID:      f.providerID,
		Name:            "Full Grooming",
		PriceCents:      3500,
		DurationMinutes: 60,
		MaxPets:         2,
		Active:          true,
	})
	f.providers.Put(commands.ProviderSnapshot{
		ID:       f.providerID,
		Name:     "Happy Paws Salon",
		Schedule: weekly,
		Active:   true,
	})
	f.pets.Put(commands.PetSnapshot{ID: f.petID, OwnerID: f.customerID, Name: "Momo", Species: "dog"})

	f.rebuild(f.bookings)
	return f
}

// rebuild wires the usecases on top of the given booking repository, so a
// test can swap in an instrumented one.
func (f *flowFixture) rebuild(repo commands.BookingRepository) {
	notifier := notify.NewSlogNotifier(slog.Default())
	factory := booking.NewFactory(f.clock)

	cmds := commands.NewBookingCommands(repo, f.services, f.providers, factory, notifier, f.clock)
	availability := queries.NewAvailabilityQueries(repo, f.services, f.providers, f.clock)
	ledger := queries.NewBookingQueries(repo, f.services, f.providers, f.pets, f.clock)

	f.commands = cmds
	f.ledger = ledger
	f.flow = usecase.NewReservationFlow(f.services, f.providers, f.pets, availability, cmds, ledger)
}

// checkoutDraft walks a fresh draft to the checkout step.
func (f *flowFixture) checkoutDraft(t *testing.T) usecase.ReservationDraft {
	t.Helper()
	ctx := context.Background()

	d := usecase.NewDraft(f.customerID, f.serviceID).
		WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
		AddPet(f.petID)

	d, err := f.flow.ToCart(ctx, d)
	require.NoError(t, err)
	d, err = f.flow.ToCheckout(ctx, d)
	require.NoError(t, err)
	return d
}

func TestReservationFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("full walk from selection to confirmed booking", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		id, err := f.flow.Submit(ctx, d, false)
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		view, err := f.ledger.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "pending", view.Status)
		assert.Equal(t, int64(3500), view.PriceCents)
		assert.Equal(t, "2026-09-07", view.Date)
		assert.Equal(t, "09:00-10:00", view.Slot)
	})

	t.Run("adding the same pet twice keeps one entry", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).AddPet(f.petID).AddPet(f.petID)
		assert.Equal(t, []uuid.UUID{f.petID}, d.PetIDs)
	})

	t.Run("price reflects the service record at submission time", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		// Provider raises the price while the customer sits in checkout.
		svc, err := f.services.FindByID(ctx, f.serviceID)
		require.NoError(t, err)
		svc.PriceCents = 4200
		f.services.Put(*svc)

		id, err := f.flow.Submit(ctx, d, false)
		require.NoError(t, err)

		view, err := f.ledger.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, int64(4200), view.PriceCents)
	})

	t.Run("payment confirmed upfront lands at confirmed", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		id, err := f.flow.Submit(ctx, d, true)
		require.NoError(t, err)

		view, err := f.ledger.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "confirmed", view.Status)
	})
}

func TestFlowStepGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("cart requires a complete selection", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).AddPet(f.petID)

		_, err := f.flow.ToCart(ctx, d)
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("unknown service aborts and draft stays selecting", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, uuid.New()).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(f.petID)

		out, err := f.flow.ToCart(ctx, d)
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
		assert.Equal(t, usecase.StepSelecting, out.Step)
	})

	t.Run("pet owned by someone else is rejected", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(uuid.New())

		_, err := f.flow.ToCart(ctx, d)
		assert.ErrorIs(t, err, errs.ErrPetNotFound)
	})

	t.Run("pet count above the service limit is rejected", func(t *testing.T) {
		f := newFlowFixture(t)
		extra1, extra2 := uuid.New(), uuid.New()
		f.pets.Put(commands.PetSnapshot{ID: extra1, OwnerID: f.customerID, Name: "Hana", Species: "cat"})
		f.pets.Put(commands.PetSnapshot{ID: extra2, OwnerID: f.customerID, Name: "Kuro", Species: "dog"})

		d := usecase.NewDraft(f.customerID, f.serviceID).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(f.petID).AddPet(extra1).AddPet(extra2)

		_, err := f.flow.ToCart(ctx, d)
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("submit is only legal from checkout", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID)

		_, err := f.flow.Submit(ctx, d, false)
		assert.ErrorIs(t, err, errs.ErrInvalidStep)
	})

	t.Run("back edges retain the selection", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		d, err := d.BackToCart()
		require.NoError(t, err)
		assert.Equal(t, usecase.StepCart, d.Step)

		d, err = d.BackToSelecting()
		require.NoError(t, err)
		assert.Equal(t, usecase.StepSelecting, d.Step)
		assert.Equal(t, []uuid.UUID{f.petID}, d.PetIDs)
		assert.True(t, d.Slot.Equal(mustSlot("09:00-10:00")))

		_, err = d.BackToCart()
		assert.ErrorIs(t, err, errs.ErrInvalidStep)
	})
}

func TestRemovePet(t *testing.T) {
	ctx := context.Background()

	t.Run("removing the last pet in cart is rejected", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(f.petID)
		d, err := f.flow.ToCart(ctx, d)
		require.NoError(t, err)

		out, err := d.RemovePet(f.petID)
		assert.ErrorIs(t, err, errs.ErrLastPetRemoval)
		assert.Equal(t, []uuid.UUID{f.petID}, out.PetIDs)
		assert.Equal(t, usecase.StepCart, out.Step)
	})

	t.Run("removing a non-last pet is fine", func(t *testing.T) {
		f := newFlowFixture(t)
		other := uuid.New()
		f.pets.Put(commands.PetSnapshot{ID: other, OwnerID: f.customerID, Name: "Hana", Species: "cat"})

		d := usecase.NewDraft(f.customerID, f.serviceID).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(f.petID).AddPet(other)
		d, err := f.flow.ToCart(ctx, d)
		require.NoError(t, err)

		out, err := d.RemovePet(other)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{f.petID}, out.PetIDs)
	})

	t.Run("removing the last pet while selecting empties the draft", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).AddPet(f.petID)

		out, err := d.RemovePet(f.petID)
		require.NoError(t, err)
		assert.Empty(t, out.PetIDs)
	})
}

func TestSlotRaces(t *testing.T) {
	ctx := context.Background()

	t.Run("checkout fails when the slot was taken meanwhile", func(t *testing.T) {
		f := newFlowFixture(t)
		d := usecase.NewDraft(f.customerID, f.serviceID).
			WithSelection(f.providerID, mustDate("2026-09-07"), mustSlot("09:00-10:00")).
			AddPet(f.petID)
		d, err := f.flow.ToCart(ctx, d)
		require.NoError(t, err)

		taken, err := builder.NewBookingBuilder().
			WithProviderID(f.providerID).
			WithDate("2026-09-07").
			WithSlot("09:00-10:00").
			BuildDomain()
		require.NoError(t, err)
		require.NoError(t, f.bookings.Create(ctx, taken))

		_, err = f.flow.ToCheckout(ctx, d)
		assert.ErrorIs(t, err, errs.ErrSlotNoLongerAvailable)
	})

	t.Run("submit fails when the slot was taken after checkout", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		taken, err := builder.NewBookingBuilder().
			WithProviderID(f.providerID).
			WithDate("2026-09-07").
			WithSlot("09:00-10:00").
			BuildDomain()
		require.NoError(t, err)
		require.NoError(t, f.bookings.Create(ctx, taken))

		_, err = f.flow.Submit(ctx, d, false)
		assert.ErrorIs(t, err, errs.ErrSlotNoLongerAvailable)
	})

	t.Run("second submit while one is outstanding is refused", func(t *testing.T) {
		f := newFlowFixture(t)
		gate := newGatedRepository(f.bookings)
		f.rebuild(gate)

		d := f.checkoutDraft(t)

		firstResult := make(chan error, 1)
		go func() {
			_, err := f.flow.Submit(ctx, d, false)
			firstResult <- err
		}()

		<-gate.entered
		_, err := f.flow.Submit(ctx, d, false)
		assert.ErrorIs(t, err, errs.ErrSubmissionInFlight)

		close(gate.release)
		require.NoError(t, <-firstResult)
	})
}

func TestExistingSubmission(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the booking created from this draft", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		id, err := f.flow.Submit(ctx, d, false)
		require.NoError(t, err)

		view, err := f.flow.ExistingSubmission(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, id, view.ID)
	})

	t.Run("reports not found for an unsubmitted draft", func(t *testing.T) {
		f := newFlowFixture(t)
		d := f.checkoutDraft(t)

		_, err := f.flow.ExistingSubmission(ctx, d)
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

func mustDate(s string) schedule.CalendarDate {
	d, err := schedule.ParseCalendarDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustSlot(s string) schedule.TimeSlot {
	slot, err := schedule.ParseTimeSlot(s)
	if err != nil {
		panic(err)
	}
	return slot
}

// gatedRepository blocks Create until released, to hold a submission open.
type gatedRepository struct {
	commands.BookingRepository
	entered chan struct{}
	release chan struct{}
}

func newGatedRepository(inner commands.BookingRepository) *gatedRepository {
	return &gatedRepository{
		BookingRepository: inner,
		entered:           make(chan struct{}, 1),
		release:           make(chan struct{}),
	}
}

func (g *gatedRepository) Create(ctx context.Context, b *booking.Booking) error {
	g.entered <- struct{}{}
	<-g.release
	return g.BookingRepository.Create(ctx, b)
}
