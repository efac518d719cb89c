//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"
	"pawmarket/internal/infra/memstore"
	"pawmarket/internal/infra/notify"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase/commands"
	"pawmarket/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandFixture struct {
	bookings   *memstore.BookingStore
	services   *memstore.ServiceStore
	providers  *memstore.ProviderStore
	clock      *clock.MockClock
	commands   commands.BookingCommands
	customerID uuid.UUID
	providerID uuid.UUID
	serviceID  uuid.UUID
	petID      uuid.UUID
}

func newCommandFixture(t *testing.T, repo commands.BookingRepository) *commandFixture {
	t.Helper()

	f := &commandFixture{
		bookings:   memstore.NewBookingStore(),
		services:   memstore.NewServiceStore(),
		providers:  memstore.NewProviderStore(),
		clock:      clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)),
		customerID: uuid.New(),
		providerID: uuid.New(),
		serviceID:  uuid.New(),
		petID:      uuid.New(),
	}
	if repo == nil {
		repo = f.bookings
	}

	f.services.Put(commands.ServiceSnapshot{
		ID:              f.serviceID,
		ProviderID:      f.providerID,
		Name:            "Full Grooming",
		PriceCents:      3500,
		DurationMinutes: 60,
		Active:          true,
	})
	f.providers.Put(commands.ProviderSnapshot{
		ID:     f.providerID,
		Name:   "Happy Paws Salon",
		Active: true,
		Schedule: builder.NewScheduleBuilder().
			WithOpen(time.Monday, "09:00-12:00").
			MustBuild(),
	})

	factory := booking.NewFactory(f.clock)
	notifier := notify.NewSlogNotifier(slog.Default())
	f.commands = commands.NewBookingCommands(repo, f.services, f.providers, factory, notifier, f.clock)
	return f
}

func (f *commandFixture) params() commands.CreateBookingParams {
	date, _ := schedule.ParseCalendarDate("2026-09-07")
	start, _ := schedule.NewLocalTime(9, 0)
	return commands.CreateBookingParams{
		CustomerID: f.customerID,
		ServiceID:  f.serviceID,
		PetIDs:     []uuid.UUID{f.petID},
		Date:       date,
		Start:      start,
	}
}

func TestCreateBookingCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("derives the slot end from the service duration", func(t *testing.T) {
		f := newCommandFixture(t, nil)

		created, err := f.commands.CreateBooking(ctx, f.params())
		require.NoError(t, err)

		assert.Equal(t, "09:00-10:00", created.Slot().String())
		assert.Equal(t, booking.StatusPending, created.Status())
		assert.Equal(t, int64(3500), created.Price().Cents())
		assert.Equal(t, f.providerID, created.ProviderID())

		stored, err := f.bookings.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, created.ID(), stored.ID())
	})

	t.Run("unknown service", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		params := f.params()
		params.ServiceID = uuid.New()

		_, err := f.commands.CreateBooking(ctx, params)
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
	})

	t.Run("deactivated service looks deleted to callers", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		svc, err := f.services.FindByID(ctx, f.serviceID)
		require.NoError(t, err)
		svc.Active = false
		f.services.Put(*svc)

		_, err = f.commands.CreateBooking(ctx, f.params())
		assert.ErrorIs(t, err, errs.ErrServiceNotFound)
	})

	t.Run("start not on the generated grid", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		params := f.params()
		params.Start, _ = schedule.NewLocalTime(9, 30)

		_, err := f.commands.CreateBooking(ctx, params)
		assert.ErrorIs(t, err, errs.ErrSlotNoLongerAvailable)
	})

	t.Run("slot already booked", func(t *testing.T) {
		f := newCommandFixture(t, nil)

		_, err := f.commands.CreateBooking(ctx, f.params())
		require.NoError(t, err)

		params := f.params()
		params.CustomerID = uuid.New()
		_, err = f.commands.CreateBooking(ctx, params)
		assert.ErrorIs(t, err, errs.ErrSlotNoLongerAvailable)
	})

	t.Run("store conflict maps onto the booking conflict error", func(t *testing.T) {
		f := newCommandFixture(t, conflictingRepository{})

		_, err := f.commands.CreateBooking(ctx, f.params())
		assert.ErrorIs(t, err, errs.ErrBookingConflict)
	})
}

func TestBookingTransitionsCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm then complete", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		created, err := f.commands.CreateBooking(ctx, f.params())
		require.NoError(t, err)

		confirmed, err := f.commands.ConfirmBooking(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusConfirmed, confirmed.Status())

		completed, err := f.commands.CompleteBooking(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCompleted, completed.Status())
	})

	t.Run("cancel without reason records the default", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		created, err := f.commands.CreateBooking(ctx, f.params())
		require.NoError(t, err)

		cancelled, err := f.commands.CancelBooking(ctx, created.ID(), "")
		require.NoError(t, err)
		assert.Equal(t, booking.DefaultCancelReason, cancelled.CancelReason())

		stored, err := f.bookings.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCancelled, stored.Status())
	})

	t.Run("cancelling a cancelled booking is an illegal transition", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		created, err := f.commands.CreateBooking(ctx, f.params())
		require.NoError(t, err)

		_, err = f.commands.CancelBooking(ctx, created.ID(), "first")
		require.NoError(t, err)

		_, err = f.commands.CancelBooking(ctx, created.ID(), "second")
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newCommandFixture(t, nil)
		_, err := f.commands.ConfirmBooking(ctx, uuid.New())
		assert.ErrorIs(t, err, errs.ErrBookingNotFound)
	})
}

// conflictingRepository simulates losing the insert race.
type conflictingRepository struct {
	commands.BookingRepository
}

func (conflictingRepository) Create(context.Context, *booking.Booking) error {
	return infra.WrapRepoErr(infra.KindConflict, "slot already booked", nil)
}

func (conflictingRepository) ListByProviderAndDate(context.Context, uuid.UUID, schedule.CalendarDate) ([]*booking.Booking, error) {
	return nil, nil
}
