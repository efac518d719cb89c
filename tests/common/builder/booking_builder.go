//go:build unit

package builder

import (
	"time"

	dombooking "pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	CustomerID      uuid.UUID
	ProviderID      uuid.UUID
	ServiceID       uuid.UUID
	PetIDs          []uuid.UUID
	Date            schedule.CalendarDate
	Slot            schedule.TimeSlot
	PriceCents      int64
	DurationMinutes int
	MaxPets         int
	Active          bool
	Status          dombooking.Status
	Note            string
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	date, _ := schedule.ParseCalendarDate("2026-09-07") // a Monday
	slot, _ := schedule.ParseTimeSlot("09:00-10:00")
	return &BookingBuilder{
		CustomerID:      uuid.New(),
		ProviderID:      uuid.New(),
		ServiceID:       uuid.New(),
		PetIDs:          []uuid.UUID{uuid.New()},
		Date:            date,
		Slot:            slot,
		PriceCents:      3500,
		DurationMinutes: 60,
		MaxPets:         0,
		Active:          true,
		Status:          dombooking.StatusPending,
		Note:            "",
		Now:             time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	price, err := dombooking.NewMoney(b.PriceCents)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(
		b.CustomerID, b.ProviderID, b.ServiceID,
		b.PetIDs, b.Date, b.Slot,
		price.Mul(len(b.PetIDs)), b.Status, dombooking.NewNote(b.Note), b.Now,
	)
}

func (b *BookingBuilder) BuildWithFactory() (*dombooking.Booking, error) {
	factory := dombooking.NewFactory(fixedClock{t: b.Now})
	return factory.CreateBooking(
		b.BuildServiceSpec(),
		b.CustomerID,
		b.PetIDs,
		b.Date,
		b.Slot,
		dombooking.NewNote(b.Note),
		b.Status == dombooking.StatusConfirmed,
	)
}

func (b *BookingBuilder) BuildServiceSpec() dombooking.ServiceSpec {
	return dombooking.ServiceSpec{
		ID:              b.ServiceID,
		ProviderID:      b.ProviderID,
		PriceCents:      b.PriceCents,
		DurationMinutes: b.DurationMinutes,
		MaxPets:         b.MaxPets,
		Active:          b.Active,
	}
}

func (b *BookingBuilder) BuildServiceSnapshot() commands.ServiceSnapshot {
	return commands.ServiceSnapshot{
		ID:              b.ServiceID,
		ProviderID:      b.ProviderID,
		Name:            "Full Grooming",
		PriceCents:      b.PriceCents,
		DurationMinutes: b.DurationMinutes,
		MaxPets:         b.MaxPets,
		Active:          b.Active,
	}
}

func (b *BookingBuilder) BuildProviderSnapshot(weekly schedule.WeeklySchedule) commands.ProviderSnapshot {
	return commands.ProviderSnapshot{
		ID:       b.ProviderID,
		Name:     "Happy Paws Salon",
		Schedule: weekly,
		Active:   true,
	}
}

func (b *BookingBuilder) BuildPetSnapshots() []commands.PetSnapshot {
	out := make([]commands.PetSnapshot, len(b.PetIDs))
	for i, id := range b.PetIDs {
		out[i] = commands.PetSnapshot{
			ID:      id,
			OwnerID: b.CustomerID,
			Name:    "Momo",
			Species: "dog",
		}
	}
	return out
}

// Fluent builder methods
func (b *BookingBuilder) WithCustomerID(id uuid.UUID) *BookingBuilder {
	b.CustomerID = id
	return b
}

func (b *BookingBuilder) WithProviderID(id uuid.UUID) *BookingBuilder {
	b.ProviderID = id
	return b
}

func (b *BookingBuilder) WithServiceID(id uuid.UUID) *BookingBuilder {
	b.ServiceID = id
	return b
}

func (b *BookingBuilder) WithPetIDs(ids ...uuid.UUID) *BookingBuilder {
	b.PetIDs = ids
	return b
}

func (b *BookingBuilder) WithDate(s string) *BookingBuilder {
	date, err := schedule.ParseCalendarDate(s)
	if err != nil {
		panic(err)
	}
	b.Date = date
	return b
}

func (b *BookingBuilder) WithSlot(s string) *BookingBuilder {
	slot, err := schedule.ParseTimeSlot(s)
	if err != nil {
		panic(err)
	}
	b.Slot = slot
	return b
}

func (b *BookingBuilder) WithPriceCents(cents int64) *BookingBuilder {
	b.PriceCents = cents
	return b
}

func (b *BookingBuilder) WithDurationMinutes(minutes int) *BookingBuilder {
	b.DurationMinutes = minutes
	return b
}

func (b *BookingBuilder) WithMaxPets(n int) *BookingBuilder {
	b.MaxPets = n
	return b
}

func (b *BookingBuilder) WithInactiveService() *BookingBuilder {
	b.Active = false
	return b
}

func (b *BookingBuilder) WithStatus(status dombooking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithNote(note string) *BookingBuilder {
	b.Note = note
	return b
}

func (b *BookingBuilder) WithNow(t time.Time) *BookingBuilder {
	b.Now = t
	return b
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }
