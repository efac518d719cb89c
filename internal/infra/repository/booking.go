package repository

import (
	"context"
	"errors"
	"time"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

type BookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, customer_id, provider_id, service_id, pet_ids,
	service_date, start_min, end_min, price_cents,
	status, cancel_reason, note, created_at, updated_at`

// Create inserts the booking. The bookings table carries an exclusion
// constraint over (provider_id, service_date, [start_min, end_min)) for
// non-cancelled rows, so two concurrent submissions for overlapping slots
// cannot both commit; the loser surfaces as a conflict.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		b.ID(), b.CustomerID(), b.ProviderID(), b.ServiceID(), b.PetIDs(),
		dateToPg(b.Date()), b.Slot().Start().MinutesSinceMidnight(), b.Slot().End().MinutesSinceMidnight(),
		b.Price().Cents(), b.Status().String(), textOrNil(b.CancelReason()), textOrNil(b.Note().String()),
		b.CreatedAt(), b.UpdatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && (pgErr.Code == pgExclusionViolation || pgErr.Code == pgUniqueViolation) {
			return infra.WrapRepoErr(infra.KindConflict, "slot already booked", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "booking not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking", err)
	}
	return b, nil
}

func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1`
	return r.queryBookings(ctx, query, customerID)
}

func (r *BookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = $1`
	return r.queryBookings(ctx, query, providerID)
}

func (r *BookingRepository) ListByProviderAndDate(ctx context.Context, providerID uuid.UUID, date schedule.CalendarDate) ([]*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE provider_id = $1 AND service_date = $2`
	return r.queryBookings(ctx, query, providerID, dateToPg(date))
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, cancel_reason = $3, updated_at = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, b.ID(), b.Status().String(), textOrNil(b.CancelReason()), b.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "booking not found", nil)
	}
	return nil
}

func (r *BookingRepository) FindMatchingDraft(ctx context.Context, customerID, providerID uuid.UUID, date schedule.CalendarDate, slot schedule.TimeSlot) (*booking.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1 AND provider_id = $2 AND service_date = $3
		  AND start_min = $4 AND end_min = $5 AND status <> 'cancelled'
		ORDER BY created_at DESC
		LIMIT 1`

	b, err := scanBooking(r.db.QueryRow(ctx, query,
		customerID, providerID, dateToPg(date),
		slot.Start().MinutesSinceMidnight(), slot.End().MinutesSinceMidnight(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "no booking matches draft", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find booking by draft", err)
	}
	return b, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list bookings", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan booking row", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to iterate booking rows", err)
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, customerID, providerID, serviceID uuid.UUID
		petIDs                                []uuid.UUID
		serviceDate                           time.Time
		startMin, endMin                      int
		priceCents                            int64
		status                                string
		cancelReason, note                    *string
		createdAt, updatedAt                  time.Time
	)
	if err := row.Scan(
		&id, &customerID, &providerID, &serviceID, &petIDs,
		&serviceDate, &startMin, &endMin, &priceCents,
		&status, &cancelReason, &note, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	start, err := schedule.LocalTimeFromMinutes(startMin)
	if err != nil {
		return nil, err
	}
	end, err := schedule.LocalTimeFromMinutes(endMin)
	if err != nil {
		return nil, err
	}
	slot, err := schedule.NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	price, err := booking.NewMoney(priceCents)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(
		id, customerID, providerID, serviceID, petIDs,
		schedule.DateOf(serviceDate), slot, price,
		booking.Status(status), deref(cancelReason), booking.NewNote(deref(note)),
		createdAt, updatedAt,
	), nil
}

func dateToPg(d schedule.CalendarDate) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
