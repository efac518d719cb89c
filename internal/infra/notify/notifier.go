package notify

import (
	"context"
	"log/slog"

	"pawmarket/internal/domain/booking"
)

// SlogNotifier reports booking events to the log. It stands in for the
// email/payment collaborators, which receive events after the booking is
// already durable; a failing notifier never rolls a booking back.
type SlogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

func (n *SlogNotifier) BookingCreated(_ context.Context, b *booking.Booking) error {
	n.logger.Info("booking created",
		"booking_id", b.ID(),
		"provider_id", b.ProviderID(),
		"customer_id", b.CustomerID(),
		"date", b.Date().String(),
		"slot", b.Slot().String(),
		"status", b.Status().String(),
	)
	return nil
}

func (n *SlogNotifier) BookingStatusChanged(_ context.Context, b *booking.Booking) error {
	n.logger.Info("booking status changed",
		"booking_id", b.ID(),
		"status", b.Status().String(),
		"reason", b.CancelReason(),
	)
	return nil
}
