package queries

import (
	"time"

	"pawmarket/internal/domain/booking"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

// BookingView is the explicit composed read type joining a booking with its
// resolved service, provider and pet records.
type BookingView struct {
	ID           uuid.UUID   `json:"id"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	ProviderID   uuid.UUID   `json:"provider_id"`
	ProviderName string      `json:"provider_name"`
	ServiceID    uuid.UUID   `json:"service_id"`
	ServiceName  string      `json:"service_name"`
	PetIDs       []uuid.UUID `json:"pet_ids"`
	PetNames     []string    `json:"pet_names"`
	Date         string      `json:"date"`
	Slot         string      `json:"slot"`
	PriceCents   int64       `json:"price_cents"`
	Status       string      `json:"status"`
	CancelReason *string     `json:"cancel_reason,omitempty"`
	Note         *string     `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type SlotView struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type TimeWindow string

const (
	WindowAll    TimeWindow = "all"
	WindowPast   TimeWindow = "past"
	WindowFuture TimeWindow = "future"
)

func (w TimeWindow) IsValid() bool {
	switch w {
	case WindowAll, WindowPast, WindowFuture, "":
		return true
	default:
		return false
	}
}

// BookingFilter composes with logical AND; the zero value matches everything.
type BookingFilter struct {
	PetID  *uuid.UUID
	Window TimeWindow
	Status *booking.Status
}
