package response

import (
	"time"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID           uuid.UUID   `json:"id"`
	CustomerID   uuid.UUID   `json:"customerId"`
	ProviderID   uuid.UUID   `json:"providerId"`
	ProviderName string      `json:"providerName"`
	ServiceID    uuid.UUID   `json:"serviceId"`
	ServiceName  string      `json:"serviceName"`
	PetIDs       []uuid.UUID `json:"petIds"`
	PetNames     []string    `json:"petNames"`
	Date         string      `json:"date"`
	Slot         string      `json:"slot"`
	PriceCents   int64       `json:"priceCents"`
	Status       string      `json:"status"`
	CancelReason *string     `json:"cancelReason,omitempty"`
	Note         *string     `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:           rm.ID,
		CustomerID:   rm.CustomerID,
		ProviderID:   rm.ProviderID,
		ProviderName: rm.ProviderName,
		ServiceID:    rm.ServiceID,
		ServiceName:  rm.ServiceName,
		PetIDs:       rm.PetIDs,
		PetNames:     rm.PetNames,
		Date:         rm.Date,
		Slot:         rm.Slot,
		PriceCents:   rm.PriceCents,
		Status:       rm.Status,
		CancelReason: rm.CancelReason,
		Note:         rm.Note,
		CreatedAt:    rm.CreatedAt,
		UpdatedAt:    rm.UpdatedAt,
	}
}

// FromBooking renders the write-side entity; used right after a mutation
// where the joined view would cost extra lookups without adding information
// the client needs.
func FromBooking(b *booking.Booking) *BookingResponse {
	resp := &BookingResponse{
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
		resp.CancelReason = &reason
	}
	if note := b.Note(); !note.IsEmpty() {
		s := note.String()
		resp.Note = &s
	}
	return resp
}

type SlotResponse struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func FromSlotView(v queries.SlotView) SlotResponse {
	return SlotResponse{
		Date:  v.Date,
		Start: v.Start,
		End:   v.End,
	}
}
