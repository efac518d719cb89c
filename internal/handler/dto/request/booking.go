package request

import (
	"strings"

	"pawmarket/internal/domain/schedule"
	"pawmarket/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ServiceID        uuid.UUID   `json:"service_id" binding:"required"`
	PetIDs           []uuid.UUID `json:"pet_ids" binding:"required,min=1"`
	Date             string      `json:"date" binding:"required"`
	Start            string      `json:"start" binding:"required"`
	Note             *string     `json:"note,omitempty"`
	PaymentConfirmed bool        `json:"payment_confirmed"`
}

// ToParams parses the wire-format date and start time into their domain
// values. The slot end is not accepted from the client; it is derived from
// the service duration.
func (r CreateBookingRequest) ToParams(customerID uuid.UUID) (commands.CreateBookingParams, error) {
	date, err := schedule.ParseCalendarDate(r.Date)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}
	start, err := schedule.ParseLocalTime(r.Start)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}

	var note *string
	if r.Note != nil {
		trimmed := strings.TrimSpace(*r.Note)
		if trimmed != "" {
			note = &trimmed
		}
	}

	return commands.CreateBookingParams{
		CustomerID:       customerID,
		ServiceID:        r.ServiceID,
		PetIDs:           r.PetIDs,
		Date:             date,
		Start:            start,
		Note:             note,
		PaymentConfirmed: r.PaymentConfirmed,
	}, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}
