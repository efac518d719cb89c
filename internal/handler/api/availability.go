package api

import (
	"errors"
	"net/http"

	"pawmarket/internal/domain/schedule"
	resdto "pawmarket/internal/handler/dto/response"
	"pawmarket/internal/pkg/errs"
	"pawmarket/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availability   queries.AvailabilityQueries
	bookingQueries queries.BookingQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries, bookingQueries queries.BookingQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability:   availability,
		bookingQueries: bookingQueries,
	}
}

// @Summary List bookable slots
// @Description Derive open slots for a provider, service and date from the weekly schedule and existing bookings
// @Tags availability
// @Produce json
// @Param id path string true "Provider ID"
// @Param service_id query string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /providers/{id}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return
	}
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing service_id",
		})
		return
	}
	date, err := schedule.ParseCalendarDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid or missing date",
		})
		return
	}

	slots, err := h.availability.ListSlots(c.Request.Context(), providerID, serviceID, date)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Service not found",
			})
		case errors.Is(err, errs.ErrProviderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Provider not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	views := queries.ToSlotViews(date, slots)
	out := make([]resdto.SlotResponse, len(views))
	for i, v := range views {
		out[i] = resdto.FromSlotView(v)
	}
	// No availability is an ordinary empty list, never an error.
	c.JSON(http.StatusOK, out)
}

// @Summary Provider bookings
// @Description List a provider's bookings; with date, the day's bookings ordered by slot start
// @Tags availability
// @Produce json
// @Param id path string true "Provider ID"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param window query string false "all, past or future"
// @Param status query string false "pending, confirmed, cancelled or completed"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Router /providers/{id}/bookings [get]
func (h *AvailabilityHandler) ProviderBookings(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid provider ID format",
		})
		return
	}

	if raw := c.Query("date"); raw != "" {
		date, err := schedule.ParseCalendarDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid date",
			})
			return
		}
		views, err := h.bookingQueries.BookingsOnDate(c.Request.Context(), providerID, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		c.JSON(http.StatusOK, toBookingResponses(views))
		return
	}

	filter, err := parseBookingFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	views, err := h.bookingQueries.ListForProvider(c.Request.Context(), providerID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, toBookingResponses(views))
}
