//go:build unit

package api_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pawmarket/internal/domain/booking"
	"pawmarket/internal/handler/api"
	"pawmarket/internal/handler/middleware"
	"pawmarket/internal/infra/memstore"
	"pawmarket/internal/infra/notify"
	"pawmarket/internal/pkg/clock"
	"pawmarket/internal/usecase/commands"
	"pawmarket/internal/usecase/queries"
	"pawmarket/tests/common/builder"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	bookings  *memstore.BookingStore
	services  *memstore.ServiceStore
	providers *memstore.ProviderStore
	pets      *memstore.PetStore
	clock     *clock.MockClock

	customerID uuid.UUID
	providerID uuid.UUID
	serviceID  uuid.UUID
	petID      uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.bookings = memstore.NewBookingStore()
	s.services = memstore.NewServiceStore()
	s.providers = memstore.NewProviderStore()
	s.pets = memstore.NewPetStore()
	s.clock = clock.NewMockClock(time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))

	s.customerID = uuid.New()
	s.providerID = uuid.New()
	s.serviceID = uuid.New()
	s.petID = uuid.New()

	s.services.Put(commands.ServiceSnapshot{
		ID:              s.serviceID,
		ProviderID:      s.providerID,
		Name:            "Full Grooming",
		PriceCents:      3500,
		DurationMinutes: 60,
		Active:          true,
	})
	s.providers.Put(commands.ProviderSnapshot{
		ID:     s.providerID,
		Name:   "Happy Paws Salon",
		Active: true,
		Schedule: builder.NewScheduleBuilder().
			WithOpen(time.Monday, "09:00-12:00").
			MustBuild(),
	})
	s.pets.Put(commands.PetSnapshot{ID: s.petID, OwnerID: s.customerID, Name: "Momo", Species: "dog"})

	factory := booking.NewFactory(s.clock)
	notifier := notify.NewSlogNotifier(slog.Default())
	bookingCommands := commands.NewBookingCommands(s.bookings, s.services, s.providers, factory, notifier, s.clock)
	bookingQueries := queries.NewBookingQueries(s.bookings, s.services, s.providers, s.pets, s.clock)
	availability := queries.NewAvailabilityQueries(s.bookings, s.services, s.providers, s.clock)

	bookingHandler := api.NewBookingHandler(bookingCommands, bookingQueries)
	availabilityHandler := api.NewAvailabilityHandler(availability, bookingQueries)
	identity := middleware.NewIdentityMiddleware()

	s.router.POST("/bookings", identity.RequireUser(), bookingHandler.CreateBooking)
	s.router.GET("/bookings", identity.RequireUser(), bookingHandler.ListMyBookings)
	s.router.GET("/bookings/:id", bookingHandler.GetBooking)
	s.router.POST("/bookings/:id/cancel", bookingHandler.CancelBooking)
	s.router.POST("/bookings/:id/confirm", bookingHandler.ConfirmBooking)
	s.router.GET("/providers/:id/slots", availabilityHandler.ListSlots)
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) do(method, url, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *BookingHandlerTestSuite) createBody() string {
	return fmt.Sprintf(
		`{"service_id": %q, "pet_ids": [%q], "date": "2026-09-07", "start": "09:00"}`,
		s.serviceID, s.petID,
	)
}

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	s.Run("missing identity header", func() {
		rec := s.do(http.MethodPost, "/bookings", "", s.createBody())
		assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	})

	s.Run("success", func() {
		rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), s.createBody())
		require.Equal(s.T(), http.StatusCreated, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(s.T(), "pending", resp["status"])
		assert.Equal(s.T(), "2026-09-07", resp["date"])
		assert.Equal(s.T(), "09:00-10:00", resp["slot"])
		assert.EqualValues(s.T(), 3500, resp["priceCents"])
	})

	s.Run("taken slot conflicts", func() {
		rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), s.createBody())
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("malformed date", func() {
		body := fmt.Sprintf(
			`{"service_id": %q, "pet_ids": [%q], "date": "07/09/2026", "start": "09:00"}`,
			s.serviceID, s.petID,
		)
		rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), body)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("empty pet list", func() {
		body := fmt.Sprintf(
			`{"service_id": %q, "pet_ids": [], "date": "2026-09-07", "start": "10:00"}`,
			s.serviceID,
		)
		rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), body)
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown service", func() {
		body := fmt.Sprintf(
			`{"service_id": %q, "pet_ids": [%q], "date": "2026-09-07", "start": "10:00"}`,
			uuid.New(), s.petID,
		)
		rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), body)
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestGetAndCancel() {
	rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), s.createBody())
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &created))
	id := created["id"].(string)

	s.Run("get resolves joined names", func() {
		rec := s.do(http.MethodGet, "/bookings/"+id, "", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(s.T(), "Happy Paws Salon", resp["providerName"])
		assert.Equal(s.T(), "Full Grooming", resp["serviceName"])
	})

	s.Run("get with malformed id", func() {
		rec := s.do(http.MethodGet, "/bookings/not-a-uuid", "", "")
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})

	s.Run("get unknown booking", func() {
		rec := s.do(http.MethodGet, "/bookings/"+uuid.NewString(), "", "")
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})

	s.Run("cancel without reason records the default", func() {
		rec := s.do(http.MethodPost, "/bookings/"+id+"/cancel", "", "")
		require.Equal(s.T(), http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(s.T(), "cancelled", resp["status"])
		assert.Equal(s.T(), booking.DefaultCancelReason, resp["cancelReason"])
	})

	s.Run("cancelling again conflicts", func() {
		rec := s.do(http.MethodPost, "/bookings/"+id+"/cancel", "", `{"reason": "twice"}`)
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})

	s.Run("confirm after cancel conflicts", func() {
		rec := s.do(http.MethodPost, "/bookings/"+id+"/confirm", "", "")
		assert.Equal(s.T(), http.StatusConflict, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListMyBookings() {
	rec := s.do(http.MethodPost, "/bookings", s.customerID.String(), s.createBody())
	require.Equal(s.T(), http.StatusCreated, rec.Code)

	s.Run("returns the caller's bookings", func() {
		rec := s.do(http.MethodGet, "/bookings?window=future", s.customerID.String(), "")
		require.Equal(s.T(), http.StatusOK, rec.Code)

		var resp []map[string]any
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(s.T(), resp, 1)
		assert.Equal(s.T(), "2026-09-07", resp[0]["date"])
	})

	s.Run("another customer sees nothing", func() {
		rec := s.do(http.MethodGet, "/bookings", uuid.NewString(), "")
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.JSONEq(s.T(), "[]", rec.Body.String())
	})

	s.Run("invalid window", func() {
		rec := s.do(http.MethodGet, "/bookings?window=someday", s.customerID.String(), "")
		assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	})
}

func (s *BookingHandlerTestSuite) TestListSlots() {
	s.Run("full grid on an open day", func() {
		url := fmt.Sprintf("/providers/%s/slots?service_id=%s&date=2026-09-07", s.providerID, s.serviceID)
		rec := s.do(http.MethodGet, url, "", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)

		var resp []map[string]any
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(s.T(), resp, 3)
		assert.Equal(s.T(), "09:00", resp[0]["start"])
		assert.Equal(s.T(), "10:00", resp[0]["end"])
	})

	s.Run("closed day is an empty list", func() {
		url := fmt.Sprintf("/providers/%s/slots?service_id=%s&date=2026-09-06", s.providerID, s.serviceID)
		rec := s.do(http.MethodGet, url, "", "")
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.JSONEq(s.T(), "[]", rec.Body.String())
	})

	s.Run("unknown service", func() {
		url := fmt.Sprintf("/providers/%s/slots?service_id=%s&date=2026-09-07", s.providerID, uuid.New())
		rec := s.do(http.MethodGet, url, "", "")
		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
	})
}
