package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/serenenow/scheduling/internal/booking"
	"github.com/serenenow/scheduling/internal/calendar"
	"github.com/serenenow/scheduling/internal/sereneapi"
	"github.com/serenenow/scheduling/pkg/logging"
)

// BookingHandler exposes the client-facing booking surface: the date grid,
// slot listings and booking creation.
type BookingHandler struct {
	svc           *booking.Service
	horizonMonths int
	defaultTZ     string
	logger        *logging.Logger
	clock         func() time.Time
}

// NewBookingHandler creates the booking handler.
func NewBookingHandler(svc *booking.Service, horizonMonths int, defaultTZ string, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{
		svc:           svc,
		horizonMonths: horizonMonths,
		defaultTZ:     defaultTZ,
		logger:        logger,
		clock:         time.Now,
	}
}

// WithClock pins the handler's notion of "today", for tests.
func (h *BookingHandler) WithClock(clock func() time.Time) *BookingHandler {
	h.clock = clock
	return h
}

// CalendarResponse is the response of GET /booking/calendar
type CalendarResponse struct {
	Year    int                 `json:"year"`
	Month   int                 `json:"month"`
	Dates   []calendar.DateCell `json:"dates"`
	HasPrev bool                `json:"hasPrev"`
	HasNext bool                `json:"hasNext"`
}

// GetCalendar handles GET /booking/calendar?year=YYYY&month=M
func (h *BookingHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	today := h.clock()
	month := calendar.YearMonthOf(today)

	q := r.URL.Query()
	if y, err := strconv.Atoi(q.Get("year")); err == nil {
		if m, err := strconv.Atoi(q.Get("month")); err == nil && m >= 1 && m <= 12 {
			// Requested months outside the booking window are clamped.
			month = calendar.Navigate(calendar.YearMonth{Year: y, Month: time.Month(m)}, 0, today, h.horizonMonths)
		}
	}

	respondJSON(w, http.StatusOK, CalendarResponse{
		Year:    month.Year,
		Month:   int(month.Month),
		Dates:   calendar.MonthDates(month, today, h.horizonMonths),
		HasPrev: calendar.CanNavigatePrev(month, today),
		HasNext: calendar.CanNavigateNext(month, today, h.horizonMonths),
	})
}

// GetSlots handles GET /experts/{expertID}/services/{serviceID}/slots
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	expertID := chi.URLParam(r, "expertID")
	serviceID := chi.URLParam(r, "serviceID")
	date := r.URL.Query().Get("date")
	if date == "" {
		respondError(w, http.StatusBadRequest, "date is required")
		return
	}
	tz := r.URL.Query().Get("timezone")
	if tz == "" {
		tz = h.defaultTZ
	}

	slots, err := h.svc.ListSlots(r.Context(), expertID, serviceID, date, tz)
	if err != nil {
		h.logger.Error("failed to list slots", "expert_id", expertID, "service_id", serviceID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to list slots")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"slots": slots, "timezone": tz})
}

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	ClientID    string `json:"clientId"`
	ExpertID    string `json:"expertId"`
	ServiceID   string `json:"serviceId"`
	StartUTC    string `json:"startUtc"`
	EndUTC      string `json:"endUtc"`
	PaymentMode string `json:"paymentMode"`
}

// CreateBooking handles POST /bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ExpertID == "" || req.ServiceID == "" {
		respondError(w, http.StatusBadRequest, "expertId and serviceId are required")
		return
	}
	if req.StartUTC == "" || req.EndUTC == "" {
		respondError(w, http.StatusBadRequest, "startUtc and endUtc are required")
		return
	}

	conf, err := h.svc.Book(r.Context(), sereneapi.BookingRequest{
		ClientID:    req.ClientID,
		ExpertID:    req.ExpertID,
		ServiceID:   req.ServiceID,
		StartUTC:    req.StartUTC,
		EndUTC:      req.EndUTC,
		PaymentMode: req.PaymentMode,
	})
	if err != nil {
		h.logger.Error("failed to create booking", "expert_id", req.ExpertID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to create booking")
		return
	}
	respondJSON(w, http.StatusCreated, conf)
}
