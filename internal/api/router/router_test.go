package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serenenow/scheduling/internal/availability"
	"github.com/serenenow/scheduling/internal/booking"
	"github.com/serenenow/scheduling/internal/calendar"
	"github.com/serenenow/scheduling/internal/expert"
	"github.com/serenenow/scheduling/internal/http/handlers"
	"github.com/serenenow/scheduling/internal/sereneapi"
	"github.com/serenenow/scheduling/pkg/logging"
)

type stubAPI struct{}

func (stubAPI) FetchAvailability(context.Context, string) ([]availability.Record, error) {
	return nil, nil
}

func (stubAPI) SaveAvailability(_ context.Context, _ string, records []availability.Record) ([]availability.Record, error) {
	return records, nil
}

func (stubAPI) FetchSlots(context.Context, string, string, string) ([]calendar.SlotWindow, error) {
	return nil, nil
}

func (stubAPI) CreateBooking(context.Context, sereneapi.BookingRequest) (*sereneapi.BookingConfirmation, error) {
	return &sereneapi.BookingConfirmation{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	api := stubAPI{}
	expertSvc := expert.NewService(api, logger, nil)
	bookingSvc := booking.NewService(api, nil, 0, logger, nil)

	cfg := &Config{
		Logger:              logger,
		AvailabilityHandler: handlers.NewAvailabilityHandler(expertSvc, "Asia/Kolkata", logger),
		BookingHandler:      handlers.NewBookingHandler(bookingSvc, 6, "Asia/Kolkata", logger),
	}

	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterScheduleEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/experts/exp-1/schedule", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var sched expert.Schedule
	if err := json.NewDecoder(rr.Body).Decode(&sched); err != nil {
		t.Fatalf("failed to decode schedule response: %v", err)
	}
	if sched.Timezone != "Asia/Kolkata" {
		t.Errorf("expected default timezone, got %q", sched.Timezone)
	}
}

func TestRouterCalendarEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/booking/calendar", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestRouterSessionRoutesAbsentWithoutHandler(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/booking/sessions", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
