package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/serenenow/scheduling/internal/http/handlers"
	httpmiddleware "github.com/serenenow/scheduling/internal/http/middleware"
	"github.com/serenenow/scheduling/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *handlers.AvailabilityHandler
	BookingHandler      *handlers.BookingHandler
	SessionHandler      *handlers.SessionHandler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Expert-facing schedule management
	if cfg.AvailabilityHandler != nil {
		r.Route("/experts/{expertID}", func(expert chi.Router) {
			expert.Get("/schedule", cfg.AvailabilityHandler.GetSchedule)
			expert.Put("/schedule", cfg.AvailabilityHandler.SaveSchedule)
			expert.Post("/time-off", cfg.AvailabilityHandler.AddTimeOff)
			expert.Delete("/time-off/{date}", cfg.AvailabilityHandler.RemoveTimeOff)
			if cfg.BookingHandler != nil {
				expert.Get("/services/{serviceID}/slots", cfg.BookingHandler.GetSlots)
			}
		})
	}

	// Client-facing booking surface
	if cfg.BookingHandler != nil {
		r.Get("/booking/calendar", cfg.BookingHandler.GetCalendar)
		r.Post("/bookings", cfg.BookingHandler.CreateBooking)
	}
	if cfg.SessionHandler != nil {
		r.Route("/booking/sessions", func(sessions chi.Router) {
			sessions.Post("/", cfg.SessionHandler.Create)
			sessions.Route("/{sessionID}", func(session chi.Router) {
				session.Get("/", cfg.SessionHandler.Get)
				session.Post("/steps/{step}/complete", cfg.SessionHandler.CompleteStep)
				session.Post("/steps/{step}/edit", cfg.SessionHandler.EditStep)
				session.Post("/slots", cfg.SessionHandler.LoadSlots)
				session.Post("/select-time", cfg.SessionHandler.SelectTime)
				session.Post("/timezone", cfg.SessionHandler.SetTimezone)
			})
		})
	}

	return r
}
