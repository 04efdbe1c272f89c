// Package booking serves the client side of the flow: listing bookable slots
// for a service and date in the viewer's timezone, and submitting the booking
// with the original UTC instants. Raw UTC windows are cached briefly in
// Redis; display conversion always happens after the cache, so a timezone
// change never serves stale local clocks.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenenow/scheduling/internal/calendar"
	"github.com/serenenow/scheduling/internal/observability/metrics"
	"github.com/serenenow/scheduling/internal/sereneapi"
	"github.com/serenenow/scheduling/pkg/logging"
)

var bookingTracer = otel.Tracer("serenenow.internal.booking")

const defaultCacheTTL = 2 * time.Minute

// SlotAPI is the subset of the SereneNow API the service needs.
type SlotAPI interface {
	FetchSlots(ctx context.Context, expertID, serviceID, date string) ([]calendar.SlotWindow, error)
	CreateBooking(ctx context.Context, req sereneapi.BookingRequest) (*sereneapi.BookingConfirmation, error)
}

// Service lists slots and creates bookings.
type Service struct {
	api      SlotAPI
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   *logging.Logger
	metrics  *metrics.SchedulingMetrics
}

// NewService constructs a booking service. A nil cache client disables the
// slot cache; every listing then hits the API.
func NewService(api SlotAPI, cache *redis.Client, cacheTTL time.Duration, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if api == nil {
		panic("booking: api client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{api: api, cache: cache, cacheTTL: cacheTTL, logger: logger, metrics: m}
}

// ListSlots returns the bookable slots for a service on one date, rendered in
// the viewer's timezone. The raw UTC windows are cached, never the converted
// display strings, so re-listing under a different zone re-derives from the
// original instants.
func (s *Service) ListSlots(ctx context.Context, expertID, serviceID, date, tz string) ([]calendar.DisplaySlot, error) {
	raw, err := s.RawWindows(ctx, expertID, serviceID, date)
	if err != nil {
		return nil, err
	}

	display := calendar.DisplaySlots(raw, tz)
	degraded := 0
	for _, d := range display {
		if d.Degraded {
			degraded++
		}
	}
	if degraded > 0 {
		s.metrics.ObserveDegradedConversions(degraded)
		s.logger.Warn("degraded slot conversions",
			"expert_id", expertID,
			"timezone", tz,
			"count", degraded,
		)
	}
	return display, nil
}

// RawWindows returns the cached-or-fetched UTC slot windows for one date.
// Session handling uses this to seed a stepper with original instants.
func (s *Service) RawWindows(ctx context.Context, expertID, serviceID, date string) ([]calendar.SlotWindow, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.raw_windows")
	defer span.End()
	span.SetAttributes(
		attribute.String("serenenow.expert_id", expertID),
		attribute.String("serenenow.service_id", serviceID),
		attribute.String("serenenow.date", date),
	)

	raw, hit := s.cachedWindows(ctx, expertID, serviceID, date)
	if !hit {
		var err error
		raw, err = s.api.FetchSlots(ctx, expertID, serviceID, date)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		s.storeWindows(ctx, expertID, serviceID, date, raw)
	}
	return raw, nil
}

// Book submits a booking. The request must carry the stored UTC instants of
// the chosen slot.
func (s *Service) Book(ctx context.Context, req sereneapi.BookingRequest) (*sereneapi.BookingConfirmation, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("serenenow.expert_id", req.ExpertID),
		attribute.String("serenenow.service_id", req.ServiceID),
	)

	if req.StartUTC == "" || req.EndUTC == "" {
		return nil, fmt.Errorf("booking: start and end instants are required")
	}

	conf, err := s.api.CreateBooking(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("error")
		return nil, err
	}
	s.metrics.ObserveBooking("created")
	return conf, nil
}

// cachedWindows looks up raw windows in Redis. Cache failures are treated as
// misses; a flaky cache must not take down slot listing.
func (s *Service) cachedWindows(ctx context.Context, expertID, serviceID, date string) ([]calendar.SlotWindow, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, slotKey(expertID, serviceID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("slot cache read failed", "error", err)
		}
		return nil, false
	}
	var raw []calendar.SlotWindow
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("slot cache payload corrupt", "error", err)
		return nil, false
	}
	return raw, true
}

func (s *Service) storeWindows(ctx context.Context, expertID, serviceID, date string, raw []calendar.SlotWindow) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, slotKey(expertID, serviceID, date), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("slot cache write failed", "error", err)
	}
}

func slotKey(expertID, serviceID, date string) string {
	return fmt.Sprintf("slots:%s:%s:%s", expertID, serviceID, date)
}
