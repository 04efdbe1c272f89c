// Package expert orchestrates availability management for an expert: loading
// the server record set into the editable week/time-off model and flushing
// edits back. Every save replaces the whole set and the server's echoed,
// normalized records are decoded back before the save counts as settled, so
// client-side encoding assumptions never drift from server-side state.
package expert

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/serenenow/scheduling/internal/availability"
	"github.com/serenenow/scheduling/internal/observability/metrics"
	"github.com/serenenow/scheduling/pkg/logging"
)

var expertTracer = otel.Tracer("serenenow.internal.expert")

// APIClient is the subset of the SereneNow API the service needs.
type APIClient interface {
	FetchAvailability(ctx context.Context, expertID string) ([]availability.Record, error)
	SaveAvailability(ctx context.Context, expertID string, records []availability.Record) ([]availability.Record, error)
}

// Schedule is the editable availability model under one viewer timezone.
type Schedule struct {
	Timezone string                    `json:"timezone"`
	Week     availability.WeekSchedule `json:"week"`
	TimeOff  []availability.TimeOff    `json:"timeOff"`
}

// Service manages expert availability against the SereneNow API.
type Service struct {
	api     APIClient
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
	clock   func() time.Time
}

// NewService constructs an availability service.
func NewService(api APIClient, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if api == nil {
		panic("expert: api client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{api: api, logger: logger, metrics: m, clock: time.Now}
}

// WithClock pins the service's time source, used by tests to fix the DST
// anchor date.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// LoadSchedule fetches the expert's record set and decodes it under the given
// viewer timezone.
func (s *Service) LoadSchedule(ctx context.Context, expertID, tz string) (*Schedule, error) {
	ctx, span := expertTracer.Start(ctx, "expert.load_schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("serenenow.expert_id", expertID),
		attribute.String("serenenow.timezone", tz),
	)

	records, err := s.api.FetchAvailability(ctx, expertID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailabilityOp("fetch", "error")
		return nil, err
	}
	week, timeOff, err := s.reconciler(tz).Decode(records)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailabilityOp("fetch", "decode_error")
		return nil, err
	}
	s.metrics.ObserveAvailabilityOp("fetch", "ok")
	return &Schedule{Timezone: tz, Week: week, TimeOff: timeOff}, nil
}

// SaveSchedule validates and encodes the edited model, replaces the server
// set wholesale, and returns the schedule decoded from the server's echo.
func (s *Service) SaveSchedule(ctx context.Context, expertID, tz string, week availability.WeekSchedule, timeOff []availability.TimeOff) (*Schedule, error) {
	ctx, span := expertTracer.Start(ctx, "expert.save_schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("serenenow.expert_id", expertID),
		attribute.String("serenenow.timezone", tz),
	)

	start := s.clock()
	rec := s.reconciler(tz)

	records, err := rec.Encode(week, timeOff)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailabilityOp("save", "invalid")
		return nil, err
	}
	echoed, err := s.api.SaveAvailability(ctx, expertID, records)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailabilityOp("save", "error")
		return nil, err
	}
	// Trust the round-tripped server result over the locally held state.
	gotWeek, gotOff, err := rec.Decode(echoed)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveAvailabilityOp("save", "decode_error")
		return nil, fmt.Errorf("expert: decode saved availability: %w", err)
	}

	s.metrics.ObserveAvailabilityOp("save", "ok")
	s.metrics.ObserveSaveLatency(s.clock().Sub(start).Seconds())
	s.logger.Info("schedule saved",
		"expert_id", expertID,
		"timezone", tz,
		"records", len(echoed),
		"time_off_entries", len(gotOff),
	)
	return &Schedule{Timezone: tz, Week: gotWeek, TimeOff: gotOff}, nil
}

// AddTimeOff stages a time-off entry on the current schedule and saves the
// whole set. An existing entry for the same date is replaced, keeping the
// one-override-per-date rule.
func (s *Service) AddTimeOff(ctx context.Context, expertID, tz string, entry availability.TimeOff) (*Schedule, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	current, err := s.LoadSchedule(ctx, expertID, tz)
	if err != nil {
		return nil, err
	}

	timeOff := make([]availability.TimeOff, 0, len(current.TimeOff)+1)
	for _, existing := range current.TimeOff {
		if existing.Date != entry.Date {
			timeOff = append(timeOff, existing)
		}
	}
	timeOff = append(timeOff, entry)

	return s.SaveSchedule(ctx, expertID, tz, current.Week, timeOff)
}

// RemoveTimeOff drops the override for a date and saves the whole set.
func (s *Service) RemoveTimeOff(ctx context.Context, expertID, tz, date string) (*Schedule, error) {
	current, err := s.LoadSchedule(ctx, expertID, tz)
	if err != nil {
		return nil, err
	}

	timeOff := make([]availability.TimeOff, 0, len(current.TimeOff))
	for _, existing := range current.TimeOff {
		if existing.Date != date {
			timeOff = append(timeOff, existing)
		}
	}
	if len(timeOff) == len(current.TimeOff) {
		return nil, fmt.Errorf("expert: no time off on %s", date)
	}

	return s.SaveSchedule(ctx, expertID, tz, current.Week, timeOff)
}

// ChangeTimezone re-reads the schedule under a new viewer timezone. Edits in
// progress are discarded by design: the UI model stores bare wall clocks, so
// the only safe path to a new zone is back through the server's UTC records.
func (s *Service) ChangeTimezone(ctx context.Context, expertID, newTZ string) (*Schedule, error) {
	return s.LoadSchedule(ctx, expertID, newTZ)
}

func (s *Service) reconciler(tz string) *availability.Reconciler {
	return availability.NewReconciler(tz, availability.WithClock(s.clock))
}
