package bookingflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// ErrSessionNotFound is returned when no session exists for the given id
var ErrSessionNotFound = errors.New("booking session not found")

const defaultSessionTTL = 30 * time.Minute

// SessionStore persists in-progress booking flows in Redis so a client can
// resume a multi-step flow. State is owned by exactly one session; there is
// no concurrent-writer scenario, so plain set/get with a TTL suffices.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewSessionStore creates a session store. A zero ttl uses the default.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if client == nil {
		panic("bookingflow: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("serenenow.internal.bookingflow"),
	}
}

// Save persists the stepper state under the session id, refreshing the TTL.
func (s *SessionStore) Save(ctx context.Context, sessionID string, stepper *Stepper) error {
	ctx, span := s.tracer.Start(ctx, "bookingflow.save_session")
	defer span.End()

	data, err := json.Marshal(stepper)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookingflow: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookingflow: failed to persist session: %w", err)
	}
	return nil
}

// Load retrieves a stepper by session id.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (*Stepper, error) {
	ctx, span := s.tracer.Start(ctx, "bookingflow.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("bookingflow: %w: %s", ErrSessionNotFound, sessionID)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("bookingflow: failed to load session: %w", err)
	}

	var stepper Stepper
	if err := json.Unmarshal(data, &stepper); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookingflow: failed to decode session: %w", err)
	}
	return &stepper, nil
}

// Delete removes a session, typically after a confirmed booking.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "bookingflow.delete_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("bookingflow: failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("booking_session:%s", id)
}
