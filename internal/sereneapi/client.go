// Package sereneapi is the HTTP client for the SereneNow booking API, the
// system of record for availability, slot listings and bookings. The engine
// never persists anything itself; every save ships the full availability set
// and the server's echoed, normalized result is what callers trust.
package sereneapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/serenenow/scheduling/internal/availability"
	"github.com/serenenow/scheduling/internal/calendar"
	"github.com/serenenow/scheduling/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// Client talks to the SereneNow booking API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a SereneNow API client.
func NewClient(baseURL, apiKey string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAvailability returns the expert's full availability record set.
func (c *Client) FetchAvailability(ctx context.Context, expertID string) ([]availability.Record, error) {
	var env availabilityEnvelope
	path := fmt.Sprintf("/experts/%s/availability", url.PathEscape(expertID))
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("sereneapi: fetch availability for %s: %w", expertID, err)
	}
	return fromWireRecords(env.Availability), nil
}

// SaveAvailability replaces the expert's entire availability set and returns
// the persisted set as the server normalized it.
func (c *Client) SaveAvailability(ctx context.Context, expertID string, records []availability.Record) ([]availability.Record, error) {
	body := availabilityEnvelope{Availability: toWireRecords(records)}
	var env availabilityEnvelope
	path := fmt.Sprintf("/experts/%s/availability", url.PathEscape(expertID))
	if err := c.do(ctx, http.MethodPut, path, body, &env); err != nil {
		return nil, fmt.Errorf("sereneapi: save availability for %s: %w", expertID, err)
	}
	c.logger.Info("availability saved", "expert_id", expertID, "records", len(env.Availability))
	return fromWireRecords(env.Availability), nil
}

// FetchSlots lists raw bookable UTC windows for a service, optionally limited
// to one date.
func (c *Client) FetchSlots(ctx context.Context, expertID, serviceID, date string) ([]calendar.SlotWindow, error) {
	path := fmt.Sprintf("/experts/%s/services/%s/slots", url.PathEscape(expertID), url.PathEscape(serviceID))
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	var env slotsEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, fmt.Errorf("sereneapi: fetch slots for %s/%s: %w", expertID, serviceID, err)
	}
	return fromWireSlots(env.Slots), nil
}

// CreateBooking creates an appointment plus its payment session.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*BookingConfirmation, error) {
	body := wireBookingRequest{
		ClientID:    req.ClientID,
		ExpertID:    req.ExpertID,
		ServiceID:   req.ServiceID,
		StartUTC:    req.StartUTC,
		EndUTC:      req.EndUTC,
		PaymentMode: req.PaymentMode,
	}
	var wire wireBookingConfirmation
	if err := c.do(ctx, http.MethodPost, "/bookings", body, &wire); err != nil {
		return nil, fmt.Errorf("sereneapi: create booking: %w", err)
	}
	c.logger.Info("booking created",
		"expert_id", req.ExpertID,
		"service_id", req.ServiceID,
		"appointment_id", wire.AppointmentID,
	)
	return &BookingConfirmation{
		OrderID:          wire.OrderID,
		AppointmentID:    wire.AppointmentID,
		PaymentSessionID: wire.PaymentSessionID,
	}, nil
}

// do executes one JSON request/response round trip.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
