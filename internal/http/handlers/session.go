package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serenenow/scheduling/internal/booking"
	"github.com/serenenow/scheduling/internal/bookingflow"
	"github.com/serenenow/scheduling/pkg/logging"
)

// SessionHandler drives persisted booking-flow sessions: each mutation loads
// the stepper, applies one transition and saves it back.
type SessionHandler struct {
	sessions  *bookingflow.SessionStore
	slots     *booking.Service
	policy    bookingflow.Policy
	public    bool
	defaultTZ string
	logger    *logging.Logger
}

// NewSessionHandler creates the booking session handler.
func NewSessionHandler(sessions *bookingflow.SessionStore, slots *booking.Service, policy bookingflow.Policy, public bool, defaultTZ string, logger *logging.Logger) *SessionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionHandler{
		sessions:  sessions,
		slots:     slots,
		policy:    policy,
		public:    public,
		defaultTZ: defaultTZ,
		logger:    logger,
	}
}

// SessionResponse wraps a stepper with its id.
type SessionResponse struct {
	SessionID string               `json:"sessionId"`
	Stepper   *bookingflow.Stepper `json:"stepper"`
}

// CreateSessionRequest is the body of POST /booking/sessions
type CreateSessionRequest struct {
	ServiceCount int    `json:"serviceCount"`
	Timezone     string `json:"timezone"`
}

// Create handles POST /booking/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timezone == "" {
		req.Timezone = h.defaultTZ
	}

	stepper := bookingflow.New(bookingflow.Options{
		Public:       h.public,
		ServiceCount: req.ServiceCount,
		Policy:       h.policy,
		Timezone:     req.Timezone,
	})
	sessionID := uuid.NewString()
	if err := h.sessions.Save(r.Context(), sessionID, stepper); err != nil {
		h.logger.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	respondJSON(w, http.StatusCreated, SessionResponse{SessionID: sessionID, Stepper: stepper})
}

// Get handles GET /booking/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	stepper, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, bookingflow.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{SessionID: sessionID, Stepper: stepper})
}

// mutate loads the session, applies fn and saves the result. Errors from fn
// are surfaced as 400s without saving.
func (h *SessionHandler) mutate(w http.ResponseWriter, r *http.Request, fn func(*bookingflow.Stepper) error) {
	sessionID := chi.URLParam(r, "sessionID")
	stepper, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, bookingflow.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	if err := fn(stepper); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.sessions.Save(r.Context(), sessionID, stepper); err != nil {
		h.logger.Error("failed to save session", "session_id", sessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{SessionID: sessionID, Stepper: stepper})
}

// CompleteStepRequest is the body of POST .../steps/{step}/complete
type CompleteStepRequest struct {
	Data json.RawMessage `json:"data,omitempty"`
}

// CompleteStep handles POST /booking/sessions/{sessionID}/steps/{step}/complete
func (h *SessionHandler) CompleteStep(w http.ResponseWriter, r *http.Request) {
	step := bookingflow.Step(chi.URLParam(r, "step"))
	var req CompleteStepRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	h.mutate(w, r, func(s *bookingflow.Stepper) error {
		return s.Complete(step, req.Data)
	})
}

// EditStep handles POST /booking/sessions/{sessionID}/steps/{step}/edit
func (h *SessionHandler) EditStep(w http.ResponseWriter, r *http.Request) {
	step := bookingflow.Step(chi.URLParam(r, "step"))
	h.mutate(w, r, func(s *bookingflow.Stepper) error {
		return s.Edit(step)
	})
}

// LoadSlotsRequest is the body of POST /booking/sessions/{sessionID}/slots
type LoadSlotsRequest struct {
	ExpertID  string `json:"expertId"`
	ServiceID string `json:"serviceId"`
	Date      string `json:"date"`
}

// LoadSlots fetches the raw UTC windows for the chosen date and installs
// them on the session.
func (h *SessionHandler) LoadSlots(w http.ResponseWriter, r *http.Request) {
	var req LoadSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ExpertID == "" || req.ServiceID == "" || req.Date == "" {
		respondError(w, http.StatusBadRequest, "expertId, serviceId and date are required")
		return
	}

	raw, err := h.slots.RawWindows(r.Context(), req.ExpertID, req.ServiceID, req.Date)
	if err != nil {
		h.logger.Error("failed to fetch slots for session", "error", err)
		respondError(w, http.StatusBadGateway, "failed to fetch slots")
		return
	}
	h.mutate(w, r, func(s *bookingflow.Stepper) error {
		s.SetSlots(raw)
		return nil
	})
}

// SelectTimeRequest is the body of POST /booking/sessions/{sessionID}/select-time
type SelectTimeRequest struct {
	StartUTC string `json:"startUtc"`
}

// SelectTime handles POST /booking/sessions/{sessionID}/select-time
func (h *SessionHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req SelectTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.mutate(w, r, func(s *bookingflow.Stepper) error {
		return s.SelectTime(req.StartUTC)
	})
}

// SetTimezoneRequest is the body of POST /booking/sessions/{sessionID}/timezone
type SetTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

// SetTimezone handles POST /booking/sessions/{sessionID}/timezone
func (h *SessionHandler) SetTimezone(w http.ResponseWriter, r *http.Request) {
	var req SetTimezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Timezone == "" {
		respondError(w, http.StatusBadRequest, "timezone is required")
		return
	}
	h.mutate(w, r, func(s *bookingflow.Stepper) error {
		s.SetTimezone(req.Timezone)
		return nil
	})
}
