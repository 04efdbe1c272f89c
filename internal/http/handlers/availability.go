package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/serenenow/scheduling/internal/availability"
	"github.com/serenenow/scheduling/internal/expert"
	"github.com/serenenow/scheduling/pkg/logging"
)

// AvailabilityHandler exposes expert schedule management.
type AvailabilityHandler struct {
	svc       *expert.Service
	defaultTZ string
	logger    *logging.Logger
}

// NewAvailabilityHandler creates the expert availability handler.
func NewAvailabilityHandler(svc *expert.Service, defaultTZ string, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{svc: svc, defaultTZ: defaultTZ, logger: logger}
}

func (h *AvailabilityHandler) timezone(r *http.Request) string {
	if tz := r.URL.Query().Get("timezone"); tz != "" {
		return tz
	}
	return h.defaultTZ
}

// GetSchedule handles GET /experts/{expertID}/schedule
func (h *AvailabilityHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	expertID := chi.URLParam(r, "expertID")
	tz := h.timezone(r)

	sched, err := h.svc.LoadSchedule(r.Context(), expertID, tz)
	if err != nil {
		h.logger.Error("failed to load schedule", "expert_id", expertID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to load schedule")
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

// SaveScheduleRequest is the body of PUT /experts/{expertID}/schedule
type SaveScheduleRequest struct {
	Timezone string                    `json:"timezone"`
	Week     availability.WeekSchedule `json:"week"`
	TimeOff  []availability.TimeOff    `json:"timeOff"`
}

// SaveSchedule handles PUT /experts/{expertID}/schedule
func (h *AvailabilityHandler) SaveSchedule(w http.ResponseWriter, r *http.Request) {
	expertID := chi.URLParam(r, "expertID")

	var req SaveScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timezone == "" {
		req.Timezone = h.defaultTZ
	}

	sched, err := h.svc.SaveSchedule(r.Context(), expertID, req.Timezone, req.Week, req.TimeOff)
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to save schedule", "expert_id", expertID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to save schedule")
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

// AddTimeOffRequest is the body of POST /experts/{expertID}/time-off
type AddTimeOffRequest struct {
	Timezone     string                  `json:"timezone"`
	Date         string                  `json:"date"`
	IsFullDayOff bool                    `json:"isFullDayOff"`
	CustomSlots  []availability.TimeSlot `json:"customSlots"`
}

// AddTimeOff handles POST /experts/{expertID}/time-off
func (h *AvailabilityHandler) AddTimeOff(w http.ResponseWriter, r *http.Request) {
	expertID := chi.URLParam(r, "expertID")

	var req AddTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timezone == "" {
		req.Timezone = h.defaultTZ
	}
	if req.CustomSlots == nil {
		req.CustomSlots = []availability.TimeSlot{}
	}

	entry := availability.TimeOff{
		Date:         req.Date,
		IsFullDayOff: req.IsFullDayOff,
		CustomSlots:  req.CustomSlots,
	}
	sched, err := h.svc.AddTimeOff(r.Context(), expertID, req.Timezone, entry)
	if err != nil {
		if isValidationErr(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to add time off", "expert_id", expertID, "error", err)
		respondError(w, http.StatusBadGateway, "failed to add time off")
		return
	}
	respondJSON(w, http.StatusOK, sched)
}

// RemoveTimeOff handles DELETE /experts/{expertID}/time-off/{date}
func (h *AvailabilityHandler) RemoveTimeOff(w http.ResponseWriter, r *http.Request) {
	expertID := chi.URLParam(r, "expertID")
	date := chi.URLParam(r, "date")
	tz := h.timezone(r)

	sched, err := h.svc.RemoveTimeOff(r.Context(), expertID, tz, date)
	if err != nil {
		h.logger.Error("failed to remove time off", "expert_id", expertID, "date", date, "error", err)
		respondError(w, http.StatusBadGateway, "failed to remove time off")
		return
	}
	respondJSON(w, http.StatusOK, sched)
}
