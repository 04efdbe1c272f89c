package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/serenenow/scheduling/internal/availability"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// isValidationErr reports whether err is a model-invariant violation, which
// maps to a 400 rather than a 502.
func isValidationErr(err error) bool {
	for _, sentinel := range []error{
		availability.ErrDayOutOfRange,
		availability.ErrEnabledWithoutSlots,
		availability.ErrDisabledWithSlots,
		availability.ErrFullDayOffWithSlots,
		availability.ErrTimeOffWithoutSlots,
		availability.ErrMalformedTimestamp,
		availability.ErrMalformedDate,
		availability.ErrSlotOrder,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
