package sereneapi

import (
	"github.com/serenenow/scheduling/internal/availability"
	"github.com/serenenow/scheduling/internal/calendar"
)

// The wire layer is snake_case JSON; domain types stay camelCase. Translation
// happens here and nowhere else.

type wireRecord struct {
	ID            string `json:"id,omitempty"`
	DayOfWeek     int    `json:"day_of_week"`
	IsRecurring   bool   `json:"is_recurring"`
	IsUnavailable bool   `json:"is_unavailable"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type availabilityEnvelope struct {
	Availability []wireRecord `json:"availability"`
}

func toWireRecords(records []availability.Record) []wireRecord {
	out := make([]wireRecord, len(records))
	for i, r := range records {
		out[i] = wireRecord{
			ID:            r.ID,
			DayOfWeek:     r.DayOfWeek,
			IsRecurring:   r.IsRecurring,
			IsUnavailable: r.IsUnavailable,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
		}
	}
	return out
}

func fromWireRecords(records []wireRecord) []availability.Record {
	out := make([]availability.Record, len(records))
	for i, r := range records {
		out[i] = availability.Record{
			ID:            r.ID,
			DayOfWeek:     r.DayOfWeek,
			IsRecurring:   r.IsRecurring,
			IsUnavailable: r.IsUnavailable,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
		}
	}
	return out
}

type wireSlot struct {
	StartUTC string `json:"start_utc"`
	EndUTC   string `json:"end_utc"`
}

type slotsEnvelope struct {
	Slots []wireSlot `json:"slots"`
}

func fromWireSlots(slots []wireSlot) []calendar.SlotWindow {
	out := make([]calendar.SlotWindow, len(slots))
	for i, s := range slots {
		out[i] = calendar.SlotWindow{StartUTC: s.StartUTC, EndUTC: s.EndUTC}
	}
	return out
}

// BookingRequest carries everything needed to create a booking. Start and end
// are the stored UTC instants of the selected slot, never times re-derived
// from display strings.
type BookingRequest struct {
	ClientID    string
	ExpertID    string
	ServiceID   string
	StartUTC    string
	EndUTC      string
	PaymentMode string
}

type wireBookingRequest struct {
	ClientID    string `json:"client_id"`
	ExpertID    string `json:"expert_id"`
	ServiceID   string `json:"service_id"`
	StartUTC    string `json:"start_utc"`
	EndUTC      string `json:"end_utc"`
	PaymentMode string `json:"payment_mode"`
}

// BookingConfirmation is the server's response to a successful booking.
type BookingConfirmation struct {
	OrderID          string `json:"orderId"`
	AppointmentID    string `json:"appointmentId"`
	PaymentSessionID string `json:"paymentSessionId"`
}

type wireBookingConfirmation struct {
	OrderID          string `json:"order_id"`
	AppointmentID    string `json:"appointment_id"`
	PaymentSessionID string `json:"payment_session_id"`
}
