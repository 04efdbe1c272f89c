// Package bookingflow drives the multi-step client booking progression:
// service, date, time, then payment, with a client-details step inserted for
// the public (unauthenticated) flow. The stepper owns edit/resume semantics
// and the timezone-change rules for slot selection.
package bookingflow

import (
	"encoding/json"
	"fmt"

	"github.com/serenenow/scheduling/internal/calendar"
)

// Step identifies one stage of the booking flow.
type Step string

const (
	StepService Step = "service"
	StepDate    Step = "date"
	StepTime    Step = "time"
	StepClient  Step = "client"
	StepPayment Step = "payment"
)

// Policy controls what happens to later steps when an earlier completed step
// is re-opened for editing.
type Policy string

const (
	// PolicyPreserve keeps later steps' completion and data intact; the user
	// resumes forward without re-answering them. Later data may be stale
	// relative to the edited answer.
	PolicyPreserve Policy = "preserve"

	// PolicyInvalidate clears completion and data of every step after the
	// edited one.
	PolicyInvalidate Policy = "invalidate"
)

// ParsePolicy maps a config string to a Policy, defaulting to preserve.
func ParsePolicy(s string) Policy {
	if s == string(PolicyInvalidate) {
		return PolicyInvalidate
	}
	return PolicyPreserve
}

// StepState carries one step's completion flag and payload.
type StepState struct {
	Completed bool            `json:"completed"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Stepper is the booking flow state machine. All fields are exported so a
// session store can round-trip it through JSON.
type Stepper struct {
	Steps    []Step              `json:"steps"`
	Current  Step                `json:"current"`
	States   map[Step]*StepState `json:"states"`
	Policy   Policy              `json:"policy"`
	Timezone string              `json:"timezone"`

	// RawSlots holds the UTC slot windows fetched for the chosen date; they
	// are the only source display slots are derived from. Selected always
	// points at original UTC instants, never display-derived times.
	RawSlots []calendar.SlotWindow  `json:"rawSlots,omitempty"`
	Display  []calendar.DisplaySlot `json:"display,omitempty"`
	Selected *calendar.DisplaySlot  `json:"selected,omitempty"`

	Errors map[Step]string `json:"errors,omitempty"`
}

// Options configures a new Stepper.
type Options struct {
	// Public inserts the client-details step before payment.
	Public bool
	// ServiceCount is the number of services the expert offers. With exactly
	// one, the service step auto-completes and the flow starts at date.
	ServiceCount int
	Policy       Policy
	Timezone     string
}

// New builds a stepper positioned at its first incomplete step.
func New(opts Options) *Stepper {
	steps := []Step{StepService, StepDate, StepTime, StepPayment}
	if opts.Public {
		steps = []Step{StepService, StepDate, StepTime, StepClient, StepPayment}
	}
	policy := opts.Policy
	if policy == "" {
		policy = PolicyPreserve
	}

	s := &Stepper{
		Steps:    steps,
		Current:  StepService,
		States:   make(map[Step]*StepState, len(steps)),
		Policy:   policy,
		Timezone: opts.Timezone,
		Errors:   map[Step]string{},
	}
	for _, step := range steps {
		s.States[step] = &StepState{}
	}
	if opts.ServiceCount == 1 {
		s.States[StepService].Completed = true
		s.Current = StepDate
	}
	return s
}

// Complete marks a step completed with its payload, positions the flow on it
// and advances to the next step in sequence when one exists. The payment step
// is terminal: completing it leaves the flow there.
func (s *Stepper) Complete(step Step, data json.RawMessage) error {
	idx := s.indexOf(step)
	if idx < 0 {
		return fmt.Errorf("bookingflow: unknown step %q", step)
	}
	state := s.States[step]
	state.Completed = true
	state.Data = data
	delete(s.Errors, step)
	s.Current = step
	if idx+1 < len(s.Steps) {
		s.Current = s.Steps[idx+1]
	}
	return nil
}

// Edit re-opens a step: the current position moves there and only that step's
// completion flag is cleared. Later steps are preserved or invalidated per
// the configured policy.
func (s *Stepper) Edit(step Step) error {
	idx := s.indexOf(step)
	if idx < 0 {
		return fmt.Errorf("bookingflow: unknown step %q", step)
	}
	s.Current = step
	s.States[step].Completed = false
	if s.Policy == PolicyInvalidate {
		for _, later := range s.Steps[idx+1:] {
			s.States[later] = &StepState{}
		}
	}
	return nil
}

// SetSlots installs the raw UTC windows fetched for the chosen date and
// renders them in the current timezone. Any previous selection is dropped.
func (s *Stepper) SetSlots(raw []calendar.SlotWindow) {
	s.RawSlots = raw
	s.Display = calendar.DisplaySlots(raw, s.Timezone)
	s.Selected = nil
}

// SelectTime picks a slot by its UTC start instant, completes the time step
// and advances.
func (s *Stepper) SelectTime(startUTC string) error {
	for i := range s.Display {
		if s.Display[i].StartUTC == startUTC {
			slot := s.Display[i]
			s.Selected = &slot
			return s.Complete(StepTime, nil)
		}
	}
	return fmt.Errorf("bookingflow: no slot starting at %q", startUTC)
}

// SetTimezone switches the viewer timezone. Slot display is recomputed from
// the stored UTC windows, and if a time was already selected it is reset:
// slot identity by display string cannot be trusted across a zone change. The
// flow returns to the time step when it had moved past it.
func (s *Stepper) SetTimezone(tz string) {
	if tz == s.Timezone {
		return
	}
	s.Timezone = tz
	s.Display = calendar.DisplaySlots(s.RawSlots, tz)
	if s.Selected == nil && !s.States[StepTime].Completed {
		return
	}
	s.Selected = nil
	s.States[StepTime].Completed = false
	if s.indexOf(s.Current) > s.indexOf(StepTime) {
		s.Current = StepTime
	}
}

// Fail records a submission failure against a step. The current position is
// kept so the user can retry in place.
func (s *Stepper) Fail(step Step, msg string) {
	if s.Errors == nil {
		s.Errors = map[Step]string{}
	}
	s.Errors[step] = msg
}

// Done reports whether every step is completed.
func (s *Stepper) Done() bool {
	for _, step := range s.Steps {
		if !s.States[step].Completed {
			return false
		}
	}
	return true
}

func (s *Stepper) indexOf(step Step) int {
	for i, st := range s.Steps {
		if st == step {
			return i
		}
	}
	return -1
}
