package availability

import "errors"

var (
	// ErrDayOutOfRange is returned when a record's day of week is not 1..7
	ErrDayOutOfRange = errors.New("day of week must be between 1 (Monday) and 7 (Sunday)")

	// ErrEnabledWithoutSlots is returned when a day is enabled but has no slots
	ErrEnabledWithoutSlots = errors.New("enabled day must have at least one slot")

	// ErrDisabledWithSlots is returned when a disabled day still carries slots
	ErrDisabledWithSlots = errors.New("disabled day must not have slots")

	// ErrFullDayOffWithSlots is returned when a full-day time off carries custom slots
	ErrFullDayOffWithSlots = errors.New("full-day time off must not have custom slots")

	// ErrTimeOffWithoutSlots is returned when a partial time off has no custom slots
	ErrTimeOffWithoutSlots = errors.New("custom time off must have at least one slot")

	// ErrMalformedTimestamp is returned when a record timestamp cannot be interpreted
	ErrMalformedTimestamp = errors.New("malformed record timestamp")

	// ErrMalformedDate is returned when a time-off date is not YYYY-MM-DD
	ErrMalformedDate = errors.New("malformed date, want YYYY-MM-DD")

	// ErrSlotOrder is returned when a slot ends at or before it starts
	ErrSlotOrder = errors.New("slot end time must be after its start time")
)
