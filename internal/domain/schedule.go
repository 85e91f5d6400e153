package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ShiftStatus represents the state of a technician shift
type ShiftStatus string

const (
	ShiftAvailable ShiftStatus = "available"
	ShiftBusy      ShiftStatus = "busy"
	ShiftOff       ShiftStatus = "off"
)

// Shift is a single working interval within a technician's day.
// The range is half-open: [StartTime, EndTime)
type Shift struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Status    ShiftStatus
}

// Covers returns true if the shift is available and its range contains
// the given time (inclusive of shift start, exclusive of shift end).
// Comparison is done in minutes-since-midnight integer arithmetic
func (s *Shift) Covers(t types.TimeString) bool {
	if s.Status != ShiftAvailable {
		return false
	}
	return !t.IsBefore(s.StartTime) && t.IsBefore(s.EndTime)
}

// TechnicianSchedule holds one technician's shifts for a single date
type TechnicianSchedule struct {
	ID           int64
	TechnicianID int64
	Date         time.Time
	Shifts       []Shift

	CreatedAt time.Time
	UpdatedAt time.Time
}
