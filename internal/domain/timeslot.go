package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// TimeSlot represents a fixed-duration, date-stamped time interval during
// business hours. Slots are generated on demand and are not persisted until
// embedded in an appointment. Intervals are half-open: [StartTime, EndTime)
type TimeSlot struct {
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	IsAvailable  bool
	TechnicianID *int64 // bound once a technician is matched to the slot
}

// DurationMinutes returns the slot length in minutes
func (s *TimeSlot) DurationMinutes() int {
	return s.EndTime.DiffMinutes(s.StartTime)
}

// SameSlot returns true if other describes the same date and time range
func (s *TimeSlot) SameSlot(other TimeSlot) bool {
	return s.Date.Equal(other.Date) &&
		s.StartTime.Equal(other.StartTime) &&
		s.EndTime.Equal(other.EndTime)
}
