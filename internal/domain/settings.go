package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// WorkingHours is the daily business-hours window slots are generated within
type WorkingHours struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// SpanMinutes returns the length of the working day in minutes
func (w WorkingHours) SpanMinutes() int {
	return w.EndTime.DiffMinutes(w.StartTime)
}

// ReminderSettings controls reminder delivery channels and lead times
type ReminderSettings struct {
	EnableEmail   bool
	EnableSMS     bool
	EnablePush    bool
	ReminderHours []int // hours before the appointment, e.g. [24, 2]
}

// AppointmentSettings is the booking configuration: working hours, slot
// duration and booking-window limits. Loaded from storage, updated through
// the settings service
type AppointmentSettings struct {
	ID                      int64
	WorkingHours            WorkingHours
	TimeSlotDurationMinutes int
	MaxDaysInAdvance        int
	MinHoursInAdvance       int
	AutoConfirmation        bool
	ReminderSettings        ReminderSettings

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSettings returns the settings used when nothing is stored yet
func DefaultSettings() *AppointmentSettings {
	return &AppointmentSettings{
		WorkingHours: WorkingHours{
			StartTime: types.TimeString(DefaultWorkingHoursStart),
			EndTime:   types.TimeString(DefaultWorkingHoursEnd),
		},
		TimeSlotDurationMinutes: DefaultTimeSlotDurationMinutes,
		MaxDaysInAdvance:        DefaultMaxDaysInAdvance,
		MinHoursInAdvance:       DefaultMinHoursInAdvance,
		AutoConfirmation:        false,
		ReminderSettings: ReminderSettings{
			EnableEmail:   true,
			EnableSMS:     false,
			EnablePush:    false,
			ReminderHours: []int{DefaultReminderHours},
		},
	}
}
