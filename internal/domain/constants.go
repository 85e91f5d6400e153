package domain

// Default configuration values
const (
	DefaultWorkingHoursStart       = "09:00"
	DefaultWorkingHoursEnd         = "18:00"
	DefaultTimeSlotDurationMinutes = 30
	DefaultMaxDaysInAdvance        = 30
	DefaultMinHoursInAdvance       = 2
	DefaultReminderHours           = 24
)

// Business validation constants
const (
	MinTimeSlotDurationMinutes = 5
	MaxTimeSlotDurationMinutes = 480 // 8 hours
	MinDaysInAdvance           = 1
	MaxDaysInAdvanceLimit      = 365 // 1 year
	MinHoursInAdvanceLimit     = 0
	MaxHoursInAdvanceLimit     = 168 // 1 week
	MaxNotesLength             = 500
	MaxCancellationReasonLen   = 500
	MaxRecommendations         = 5
	MaxAlternativeSlots        = 3

	// AlternativeSlotWidths ограничивает альтернативные слоты окном
	// ±N ширин слота от рекомендованного времени в тот же день
	AlternativeSlotWidths = 2
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих слот
// Используется при проверке пересечений бронирований
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов, занимающих слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessed,
	StatusInProgress,
	StatusCompleted,
}

// ValidStatuses все допустимые статусы записи
var ValidStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}
