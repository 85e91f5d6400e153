package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.VehicleID <= 0 {
		return fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	if req.TechnicianID != nil && *req.TechnicianID <= 0 {
		return fmt.Errorf("%w: technicianID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.CustomerName == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}

	if req.CustomerPhone == "" {
		return fmt.Errorf("%w: customerPhone is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи
func validateDate(appointmentDate time.Time, now time.Time, maxDaysInAdvance int) error {
	if scheduling.IsDateInPast(appointmentDate, now) {
		return ErrInvalidDate
	}

	maxDate := scheduling.DateOnly(now).AddDate(0, 0, maxDaysInAdvance)
	if scheduling.DateOnly(appointmentDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxDaysInAdvance)
	}

	return nil
}

// validateBookingNotice проверяет, что до начала записи остается не меньше
// minHoursInAdvance. Сравнение в абсолютном времени, поэтому граница
// работает и через полночь (запись на завтра 00:30 в 23:30 не проходит)
func validateBookingNotice(
	appointmentDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minHoursInAdvance int,
) error {
	minutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	startAt := scheduling.DateOnly(appointmentDate).Add(time.Duration(minutes) * time.Minute)
	minStart := now.Add(time.Duration(minHoursInAdvance) * time.Hour)

	if startAt.Before(minStart) {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, minHoursInAdvance)
	}

	return nil
}

// validateTimeSlot проверяет, что начало лежит на сетке слотов рабочего дня
// и работа умещается до конца рабочего дня
func validateTimeSlot(
	startTime types.TimeString,
	durationMinutes int,
	settings *domain.AppointmentSettings,
) error {
	startMinutes, err := startTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	}

	workStartMinutes, err := settings.WorkingHours.StartTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}

	workEndMinutes, err := settings.WorkingHours.EndTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: invalid working hours: %v", ErrInternal, err)
	}

	if startMinutes < workStartMinutes || startMinutes >= workEndMinutes {
		return fmt.Errorf("%w: start time is outside working hours", ErrInvalidTimeSlot)
	}

	if (startMinutes-workStartMinutes)%settings.TimeSlotDurationMinutes != 0 {
		return fmt.Errorf("%w: start time is not aligned to the slot grid", ErrInvalidTimeSlot)
	}

	if startMinutes+durationMinutes > workEndMinutes {
		return fmt.Errorf("%w: work does not fit into the working day", ErrInvalidTimeSlot)
	}

	return nil
}
