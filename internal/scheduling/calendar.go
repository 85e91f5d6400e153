package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidWorkingHours возвращается, когда начало рабочего дня не раньше конца
	ErrInvalidWorkingHours = errors.New("scheduling: working hours start must be before end")

	// ErrInvalidSlotDuration возвращается при неположительной длительности слота
	ErrInvalidSlotDuration = errors.New("scheduling: slot duration must be positive")
)

// GenerateTimeSlots генерирует сетку слотов на день в пределах рабочих часов.
// Чистая функция: пересчитывается заново при каждом вызове, без кэширования.
//
// Слоты идут подряд с шагом slotDurationMinutes начиная с начала рабочего дня.
// Если длительность не делит рабочий день нацело, последний неполный слот
// отбрасывается: слот, чей конец выходит за время закрытия, не выдается
func GenerateTimeSlots(date time.Time, hours domain.WorkingHours, slotDurationMinutes int) ([]domain.TimeSlot, error) {
	if slotDurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSlotDuration, slotDurationMinutes)
	}
	if err := hours.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	if err := hours.EndTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkingHours, err)
	}
	if !hours.StartTime.IsBefore(hours.EndTime) {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidWorkingHours, hours.StartTime, hours.EndTime)
	}

	slots := make([]domain.TimeSlot, 0)
	current := hours.StartTime

	for current.IsBefore(hours.EndTime) {
		slotEnd, err := current.AddMinutes(slotDurationMinutes)
		if err != nil {
			// Конец слота вышел за пределы суток
			break
		}
		if slotEnd.IsAfter(hours.EndTime) {
			break
		}

		slots = append(slots, domain.TimeSlot{
			Date:        date,
			StartTime:   current,
			EndTime:     slotEnd,
			IsAvailable: true,
		})

		current = slotEnd
	}

	return slots, nil
}
