package scheduling

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Overlaps проверяет пересечение двух полуоткрытых интервалов [aStart, aEnd)
// и [bStart, bEnd). Граничащие интервалы (конец одного равен началу другого)
// НЕ считаются пересекающимися
func Overlaps(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && bStart.IsBefore(aEnd)
}

// IsSlotFree проверяет, что слот не занят существующей записью:
// запись блокирует слот, если она не отменена, закреплена за тем же
// механиком, назначена на ту же дату и её интервал пересекается с интервалом
// слота. Отмененные записи слот не блокируют
func IsSlotFree(slot domain.TimeSlot, technicianID int64, appointments []*domain.Appointment) bool {
	for _, appointment := range appointments {
		if !appointment.IsActive() {
			continue
		}
		if appointment.TechnicianID == nil || *appointment.TechnicianID != technicianID {
			continue
		}
		if !sameDay(appointment.Date, slot.Date) {
			continue
		}
		if Overlaps(appointment.StartTime, appointment.EndTime, slot.StartTime, slot.EndTime) {
			return false
		}
	}
	return true
}
