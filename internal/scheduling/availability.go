package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AvailabilityIndex отвечает на вопрос "свободен ли механик X в момент T
// в дату D" по заранее загруженным сменам. Индекс строится один раз на
// запрос рекомендаций и дальше работает в памяти
type AvailabilityIndex struct {
	// ключ - (technicianID, дата в формате YYYY-MM-DD)
	schedules map[scheduleKey]*domain.TechnicianSchedule
}

type scheduleKey struct {
	technicianID int64
	date         string
}

// NewAvailabilityIndex строит индекс по загруженным расписаниям
// При нескольких записях на одну пару (механик, дата) побеждает последняя
func NewAvailabilityIndex(schedules []*domain.TechnicianSchedule) *AvailabilityIndex {
	index := &AvailabilityIndex{
		schedules: make(map[scheduleKey]*domain.TechnicianSchedule, len(schedules)),
	}

	for _, schedule := range schedules {
		index.schedules[keyFor(schedule.TechnicianID, schedule.Date)] = schedule
	}

	return index
}

// IsAvailable возвращает true, если у механика есть смена со статусом
// available, диапазон которой содержит начало слота
// (начало смены включительно, конец - исключительно)
func (i *AvailabilityIndex) IsAvailable(technicianID int64, slot domain.TimeSlot) bool {
	schedule, ok := i.schedules[keyFor(technicianID, slot.Date)]
	if !ok {
		// Нет расписания на эту дату - механик недоступен
		return false
	}

	for _, shift := range schedule.Shifts {
		if shift.Covers(slot.StartTime) {
			return true
		}
	}

	return false
}

// AvailableTechnicians возвращает механиков из candidates, доступных для
// слота по сменам. Порядок candidates сохраняется - он определяет
// детерминированный выбор механика при равных условиях
func (i *AvailabilityIndex) AvailableTechnicians(slot domain.TimeSlot, candidates []int64) []int64 {
	available := make([]int64, 0, len(candidates))
	for _, technicianID := range candidates {
		if i.IsAvailable(technicianID, slot) {
			available = append(available, technicianID)
		}
	}
	return available
}

func keyFor(technicianID int64, date time.Time) scheduleKey {
	return scheduleKey{
		technicianID: technicianID,
		date:         date.Format(domain.DateFormat),
	}
}
