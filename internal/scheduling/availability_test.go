package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

var testDate = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func slotAt(start, end string) domain.TimeSlot {
	return domain.TimeSlot{
		Date:        testDate,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		IsAvailable: true,
	}
}

func scheduleFor(technicianID int64, date time.Time, shifts ...domain.Shift) *domain.TechnicianSchedule {
	return &domain.TechnicianSchedule{
		TechnicianID: technicianID,
		Date:         date,
		Shifts:       shifts,
	}
}

func TestAvailabilityIndex_IsAvailable(t *testing.T) {
	index := NewAvailabilityIndex([]*domain.TechnicianSchedule{
		scheduleFor(1, testDate,
			domain.Shift{StartTime: "10:00", EndTime: "12:00", Status: domain.ShiftAvailable},
		),
		scheduleFor(2, testDate,
			domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftOff},
		),
	})

	// Механик 1: смена 10:00-12:00
	assert.True(t, index.IsAvailable(1, slotAt("10:00", "10:30")))
	assert.True(t, index.IsAvailable(1, slotAt("11:30", "12:00")))

	// Начало слота на границе конца смены - недоступен (полуоткрытый интервал)
	assert.False(t, index.IsAvailable(1, slotAt("12:00", "12:30")))
	assert.False(t, index.IsAvailable(1, slotAt("09:30", "10:00")))

	// Механик 2: смена со статусом off не считается доступной
	assert.False(t, index.IsAvailable(2, slotAt("10:00", "10:30")))

	// Механик без расписания недоступен
	assert.False(t, index.IsAvailable(99, slotAt("10:00", "10:30")))

	// Другая дата без расписания
	otherDay := slotAt("10:00", "10:30")
	otherDay.Date = testDate.AddDate(0, 0, 1)
	assert.False(t, index.IsAvailable(1, otherDay))
}

func TestAvailabilityIndex_MultipleShifts(t *testing.T) {
	// Смена с перерывом на обед
	index := NewAvailabilityIndex([]*domain.TechnicianSchedule{
		scheduleFor(1, testDate,
			domain.Shift{StartTime: "09:00", EndTime: "13:00", Status: domain.ShiftAvailable},
			domain.Shift{StartTime: "13:00", EndTime: "14:00", Status: domain.ShiftBusy},
			domain.Shift{StartTime: "14:00", EndTime: "18:00", Status: domain.ShiftAvailable},
		),
	})

	assert.True(t, index.IsAvailable(1, slotAt("12:30", "13:00")))
	assert.False(t, index.IsAvailable(1, slotAt("13:00", "13:30")))
	assert.False(t, index.IsAvailable(1, slotAt("13:30", "14:00")))
	assert.True(t, index.IsAvailable(1, slotAt("14:00", "14:30")))
}

func TestAvailabilityIndex_AvailableTechnicians(t *testing.T) {
	index := NewAvailabilityIndex([]*domain.TechnicianSchedule{
		scheduleFor(3, testDate, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
		scheduleFor(1, testDate, domain.Shift{StartTime: "09:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
		scheduleFor(2, testDate, domain.Shift{StartTime: "14:00", EndTime: "18:00", Status: domain.ShiftAvailable}),
	})

	slot := slotAt("10:00", "10:30")

	// Порядок кандидатов сохраняется - он задает детерминированный выбор
	available := index.AvailableTechnicians(slot, []int64{3, 1, 2})
	assert.Equal(t, []int64{3, 1}, available)

	available = index.AvailableTechnicians(slot, []int64{1, 3})
	assert.Equal(t, []int64{1, 3}, available)

	// Никто не свободен
	assert.Empty(t, index.AvailableTechnicians(slotAt("08:00", "08:30"), []int64{1, 2, 3}))
}
