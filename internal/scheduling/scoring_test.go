package scheduling

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestScoreSlot_ProximityTiers(t *testing.T) {
	preferred := types.TimeString("10:00")

	tests := []struct {
		name      string
		slotStart string
		want      int
	}{
		{name: "exact preferred time", slotStart: "10:00", want: baseScore + proximityTightBonus + perTechnicianBonus},
		{name: "within 30 minutes", slotStart: "10:30", want: baseScore + proximityTightBonus + perTechnicianBonus},
		{name: "within 60 minutes", slotStart: "11:00", want: baseScore + proximityWideBonus + perTechnicianBonus},
		{name: "beyond 60 minutes", slotStart: "12:00", want: baseScore + perTechnicianBonus},
		{name: "before preferred within 30", slotStart: "09:30", want: baseScore + proximityTightBonus + perTechnicianBonus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, _ := types.TimeString(tt.slotStart).AddMinutes(30)
			slot := slotAt(tt.slotStart, end.String())

			score, _ := ScoreSlot(slot, ScoreContext{
				PreferredTime:        ptr.Ptr(preferred),
				AvailableTechnicians: []int64{1},
			})
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScoreSlot_TechnicianBreadth(t *testing.T) {
	slot := slotAt("10:00", "10:30")

	oneScore, _ := ScoreSlot(slot, ScoreContext{AvailableTechnicians: []int64{1}})
	threeScore, _ := ScoreSlot(slot, ScoreContext{AvailableTechnicians: []int64{1, 2, 3}})

	assert.Equal(t, 2*perTechnicianBonus, threeScore-oneScore)
}

func TestScoreSlot_Bounded(t *testing.T) {
	// Оценка всегда в границах [0, 100] при любых входных данных
	preferred := types.TimeString("10:00")

	for techCount := 0; techCount <= 20; techCount++ {
		technicians := make([]int64, techCount)
		for i := range technicians {
			technicians[i] = int64(i + 1)
		}

		for _, start := range []string{"09:00", "10:00", "13:30", "17:30"} {
			end, _ := types.TimeString(start).AddMinutes(30)
			slot := slotAt(start, end.String())

			score, _ := ScoreSlot(slot, ScoreContext{
				PreferredTime:        ptr.Ptr(preferred),
				AvailableTechnicians: technicians,
			})
			assert.GreaterOrEqual(t, score, MinScore)
			assert.LessOrEqual(t, score, MaxScore)
		}
	}
}

func TestScoreSlot_Reasons(t *testing.T) {
	preferred := types.TimeString("10:00")
	slot := slotAt("10:00", "10:30")

	// Высокая оценка: причина об оптимальном выборе и о механике
	score, reasons := ScoreSlot(slot, ScoreContext{
		PreferredTime:        ptr.Ptr(preferred),
		AvailableTechnicians: []int64{7, 2, 3, 4},
	})
	assert.GreaterOrEqual(t, score, optimalThreshold)

	joined := strings.Join(reasons, "; ")
	assert.Contains(t, joined, "оптимальный выбор")
	assert.Contains(t, joined, fmt.Sprintf("механик #%d", 7))

	// Низкая оценка: без причины об оптимальном выборе
	lowScore, lowReasons := ScoreSlot(slotAt("17:00", "17:30"), ScoreContext{
		PreferredTime:        ptr.Ptr(preferred),
		AvailableTechnicians: []int64{1},
	})
	assert.Less(t, lowScore, optimalThreshold)
	assert.NotContains(t, strings.Join(lowReasons, "; "), "оптимальный выбор")
}

func TestScoreSlot_NoPreferredTime(t *testing.T) {
	slot := slotAt("10:00", "10:30")

	score, reasons := ScoreSlot(slot, ScoreContext{AvailableTechnicians: []int64{1, 2}})
	assert.Equal(t, baseScore+2*perTechnicianBonus, score)
	assert.NotContains(t, strings.Join(reasons, "; "), "предпочтительн")
}
