package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Весовые коэффициенты оценки слота.
// Все поправки аддитивны, итог зажимается в [MinScore, MaxScore].
// Новые факторы (рейтинг механика, балансировка нагрузки) добавляются
// тем же способом: аддитивная поправка + причина
const (
	// baseScore стартовая оценка кандидата. Бонусы ниже поднимают её
	// до MaxScore; старт со 100 обесценил бы ранжирование - все
	// кандидаты упирались бы в потолок
	baseScore = 50

	// Бонусы за близость к предпочтительному времени клиента
	proximityTightMinutes = 30
	proximityTightBonus   = 20
	proximityWideMinutes  = 60
	proximityWideBonus    = 10

	// Бонус за каждого свободного механика из пула услуги
	perTechnicianBonus = 5

	// optimalThreshold порог, начиная с которого слот считается оптимальным
	optimalThreshold = 90

	MinScore = 0
	MaxScore = 100
)

// ScoreContext контекст оценки кандидата
type ScoreContext struct {
	// PreferredTime предпочтительное время клиента (опционально)
	PreferredTime *types.TimeString

	// AvailableTechnicians механики, свободные именно для этого слота,
	// в стабильном порядке пула услуги
	AvailableTechnicians []int64
}

// ScoreSlot вычисляет оценку пригодности слота (0..100) и список причин
// для отображения клиенту. Причины - только пояснительный текст, на
// ранжирование они не влияют.
//
// Слот без единого свободного механика не должен попадать сюда вовсе:
// его исключает движок рекомендаций, а не низкая оценка
func ScoreSlot(slot domain.TimeSlot, sctx ScoreContext) (int, []string) {
	score := baseScore
	reasons := make([]string, 0, 3)

	// Близость к предпочтительному времени
	if sctx.PreferredTime != nil {
		diff := slot.StartTime.DiffMinutes(*sctx.PreferredTime)
		switch {
		case diff <= proximityTightMinutes:
			score += proximityTightBonus
			reasons = append(reasons, "время совпадает с предпочтительным")
		case diff <= proximityWideMinutes:
			score += proximityWideBonus
			reasons = append(reasons, "время близко к предпочтительному")
		}
	}

	// Широта выбора механиков
	score += perTechnicianBonus * len(sctx.AvailableTechnicians)
	if len(sctx.AvailableTechnicians) > 1 {
		reasons = append(reasons, fmt.Sprintf("свободных механиков: %d", len(sctx.AvailableTechnicians)))
	}

	score = clampScore(score)

	if score >= optimalThreshold {
		reasons = append(reasons, "оптимальный выбор времени для записи")
	}
	if len(sctx.AvailableTechnicians) > 0 {
		reasons = append(reasons, fmt.Sprintf("механик #%d свободен в это время", sctx.AvailableTechnicians[0]))
	}

	return score, reasons
}

// IsOptimal сообщает, дотянула ли оценка до порога оптимального слота
func IsOptimal(score int) bool {
	return score >= optimalThreshold
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
