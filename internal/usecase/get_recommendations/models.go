package get_recommendations

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса рекомендаций слотов
type Request struct {
	UserID        int64             // ID пользователя (для логирования, не влияет на результат)
	ServiceID     int64             // ID услуги из каталога
	PreferredDate *time.Time        // Желаемая дата (опционально; без нее окно поиска от сегодня)
	PreferredTime *types.TimeString // Желаемое время (опционально)
}

// Response модель ответа со списком рекомендаций
type Response struct {
	ServiceID       int64            // ID услуги
	Recommendations []Recommendation // Рекомендации, отсортированные по убыванию оценки
	DataUnavailable bool             // Данные расписаний были недоступны, выдача деградировала
}

// Recommendation один рекомендованный слот
type Recommendation struct {
	Date             time.Time         // Дата слота (без времени)
	StartTime        types.TimeString  // Начало слота
	EndTime          types.TimeString  // Конец слота
	TechnicianID     int64             // Рекомендуемый механик
	Score            int               // Оценка пригодности 0..100
	Reasons          []string          // Пояснения для клиента
	IsOptimal        bool              // Оценка выше порога оптимальности
	AlternativeSlots []AlternativeSlot // Соседние свободные слоты того же дня
}

// AlternativeSlot альтернативный слот рядом с рекомендованным
type AlternativeSlot struct {
	StartTime time.Time // Абсолютное время начала
	EndTime   time.Time // Абсолютное время конца
}
