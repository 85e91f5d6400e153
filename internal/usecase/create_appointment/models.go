package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID       int64            // ID пользователя (для логирования, не влияет на результат)
	ServiceID    int64            // ID услуги из каталога
	VehicleID    int64            // ID автомобиля из каталога
	Date         time.Time        // Дата записи (без времени)
	StartTime    types.TimeString // Время начала слота (например, "10:00")
	TechnicianID *int64           // Желаемый механик (опционально; иначе первый свободный из пула)

	CustomerName  string  // Имя клиента
	CustomerPhone string  // Телефон клиента
	CustomerEmail *string // Email клиента (опционально)

	Notes *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID           int64            // ID созданной записи
	ServiceID    int64            // ID услуги
	VehicleID    int64            // ID автомобиля
	Date         time.Time        // Дата записи
	StartTime    types.TimeString // Время начала
	EndTime      types.TimeString // Время конца
	TechnicianID int64            // Закрепленный механик
	Status       string           // Статус записи

	EstimatedDurationMinutes int     // Оценочная длительность работ
	EstimatedCost            float64 // Оценочная стоимость работ

	// Денормализованные данные
	ServiceName  string  // Название услуги
	VehicleBrand *string // Марка автомобиля
	VehicleModel *string // Модель автомобиля
	LicensePlate *string // Госномер
	Notes        *string // Заметки

	ConfirmationSent bool // Подтверждение отправлено (автоподтверждение)

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
