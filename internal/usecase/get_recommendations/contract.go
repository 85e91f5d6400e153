package get_recommendations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetWithFilter получает записи с фильтрацией по механикам и периоду
	GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория графиков механиков
type ScheduleRepository interface {
	// Query возвращает расписания механиков за период
	Query(ctx context.Context, startDate, endDate time.Time, technicianIDs []int64) ([]*domain.TechnicianSchedule, error)
}

// SettingsRepository интерфейс репозитория настроек записи
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.AppointmentSettings, error)
}

// ServiceCatalogClient интерфейс клиента каталога услуг
type ServiceCatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*servicecatalog.MaintenanceService, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики выдачи рекомендаций
type Metrics interface {
	IncRecommendationsServed(outcome string)
	IncEmptyRecommendations(reason string)
	IncScheduleDataUnavailable(operation string)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
