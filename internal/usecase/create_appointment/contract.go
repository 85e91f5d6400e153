package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/vehiclecatalog"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	FindOverlapping(ctx context.Context, technicianID int64, date time.Time, startTime, endTime types.TimeString) ([]*domain.Appointment, error)
	Confirm(ctx context.Context, id int64, technicianID int64) error
}

// ScheduleRepository интерфейс репозитория графиков механиков
type ScheduleRepository interface {
	Query(ctx context.Context, startDate, endDate time.Time, technicianIDs []int64) ([]*domain.TechnicianSchedule, error)
	MarkBooked(ctx context.Context, technicianID int64, date time.Time, startTime, endTime types.TimeString) error
}

// SettingsRepository интерфейс репозитория настроек записи
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.AppointmentSettings, error)
}

// ServiceCatalogClient интерфейс клиента каталога услуг
type ServiceCatalogClient interface {
	GetService(ctx context.Context, serviceID int64) (*servicecatalog.MaintenanceService, error)
}

// VehicleCatalogClient интерфейс клиента каталога автомобилей
type VehicleCatalogClient interface {
	GetVehicle(ctx context.Context, vehicleID int64) (*vehiclecatalog.Vehicle, error)
}

// NotificationsClient интерфейс клиента сервиса уведомлений
type NotificationsClient interface {
	SendConfirmation(ctx context.Context, msg *notifications.ConfirmationMessage) error
}

// ReminderScheduler постановка напоминаний в очередь
type ReminderScheduler interface {
	Schedule(ctx context.Context, appointmentID int64, dueAt time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// Metrics счетчики создания записей
type Metrics interface {
	IncSlotConflicts(operation string)
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
