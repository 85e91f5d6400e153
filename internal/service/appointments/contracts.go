package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByVehicleID(ctx context.Context, vehicleID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	FindOverlapping(ctx context.Context, technicianID int64, date time.Time, startTime, endTime types.TimeString) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Confirm(ctx context.Context, id int64, technicianID int64) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// ScheduleRepository интерфейс репозитория графиков механиков
type ScheduleRepository interface {
	MarkBooked(ctx context.Context, technicianID int64, date time.Time, startTime, endTime types.TimeString) error
	MarkFree(ctx context.Context, technicianID int64, date time.Time, startTime, endTime types.TimeString) error
}

// NotificationsClient интерфейс клиента сервиса уведомлений
type NotificationsClient interface {
	SendConfirmation(ctx context.Context, msg *notifications.ConfirmationMessage) error
}

// ReminderQueue снятие напоминаний отмененных записей
type ReminderQueue interface {
	Remove(ctx context.Context, appointmentID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счетчики жизненного цикла записей
type Metrics interface {
	IncSlotConflicts(operation string)
}
