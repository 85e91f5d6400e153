package settings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек записи
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.AppointmentSettings, error)
	Upsert(ctx context.Context, settings *domain.AppointmentSettings) (*domain.AppointmentSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
