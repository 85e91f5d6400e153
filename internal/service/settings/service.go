package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
)

// Service сервис настроек записи на обслуживание
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get возвращает текущие настройки (дефолтные, если еще не сохранены)
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Info("Get: settings not stored yet, returning defaults")
			return models.FromDomainSettings(domain.DefaultSettings()), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки: меняются только переданные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating settings by user=%d", req.UserID)

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Error("Update: repository error: %v", err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		settings = domain.DefaultSettings()
	}

	req.ApplyToSettings(settings)

	if err := validateSettings(settings); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.settingsRepo.Upsert(ctx, settings)
	if err != nil {
		s.logger.Error("Update: failed to save settings: %v", err)
		return nil, fmt.Errorf("%w: Update - failed to save settings: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved")
	return models.FromDomainSettings(saved), nil
}

// validateSettings проверяет бизнес-ограничения настроек
func validateSettings(settings *domain.AppointmentSettings) error {
	if err := settings.WorkingHours.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid working hours start: %v", ErrInvalidInput, err)
	}
	if err := settings.WorkingHours.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid working hours end: %v", ErrInvalidInput, err)
	}
	if !settings.WorkingHours.StartTime.IsBefore(settings.WorkingHours.EndTime) {
		return fmt.Errorf("%w: working hours start must be before end", ErrInvalidInput)
	}

	if settings.TimeSlotDurationMinutes < domain.MinTimeSlotDurationMinutes ||
		settings.TimeSlotDurationMinutes > domain.MaxTimeSlotDurationMinutes {
		return fmt.Errorf("%w: timeSlotDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinTimeSlotDurationMinutes, domain.MaxTimeSlotDurationMinutes)
	}

	if settings.MaxDaysInAdvance < domain.MinDaysInAdvance ||
		settings.MaxDaysInAdvance > domain.MaxDaysInAdvanceLimit {
		return fmt.Errorf("%w: maxDaysInAdvance must be between %d and %d",
			ErrInvalidInput, domain.MinDaysInAdvance, domain.MaxDaysInAdvanceLimit)
	}

	if settings.MinHoursInAdvance < domain.MinHoursInAdvanceLimit ||
		settings.MinHoursInAdvance > domain.MaxHoursInAdvanceLimit {
		return fmt.Errorf("%w: minHoursInAdvance must be between %d and %d",
			ErrInvalidInput, domain.MinHoursInAdvanceLimit, domain.MaxHoursInAdvanceLimit)
	}

	for _, hours := range settings.ReminderSettings.ReminderHours {
		if hours <= 0 {
			return fmt.Errorf("%w: reminder hours must be positive", ErrInvalidInput)
		}
	}

	return nil
}
