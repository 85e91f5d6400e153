package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// UpdateSettingsRequest запрос на обновление настроек записи
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID                  int64                   `json:"userId"`
	WorkingHoursStart       *string                 `json:"workingHoursStart,omitempty"` // "09:00"
	WorkingHoursEnd         *string                 `json:"workingHoursEnd,omitempty"`   // "18:00"
	TimeSlotDurationMinutes *int                    `json:"timeSlotDurationMinutes,omitempty"`
	MaxDaysInAdvance        *int                    `json:"maxDaysInAdvance,omitempty"`
	MinHoursInAdvance       *int                    `json:"minHoursInAdvance,omitempty"`
	AutoConfirmation        *bool                   `json:"autoConfirmation,omitempty"`
	ReminderSettings        *ReminderSettingsUpdate `json:"reminderSettings,omitempty"`
}

// ReminderSettingsUpdate обновление настроек напоминаний
type ReminderSettingsUpdate struct {
	EnableEmail   *bool  `json:"enableEmail,omitempty"`
	EnableSMS     *bool  `json:"enableSms,omitempty"`
	EnablePush    *bool  `json:"enablePush,omitempty"`
	ReminderHours *[]int `json:"reminderHours,omitempty"`
}

// ApplyToSettings применяет обновления к существующим настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(settings *domain.AppointmentSettings) {
	if r.WorkingHoursStart != nil {
		settings.WorkingHours.StartTime = types.TimeString(*r.WorkingHoursStart)
	}
	if r.WorkingHoursEnd != nil {
		settings.WorkingHours.EndTime = types.TimeString(*r.WorkingHoursEnd)
	}
	if r.TimeSlotDurationMinutes != nil {
		settings.TimeSlotDurationMinutes = *r.TimeSlotDurationMinutes
	}
	if r.MaxDaysInAdvance != nil {
		settings.MaxDaysInAdvance = *r.MaxDaysInAdvance
	}
	if r.MinHoursInAdvance != nil {
		settings.MinHoursInAdvance = *r.MinHoursInAdvance
	}
	if r.AutoConfirmation != nil {
		settings.AutoConfirmation = *r.AutoConfirmation
	}
	if r.ReminderSettings != nil {
		if r.ReminderSettings.EnableEmail != nil {
			settings.ReminderSettings.EnableEmail = *r.ReminderSettings.EnableEmail
		}
		if r.ReminderSettings.EnableSMS != nil {
			settings.ReminderSettings.EnableSMS = *r.ReminderSettings.EnableSMS
		}
		if r.ReminderSettings.EnablePush != nil {
			settings.ReminderSettings.EnablePush = *r.ReminderSettings.EnablePush
		}
		if r.ReminderSettings.ReminderHours != nil {
			settings.ReminderSettings.ReminderHours = *r.ReminderSettings.ReminderHours
		}
	}
}

// Response модели

// SettingsResponse ответ с настройками записи
type SettingsResponse struct {
	WorkingHoursStart       string                   `json:"workingHoursStart"`
	WorkingHoursEnd         string                   `json:"workingHoursEnd"`
	TimeSlotDurationMinutes int                      `json:"timeSlotDurationMinutes"`
	MaxDaysInAdvance        int                      `json:"maxDaysInAdvance"`
	MinHoursInAdvance       int                      `json:"minHoursInAdvance"`
	AutoConfirmation        bool                     `json:"autoConfirmation"`
	ReminderSettings        ReminderSettingsResponse `json:"reminderSettings"`
	CreatedAt               time.Time                `json:"createdAt"`
	UpdatedAt               time.Time                `json:"updatedAt"`
}

// ReminderSettingsResponse настройки напоминаний
type ReminderSettingsResponse struct {
	EnableEmail   bool  `json:"enableEmail"`
	EnableSMS     bool  `json:"enableSms"`
	EnablePush    bool  `json:"enablePush"`
	ReminderHours []int `json:"reminderHours"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.AppointmentSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		WorkingHoursStart:       s.WorkingHours.StartTime.String(),
		WorkingHoursEnd:         s.WorkingHours.EndTime.String(),
		TimeSlotDurationMinutes: s.TimeSlotDurationMinutes,
		MaxDaysInAdvance:        s.MaxDaysInAdvance,
		MinHoursInAdvance:       s.MinHoursInAdvance,
		AutoConfirmation:        s.AutoConfirmation,
		ReminderSettings: ReminderSettingsResponse{
			EnableEmail:   s.ReminderSettings.EnableEmail,
			EnableSMS:     s.ReminderSettings.EnableSMS,
			EnablePush:    s.ReminderSettings.EnablePush,
			ReminderHours: s.ReminderSettings.ReminderHours,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
