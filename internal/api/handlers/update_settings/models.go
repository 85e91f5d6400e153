package update_settings

import (
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	WorkingHoursStart       *string                 `json:"workingHoursStart,omitempty"`
	WorkingHoursEnd         *string                 `json:"workingHoursEnd,omitempty"`
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

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64) *models.UpdateSettingsRequest {
	req := &models.UpdateSettingsRequest{
		UserID:                  userID,
		WorkingHoursStart:       r.WorkingHoursStart,
		WorkingHoursEnd:         r.WorkingHoursEnd,
		TimeSlotDurationMinutes: r.TimeSlotDurationMinutes,
		MaxDaysInAdvance:        r.MaxDaysInAdvance,
		MinHoursInAdvance:       r.MinHoursInAdvance,
		AutoConfirmation:        r.AutoConfirmation,
	}

	if r.ReminderSettings != nil {
		req.ReminderSettings = &models.ReminderSettingsUpdate{
			EnableEmail:   r.ReminderSettings.EnableEmail,
			EnableSMS:     r.ReminderSettings.EnableSMS,
			EnablePush:    r.ReminderSettings.EnablePush,
			ReminderHours: r.ReminderSettings.ReminderHours,
		}
	}

	return req
}
