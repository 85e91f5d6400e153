package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/service/settings/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeRepo struct {
	stored *domain.AppointmentSettings
}

func (f *fakeRepo) Get(_ context.Context) (*domain.AppointmentSettings, error) {
	if f.stored == nil {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	return f.stored, nil
}

func (f *fakeRepo) Upsert(_ context.Context, s *domain.AppointmentSettings) (*domain.AppointmentSettings, error) {
	f.stored = s
	return s, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestService_Get_DefaultsWhenEmpty(t *testing.T) {
	svc := NewService(&fakeRepo{}, noopLogger{})

	resp, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWorkingHoursStart, resp.WorkingHoursStart)
	assert.Equal(t, domain.DefaultWorkingHoursEnd, resp.WorkingHoursEnd)
	assert.Equal(t, domain.DefaultTimeSlotDurationMinutes, resp.TimeSlotDurationMinutes)
	assert.False(t, resp.AutoConfirmation)
}

func TestService_Update_PartialFields(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, noopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		UserID:                  1,
		TimeSlotDurationMinutes: ptr.Ptr(45),
		AutoConfirmation:        ptr.Ptr(true),
	})
	require.NoError(t, err)

	// Обновленные поля
	assert.Equal(t, 45, resp.TimeSlotDurationMinutes)
	assert.True(t, resp.AutoConfirmation)
	// Нетронутые поля остались дефолтными
	assert.Equal(t, domain.DefaultWorkingHoursStart, resp.WorkingHoursStart)
	assert.Equal(t, domain.DefaultMaxDaysInAdvance, resp.MaxDaysInAdvance)
}

func TestService_Update_ReminderSettings(t *testing.T) {
	svc := NewService(&fakeRepo{}, noopLogger{})

	resp, err := svc.Update(context.Background(), &models.UpdateSettingsRequest{
		UserID: 1,
		ReminderSettings: &models.ReminderSettingsUpdate{
			EnableSMS:     ptr.Ptr(true),
			ReminderHours: ptr.Ptr([]int{48, 2}),
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.ReminderSettings.EnableSMS)
	assert.Equal(t, []int{48, 2}, resp.ReminderSettings.ReminderHours)
	// Email остался включенным по умолчанию
	assert.True(t, resp.ReminderSettings.EnableEmail)
}

func TestService_Update_ValidationErrors(t *testing.T) {
	svc := NewService(&fakeRepo{}, noopLogger{})

	tests := []struct {
		name string
		req  *models.UpdateSettingsRequest
	}{
		{
			"slot duration too small",
			&models.UpdateSettingsRequest{TimeSlotDurationMinutes: ptr.Ptr(1)},
		},
		{
			"slot duration too large",
			&models.UpdateSettingsRequest{TimeSlotDurationMinutes: ptr.Ptr(600)},
		},
		{
			"working hours inverted",
			&models.UpdateSettingsRequest{
				WorkingHoursStart: ptr.Ptr("18:00"),
				WorkingHoursEnd:   ptr.Ptr("09:00"),
			},
		},
		{
			"bad working hours format",
			&models.UpdateSettingsRequest{WorkingHoursStart: ptr.Ptr("9am")},
		},
		{
			"max days out of range",
			&models.UpdateSettingsRequest{MaxDaysInAdvance: ptr.Ptr(1000)},
		},
		{
			"negative reminder hours",
			&models.UpdateSettingsRequest{
				ReminderSettings: &models.ReminderSettingsUpdate{ReminderHours: ptr.Ptr([]int{-1})},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
