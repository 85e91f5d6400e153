package settings

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"id", "working_hours_start", "working_hours_end",
		"time_slot_duration_minutes", "max_days_in_advance", "min_hours_in_advance",
		"auto_confirmation", "reminder_enable_email", "reminder_enable_sms",
		"reminder_enable_push", "reminder_hours", "created_at", "updated_at",
	}).AddRow(
		int64(1), "09:00", "18:00",
		30, 30, 2,
		true, true, false,
		false, pq.Int64Array{24, 2}, now, now,
	)

	mock.ExpectQuery("SELECT .+ FROM appointment_settings").
		WillReturnRows(rows)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("09:00"), settings.WorkingHours.StartTime)
	assert.Equal(t, types.TimeString("18:00"), settings.WorkingHours.EndTime)
	assert.Equal(t, 30, settings.TimeSlotDurationMinutes)
	assert.True(t, settings.AutoConfirmation)
	assert.Equal(t, []int{24, 2}, settings.ReminderSettings.ReminderHours)
}

func TestRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT .+ FROM appointment_settings").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO appointment_settings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))

	settings := domain.DefaultSettings()
	settings.TimeSlotDurationMinutes = 45

	saved, err := repo.Upsert(context.Background(), settings)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, 45, saved.TimeSlotDurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
