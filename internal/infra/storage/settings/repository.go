package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

// settingsRowID настройки сервиса хранятся одной строкой
const settingsRowID = 1

// Repository репозиторий настроек записи на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает текущие настройки. Если настройки еще не сохранены,
// возвращает ErrSettingsNotFound - дефолты применяет сервисный слой
func (r *Repository) Get(ctx context.Context) (*domain.AppointmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"working_hours_start",
		"working_hours_end",
		"time_slot_duration_minutes",
		"max_days_in_advance",
		"min_hours_in_advance",
		"auto_confirmation",
		"reminder_enable_email",
		"reminder_enable_sms",
		"reminder_enable_push",
		"reminder_hours",
		"created_at",
		"updated_at",
	).
		From("appointment_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.AppointmentSettings
	var reminderHours pq.Int64Array

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.WorkingHours.StartTime,
		&settings.WorkingHours.EndTime,
		&settings.TimeSlotDurationMinutes,
		&settings.MaxDaysInAdvance,
		&settings.MinHoursInAdvance,
		&settings.AutoConfirmation,
		&settings.ReminderSettings.EnableEmail,
		&settings.ReminderSettings.EnableSMS,
		&settings.ReminderSettings.EnablePush,
		&reminderHours,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	settings.ReminderSettings.ReminderHours = make([]int, len(reminderHours))
	for i, h := range reminderHours {
		settings.ReminderSettings.ReminderHours[i] = int(h)
	}

	return &settings, nil
}

// Upsert сохраняет настройки, создавая строку при первом обновлении
func (r *Repository) Upsert(ctx context.Context, settings *domain.AppointmentSettings) (*domain.AppointmentSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	reminderHours := make(pq.Int64Array, len(settings.ReminderSettings.ReminderHours))
	for i, h := range settings.ReminderSettings.ReminderHours {
		reminderHours[i] = int64(h)
	}

	query, args, err := psqlbuilder.Insert("appointment_settings").
		Columns(
			"id",
			"working_hours_start",
			"working_hours_end",
			"time_slot_duration_minutes",
			"max_days_in_advance",
			"min_hours_in_advance",
			"auto_confirmation",
			"reminder_enable_email",
			"reminder_enable_sms",
			"reminder_enable_push",
			"reminder_hours",
		).
		Values(
			settingsRowID,
			settings.WorkingHours.StartTime,
			settings.WorkingHours.EndTime,
			settings.TimeSlotDurationMinutes,
			settings.MaxDaysInAdvance,
			settings.MinHoursInAdvance,
			settings.AutoConfirmation,
			settings.ReminderSettings.EnableEmail,
			settings.ReminderSettings.EnableSMS,
			settings.ReminderSettings.EnablePush,
			reminderHours,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			working_hours_start = EXCLUDED.working_hours_start,
			working_hours_end = EXCLUDED.working_hours_end,
			time_slot_duration_minutes = EXCLUDED.time_slot_duration_minutes,
			max_days_in_advance = EXCLUDED.max_days_in_advance,
			min_hours_in_advance = EXCLUDED.min_hours_in_advance,
			auto_confirmation = EXCLUDED.auto_confirmation,
			reminder_enable_email = EXCLUDED.reminder_enable_email,
			reminder_enable_sms = EXCLUDED.reminder_enable_sms,
			reminder_enable_push = EXCLUDED.reminder_enable_push,
			reminder_hours = EXCLUDED.reminder_hours,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	return settings, nil
}
