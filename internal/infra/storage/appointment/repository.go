package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Коды ошибок PostgreSQL, означающие конфликт слота
const (
	exclusionViolationCode = "23P01"
	uniqueViolationCode    = "23505"
)

// appointmentColumns полный список колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"vehicle_id",
	"service_id",
	"appointment_date",
	"start_time",
	"end_time",
	"technician_id",
	"status",
	"estimated_duration_minutes",
	"estimated_cost",
	"service_name",
	"vehicle_brand",
	"vehicle_model",
	"license_plate",
	"notes",
	"confirmation_sent",
	"reminder_sent",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись на обслуживание
// Конфликт слота (пересечение с активной записью того же механика)
// ловится exclusion-ограничением БД и возвращается как ErrSlotConflict -
// это последний рубеж против гонки двух одновременных бронирований,
// даже если проверка доступности в транзакции была пройдена
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_name",
			"customer_phone",
			"customer_email",
			"vehicle_id",
			"service_id",
			"appointment_date",
			"start_time",
			"end_time",
			"technician_id",
			"status",
			"estimated_duration_minutes",
			"estimated_cost",
			"service_name",
			"vehicle_brand",
			"vehicle_model",
			"license_plate",
			"notes",
			"confirmation_sent",
			"reminder_sent",
		).
		Values(
			appointment.Customer.Name,
			appointment.Customer.Phone,
			appointment.Customer.Email,
			appointment.VehicleID,
			appointment.ServiceID,
			appointment.Date,
			appointment.StartTime,
			appointment.EndTime,
			appointment.TechnicianID,
			appointment.Status,
			appointment.EstimatedDurationMinutes,
			appointment.EstimatedCost,
			appointment.ServiceName,
			appointment.VehicleBrand,
			appointment.VehicleModel,
			appointment.LicensePlate,
			appointment.Notes,
			appointment.ConfirmationSent,
			appointment.ReminderSent,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appointment.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointmentRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// GetByVehicleID получает список записей автомобиля
// Опционально фильтрует по статусу
func (r *Repository) GetByVehicleID(ctx context.Context, vehicleID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"vehicle_id": vehicleID}).
		OrderBy("appointment_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVehicleID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByVehicleID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetWithFilter получает записи с гибкой фильтрацией по механикам, периоду
// и статусу. Используется движком рекомендаций для загрузки занятости
// пула механиков услуги на окно поиска
func (r *Repository) GetWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if len(filter.TechnicianIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": filter.TechnicianIDs})
	}
	if filter.VehicleID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"vehicle_id": *filter.VehicleID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("appointment_date ASC, start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// FindOverlapping находит активные записи механика на дату, пересекающиеся
// с полуоткрытым интервалом [startTime, endTime). Граничащие записи
// пересечением не считаются.
//
// Внутри транзакции строки блокируются через FOR UPDATE - это часть
// атомарной проверки слота при подтверждении бронирования
func (r *Repository) FindOverlapping(
	ctx context.Context,
	technicianID int64,
	date time.Time,
	startTime, endTime types.TimeString,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactiveStatusStrings[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"technician_id": technicianID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Lt{"start_time": endTime}).
		Where(squirrel.Gt{"end_time": startTime}).
		Where(squirrel.NotEq{"status": inactiveStatusStrings}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Confirm переводит запись в confirmed с отметкой об отправке подтверждения
// и закреплением механика за слотом
func (r *Repository) Confirm(ctx context.Context, id int64, technicianID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusConfirmed).
		Set("technician_id", technicianID).
		Set("confirmation_sent", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("%w: Confirm - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Confirm - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины
// Запись физически не удаляется - отмена это смена статуса (история)
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// MarkReminderSent отмечает, что напоминание о записи отправлено
func (r *Repository) MarkReminderSent(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("reminder_sent", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReminderSent - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// scanAppointmentRow сканирует одну строку в модель записи
func scanAppointmentRow(row *sql.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.Customer.Name,
		&appointment.Customer.Phone,
		&appointment.Customer.Email,
		&appointment.VehicleID,
		&appointment.ServiceID,
		&appointment.Date,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.TechnicianID,
		&appointment.Status,
		&appointment.EstimatedDurationMinutes,
		&appointment.EstimatedCost,
		&appointment.ServiceName,
		&appointment.VehicleBrand,
		&appointment.VehicleModel,
		&appointment.LicensePlate,
		&appointment.Notes,
		&appointment.ConfirmationSent,
		&appointment.ReminderSent,
		&appointment.CancellationReason,
		&appointment.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		var appointment domain.Appointment
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&appointment.ID,
			&appointment.Customer.Name,
			&appointment.Customer.Phone,
			&appointment.Customer.Email,
			&appointment.VehicleID,
			&appointment.ServiceID,
			&appointment.Date,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.TechnicianID,
			&appointment.Status,
			&appointment.EstimatedDurationMinutes,
			&appointment.EstimatedCost,
			&appointment.ServiceName,
			&appointment.VehicleBrand,
			&appointment.VehicleModel,
			&appointment.LicensePlate,
			&appointment.Notes,
			&appointment.ConfirmationSent,
			&appointment.ReminderSent,
			&appointment.CancellationReason,
			&appointment.CancelledAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}

		appointment.CreatedAt = createdAt.Time
		appointment.UpdatedAt = updatedAt.Time

		appointments = append(appointments, &appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// isSlotConflict проверяет, что ошибка вызвана конфликтом слота
// (exclusion или unique constraint на пересечение интервалов)
func isSlotConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == exclusionViolationCode || string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
