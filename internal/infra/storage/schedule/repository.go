package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий для работы с графиками смен механиков.
// Таблица technician_shifts хранит по строке на смену, репозиторий
// собирает их в расписание механика на дату
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// shiftRow промежуточная строка выборки до группировки по (механик, дата)
type shiftRow struct {
	id           int64
	technicianID int64
	date         time.Time
	shift        domain.Shift
	createdAt    time.Time
	updatedAt    time.Time
}

// Query возвращает расписания механиков за период [startDate, endDate].
// Пустой technicianIDs означает всех механиков. Смены группируются
// в domain.TechnicianSchedule по паре (механик, дата)
func (r *Repository) Query(
	ctx context.Context,
	startDate, endDate time.Time,
	technicianIDs []int64,
) ([]*domain.TechnicianSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"technician_id",
		"shift_date",
		"start_time",
		"end_time",
		"status",
		"created_at",
		"updated_at",
	).
		From("technician_shifts").
		Where(squirrel.GtOrEq{"shift_date": startDate}).
		Where(squirrel.LtOrEq{"shift_date": endDate}).
		OrderBy("technician_id ASC, shift_date ASC, start_time ASC")

	if len(technicianIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"technician_id": technicianIDs})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Query - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Query - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.TechnicianSchedule, 0)
	var current *domain.TechnicianSchedule

	for rows.Next() {
		var row shiftRow
		err := rows.Scan(
			&row.id,
			&row.technicianID,
			&row.date,
			&row.shift.StartTime,
			&row.shift.EndTime,
			&row.shift.Status,
			&row.createdAt,
			&row.updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: Query - scan shift row: %v", ErrScanRow, err)
		}

		// Строки отсортированы по (механик, дата) - достаточно сравнить с хвостом
		if current == nil || current.TechnicianID != row.technicianID || !current.Date.Equal(row.date) {
			current = &domain.TechnicianSchedule{
				ID:           row.id,
				TechnicianID: row.technicianID,
				Date:         row.date,
				Shifts:       make([]domain.Shift, 0, 2),
				CreatedAt:    row.createdAt,
				UpdatedAt:    row.updatedAt,
			}
			schedules = append(schedules, current)
		}

		current.Shifts = append(current.Shifts, row.shift)
		if row.updatedAt.After(current.UpdatedAt) {
			current.UpdatedAt = row.updatedAt
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: Query - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// MarkBooked помечает интервал механика занятым: вставляет busy-смену
// поверх рабочего графика. Фактическую блокировку слота обеспечивает
// пересечение активных записей, busy-строка нужна внешним потребителям
// графика (табло загрузки, выгрузки)
func (r *Repository) MarkBooked(
	ctx context.Context,
	technicianID int64,
	date time.Time,
	startTime, endTime types.TimeString,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("technician_shifts").
		Columns("technician_id", "shift_date", "start_time", "end_time", "status").
		Values(technicianID, date, startTime, endTime, domain.ShiftBusy).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkBooked - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkBooked - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// MarkFree снимает busy-отметку с интервала механика
func (r *Repository) MarkFree(
	ctx context.Context,
	technicianID int64,
	date time.Time,
	startTime, endTime types.TimeString,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("technician_shifts").
		Where(squirrel.Eq{
			"technician_id": technicianID,
			"shift_date":    date,
			"start_time":    startTime,
			"end_time":      endTime,
			"status":        domain.ShiftBusy,
		}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFree - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkFree - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}
