package schedule

import "errors"

var (
	// ErrScheduleNotFound расписание не найдено
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow ошибка сканирования строки результата
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
