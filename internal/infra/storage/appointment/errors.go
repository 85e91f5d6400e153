package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotConflict возвращается, когда слот уже занят другой записью
	// (сработало exclusion-ограничение appointments_no_overlap)
	ErrSlotConflict = errors.New("appointment.repository: slot conflict")

	// ErrTransaction возвращается при ошибках работы с транзакцией
	ErrTransaction = errors.New("appointment.repository: transaction error")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
