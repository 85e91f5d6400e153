package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrVehicleNotFound возвращается, когда автомобиль не найден в каталоге
	ErrVehicleNotFound = errors.New("create_appointment: vehicle not found")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxDaysInAdvance
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrTooLateToBook возвращается при нарушении minHoursInAdvance
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrInvalidTimeSlot возвращается, когда время не лежит на сетке слотов
	// рабочего дня или работа не умещается до конца рабочего дня
	ErrInvalidTimeSlot = errors.New("create_appointment: invalid time slot")

	// ErrTechnicianNotAvailable возвращается, когда ни один механик пула
	// услуги не свободен в запрошенном слоте (или запрошенный - занят/не в пуле)
	ErrTechnicianNotAvailable = errors.New("create_appointment: technician is not available")

	// ErrSlotConflict возвращается при пересечении с существующей активной записью
	ErrSlotConflict = errors.New("create_appointment: slot conflict")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
