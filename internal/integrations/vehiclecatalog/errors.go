package vehiclecatalog

import "errors"

var (
	// ErrVehicleNotFound возвращается, когда автомобиль не найден в каталоге
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("vehiclecatalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от каталога
	ErrInvalidResponse = errors.New("vehiclecatalog client: invalid response")
)
