package servicecatalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("maintenance service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("servicecatalog client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от каталога
	ErrInvalidResponse = errors.New("servicecatalog client: invalid response")
)
