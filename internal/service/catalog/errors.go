package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или выключена
	ErrServiceNotFound = errors.New("catalog: service not found")

	// ErrInvalidService возвращается при некорректном описании услуги
	ErrInvalidService = errors.New("catalog: invalid service")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("catalog: internal error")
)
