package get_quote

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных параметрах расчета
	ErrInvalidInput = errors.New("get_quote: invalid input")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("get_quote: service not found")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("get_quote: internal error")
)
