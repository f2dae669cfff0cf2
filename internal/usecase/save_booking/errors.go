package save_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректной записи бронирования
	ErrInvalidInput = errors.New("save_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("save_booking: internal error")
)
