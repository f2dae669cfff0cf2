package geocoding

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("geocoding client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("geocoding client: invalid response")

	// ErrRequestDenied возвращается, когда ключ API отклонен или превышена квота
	ErrRequestDenied = errors.New("geocoding client: request denied")

	// ErrNoResults возвращается, когда по координатам не найден адрес
	ErrNoResults = errors.New("geocoding client: no results")
)
