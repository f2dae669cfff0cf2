package iplocation

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("iplocation client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("iplocation client: invalid response")

	// ErrPrivateIP возвращается для локальных адресов, которые нельзя геолоцировать
	ErrPrivateIP = errors.New("iplocation client: private or loopback ip")

	// ErrRateLimited возвращается, когда ipapi.co ограничил частоту запросов
	ErrRateLimited = errors.New("iplocation client: rate limited")
)
