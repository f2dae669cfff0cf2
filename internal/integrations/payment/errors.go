package payment

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда банк или шлюз отклонил оплату
	ErrPaymentDeclined = errors.New("payment: declined")

	// ErrPaymentUnavailable возвращается при временной недоступности шлюза
	ErrPaymentUnavailable = errors.New("payment: gateway unavailable")

	// ErrInvalidRequest возвращается при некорректных параметрах оплаты
	ErrInvalidRequest = errors.New("payment: invalid request")
)

// DeclineError отказ с причиной для отображения пользователю
type DeclineError struct {
	Reason string
	Code   string
}

func (e *DeclineError) Error() string {
	if e.Code == "" {
		return "payment: declined: " + e.Reason
	}
	return "payment: declined (" + e.Code + "): " + e.Reason
}

// Unwrap позволяет errors.Is(err, ErrPaymentDeclined)
func (e *DeclineError) Unwrap() error {
	return ErrPaymentDeclined
}
