package estimator

import "errors"

var (
	// ErrUnknownField возвращается для неизвестного имени счетчика
	ErrUnknownField = errors.New("estimator: unknown counter field")

	// ErrDecrementDisabled возвращается при уменьшении счетчика, равного 0
	ErrDecrementDisabled = errors.New("estimator: counter is already at zero")

	// ErrCounterTooLarge возвращается, когда значение превышает допустимый максимум
	ErrCounterTooLarge = errors.New("estimator: counter value is too large")
)
