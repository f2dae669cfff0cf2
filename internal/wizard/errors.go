package wizard

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation возвращается, когда ввод не прошел проверку (см. ValidationError)
	ErrValidation = errors.New("wizard: validation failed")

	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("wizard: session not found")

	// ErrSessionClosed возвращается при обращении к закрытой сессии
	ErrSessionClosed = errors.New("wizard: session is closed")

	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("wizard: service not found")

	// ErrWrongStep возвращается, когда операция недоступна на текущем шаге
	ErrWrongStep = errors.New("wizard: operation is not available on this step")

	// ErrFirstStep возвращается при попытке вернуться с первого шага
	ErrFirstStep = errors.New("wizard: already at the first step")

	// ErrTerminal возвращается при попытке изменить завершенное бронирование
	ErrTerminal = errors.New("wizard: booking is already completed")

	// ErrPaymentInProgress возвращается, пока идет оплата
	ErrPaymentInProgress = errors.New("wizard: payment is in progress")

	// ErrAlreadyPaid возвращается при попытке повторной оплаты или изменения оплаченного бронирования
	ErrAlreadyPaid = errors.New("wizard: deposit is already paid")

	// ErrPaymentAdvances возвращается на Next с шага оплаты: шаг завершается только оплатой
	ErrPaymentAdvances = errors.New("wizard: payment step completes only after payment")

	// ErrPaymentDeclined возвращается при отказе в оплате
	ErrPaymentDeclined = errors.New("wizard: payment declined")

	// ErrPaymentUnavailable возвращается при временной ошибке платежного шлюза
	ErrPaymentUnavailable = errors.New("wizard: payment is temporarily unavailable")

	// ErrPersistenceFailed возвращается, когда оплаченное бронирование не удалось сохранить
	ErrPersistenceFailed = errors.New("wizard: booking was paid but could not be saved")

	// ErrNothingToPersist возвращается на повтор сохранения без оплаченного бронирования
	ErrNothingToPersist = errors.New("wizard: there is no paid booking awaiting save")

	// ErrPersistenceInProgress возвращается, пока идет сохранение
	ErrPersistenceInProgress = errors.New("wizard: booking save is in progress")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("wizard: internal error")
)

// ValidationError ошибки проверки по полям (поле -> сообщение)
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "wizard: validation failed: " + strings.Join(parts, "; ")
}

// Unwrap позволяет errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Сообщения для отображения пользователю
const (
	msgPaymentUnavailable = "Payment service is temporarily unavailable. Please try again."
	msgPaymentDeclined    = "Your payment was declined. Please check your card details or use a different card."
	msgPersistenceFailed  = "Your deposit was received but we could not confirm the booking yet. We will retry automatically."
)
