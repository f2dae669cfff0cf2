package autocomplete

import "errors"

var (
	// ErrSuggestionNotFound возвращается при выборе несуществующей подсказки
	ErrSuggestionNotFound = errors.New("autocomplete: suggestion not found")

	// ErrLocateInProgress возвращается, если определение местоположения уже выполняется
	ErrLocateInProgress = errors.New("autocomplete: location lookup already in progress")

	// ErrLocationUnavailable возвращается, если местоположение не удалось определить
	ErrLocationUnavailable = errors.New("autocomplete: current location is unavailable")

	// ErrClosed возвращается после завершения сессии
	ErrClosed = errors.New("autocomplete: closed")
)

// Сообщения для отображения пользователю
const (
	msgLookupFailed = "Could not load address suggestions. Keep typing to retry."
	msgLocateFailed = "Could not determine your current location. Please enter the address manually."
)
