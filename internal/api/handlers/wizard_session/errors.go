package wizard_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgSessionNotFound     = "сессия не найдена или истекла"
	msgValidation          = "проверьте введенные данные"
	msgServiceNotFound     = "услуга не найдена"
	msgWrongStep           = "операция недоступна на текущем шаге"
	msgFirstStep           = "это первый шаг"
	msgTerminal            = "бронирование уже завершено"
	msgPaymentInProgress   = "оплата или сохранение уже выполняется"
	msgAlreadyPaid         = "депозит уже оплачен"
	msgPaymentAdvances     = "шаг оплаты завершается только оплатой"
	msgPaymentUnavailable  = "платежный сервис временно недоступен"
	msgNothingToPersist    = "нет оплаченного бронирования для сохранения"
	msgPersistenceFailed   = "депозит получен, но бронирование пока не сохранено"
	msgLocationUnavailable = "не удалось определить местоположение"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnknownOp           = "неизвестная операция, ожидается increment, decrement или set"
	msgMissingValue        = "значение обязательно для операции set"
	msgMissingCoordinates  = "нужны координаты: определение по IP отключено"
	msgInvalidCoordinates  = "некорректные координаты"
	msgLocateInProgress    = "местоположение уже определяется"
)

// respondError переводит ошибку мастера в HTTP ответ
// Ошибки проверки ввода отдаются как 422 с полями, никогда как 500
func (h *Handler) respondError(w http.ResponseWriter, route, sessionID string, err error) {
	var verr *wizard.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Warn("%s - Validation failed: session=%s, error=%v", route, sessionID, err)
		handlers.RespondValidationError(w, msgValidation, verr.Fields)

	case errors.Is(err, wizard.ErrSessionNotFound), errors.Is(err, wizard.ErrSessionClosed):
		h.logger.Warn("%s - Session not found: session=%s", route, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, wizard.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: session=%s, error=%v", route, sessionID, err)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, wizard.ErrWrongStep):
		h.logger.Warn("%s - Wrong step: session=%s, error=%v", route, sessionID, err)
		handlers.RespondConflict(w, msgWrongStep)

	case errors.Is(err, wizard.ErrFirstStep):
		handlers.RespondConflict(w, msgFirstStep)

	case errors.Is(err, wizard.ErrTerminal):
		handlers.RespondConflict(w, msgTerminal)

	case errors.Is(err, wizard.ErrPaymentInProgress), errors.Is(err, wizard.ErrPersistenceInProgress):
		handlers.RespondConflict(w, msgPaymentInProgress)

	case errors.Is(err, wizard.ErrAlreadyPaid):
		handlers.RespondConflict(w, msgAlreadyPaid)

	case errors.Is(err, wizard.ErrPaymentAdvances):
		handlers.RespondConflict(w, msgPaymentAdvances)

	case errors.Is(err, wizard.ErrNothingToPersist):
		handlers.RespondConflict(w, msgNothingToPersist)

	case errors.Is(err, wizard.ErrPaymentUnavailable):
		h.logger.Error("%s - Payment unavailable: session=%s, error=%v", route, sessionID, err)
		handlers.RespondError(w, http.StatusServiceUnavailable, msgPaymentUnavailable)

	case errors.Is(err, autocomplete.ErrLocateInProgress):
		handlers.RespondConflict(w, msgLocateInProgress)

	case errors.Is(err, autocomplete.ErrLocationUnavailable):
		h.logger.Warn("%s - Location unavailable: session=%s, error=%v", route, sessionID, err)
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgLocationUnavailable)

	default:
		h.logger.Error("%s - Failed: session=%s, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
