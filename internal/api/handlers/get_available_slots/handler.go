package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
)

const (
	msgMissingDate   = "дата обязательна"
	msgMissingHours  = "длительность обязательна"
	msgInvalidParams = "некорректные параметры: дата ожидается в формате YYYY-MM-DD, длительность числом часов"
	msgInvalidDate   = "некорректная дата уборки"
	msgDateTooFar    = "дата уборки слишком далеко в будущем"
	msgInvalidHours  = "некорректная длительность уборки"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (required, YYYY-MM-DD), hours (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	hoursStr := r.URL.Query().Get("hours")
	if hoursStr == "" {
		h.logger.Warn("GET /availability - Missing hours")
		handlers.RespondBadRequest(w, msgMissingHours)
		return
	}

	useCaseReq, err := ToUseCaseRequest(dateStr, hoursStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /availability - Invalid date: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /availability - Date too far in future: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: date=%s, hours=%s", dateStr, hoursStr)
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("GET /availability - Failed to get slots: date=%s, hours=%s, error=%v", dateStr, hoursStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: date=%s, duration=%dh, slots_count=%d",
		dateStr, result.DurationHours, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
