package get_quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	getQuote "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_quote"
)

const (
	msgInvalidParams   = "некорректные параметры запроса"
	msgServiceNotFound = "услуга не найдена"
)

type Handler struct {
	useCase GetQuoteUseCase
	logger  Logger
}

func NewHandler(useCase GetQuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/quote
// Query params: serviceId (required), hours или счетчики (bedrooms, bathrooms, kitchen, living, rooms, cafeteria, desks, washrooms)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	useCaseReq, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /quote - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getQuote.ErrInvalidInput):
			h.logger.Warn("GET /quote - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getQuote.ErrServiceNotFound):
			h.logger.Warn("GET /quote - Service not found: service_id=%s", useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		default:
			h.logger.Error("GET /quote - Failed to compute quote: service_id=%s, error=%v", useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /quote - Quote computed: service_id=%s, hours=%.1f", result.Service.ID, result.Hours)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
