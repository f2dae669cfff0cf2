package wizard_session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/iplocation"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// Handler HTTP интерфейс сессий мастера бронирования
type Handler struct {
	registry   SessionRegistry
	ipLocator  IPLocator
	sessionTTL time.Duration
	logger     Logger
}

// NewHandler создает handler; ipLocator может быть nil
func NewHandler(registry SessionRegistry, ipLocator IPLocator, sessionTTL time.Duration, logger Logger) *Handler {
	return &Handler{
		registry:   registry,
		ipLocator:  ipLocator,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register регистрирует маршруты сессий на роутере /api/v1
// Адресные маршруты оборачиваются limited (ограничение частоты), если он задан
func (h *Handler) Register(r *mux.Router, limited mux.MiddlewareFunc) {
	const session = "/wizard/sessions/{sessionId}"

	address := func(fn http.HandlerFunc) http.Handler {
		if limited == nil {
			return fn
		}
		return limited(fn)
	}

	r.HandleFunc("/wizard/sessions", h.Create).Methods(http.MethodPost)
	r.HandleFunc(session, h.Get).Methods(http.MethodGet)
	r.HandleFunc(session, h.Delete).Methods(http.MethodDelete)
	r.HandleFunc(session+"/service", h.SelectService).Methods(http.MethodPut)
	r.HandleFunc(session+"/counters", h.Counter).Methods(http.MethodPost)
	r.HandleFunc(session+"/hours", h.SetHours).Methods(http.MethodPut)
	r.HandleFunc(session+"/date", h.SetDate).Methods(http.MethodPut)
	r.HandleFunc(session+"/slot", h.SelectSlot).Methods(http.MethodPut)
	r.HandleFunc(session+"/details", h.UpdateDetails).Methods(http.MethodPatch)
	r.Handle(session+"/address/type", address(h.TypeAddress)).Methods(http.MethodPost)
	r.Handle(session+"/address/select", address(h.SelectSuggestion)).Methods(http.MethodPost)
	r.Handle(session+"/address/locate", address(h.Locate)).Methods(http.MethodPost)
	r.HandleFunc(session+"/next", h.Next).Methods(http.MethodPost)
	r.HandleFunc(session+"/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc(session+"/payment", h.Pay).Methods(http.MethodPost)
	r.HandleFunc(session+"/payment/retry-save", h.RetrySave).Methods(http.MethodPost)
}

// Create POST /api/v1/wizard/sessions
// Тело опционально: {"profile": {...}} для предзаполнения контактных данных
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /wizard/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	session := h.registry.Create(req.Profile.ToDomain())

	h.logger.Info("POST /wizard/sessions - Session created: session=%s", session.ID())
	handlers.RespondJSON(w, http.StatusCreated, FromView(session.View(), h.sessionTTL))
}

// Get GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "GET /wizard/sessions/{id}", nil)
}

// Delete DELETE /api/v1/wizard/sessions/{sessionId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.registry.Close(sessionID); err != nil {
		h.respondError(w, "DELETE /wizard/sessions/{id}", sessionID, err)
		return
	}

	h.logger.Info("DELETE /wizard/sessions/{id} - Session closed: session=%s", sessionID)
	w.WriteHeader(http.StatusNoContent)
}

// SelectService PUT /api/v1/wizard/sessions/{sessionId}/service
func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	var req SelectServiceRequest
	if !h.decode(w, r, "PUT /wizard/sessions/{id}/service", &req) {
		return
	}

	h.withSession(w, r, "PUT /wizard/sessions/{id}/service", func(ctx context.Context, s *wizard.Session) error {
		return s.SelectService(ctx, req.ServiceID)
	})
}

// Counter POST /api/v1/wizard/sessions/{sessionId}/counters
func (h *Handler) Counter(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/sessions/{id}/counters"

	var req CounterRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	field := domain.CounterField(req.Field)
	var command func(s *wizard.Session) error
	switch req.Op {
	case "increment":
		command = func(s *wizard.Session) error { return s.IncrementCounter(field) }
	case "decrement":
		command = func(s *wizard.Session) error { return s.DecrementCounter(field) }
	case "set":
		if req.Value == nil {
			handlers.RespondBadRequest(w, msgMissingValue)
			return
		}
		value := *req.Value
		command = func(s *wizard.Session) error { return s.SetCounter(field, value) }
	default:
		h.logger.Warn("%s - Unknown op: %q", route, req.Op)
		handlers.RespondBadRequest(w, msgUnknownOp)
		return
	}

	h.withSession(w, r, route, func(_ context.Context, s *wizard.Session) error {
		return command(s)
	})
}

// SetHours PUT /api/v1/wizard/sessions/{sessionId}/hours
func (h *Handler) SetHours(w http.ResponseWriter, r *http.Request) {
	var req SetHoursRequest
	if !h.decode(w, r, "PUT /wizard/sessions/{id}/hours", &req) {
		return
	}

	h.withSession(w, r, "PUT /wizard/sessions/{id}/hours", func(_ context.Context, s *wizard.Session) error {
		return s.SetHours(req.Hours)
	})
}

// SetDate PUT /api/v1/wizard/sessions/{sessionId}/date
func (h *Handler) SetDate(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /wizard/sessions/{id}/date"

	var req SetDateRequest
	if !h.decode(w, r, route, &req) {
		return
	}

	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	h.withSession(w, r, route, func(_ context.Context, s *wizard.Session) error {
		return s.SetDate(date)
	})
}

// SelectSlot PUT /api/v1/wizard/sessions/{sessionId}/slot
func (h *Handler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	var req SelectSlotRequest
	if !h.decode(w, r, "PUT /wizard/sessions/{id}/slot", &req) {
		return
	}

	h.withSession(w, r, "PUT /wizard/sessions/{id}/slot", func(_ context.Context, s *wizard.Session) error {
		return s.SelectTimeSlot(req.StartTime)
	})
}

// UpdateDetails PATCH /api/v1/wizard/sessions/{sessionId}/details
func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req DetailsRequest
	if !h.decode(w, r, "PATCH /wizard/sessions/{id}/details", &req) {
		return
	}

	h.withSession(w, r, "PATCH /wizard/sessions/{id}/details", func(_ context.Context, s *wizard.Session) error {
		return s.UpdateClientDetails(req.ToPatch())
	})
}

// TypeAddress POST /api/v1/wizard/sessions/{sessionId}/address/type
// Подсказки приходят асинхронно; клиент читает их через GET сессии
func (h *Handler) TypeAddress(w http.ResponseWriter, r *http.Request) {
	var req TypeAddressRequest
	if !h.decode(w, r, "POST /wizard/sessions/{id}/address/type", &req) {
		return
	}

	h.withSession(w, r, "POST /wizard/sessions/{id}/address/type", func(_ context.Context, s *wizard.Session) error {
		return s.TypeAddress(req.Text)
	})
}

// SelectSuggestion POST /api/v1/wizard/sessions/{sessionId}/address/select
func (h *Handler) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	var req SelectSuggestionRequest
	if !h.decode(w, r, "POST /wizard/sessions/{id}/address/select", &req) {
		return
	}

	h.withSession(w, r, "POST /wizard/sessions/{id}/address/select", func(_ context.Context, s *wizard.Session) error {
		return s.SelectAddressSuggestion(req.Index)
	})
}

// Locate POST /api/v1/wizard/sessions/{sessionId}/address/locate
// Без координат в теле местоположение определяется по IP клиента
func (h *Handler) Locate(w http.ResponseWriter, r *http.Request) {
	const route = "POST /wizard/sessions/{id}/address/locate"

	var req LocateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var locator autocomplete.Locator
	switch {
	case req.Latitude != nil && req.Longitude != nil:
		coords := domain.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if coords.Latitude < -90 || coords.Latitude > 90 || coords.Longitude < -180 || coords.Longitude > 180 {
			handlers.RespondBadRequest(w, msgInvalidCoordinates)
			return
		}
		locator = staticLocator(coords)
	case req.Latitude != nil || req.Longitude != nil:
		handlers.RespondBadRequest(w, msgInvalidCoordinates)
		return
	case h.ipLocator != nil:
		locator = h.ipLocator.ForIP(iplocation.ClientIP(r))
	default:
		handlers.RespondError(w, http.StatusUnprocessableEntity, msgMissingCoordinates)
		return
	}

	h.withSession(w, r, route, func(ctx context.Context, s *wizard.Session) error {
		return s.UseCurrentLocation(ctx, locator)
	})
}

// Next POST /api/v1/wizard/sessions/{sessionId}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "POST /wizard/sessions/{id}/next", func(_ context.Context, s *wizard.Session) error {
		return s.Next()
	})
}

// Back POST /api/v1/wizard/sessions/{sessionId}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "POST /wizard/sessions/{id}/back", func(_ context.Context, s *wizard.Session) error {
		return s.Back()
	})
}

// Pay POST /api/v1/wizard/sessions/{sessionId}/payment
// Если депозит списан, а сохранение не удалось, ответ 202 со снимком сессии
// Отказ банка: 402 со снимком сессии, причина в payment.error
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if !h.decode(w, r, "POST /wizard/sessions/{id}/payment", &req) {
		return
	}

	h.withSession(w, r, "POST /wizard/sessions/{id}/payment", func(ctx context.Context, s *wizard.Session) error {
		return s.Pay(ctx, req.Token)
	})
}

// RetrySave POST /api/v1/wizard/sessions/{sessionId}/payment/retry-save
func (h *Handler) RetrySave(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, "POST /wizard/sessions/{id}/payment/retry-save", func(ctx context.Context, s *wizard.Session) error {
		return s.RetryPersistence(ctx)
	})
}

// withSession находит сессию, выполняет команду и отвечает снимком сессии
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, route string, command func(ctx context.Context, s *wizard.Session) error) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.registry.Get(sessionID)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	if command != nil {
		if err := command(r.Context(), session); err != nil {
			switch {
			case errors.Is(err, wizard.ErrPersistenceFailed):
				h.logger.Error("%s - Paid booking not saved yet: session=%s, error=%v", route, sessionID, err)
				handlers.RespondJSON(w, http.StatusAccepted, FromView(session.View(), h.sessionTTL))
				return
			case errors.Is(err, wizard.ErrPaymentDeclined):
				h.logger.Warn("%s - Payment declined: session=%s, error=%v", route, sessionID, err)
				handlers.RespondJSON(w, http.StatusPaymentRequired, FromView(session.View(), h.sessionTTL))
				return
			}
			h.respondError(w, route, sessionID, err)
			return
		}
		h.logger.Info("%s - OK: session=%s", route, sessionID)
	}

	handlers.RespondJSON(w, http.StatusOK, FromView(session.View(), h.sessionTTL))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string, dst interface{}) bool {
	if err := handlers.DecodeJSON(r, dst); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, fmt.Sprintf("%s: %v", msgInvalidRequestBody, err))
		return false
	}
	return true
}

// staticLocator координаты, переданные клиентом
type staticLocator domain.Coordinates

func (l staticLocator) Locate(context.Context) (domain.Coordinates, error) {
	return domain.Coordinates(l), nil
}
