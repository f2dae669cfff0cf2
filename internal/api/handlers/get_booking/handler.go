package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
// bookingId - числовой ID или id платежной транзакции (pi_..., sandbox_...)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ref := mux.Vars(r)["bookingId"]

	var (
		booking *models.BookingResponse
		err     error
	)
	bookingID, parseErr := strconv.ParseInt(ref, 10, 64)
	switch {
	case parseErr != nil:
		booking, err = h.service.GetByTransactionID(r.Context(), ref)
	case bookingID <= 0:
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %s", ref)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	default:
		booking, err = h.service.GetByID(r.Context(), bookingID)
	}

	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: ref=%s", ref)
			handlers.RespondNotFound(w, msgNotFound)
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings/{id} - Invalid reference: ref=%s", ref)
			handlers.RespondBadRequest(w, msgInvalidBookingID)
		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: ref=%s, error=%v", ref, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
