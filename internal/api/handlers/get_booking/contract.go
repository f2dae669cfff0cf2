package get_booking

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings/models"
)

// BookingService чтение сохраненных бронирований
type BookingService interface {
	GetByID(ctx context.Context, id int64) (*models.BookingResponse, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
