package render_email

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings/models"
)

type BookingService interface {
	RenderEmail(ctx context.Context, id int64, kind string) (*models.EmailResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
