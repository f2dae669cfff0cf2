package bookings

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRecord, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.BookingRecord, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
}

// EmailGenerator генератор текста писем по бронированию
type EmailGenerator interface {
	GenerateEmailContent(record *domain.BookingRecord, kind domain.EmailKind) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
