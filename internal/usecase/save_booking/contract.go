package save_booking

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, record *domain.BookingRecord) (int64, bool, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.BookingRecord, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
