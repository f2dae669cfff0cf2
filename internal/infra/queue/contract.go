package queue

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// BookingSaver сохранение бронирования (saveBooking)
type BookingSaver interface {
	SaveBooking(ctx context.Context, record *domain.BookingRecord) (int64, error)
}

// SessionMarker уведомляет сессию мастера о сохраненном бронировании
type SessionMarker interface {
	MarkPersisted(sessionID string, bookingID int64)
}

// Observer метрики повторных сохранений
type Observer interface {
	ObservePersistenceRetry(source, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
