package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Provider источник слотов календаря (getRealAvailability)
type Provider interface {
	GetRealAvailability(ctx context.Context, date time.Time, durationHours int) ([]domain.TimeSlot, error)
}

// Observer получает исходы запросов (ok, error, stale) для метрик
type Observer interface {
	ObserveAvailability(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Исходы запроса слотов
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)
