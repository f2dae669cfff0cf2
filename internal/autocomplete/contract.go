package autocomplete

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Geocoder интерфейс сервиса геокодирования
type Geocoder interface {
	Suggest(ctx context.Context, text string) ([]domain.AddressCandidate, error)
	ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error)
}

// Locator источник текущего местоположения пользователя
type Locator interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

// Observer получает исходы запросов для метрик
type Observer interface {
	ObserveAddressLookup(kind, outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Clock планировщик отложенных вызовов (подменяется в тестах)
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer отменяемый таймер
type Timer interface {
	Stop() bool
}

// RealClock реальный планировщик на основе time.AfterFunc
type RealClock struct{}

// AfterFunc вызывает f в отдельной горутине по истечении d
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Виды и исходы запросов
const (
	KindSuggest = "suggest"
	KindLocate  = "locate"

	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)
