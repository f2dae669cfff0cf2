package get_quote

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Catalog источник услуг
type Catalog interface {
	GetService(ctx context.Context, id string) (*domain.ServiceType, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
