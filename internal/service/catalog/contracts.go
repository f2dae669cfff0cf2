package catalog

import (
	"context"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceType, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.ServiceType, error)
	Upsert(ctx context.Context, service *domain.ServiceType, sortOrder int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
