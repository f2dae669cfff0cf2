package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/payment"
)

// Catalog источник услуг
type Catalog interface {
	GetService(ctx context.Context, id string) (*domain.ServiceType, error)
}

// PaymentProcessor платежный шлюз (processPayment)
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req payment.Request) (*payment.Result, error)
}

// BookingSaver сохранение бронирования (saveBooking)
// Повторный вызов с тем же PaymentTransactionID возвращает тот же id
type BookingSaver interface {
	SaveBooking(ctx context.Context, record *domain.BookingRecord) (int64, error)
}

// EmailGenerator генератор содержимого писем (generateEmailContent)
type EmailGenerator interface {
	GenerateEmailContent(record *domain.BookingRecord, kind domain.EmailKind) (string, error)
}

// RetryScheduler ставит в очередь повторное сохранение оплаченного бронирования
type RetryScheduler interface {
	SchedulePersistenceRetry(ctx context.Context, sessionID string, record *domain.BookingRecord) error
}

// Observer метрики мастера
type Observer interface {
	ObserveAvailability(outcome string)
	ObserveAddressLookup(kind, outcome string)
	ObservePayment(outcome string)
	ObservePersistenceRetry(source, outcome string)
	SessionOpened()
	SessionClosed()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// nopObserver используется, когда метрики выключены
type nopObserver struct{}

func (nopObserver) ObserveAvailability(string)             {}
func (nopObserver) ObserveAddressLookup(string, string)    {}
func (nopObserver) ObservePayment(string)                  {}
func (nopObserver) ObservePersistenceRetry(string, string) {}
func (nopObserver) SessionOpened()                         {}
func (nopObserver) SessionClosed()                         {}
