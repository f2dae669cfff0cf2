package wizard

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/availability"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Config настройки сессий мастера
type Config struct {
	SessionTTL          time.Duration
	AvailabilityTimeout time.Duration
	PaymentTimeout      time.Duration
	SaveTimeout         time.Duration
	Location            *time.Location
	Currency            string
	Address             autocomplete.Config
}

// Dependencies внешние коллабораторы сессии
type Dependencies struct {
	Catalog      Catalog
	Availability availability.Provider
	Geocoder     autocomplete.Geocoder
	Payments     PaymentProcessor
	Bookings     BookingSaver
	Emails       EmailGenerator
	Retries      RetryScheduler // может быть nil: тогда только ручной повтор
	Observer     Observer       // может быть nil
	Clock        autocomplete.Clock
	TimeProvider TimeProvider
	Logger       Logger
}

// DetailsPatch частичное обновление контактных данных; nil = без изменений
type DetailsPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	CountryCode *string
	Address     *string
	Notes       *string
}

// CountersView счетчики оценщиков
type CountersView struct {
	Active       domain.ServiceCategory
	Home         domain.HomeCounts
	Office       domain.OfficeCounts
	CanDecrement map[domain.CounterField]bool
}

// PaymentView состояние оплаты и сохранения
type PaymentView struct {
	Status             domain.PaymentStatus
	Error              string
	TransactionID      string
	BookingID          int64
	PersistencePending bool
	PersistenceError   string
	RetryScheduled     bool
	ConfirmationSent   bool
}

// View неизменяемый снимок сессии для HTTP слоя
type View struct {
	SessionID    string
	Step         domain.Step
	Service      *domain.ServiceType
	Hours        float64
	Counters     CountersView
	Date         *time.Time
	TimeSlot     *domain.TimeSlot
	Slots        availability.Snapshot
	Client       domain.ClientDetails
	Address      autocomplete.State
	Payment      PaymentView
	Invoice      domain.Invoice
	CanProceed   bool
	GuardErrors  map[string]string
	LastActivity time.Time
	// Revision растет при каждом применении фонового ответа
	Revision uint64
}
