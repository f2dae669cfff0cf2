package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Step шаг мастера бронирования
type Step int

const (
	StepService Step = iota + 1
	StepDuration
	StepSchedule
	StepDetails
	StepPayment
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepService:
		return "service"
	case StepDuration:
		return "duration"
	case StepSchedule:
		return "schedule"
	case StepDetails:
		return "details"
	case StepPayment:
		return "payment"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// PaymentStatus статус оплаты депозита
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

// BookingState изменяемое состояние одной сессии мастера
// step и paymentStatus пишет только мастер
type BookingState struct {
	Step          Step
	Service       *ServiceType
	Hours         float64
	Date          *time.Time
	TimeSlot      *TimeSlot
	Client        ClientDetails
	PaymentStatus PaymentStatus
}

// NewBookingState состояние по умолчанию с опциональным предзаполнением из профиля
func NewBookingState(profile *UserProfile, hours float64) BookingState {
	return BookingState{
		Step:          StepService,
		Hours:         hours,
		Client:        profile.ClientDetails(),
		PaymentStatus: PaymentPending,
	}
}

// SlotKey текущие параметры запроса слотов
func (s *BookingState) SlotKey() SlotKey {
	if s.Date == nil {
		return SlotKey{Hours: s.Hours}
	}
	return SlotKey{Date: s.Date.Format(DateFormat), Hours: s.Hours}
}

// BookingStatus статус сохраненного бронирования
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses статусы, занимающие бригаду в календаре
var ActiveStatuses = []BookingStatus{StatusConfirmed, StatusCompleted}

// BookingRecord неизменяемая запись бронирования после оплаты
type BookingRecord struct {
	ID int64

	ServiceID       string
	ServiceTitle    string
	ServiceCategory ServiceCategory
	HourlyRate      decimal.Decimal
	Hours           float64

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int // блок бригады в календаре (целые часы)

	Client ClientDetails

	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Deposit   decimal.Decimal
	Remaining decimal.Decimal

	PaymentTransactionID string
	Status               BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies a crew
func (b *BookingRecord) IsActive() bool {
	return b.Status == StatusConfirmed || b.Status == StatusCompleted
}

// BookingsFilter фильтр бронирований для календаря
type BookingsFilter struct {
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeInactive bool
}

// EmailKind вид письма для генератора контента
type EmailKind string

const (
	EmailConfirmation EmailKind = "confirmation"
	EmailInvoice      EmailKind = "invoice"
)
