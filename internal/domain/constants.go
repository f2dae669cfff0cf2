package domain

import "github.com/shopspring/decimal"

// Налог и депозит (внешне заданные константы)
var (
	HSTRate         = decimal.RequireFromString("0.13")
	DepositFraction = decimal.RequireFromString("0.30")
)

// Ограничения длительности уборки (в часах)
const (
	MinHomeHours   = 2.0
	MaxHomeHours   = 10.0
	MinOfficeHours = 3.0
	HoursStep      = 0.5

	// Границы ползунка ручной установки часов
	MinSliderHours = 2.0
	MaxSliderHours = 10.0
)

// Значения календаря по умолчанию
const (
	DefaultSlotStepMinutes         = 60
	DefaultCrews                   = 1
	DefaultAdvanceBookingDays      = 0  // 0 = без ограничений
	DefaultMinBookingNoticeMinutes = 120 // 2 часа
)

// Ограничения пользовательского ввода
const (
	MaxNotesLength   = 1000
	MaxAddressLength = 300
	MaxCounterValue  = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Currency валюта всех сумм
const Currency = "cad"
