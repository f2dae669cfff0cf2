package domain

import "github.com/m04kA/SMC-CleaningBooking/pkg/types"

// TimeSlot временной слот, полученный от календаря; локально не изменяется
type TimeSlot struct {
	Start     types.TimeString
	End       types.TimeString
	Available bool
}

// SlotKey параметры запроса слотов: выбранная дата и длительность в часах
type SlotKey struct {
	Date  string // YYYY-MM-DD
	Hours float64
}

// IsZero true, если дата или часы не заданы
func (k SlotKey) IsZero() bool {
	return k.Date == "" || k.Hours <= 0
}
