package domain

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// DaySchedule рабочие часы бригад на день недели
type DaySchedule struct {
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
}

// WeeklySchedule расписание по дням недели
type WeeklySchedule map[time.Weekday]DaySchedule

// For возвращает расписание на день недели даты
func (w WeeklySchedule) For(date time.Time) DaySchedule {
	if day, ok := w[date.Weekday()]; ok {
		return day
	}
	return DaySchedule{IsOpen: false}
}

// CalendarConfig настройки календаря бригад
type CalendarConfig struct {
	Schedule                WeeklySchedule
	SlotStepMinutes         int
	Crews                   int // сколько уборок может идти одновременно
	AdvanceBookingDays      int // 0 = без ограничений
	MinBookingNoticeMinutes int
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *CalendarConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SupportsParallelBookings returns true if several crews can work at the same time
func (c *CalendarConfig) SupportsParallelBookings() bool {
	return c.Crews > 1
}
