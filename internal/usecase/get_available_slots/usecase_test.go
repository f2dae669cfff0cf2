package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBookings struct {
	bookings []*domain.BookingRecord
	err      error
	calls    int
}

func (f *fakeBookings) GetWithFilter(_ context.Context, _ domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	f.calls++
	return f.bookings, f.err
}

// 2030-03-01 - пятница
var now = time.Date(2030, 3, 1, 10, 0, 0, 0, time.UTC)

func calendar(crews int) domain.CalendarConfig {
	weekday := domain.DaySchedule{IsOpen: true, OpenTime: "08:00", CloseTime: "14:00"}
	return domain.CalendarConfig{
		Schedule: domain.WeeklySchedule{
			time.Monday:    weekday,
			time.Tuesday:   weekday,
			time.Wednesday: weekday,
			time.Thursday:  weekday,
			time.Friday:    weekday,
		},
		SlotStepMinutes:         60,
		Crews:                   crews,
		AdvanceBookingDays:      30,
		MinBookingNoticeMinutes: 120,
	}
}

func booking(start string, minutes int, status domain.BookingStatus) *domain.BookingRecord {
	return &domain.BookingRecord{StartTime: types.TimeString(start), DurationMinutes: minutes, Status: status}
}

func starts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestExecute_SlotsFitWorkingHours(t *testing.T) {
	uc := NewUseCase(&fakeBookings{}, calendar(1), fixedTime{now}, nopLogger{})

	// Вторник: уборка 3 часа помещается в 08:00-14:00 с началом не позже 11:00
	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC), DurationHours: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00"}, starts(resp.Slots))
	assert.Equal(t, types.TimeString("14:00"), resp.Slots[3].EndTime)
	for _, slot := range resp.Slots {
		assert.True(t, slot.IsAvailable())
	}
}

func TestExecute_TodayRespectsMinNotice(t *testing.T) {
	uc := NewUseCase(&fakeBookings{}, calendar(1), fixedTime{now}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: now, DurationHours: 2})
	require.NoError(t, err)
	// 10:00 + 120 минут: раньше 12:00 нельзя
	assert.Equal(t, []string{"12:00"}, starts(resp.Slots))
}

func TestExecute_ClosedDay(t *testing.T) {
	repo := &fakeBookings{}
	uc := NewUseCase(repo, calendar(1), fixedTime{now}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2030, 3, 3, 0, 0, 0, 0, time.UTC), DurationHours: 2})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Zero(t, repo.calls)
}

func TestExecute_CrewCapacity(t *testing.T) {
	repo := &fakeBookings{bookings: []*domain.BookingRecord{
		booking("09:00", 120, domain.StatusConfirmed),
		booking("09:00", 60, domain.StatusConfirmed),
		booking("08:00", 360, domain.StatusCancelled),
	}}
	uc := NewUseCase(repo, calendar(2), fixedTime{now}, nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{Date: time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC), DurationHours: 2})
	require.NoError(t, err)

	byStart := make(map[string]Slot)
	for _, slot := range resp.Slots {
		byStart[slot.StartTime.String()] = slot
	}

	// 08:00-10:00 пересекается с обеими уборками в 09:00
	assert.Equal(t, 0, byStart["08:00"].AvailableCrews)
	assert.Equal(t, 0, byStart["09:00"].AvailableCrews)
	// 10:00-12:00 пересекается только с 09:00-11:00
	assert.Equal(t, 1, byStart["10:00"].AvailableCrews)
	// 11:00-13:00 граничит с 09:00-11:00
	assert.Equal(t, 2, byStart["11:00"].AvailableCrews)
	assert.Equal(t, 2, byStart["11:00"].TotalCrews)
}

func TestExecute_DateValidation(t *testing.T) {
	uc := NewUseCase(&fakeBookings{}, calendar(1), fixedTime{now}, nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{Date: now.AddDate(0, 0, -1), DurationHours: 2})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = uc.Execute(context.Background(), &Request{Date: now.AddDate(0, 0, 45), DurationHours: 2})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = uc.Execute(context.Background(), &Request{Date: now, DurationHours: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetRealAvailability(t *testing.T) {
	repo := &fakeBookings{bookings: []*domain.BookingRecord{booking("08:00", 120, domain.StatusConfirmed)}}
	uc := NewUseCase(repo, calendar(1), fixedTime{now}, nopLogger{})

	slots, err := uc.GetRealAvailability(context.Background(), time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC), 4)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, domain.TimeSlot{Start: "08:00", End: "12:00", Available: false}, slots[0])
	assert.Equal(t, domain.TimeSlot{Start: "10:00", End: "14:00", Available: true}, slots[2])

	// Прошедшая дата - пустой список без ошибки
	slots, err = uc.GetRealAvailability(context.Background(), now.AddDate(0, 0, -3), 2)
	require.NoError(t, err)
	assert.Empty(t, slots)

	repo.err = errors.New("db down")
	_, err = uc.GetRealAvailability(context.Background(), time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC), 2)
	assert.ErrorIs(t, err, ErrInternal)
}
