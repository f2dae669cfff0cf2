package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// generateTimeSlots генерирует все возможные начала уборки на день
// Начала идут с открытия с шагом slotStep; уборка длительностью durationMinutes
// должна целиком помещаться в рабочие часы
// Для сегодняшней даты отбрасываются начала раньше now + minBookingNoticeMinutes
func generateTimeSlots(
	workingHours domain.DaySchedule,
	slotStep int,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) ([]types.TimeString, error) {
	// Проверяем, что дата не в прошлом
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	// Если бригады не работают в этот день
	if !workingHours.IsOpen || workingHours.OpenTime.IsZero() || workingHours.CloseTime.IsZero() {
		return []types.TimeString{}, nil
	}

	if err := workingHours.OpenTime.Validate(); err != nil {
		return nil, err
	}
	if err := workingHours.CloseTime.Validate(); err != nil {
		return nil, err
	}

	// Шаг 1: Генерируем ВСЕ начала от открытия с фиксированным шагом
	allSlots := make([]types.TimeString, 0)
	currentSlot := workingHours.OpenTime

	for currentSlot.IsBefore(workingHours.CloseTime) {
		// Уборка не должна выходить за время закрытия (и за пределы суток)
		slotEnd, err := currentSlot.AddMinutes(durationMinutes)
		if err != nil || slotEnd.IsAfter(workingHours.CloseTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		currentSlot, err = currentSlot.AddMinutes(slotStep)
		if err != nil {
			break
		}
	}

	// Шаг 2: Если дата НЕ сегодня - возвращаем все слоты
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Шаг 3: Сегодня - оставляем только начала не раньше now + minBookingNoticeMinutes
	currentTime := types.NewTimeString(now)
	minAllowedTime, err := currentTime.AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		// Минимальное время переходит на следующий день - сегодня записаться нельзя
		return []types.TimeString{}, nil
	}

	availableSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if !slot.IsBefore(minAllowedTime) {
			availableSlots = append(availableSlots, slot)
		}
	}

	return availableSlots, nil
}

// calculateAvailableCrews вычисляет количество свободных бригад для каждого слота
func calculateAvailableCrews(
	slots []types.TimeString,
	durationMinutes int,
	bookings []*domain.BookingRecord,
	crews int,
) []Slot {
	result := make([]Slot, 0, len(slots))

	for _, slotStart := range slots {
		slotEnd, err := slotStart.AddMinutes(durationMinutes)
		if err != nil {
			continue
		}

		// Подсчитываем количество бронирований, пересекающихся с этим слотом
		overlappingCount := countOverlappingBookings(slotStart, slotEnd, bookings)

		availableCrews := crews - overlappingCount
		if availableCrews < 0 {
			availableCrews = 0
		}

		result = append(result, Slot{
			StartTime:      slotStart,
			EndTime:        slotEnd,
			AvailableCrews: availableCrews,
			TotalCrews:     crews,
		})
	}

	return result
}

// countOverlappingBookings подсчитывает количество бронирований, пересекающихся с интервалом
// Пересечение есть только если интервалы действительно накладываются друг на друга
// Уборка, которая заканчивается ровно в начале слота (или наоборот), НЕ пересекается
//
// Примеры:
// - Слот 10:00-13:00, уборка 12:00-14:00 → ЕСТЬ пересечение (12:00-13:00)
// - Слот 10:00-13:00, уборка 08:00-10:00 → НЕТ пересечения (граничат)
// - Слот 10:00-13:00, уборка 13:00-15:00 → НЕТ пересечения (граничат)
func countOverlappingBookings(slotStart, slotEnd types.TimeString, bookings []*domain.BookingRecord) int {
	count := 0

	for _, booking := range bookings {
		// Пропускаем отмененные бронирования
		if !booking.IsActive() {
			continue
		}

		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			// Если не можем вычислить конец бронирования, пропускаем
			continue
		}

		// Строгие неравенства: граничные случаи не считаются пересечением
		if booking.StartTime.IsBefore(slotEnd) && bookingEnd.IsAfter(slotStart) {
			count++
		}
	}

	return count
}

// toDomainSlots конвертирует слоты календаря в слоты мастера бронирования
func toDomainSlots(slots []Slot) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(slots))
	for i, slot := range slots {
		result[i] = domain.TimeSlot{
			Start:     slot.StartTime,
			End:       slot.EndTime,
			Available: slot.IsAvailable(),
		}
	}
	return result
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
