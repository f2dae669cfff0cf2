package save_booking

import (
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// validateRecord валидирует запись бронирования перед сохранением
func validateRecord(record *domain.BookingRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is required", ErrInvalidInput)
	}

	if record.PaymentTransactionID == "" {
		return fmt.Errorf("%w: paymentTransactionId is required", ErrInvalidInput)
	}

	if record.ServiceID == "" {
		return fmt.Errorf("%w: serviceId is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if record.BookingDate.IsZero() {
		return fmt.Errorf("%w: bookingDate is required", ErrInvalidInput)
	}

	if record.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := record.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if record.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}

	if !record.Total.IsPositive() {
		return fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}

	return nil
}

// countOverlappingBookings подсчитывает количество активных бронирований, пересекающихся с уборкой
func countOverlappingBookings(
	startTime types.TimeString,
	durationMinutes int,
	bookings []*domain.BookingRecord,
) (int, error) {
	end, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return 0, err
	}

	count := 0

	for _, booking := range bookings {
		// Пропускаем отмененные бронирования
		if !booking.IsActive() {
			continue
		}

		bookingEnd, err := booking.StartTime.AddMinutes(booking.DurationMinutes)
		if err != nil {
			continue
		}

		// Проверяем пересечение (строгие неравенства, граничные случаи не считаются)
		if booking.StartTime.IsBefore(end) && bookingEnd.IsAfter(startTime) {
			count++
		}
	}

	return count, nil
}
