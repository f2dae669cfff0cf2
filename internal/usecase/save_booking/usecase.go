package save_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/booking"
)

// UseCase use case сохранения оплаченного бронирования
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	crews       int
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	crews int,
	logger Logger,
) *UseCase {
	if crews <= 0 {
		crews = domain.DefaultCrews
	}

	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		crews:       crews,
		logger:      logger,
	}
}

// Execute сохраняет бронирование в сериализуемой транзакции
// Депозит уже списан, поэтому занятый интервал не отменяет сохранение: он только логируется
// Повторный вызов с той же транзакцией оплаты возвращает уже сохраненное бронирование
func (uc *UseCase) Execute(ctx context.Context, record *domain.BookingRecord) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRecord(record); err != nil {
		uc.logger.Warn("SaveBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("SaveBooking: service=%s, date=%s, time=%s, transaction=%s",
		record.ServiceID, record.BookingDate.Format(domain.DateFormat), record.StartTime, record.PaymentTransactionID)

	response := &Response{}

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Бронирование по этой транзакции уже могло быть сохранено повторной попыткой
		existing, err := uc.bookingRepo.GetByTransactionID(txCtx, record.PaymentTransactionID)
		if err == nil {
			response.BookingID = existing.ID
			return nil
		}
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("SaveBooking: failed to check transaction=%s: %v", record.PaymentTransactionID, err)
			return fmt.Errorf("%w: failed to check existing booking: %v", ErrInternal, err)
		}

		// 2.2. Получаем активные бронирования на эту дату с блокировкой (FOR UPDATE)
		filter := domain.BookingsFilter{
			StartDate:       &record.BookingDate,
			EndDate:         &record.BookingDate,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("SaveBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 2.3. Проверяем загрузку бригад
		overlappingCount, err := countOverlappingBookings(record.StartTime, record.DurationMinutes, bookings)
		if err != nil {
			uc.logger.Error("SaveBooking: failed to count overlapping bookings: %v", err)
			return fmt.Errorf("%w: failed to count overlapping bookings: %v", ErrInternal, err)
		}

		response.Overbook = overlappingCount >= uc.crews
		if response.Overbook {
			uc.logger.Warn("SaveBooking: all %d crews are busy at %s %s, saving paid booking anyway",
				uc.crews, record.BookingDate.Format(domain.DateFormat), record.StartTime)
		}

		// 2.4. Сохраняем бронирование
		id, created, err := uc.bookingRepo.Create(txCtx, record)
		if err != nil {
			uc.logger.Error("SaveBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		response.BookingID = id
		response.Created = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	if response.Created {
		uc.logger.Info("SaveBooking: successfully created booking id=%d", response.BookingID)
	} else {
		uc.logger.Info("SaveBooking: booking id=%d already saved for transaction=%s",
			response.BookingID, record.PaymentTransactionID)
	}

	return response, nil
}

// SaveBooking сохраняет бронирование и возвращает его ID
func (uc *UseCase) SaveBooking(ctx context.Context, record *domain.BookingRecord) (int64, error) {
	resp, err := uc.Execute(ctx, record)
	if err != nil {
		return 0, err
	}
	return resp.BookingID, nil
}
