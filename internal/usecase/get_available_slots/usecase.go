package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// UseCase use case календаря бригад: слоты дня для уборки заданной длительности
type UseCase struct {
	bookingRepo  BookingRepository
	config       domain.CalendarConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	config domain.CalendarConfig,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	if config.SlotStepMinutes <= 0 {
		config.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	if config.Crews <= 0 {
		config.Crews = domain.DefaultCrews
	}

	return &UseCase{
		bookingRepo:  bookingRepo,
		config:       config,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: date=%s, duration=%dh", req.Date.Format(domain.DateFormat), req.DurationHours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты с учетом конфигурации календаря
	if err := validateDate(req.Date, now, uc.config); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:          req.Date,
		DurationHours: req.DurationHours,
		Slots:         []Slot{},
	}

	// 4. Получаем рабочие часы на указанную дату
	workingHours := uc.config.Schedule.For(req.Date)
	if !workingHours.IsOpen {
		uc.logger.Info("GetAvailableSlots: crews are off on %s", req.Date.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Генерируем начала уборок
	durationMinutes := req.DurationHours * 60
	timeSlots, err := generateTimeSlots(
		workingHours,
		uc.config.SlotStepMinutes,
		durationMinutes,
		req.Date,
		now,
		uc.config.MinBookingNoticeMinutes,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate time slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate time slots: %v", ErrInternal, err)
	}

	if len(timeSlots) == 0 {
		return response, nil
	}

	// 6. Получаем активные бронирования на эту дату
	filter := domain.BookingsFilter{
		StartDate:       &req.Date,
		EndDate:         &req.Date,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Вычисляем свободные бригады для каждого слота
	response.Slots = calculateAvailableCrews(timeSlots, durationMinutes, bookings, uc.config.Crews)

	uc.logger.Info("GetAvailableSlots: generated %d slots for date=%s, duration=%dh",
		len(response.Slots), req.Date.Format(domain.DateFormat), req.DurationHours)

	return response, nil
}

// GetRealAvailability возвращает слоты дня в форме, которую потребляет мастер бронирования
// Дата, на которую записаться нельзя (прошлое или дальше горизонта), дает пустой список
func (uc *UseCase) GetRealAvailability(ctx context.Context, date time.Time, durationHours int) ([]domain.TimeSlot, error) {
	resp, err := uc.Execute(ctx, &Request{Date: date, DurationHours: durationHours})
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrDateTooFarInFuture) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}

	return toDomainSlots(resp.Slots), nil
}
