package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings/models"
)

// Service сервис для чтения сохраненных бронирований
type Service struct {
	bookingRepo BookingRepository
	emails      EmailGenerator
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	emails EmailGenerator,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		emails:      emails,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetByTransactionID получает бронирование по id платежной транзакции
// Клиент знает только его, если бронирование сохранено фоновым повтором
func (s *Service) GetByTransactionID(ctx context.Context, transactionID string) (*models.BookingResponse, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByTransactionID: booking for transaction=%s not found", transactionID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByTransactionID: repository error for transaction=%s: %v", transactionID, err)
		return nil, fmt.Errorf("%w: GetByTransactionID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetBookings получает бронирования за период
// Без IncludeInactive возвращаются только бронирования, занимающие бригаду
func (s *Service) GetBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("GetBookings: endDate %s is before startDate %s", req.EndDate, req.StartDate)
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetBookings: repository error: %v", err)
		return nil, fmt.Errorf("%w: GetBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// RenderEmail генерирует текст письма (подтверждение или счет) для сохраненного бронирования
func (s *Service) RenderEmail(ctx context.Context, id int64, kind string) (*models.EmailResponse, error) {
	emailKind, ok := models.ToDomainEmailKind(kind)
	if !ok {
		s.logger.Warn("RenderEmail: unknown email kind=%q", kind)
		return nil, fmt.Errorf("%w: unknown email kind %q", ErrInvalidInput, kind)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("RenderEmail: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("RenderEmail: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: RenderEmail - repository error: %v", ErrInternal, err)
	}

	content, err := s.emails.GenerateEmailContent(booking, emailKind)
	if err != nil {
		s.logger.Error("RenderEmail: failed to render %s for booking id=%d: %v", emailKind, id, err)
		return nil, fmt.Errorf("%w: RenderEmail - generator error: %v", ErrInternal, err)
	}

	return &models.EmailResponse{BookingID: id, Kind: string(emailKind), Content: content}, nil
}
