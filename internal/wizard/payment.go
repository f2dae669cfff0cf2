package wizard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/payment"
	"github.com/m04kA/SMC-CleaningBooking/internal/pricing"
)

// Исходы оплаты для метрик
const (
	paymentOutcomePaid     = "paid"
	paymentOutcomeDeclined = "declined"
	paymentOutcomeError    = "error"
)

// Источники сохранения
const (
	SourcePayment = "payment"
	SourceManual  = "manual"
	SourceQueue   = "queue"
)

// Pay списывает депозит и сохраняет бронирование (шаг 5)
// Шаг 6 наступает только после подтверждения сохранения
func (s *Session) Pay(ctx context.Context, token string) error {
	// 1. Проверяем состояние и готовим запрос под блокировкой
	s.mu.Lock()
	if err := s.aliveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	switch {
	case s.state.Step == domain.StepSuccess:
		s.mu.Unlock()
		return ErrTerminal
	case s.state.Step != domain.StepPayment:
		s.mu.Unlock()
		return fmt.Errorf("%w: current step is %s", ErrWrongStep, s.state.Step)
	case s.state.PaymentStatus == domain.PaymentProcessing:
		s.mu.Unlock()
		return ErrPaymentInProgress
	case s.state.PaymentStatus == domain.PaymentPaid:
		s.mu.Unlock()
		return ErrAlreadyPaid
	}
	if token == "" {
		s.mu.Unlock()
		return newValidationError("token", "payment token is required")
	}
	for _, step := range []domain.Step{domain.StepService, domain.StepDuration, domain.StepSchedule, domain.StepDetails} {
		if err := s.guardLocked(step); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	record := s.buildRecordLocked()
	s.paymentAttempt++
	req := payment.Request{
		AmountCents:    pricing.Cents(record.Deposit),
		Currency:       s.cfg.Currency,
		Token:          token,
		IdempotencyKey: fmt.Sprintf("%s-%d", s.id, s.paymentAttempt),
		Description:    fmt.Sprintf("Deposit: %s on %s at %s", record.ServiceTitle, record.BookingDate.Format(domain.DateFormat), record.StartTime),
		ReceiptEmail:   record.Client.Email,
	}
	s.state.PaymentStatus = domain.PaymentProcessing
	s.paymentErr = ""
	s.mu.Unlock()

	// 2. Списываем депозит без блокировки
	s.deps.Logger.Info("Wizard[%s]: processing deposit %d cents", s.id, req.AmountCents)
	payCtx, cancel := s.withTimeout(ctx, s.cfg.PaymentTimeout)
	result, err := s.deps.Payments.ProcessPayment(payCtx, req)
	cancel()

	// 3. Применяем результат
	s.mu.Lock()
	if err != nil {
		s.state.PaymentStatus = domain.PaymentFailed
		var decline *payment.DeclineError
		switch {
		case errors.As(err, &decline):
			s.paymentErr = decline.Reason
			if s.paymentErr == "" {
				s.paymentErr = msgPaymentDeclined
			}
			s.mu.Unlock()
			s.deps.Observer.ObservePayment(paymentOutcomeDeclined)
			s.deps.Logger.Warn("Wizard[%s]: deposit declined: %v", s.id, err)
			return fmt.Errorf("%w: %s", ErrPaymentDeclined, decline.Reason)
		case errors.Is(err, payment.ErrPaymentDeclined):
			s.paymentErr = msgPaymentDeclined
			s.mu.Unlock()
			s.deps.Observer.ObservePayment(paymentOutcomeDeclined)
			s.deps.Logger.Warn("Wizard[%s]: deposit declined: %v", s.id, err)
			return fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
		default:
			s.paymentErr = msgPaymentUnavailable
			s.mu.Unlock()
			s.deps.Observer.ObservePayment(paymentOutcomeError)
			s.deps.Logger.Error("Wizard[%s]: payment failed: %v", s.id, err)
			return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
		}
	}

	s.state.PaymentStatus = domain.PaymentPaid
	s.transactionID = result.TransactionID
	record.PaymentTransactionID = result.TransactionID
	s.record = record
	s.persisting = true
	s.mu.Unlock()

	s.deps.Observer.ObservePayment(paymentOutcomePaid)
	s.deps.Logger.Info("Wizard[%s]: deposit paid, transaction=%s", s.id, result.TransactionID)

	// 4. Сохраняем бронирование; отключение клиента не должно потерять оплаченную запись
	return s.persist(context.WithoutCancel(ctx), SourcePayment)
}

// RetryPersistence повторяет сохранение оплаченного бронирования
// Повторной оплаты не происходит
func (s *Session) RetryPersistence(ctx context.Context) error {
	s.mu.Lock()
	if err := s.aliveLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state.Step == domain.StepSuccess {
		s.mu.Unlock()
		return ErrTerminal
	}
	if s.record == nil || s.state.PaymentStatus != domain.PaymentPaid {
		s.mu.Unlock()
		return ErrNothingToPersist
	}
	if s.persisting {
		s.mu.Unlock()
		return ErrPersistenceInProgress
	}
	s.persisting = true
	s.mu.Unlock()

	return s.persist(ctx, SourceManual)
}

// MarkPersisted завершает сессию по результату фонового сохранения
func (s *Session) MarkPersisted(bookingID int64) {
	s.mu.Lock()
	if s.record == nil || s.state.Step == domain.StepSuccess {
		s.mu.Unlock()
		return
	}
	record := s.completeLocked(bookingID)
	s.mu.Unlock()

	s.deps.Observer.ObservePersistenceRetry(SourceQueue, "ok")
	s.sendConfirmation(record)
}

// persist вызывается с persisting == true
func (s *Session) persist(ctx context.Context, source string) error {
	s.mu.Lock()
	record := *s.record
	s.mu.Unlock()

	saveCtx, cancel := s.withTimeout(ctx, s.cfg.SaveTimeout)
	bookingID, err := s.deps.Bookings.SaveBooking(saveCtx, &record)
	cancel()

	if err != nil {
		s.mu.Lock()
		s.persisting = false
		s.persistErr = msgPersistenceFailed
		schedule := !s.retryScheduled && s.deps.Retries != nil
		s.mu.Unlock()

		s.deps.Logger.Error("Wizard[%s]: failed to save paid booking, transaction=%s: %v", s.id, record.PaymentTransactionID, err)
		if source != SourcePayment {
			s.deps.Observer.ObservePersistenceRetry(source, "error")
		}
		if schedule {
			s.scheduleRetry(&record)
		}
		return fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	if s.state.Step == domain.StepSuccess {
		// фоновый повтор успел раньше
		s.persisting = false
		s.mu.Unlock()
		return nil
	}
	completed := s.completeLocked(bookingID)
	s.mu.Unlock()

	if source != SourcePayment {
		s.deps.Observer.ObservePersistenceRetry(source, "ok")
	}
	s.deps.Logger.Info("Wizard[%s]: booking saved, id=%d", s.id, bookingID)
	s.sendConfirmation(completed)
	return nil
}

func (s *Session) scheduleRetry(record *domain.BookingRecord) {
	// очередь не зависит от отмены запроса пользователя
	ctx, cancel := s.withTimeout(context.Background(), s.cfg.SaveTimeout)
	defer cancel()

	if err := s.deps.Retries.SchedulePersistenceRetry(ctx, s.id, record); err != nil {
		s.deps.Logger.Error("Wizard[%s]: failed to schedule persistence retry: %v", s.id, err)
		return
	}

	s.mu.Lock()
	s.retryScheduled = true
	s.mu.Unlock()
	s.deps.Logger.Info("Wizard[%s]: persistence retry scheduled", s.id)
}

// completeLocked переводит сессию в финальное состояние и возвращает копию записи
func (s *Session) completeLocked(bookingID int64) *domain.BookingRecord {
	s.persisting = false
	s.persistErr = ""
	s.bookingID = bookingID
	s.record.ID = bookingID
	s.state.Step = domain.StepSuccess

	record := *s.record
	return &record
}

// sendConfirmation генерирует письмо после сохранения; ошибка только логируется
func (s *Session) sendConfirmation(record *domain.BookingRecord) {
	if s.deps.Emails == nil {
		return
	}

	content, err := s.deps.Emails.GenerateEmailContent(record, domain.EmailConfirmation)
	if err != nil {
		s.deps.Logger.Error("Wizard[%s]: failed to generate confirmation email for booking id=%d: %v", s.id, record.ID, err)
		return
	}

	s.mu.Lock()
	s.emailSent = true
	s.mu.Unlock()
	s.deps.Logger.Info("Wizard[%s]: confirmation email generated for booking id=%d (%d bytes)", s.id, record.ID, len(content))
}

// buildRecordLocked снимок бронирования для оплаты и сохранения
func (s *Session) buildRecordLocked() *domain.BookingRecord {
	invoice := pricing.Compute(s.state.Service, s.state.Hours)
	duration := int(math.Ceil(s.state.Hours)) * 60

	return &domain.BookingRecord{
		ServiceID:       s.state.Service.ID,
		ServiceTitle:    s.state.Service.Title,
		ServiceCategory: s.state.Service.Category,
		HourlyRate:      s.state.Service.HourlyRate,
		Hours:           s.state.Hours,
		BookingDate:     *s.state.Date,
		StartTime:       s.state.TimeSlot.Start,
		EndTime:         s.state.TimeSlot.End,
		DurationMinutes: duration,
		Client:          s.state.Client,
		Subtotal:        invoice.Subtotal.Round(2),
		Tax:             invoice.Tax.Round(2),
		Total:           invoice.Total.Round(2),
		Deposit:         invoice.Deposit.Round(2),
		Remaining:       invoice.Remaining.Round(2),
		Status:          domain.StatusConfirmed,
		CreatedAt:       s.deps.TimeProvider.Now(),
	}
}

func (s *Session) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
