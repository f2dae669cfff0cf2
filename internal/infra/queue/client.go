package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Enqueuer подмножество asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler ставит задачи повторного сохранения в очередь
type Scheduler struct {
	client   Enqueuer
	queue    string
	maxRetry int
	delay    time.Duration
	logger   Logger
}

// NewScheduler создает планировщик повторов
func NewScheduler(client Enqueuer, queue string, maxRetry int, delay time.Duration, logger Logger) *Scheduler {
	if queue == "" {
		queue = "default"
	}
	return &Scheduler{
		client:   client,
		queue:    queue,
		maxRetry: maxRetry,
		delay:    delay,
		logger:   logger,
	}
}

// SchedulePersistenceRetry ставит повторное сохранение бронирования
// Повторная постановка той же транзакции не считается ошибкой
func (s *Scheduler) SchedulePersistenceRetry(ctx context.Context, sessionID string, record *domain.BookingRecord) error {
	task, opts, err := NewPersistTask(sessionID, record)
	if err != nil {
		return err
	}

	opts = append(opts,
		asynq.Queue(s.queue),
		asynq.MaxRetry(s.maxRetry),
		asynq.ProcessIn(s.delay),
	)

	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			s.logger.Info("Scheduler: retry for transaction=%s already queued", record.PaymentTransactionID)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	s.logger.Info("Scheduler: queued task id=%s for session=%s, transaction=%s",
		info.ID, sessionID, record.PaymentTransactionID)
	return nil
}
