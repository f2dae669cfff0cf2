package queue

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// sourceQueue источник сохранения для метрик
const sourceQueue = "queue"

// PersistHandler обрабатывает задачи повторного сохранения
type PersistHandler struct {
	saver    BookingSaver
	sessions SessionMarker
	observer Observer
	logger   Logger
}

// NewPersistHandler создает обработчик; sessions может быть nil в отдельном процессе worker
func NewPersistHandler(saver BookingSaver, sessions SessionMarker, observer Observer, logger Logger) *PersistHandler {
	return &PersistHandler{
		saver:    saver,
		sessions: sessions,
		observer: observer,
		logger:   logger,
	}
}

// ProcessTask реализует asynq.Handler
func (h *PersistHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := parsePersistPayload(task)
	if err != nil {
		h.logger.Error("PersistHandler: %v", err)
		// повтор не исправит некорректную задачу
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	bookingID, err := h.saver.SaveBooking(ctx, &payload.Record)
	if err != nil {
		h.observer.ObservePersistenceRetry(sourceQueue, "error")
		h.logger.Error("PersistHandler: failed to save booking for session=%s, transaction=%s: %v",
			payload.SessionID, payload.Record.PaymentTransactionID, err)
		return err
	}

	h.logger.Info("PersistHandler: booking id=%d saved for session=%s", bookingID, payload.SessionID)

	if h.sessions != nil {
		h.sessions.MarkPersisted(payload.SessionID, bookingID)
	} else {
		h.observer.ObservePersistenceRetry(sourceQueue, "ok")
	}
	return nil
}
