package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// TypePersistBooking задача повторного сохранения оплаченного бронирования
const TypePersistBooking = "booking:persist"

// PersistPayload полезная нагрузка задачи
type PersistPayload struct {
	SessionID string               `json:"sessionId"`
	Record    domain.BookingRecord `json:"record"`
}

// NewPersistTask создает задачу; TaskID по транзакции оплаты не дает поставить дубликат
func NewPersistTask(sessionID string, record *domain.BookingRecord) (*asynq.Task, []asynq.Option, error) {
	if record == nil || record.PaymentTransactionID == "" {
		return nil, nil, fmt.Errorf("%w: record with payment transaction is required", ErrInvalidPayload)
	}

	b, err := json.Marshal(PersistPayload{SessionID: sessionID, Record: *record})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	task := asynq.NewTask(TypePersistBooking, b)
	opts := []asynq.Option{asynq.TaskID("persist:" + record.PaymentTransactionID)}

	return task, opts, nil
}

// parsePersistPayload разбирает полезную нагрузку задачи
func parsePersistPayload(task *asynq.Task) (*PersistPayload, error) {
	var p PersistPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Record.PaymentTransactionID == "" {
		return nil, fmt.Errorf("%w: missing payment transaction", ErrInvalidPayload)
	}
	return &p, nil
}
