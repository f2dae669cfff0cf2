package queue

import (
	"github.com/hibiken/asynq"
)

// NewServer создает сервер очереди с обработчиком повторных сохранений
func NewServer(redisOpt asynq.RedisClientOpt, queue string, concurrency int, handler *PersistHandler) (*asynq.Server, *asynq.ServeMux) {
	if queue == "" {
		queue = "default"
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(TypePersistBooking, handler)

	return srv, mux
}
