package queue

import "errors"

var (
	// ErrInvalidPayload возвращается при некорректной задаче
	ErrInvalidPayload = errors.New("queue: invalid task payload")

	// ErrEnqueue возвращается при ошибке постановки задачи
	ErrEnqueue = errors.New("queue: failed to enqueue task")
)
