package reminder

import "errors"

var (
	// ErrQueueUnavailable очередь напоминаний недоступна
	ErrQueueUnavailable = errors.New("reminder.queue: redis unavailable")

	// ErrEncodeTask ошибка сериализации задачи напоминания
	ErrEncodeTask = errors.New("reminder.queue: failed to encode task")

	// ErrDecodeTask ошибка десериализации задачи напоминания
	ErrDecodeTask = errors.New("reminder.queue: failed to decode task")
)
