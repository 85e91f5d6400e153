package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// dueSetKey отсортированное множество задач: score - unix-время отправки
const dueSetKey = "appointment:reminders:due"

// Task задача на отправку напоминания о записи
type Task struct {
	AppointmentID int64     `json:"appointment_id"`
	DueAt         time.Time `json:"due_at"`
}

// Queue очередь отложенных напоминаний на Redis ZSET.
// Задачи складываются со score = время отправки, воркер периодически
// забирает созревшие
type Queue struct {
	client *redis.Client
}

// NewQueue создает очередь напоминаний поверх подключения к Redis
func NewQueue(client *redis.Client) *Queue {
	return &Queue{client: client}
}

// Schedule ставит напоминание в очередь на время dueAt.
// Повторная постановка той же записи на то же время перезаписывает score
func (q *Queue) Schedule(ctx context.Context, appointmentID int64, dueAt time.Time) error {
	task := Task{AppointmentID: appointmentID, DueAt: dueAt}

	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("%w: Schedule - marshal task: %v", ErrEncodeTask, err)
	}

	err = q.client.ZAdd(ctx, dueSetKey, redis.Z{
		Score:  float64(dueAt.Unix()),
		Member: string(payload),
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: Schedule - zadd: %v", ErrQueueUnavailable, err)
	}

	return nil
}

// Remove снимает все напоминания записи из очереди (при отмене)
func (q *Queue) Remove(ctx context.Context, appointmentID int64) error {
	members, err := q.client.ZRange(ctx, dueSetKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("%w: Remove - zrange: %v", ErrQueueUnavailable, err)
	}

	for _, member := range members {
		var task Task
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			continue
		}
		if task.AppointmentID != appointmentID {
			continue
		}
		if err := q.client.ZRem(ctx, dueSetKey, member).Err(); err != nil {
			return fmt.Errorf("%w: Remove - zrem: %v", ErrQueueUnavailable, err)
		}
	}

	return nil
}

// PopDue атомарно забирает задачи, созревшие к моменту now.
// Забранная задача удаляется из множества - два воркера одну задачу
// не получат
func (q *Queue) PopDue(ctx context.Context, now time.Time) ([]Task, error) {
	members, err := q.client.ZRangeByScore(ctx, dueSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: PopDue - zrangebyscore: %v", ErrQueueUnavailable, err)
	}

	tasks := make([]Task, 0, len(members))
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, dueSetKey, member).Result()
		if err != nil {
			return tasks, fmt.Errorf("%w: PopDue - zrem: %v", ErrQueueUnavailable, err)
		}
		if removed == 0 {
			// Задачу успел забрать другой воркер
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			return tasks, fmt.Errorf("%w: PopDue - unmarshal task: %v", ErrDecodeTask, err)
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}
