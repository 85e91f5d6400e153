package reminder

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AppointmentStore доступ к записям для воркера напоминаний
type AppointmentStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Notifier отправка напоминаний клиентам
type Notifier interface {
	SendReminder(ctx context.Context, msg *notifications.ReminderMessage) error
}

// Worker периодически выгребает созревшие напоминания из очереди
// и отправляет их через сервис уведомлений
type Worker struct {
	queue        *Queue
	appointments AppointmentStore
	notifier     Notifier
	logs         Logger
	pollInterval time.Duration
}

// NewWorker создает воркер напоминаний
func NewWorker(
	queue *Queue,
	appointments AppointmentStore,
	notifier Notifier,
	logs Logger,
	pollInterval time.Duration,
) *Worker {
	return &Worker{
		queue:        queue,
		appointments: appointments,
		notifier:     notifier,
		logs:         logs,
		pollInterval: pollInterval,
	}
}

// Run запускает цикл обработки до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logs.Info("[ReminderWorker] started, poll interval %s", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			w.logs.Info("[ReminderWorker] stopped")
			return
		case now := <-ticker.C:
			w.processDue(ctx, now)
		}
	}
}

// processDue обрабатывает все задачи, созревшие к моменту now
func (w *Worker) processDue(ctx context.Context, now time.Time) {
	tasks, err := w.queue.PopDue(ctx, now)
	if err != nil {
		w.logs.Error("[ReminderWorker] failed to pop due tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if err := w.deliver(ctx, task, now); err != nil {
			w.logs.Error("[ReminderWorker] failed to deliver reminder for appointment %d: %v", task.AppointmentID, err)
		}
	}
}

// deliver отправляет одно напоминание и помечает запись
func (w *Worker) deliver(ctx context.Context, task Task, now time.Time) error {
	appt, err := w.appointments.GetByID(ctx, task.AppointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			w.logs.Warn("[ReminderWorker] appointment %d not found, dropping reminder", task.AppointmentID)
			return nil
		}
		return err
	}

	// Отмененной записи напоминание не нужно
	if appt.IsCancelled() {
		w.logs.Info("[ReminderWorker] appointment %d cancelled, dropping reminder", appt.ID)
		return nil
	}

	hoursBefore := 0
	if startAt, err := appointmentStart(appt); err == nil && startAt.After(now) {
		hoursBefore = int(startAt.Sub(now).Round(time.Hour) / time.Hour)
	}

	msg := &notifications.ReminderMessage{
		AppointmentID: appt.ID,
		CustomerName:  appt.Customer.Name,
		CustomerPhone: appt.Customer.Phone,
		CustomerEmail: appt.Customer.Email,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
		HoursBefore:   hoursBefore,
	}

	if err := w.notifier.SendReminder(ctx, msg); err != nil {
		return err
	}

	if err := w.appointments.MarkReminderSent(ctx, appt.ID); err != nil {
		w.logs.Error("[ReminderWorker] reminder sent but failed to mark appointment %d: %v", appt.ID, err)
	}

	w.logs.Info("[ReminderWorker] reminder sent for appointment %d", appt.ID)
	return nil
}

// appointmentStart собирает момент начала записи из даты и времени слота
func appointmentStart(appt *domain.Appointment) (time.Time, error) {
	minutes, err := appt.StartTime.Minutes()
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(appt.Date.Year(), appt.Date.Month(), appt.Date.Day(), 0, 0, 0, 0, appt.Date.Location())
	return day.Add(time.Duration(minutes) * time.Minute), nil
}
