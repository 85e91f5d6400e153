package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей на обслуживание
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	notifier        NotificationsClient
	reminders       ReminderQueue
	txManager       TransactionManager
	logger          Logger
	metrics         Metrics
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	notifier NotificationsClient,
	reminders ReminderQueue,
	txManager TransactionManager,
	logger Logger,
	metrics Metrics,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		notifier:        notifier,
		reminders:       reminders,
		txManager:       txManager,
		logger:          logger,
		metrics:         metrics,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// GetVehicleAppointments получает историю записей автомобиля
// Опционально фильтрует по статусу
func (s *Service) GetVehicleAppointments(ctx context.Context, req *models.GetVehicleAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetVehicleAppointments: fetching appointments for vehicle=%d, status=%v", req.VehicleID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetVehicleAppointments: invalid status=%s for vehicle=%d", *req.Status, req.VehicleID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByVehicleID(ctx, req.VehicleID, domainStatus)
	if err != nil {
		s.logger.Error("GetVehicleAppointments: repository error for vehicle=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: GetVehicleAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVehicleAppointments: fetched %d appointments for vehicle=%d", len(appointments), req.VehicleID)
	return models.FromDomainAppointmentList(appointments), nil
}

// UpdateStatus переводит запись по жизненному циклу
// Переход в confirmed атомарно перепроверяет слот: между созданием pending
// записи и подтверждением слот мог забрать кто-то другой
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	return s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if !appointment.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				appointment.Status, newStatus, appointmentID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
		}

		if newStatus == domain.StatusConfirmed {
			return s.confirm(txCtx, appointment)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("UpdateStatus: appointment id=%d moved to status=%s", appointmentID, newStatus)
		return nil
	})
}

// confirm подтверждает запись внутри транзакции: перепроверка слота
// с блокировкой строк, смена статуса, пометка графика, уведомление
func (s *Service) confirm(txCtx context.Context, appointment *domain.Appointment) error {
	if appointment.TechnicianID == nil {
		s.logger.Error("confirm: appointment id=%d has no technician", appointment.ID)
		return fmt.Errorf("%w: appointment has no technician", ErrInternal)
	}
	technicianID := *appointment.TechnicianID

	overlapping, err := s.appointmentRepo.FindOverlapping(
		txCtx, technicianID, appointment.Date, appointment.StartTime, appointment.EndTime)
	if err != nil {
		s.logger.Error("confirm: failed to check overlaps for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: confirm - failed to check overlaps: %v", ErrInternal, err)
	}

	for _, other := range overlapping {
		if other.ID == appointment.ID {
			continue
		}
		s.logger.Warn("confirm: slot conflict for appointment id=%d with appointment id=%d",
			appointment.ID, other.ID)
		s.metrics.IncSlotConflicts("confirm")
		return ErrSlotConflict
	}

	if err := s.appointmentRepo.Confirm(txCtx, appointment.ID, technicianID); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotConflict) {
			s.metrics.IncSlotConflicts("confirm")
			return ErrSlotConflict
		}
		s.logger.Error("confirm: repository error for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: confirm - repository error: %v", ErrInternal, err)
	}

	if err := s.scheduleRepo.MarkBooked(txCtx, technicianID, appointment.Date, appointment.StartTime, appointment.EndTime); err != nil {
		s.logger.Error("confirm: failed to mark slot booked for appointment id=%d: %v", appointment.ID, err)
		return fmt.Errorf("%w: confirm - failed to mark slot booked: %v", ErrInternal, err)
	}

	s.logger.Info("confirm: appointment id=%d confirmed, technician=%d", appointment.ID, technicianID)

	// Уведомление вне критичного пути, сбой доставки не откатывает подтверждение
	go s.sendConfirmation(appointment)

	return nil
}

// Cancel отменяет запись с указанием причины
// Отмена допустима только из pending/confirmed
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLen {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Appointment

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, appointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("Cancel: appointment id=%d not found", appointmentID)
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if !appointment.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s",
				appointmentID, appointment.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(txCtx, appointmentID, req.CancellationReason); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Подтвержденная запись держала слот в графике - освобождаем
		if appointment.Status == domain.StatusConfirmed && appointment.TechnicianID != nil {
			if err := s.scheduleRepo.MarkFree(txCtx, *appointment.TechnicianID,
				appointment.Date, appointment.StartTime, appointment.EndTime); err != nil {
				s.logger.Error("Cancel: failed to mark slot free for appointment id=%d: %v", appointmentID, err)
				return fmt.Errorf("%w: Cancel - failed to mark slot free: %v", ErrInternal, err)
			}
		}

		cancelled = appointment
		return nil
	})

	if err != nil {
		return err
	}

	// Напоминания отмененной записи больше не нужны
	if err := s.reminders.Remove(ctx, cancelled.ID); err != nil {
		s.logger.Error("Cancel: failed to remove reminders for appointment id=%d: %v", cancelled.ID, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled", appointmentID)
	return nil
}

// sendConfirmation отправляет подтверждение записи клиенту
func (s *Service) sendConfirmation(appointment *domain.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &notifications.ConfirmationMessage{
		AppointmentID: appointment.ID,
		CustomerName:  appointment.Customer.Name,
		CustomerPhone: appointment.Customer.Phone,
		CustomerEmail: appointment.Customer.Email,
		ServiceName:   appointment.ServiceName,
		Date:          appointment.Date.Format(domain.DateFormat),
		StartTime:     appointment.StartTime.String(),
	}

	if err := s.notifier.SendConfirmation(ctx, msg); err != nil {
		s.logger.Error("sendConfirmation: failed for appointment id=%d: %v", appointment.ID, err)
	}
}
