package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/notifications"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	vehicleClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/vehiclecatalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// UseCase use case для создания записи на обслуживание
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	settingsRepo    SettingsRepository
	catalog         ServiceCatalogClient
	vehicles        VehicleCatalogClient
	notifier        NotificationsClient
	reminders       ReminderScheduler
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
	metrics         Metrics
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	settingsRepo SettingsRepository,
	catalog ServiceCatalogClient,
	vehicles VehicleCatalogClient,
	notifier NotificationsClient,
	reminders ReminderScheduler,
	txManager TransactionManager,
	logger Logger,
	metrics Metrics,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		settingsRepo:    settingsRepo,
		catalog:         catalog,
		vehicles:        vehicles,
		notifier:        notifier,
		reminders:       reminders,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		metrics:         metrics,
	}
}

// Execute выполняет use case создания записи
// Проверка слота и вставка идут в сериализуемой транзакции: две
// конкурирующие брони одного слота не пройдут обе, вторую добьет
// либо повтор проверки, либо exclusion constraint
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, service=%d, vehicle=%d, date=%s, time=%s",
		req.UserID, req.ServiceID, req.VehicleID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу из каталога
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем автомобиль из каталога
	vehicle, err := uc.vehicles.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicleClient.ErrVehicleNotFound) {
			uc.logger.Warn("CreateAppointment: vehicle id=%d not found", req.VehicleID)
			return nil, ErrVehicleNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get vehicle id=%d: %v", req.VehicleID, err)
		return nil, fmt.Errorf("%w: failed to get vehicle: %v", ErrInternal, err)
	}

	// 5. Конец интервала: работа занимает оценочную длительность услуги
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: work does not fit into the day: %v", err)
		return nil, fmt.Errorf("%w: work does not fit into the day", ErrInvalidTimeSlot)
	}

	var result *domain.Appointment
	var settings *domain.AppointmentSettings

	// 6. Проверка слота и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Настройки записи (дефолты, если еще не сохранены)
		settings, err = uc.settingsRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				uc.logger.Error("CreateAppointment: failed to get settings: %v", err)
				return fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
			}
			settings = domain.DefaultSettings()
		}

		// 6.2. Валидация даты и времени с учетом настроек
		if err := validateDate(req.Date, now, settings.MaxDaysInAdvance); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		if err := validateBookingNotice(req.Date, req.StartTime, now, settings.MinHoursInAdvance); err != nil {
			uc.logger.Warn("CreateAppointment: booking notice validation failed: %v", err)
			return err
		}

		if err := validateTimeSlot(req.StartTime, service.DurationMinutes, settings); err != nil {
			uc.logger.Warn("CreateAppointment: time slot validation failed: %v", err)
			return err
		}

		// 6.3. Подбор механика: запрошенный либо первый свободный из пула услуги
		technicianID, err := uc.pickTechnician(txCtx, req, service, endTime)
		if err != nil {
			return err
		}

		// 6.4. Создаем запись с денормализацией данных
		appointment := &domain.Appointment{
			Customer: domain.Customer{
				Name:  req.CustomerName,
				Phone: req.CustomerPhone,
				Email: req.CustomerEmail,
			},
			VehicleID:                req.VehicleID,
			ServiceID:                req.ServiceID,
			Date:                     req.Date,
			StartTime:                req.StartTime,
			EndTime:                  endTime,
			TechnicianID:             &technicianID,
			Status:                   domain.StatusPending,
			EstimatedDurationMinutes: service.DurationMinutes,
			EstimatedCost:            service.BasePrice,
			ServiceName:              service.Name,
			VehicleBrand:             &vehicle.Brand,
			VehicleModel:             &vehicle.Model,
			LicensePlate:             &vehicle.LicensePlate,
			Notes:                    req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateAppointment: slot conflict on insert, technician=%d", technicianID)
				uc.metrics.IncSlotConflicts("create")
				return ErrSlotConflict
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 6.5. Автоподтверждение: запись сразу переходит в confirmed,
		// слот помечается занятым в графике
		if settings.AutoConfirmation {
			if err := uc.appointmentRepo.Confirm(txCtx, created.ID, technicianID); err != nil {
				uc.logger.Error("CreateAppointment: failed to auto-confirm appointment id=%d: %v", created.ID, err)
				return fmt.Errorf("%w: failed to auto-confirm: %v", ErrInternal, err)
			}
			if err := uc.scheduleRepo.MarkBooked(txCtx, technicianID, req.Date, req.StartTime, endTime); err != nil {
				uc.logger.Error("CreateAppointment: failed to mark slot booked: %v", err)
				return fmt.Errorf("%w: failed to mark slot booked: %v", ErrInternal, err)
			}
			created.Status = domain.StatusConfirmed
			created.ConfirmationSent = true
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, status=%s",
		result.ID, result.Status)

	// 7. Пост-обработка вне транзакции: уведомление и напоминания.
	// Доставка fire-and-forget, сбои не ломают созданную запись
	if result.Status == domain.StatusConfirmed {
		go uc.sendConfirmation(result)
	}
	uc.scheduleReminders(ctx, result, settings, now)

	return &Response{
		ID:                       result.ID,
		ServiceID:                result.ServiceID,
		VehicleID:                result.VehicleID,
		Date:                     result.Date,
		StartTime:                result.StartTime,
		EndTime:                  result.EndTime,
		TechnicianID:             *result.TechnicianID,
		Status:                   string(result.Status),
		EstimatedDurationMinutes: result.EstimatedDurationMinutes,
		EstimatedCost:            result.EstimatedCost,
		ServiceName:              result.ServiceName,
		VehicleBrand:             result.VehicleBrand,
		VehicleModel:             result.VehicleModel,
		LicensePlate:             result.LicensePlate,
		Notes:                    result.Notes,
		ConfirmationSent:         result.ConfirmationSent,
		CreatedAt:                result.CreatedAt,
		UpdatedAt:                result.UpdatedAt,
	}, nil
}

// pickTechnician выбирает механика для слота.
// Запрошенный механик должен входить в пул услуги, быть на смене
// и не иметь пересечений. Без запрошенного берется первый подходящий
// из пула в его стабильном порядке
func (uc *UseCase) pickTechnician(
	txCtx context.Context,
	req *Request,
	service *catalogClient.MaintenanceService,
	endTime types.TimeString,
) (int64, error) {
	candidates := service.AvailableTechnicians
	if req.TechnicianID != nil {
		if !containsID(service.AvailableTechnicians, *req.TechnicianID) {
			uc.logger.Warn("CreateAppointment: technician id=%d is not in service pool", *req.TechnicianID)
			return 0, ErrTechnicianNotAvailable
		}
		candidates = []int64{*req.TechnicianID}
	}

	schedules, err := uc.scheduleRepo.Query(txCtx, scheduling.DateOnly(req.Date), scheduling.DateOnly(req.Date), candidates)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get schedules: %v", err)
		return 0, fmt.Errorf("%w: failed to get schedules: %v", ErrInternal, err)
	}

	index := scheduling.NewAvailabilityIndex(schedules)
	slot := domain.TimeSlot{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   endTime,
	}

	onShift := index.AvailableTechnicians(slot, candidates)
	if len(onShift) == 0 {
		uc.logger.Warn("CreateAppointment: no technician on shift for date=%s time=%s",
			req.Date.Format(domain.DateFormat), req.StartTime)
		return 0, ErrTechnicianNotAvailable
	}

	// Пересечения проверяются с блокировкой строк (FOR UPDATE внутри транзакции)
	for _, technicianID := range onShift {
		overlapping, err := uc.appointmentRepo.FindOverlapping(txCtx, technicianID, req.Date, req.StartTime, endTime)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to check overlaps for technician=%d: %v", technicianID, err)
			return 0, fmt.Errorf("%w: failed to check overlaps: %v", ErrInternal, err)
		}
		if len(overlapping) == 0 {
			return technicianID, nil
		}
	}

	// Все кандидаты на смене, но заняты записями
	uc.metrics.IncSlotConflicts("create")
	return 0, ErrSlotConflict
}

// sendConfirmation отправляет подтверждение записи клиенту
func (uc *UseCase) sendConfirmation(appt *domain.Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := &notifications.ConfirmationMessage{
		AppointmentID: appt.ID,
		CustomerName:  appt.Customer.Name,
		CustomerPhone: appt.Customer.Phone,
		CustomerEmail: appt.Customer.Email,
		ServiceName:   appt.ServiceName,
		Date:          appt.Date.Format(domain.DateFormat),
		StartTime:     appt.StartTime.String(),
	}

	if err := uc.notifier.SendConfirmation(ctx, msg); err != nil {
		uc.logger.Error("CreateAppointment: failed to send confirmation for appointment id=%d: %v", appt.ID, err)
	}
}

// scheduleReminders ставит напоминания в очередь по настройкам
func (uc *UseCase) scheduleReminders(
	ctx context.Context,
	appt *domain.Appointment,
	settings *domain.AppointmentSettings,
	now time.Time,
) {
	startMinutes, err := appt.StartTime.Minutes()
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to parse start time for reminders: %v", err)
		return
	}
	startAt := scheduling.DateOnly(appt.Date).Add(time.Duration(startMinutes) * time.Minute)

	for _, hours := range settings.ReminderSettings.ReminderHours {
		dueAt := startAt.Add(-time.Duration(hours) * time.Hour)
		if !dueAt.After(now) {
			continue
		}
		if err := uc.reminders.Schedule(ctx, appt.ID, dueAt); err != nil {
			uc.logger.Error("CreateAppointment: failed to schedule reminder for appointment id=%d: %v", appt.ID, err)
		}
	}
}

// containsID проверяет вхождение ID в пул
func containsID(pool []int64, id int64) bool {
	for _, candidate := range pool {
		if candidate == id {
			return true
		}
	}
	return false
}
