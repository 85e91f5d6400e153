package get_recommendations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/settings"
	catalogClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/servicecatalog"
	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Метки счетчиков выдачи
const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"

	reasonNoTechnicians = "no_technicians"
	reasonNoSlots       = "no_free_slots"
)

// UseCase движок рекомендаций слотов для записи на обслуживание
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	settingsRepo    SettingsRepository
	catalog         ServiceCatalogClient
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
	logger Logger,
	metrics Metrics,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		settingsRepo:    settingsRepo,
		catalog:         catalog,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		metrics:         metrics,
	}
}

// candidate внутренний кандидат до финального ранжирования
type candidate struct {
	slot        domain.TimeSlot
	score       int
	reasons     []string
	technicians []int64
}

// Execute выполняет подбор рекомендаций слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetRecommendations: user=%d, service=%d", req.UserID, req.ServiceID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetRecommendations: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время
	now := uc.timeProvider.Now()

	// 3. Настройки записи (дефолты, если еще не сохранены)
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetRecommendations: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultSettings()
	}

	// 4. Услуга из каталога
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			uc.logger.Warn("GetRecommendations: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetRecommendations: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if len(service.AvailableTechnicians) == 0 {
		uc.logger.Info("GetRecommendations: service id=%d has no technicians", req.ServiceID)
		uc.metrics.IncEmptyRecommendations(reasonNoTechnicians)
		uc.metrics.IncRecommendationsServed(outcomeOK)
		return &Response{ServiceID: req.ServiceID, Recommendations: []Recommendation{}}, nil
	}

	// 5. Окно поиска: [сегодня, сегодня + maxDaysInAdvance].
	// Желаемая дата - мягкое предпочтение: она задает начало окна и
	// поднимается в выдаче, но не отрезает соседние дни
	startDate := scheduling.DateOnly(now)
	endDate := startDate.AddDate(0, 0, settings.MaxDaysInAdvance)
	if req.PreferredDate != nil {
		if err := validatePreferredDate(*req.PreferredDate, now, settings.MaxDaysInAdvance); err != nil {
			uc.logger.Warn("GetRecommendations: preferred date validation failed: %v", err)
			return nil, err
		}
		startDate = scheduling.DateOnly(*req.PreferredDate)
	}

	// 6. Графики механиков пула услуги.
	// Недоступность данных расписаний деградирует выдачу до пустой -
	// клиенту нечего рекомендовать, но это не его ошибка
	schedules, err := uc.scheduleRepo.Query(ctx, startDate, endDate, service.AvailableTechnicians)
	if err != nil {
		uc.logger.Error("GetRecommendations: schedule data unavailable: %v", err)
		return uc.degraded(req.ServiceID, "schedules"), nil
	}

	// 7. Занятость пула за окно поиска
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		TechnicianIDs: service.AvailableTechnicians,
		StartDate:     &startDate,
		EndDate:       &endDate,
	})
	if err != nil {
		uc.logger.Error("GetRecommendations: appointment data unavailable: %v", err)
		return uc.degraded(req.ServiceID, "appointments"), nil
	}

	index := scheduling.NewAvailabilityIndex(schedules)

	// 8. Слоты каждого дня окна: сетка рабочего дня минус прошедшее время,
	// минус слоты без единого свободного механика
	candidates := make([]candidate, 0)
	minStart := now.Add(time.Duration(settings.MinHoursInAdvance) * time.Hour)

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		slots, err := scheduling.GenerateTimeSlots(date, settings.WorkingHours, settings.TimeSlotDurationMinutes)
		if err != nil {
			uc.logger.Error("GetRecommendations: failed to generate slots for %s: %v",
				date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		for _, slot := range slots {
			if slotStartsBefore(slot, minStart) {
				continue
			}

			free := uc.freeTechnicians(slot, service, index, appointments)
			if len(free) == 0 {
				continue
			}

			score, reasons := scheduling.ScoreSlot(slot, scheduling.ScoreContext{
				PreferredTime:        uc.preferredTimeFor(req, slot),
				AvailableTechnicians: free,
			})

			candidates = append(candidates, candidate{
				slot:        slot,
				score:       score,
				reasons:     reasons,
				technicians: free,
			})
		}
	}

	// 9. Стабильное ранжирование: оценка по убыванию, при равенстве - раньше
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].slot.Date.Equal(candidates[j].slot.Date) {
			return candidates[i].slot.Date.Before(candidates[j].slot.Date)
		}
		return candidates[i].slot.StartTime.IsBefore(candidates[j].slot.StartTime)
	})

	if len(candidates) > domain.MaxRecommendations {
		candidates = candidates[:domain.MaxRecommendations]
	}

	// 10. Сборка ответа с альтернативными слотами того же дня
	recommendations := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recommendations = append(recommendations, Recommendation{
			Date:             c.slot.Date,
			StartTime:        c.slot.StartTime,
			EndTime:          c.slot.EndTime,
			TechnicianID:     c.technicians[0],
			Score:            c.score,
			Reasons:          c.reasons,
			IsOptimal:        scheduling.IsOptimal(c.score),
			AlternativeSlots: uc.alternativeSlots(c.slot, service, index, appointments, settings, minStart),
		})
	}

	if len(recommendations) == 0 {
		uc.metrics.IncEmptyRecommendations(reasonNoSlots)
	}
	uc.metrics.IncRecommendationsServed(outcomeOK)

	uc.logger.Info("GetRecommendations: %d recommendations for service=%d", len(recommendations), req.ServiceID)

	return &Response{
		ServiceID:       req.ServiceID,
		Recommendations: recommendations,
	}, nil
}

// degraded формирует пустую выдачу при недоступности данных
func (uc *UseCase) degraded(serviceID int64, operation string) *Response {
	uc.metrics.IncScheduleDataUnavailable(operation)
	uc.metrics.IncRecommendationsServed(outcomeDegraded)
	return &Response{
		ServiceID:       serviceID,
		Recommendations: []Recommendation{},
		DataUnavailable: true,
	}
}

// freeTechnicians возвращает механиков пула услуги, которые и по графику,
// и по занятости свободны в слоте. Порядок пула услуги сохраняется
func (uc *UseCase) freeTechnicians(
	slot domain.TimeSlot,
	service *catalogClient.MaintenanceService,
	index *scheduling.AvailabilityIndex,
	appointments []*domain.Appointment,
) []int64 {
	available := index.AvailableTechnicians(slot, service.AvailableTechnicians)

	free := make([]int64, 0, len(available))
	for _, technicianID := range available {
		if scheduling.IsSlotFree(slot, technicianID, appointments) {
			free = append(free, technicianID)
		}
	}
	return free
}

// preferredTimeFor отдает предпочтительное время, если слот лежит
// в предпочтительной дате (или дата не задана вовсе)
func (uc *UseCase) preferredTimeFor(req *Request, slot domain.TimeSlot) *types.TimeString {
	if req.PreferredTime == nil {
		return nil
	}
	if req.PreferredDate != nil && !scheduling.SameDay(*req.PreferredDate, slot.Date) {
		return nil
	}
	return req.PreferredTime
}

// alternativeSlots собирает до MaxAlternativeSlots свободных слотов того же
// дня в окне ±AlternativeSlotWidths ширин слота от рекомендованного
func (uc *UseCase) alternativeSlots(
	recommended domain.TimeSlot,
	service *catalogClient.MaintenanceService,
	index *scheduling.AvailabilityIndex,
	appointments []*domain.Appointment,
	settings *domain.AppointmentSettings,
	minStart time.Time,
) []AlternativeSlot {
	slots, err := scheduling.GenerateTimeSlots(recommended.Date, settings.WorkingHours, settings.TimeSlotDurationMinutes)
	if err != nil {
		return nil
	}

	windowMinutes := domain.AlternativeSlotWidths * settings.TimeSlotDurationMinutes
	alternatives := make([]AlternativeSlot, 0, domain.MaxAlternativeSlots)

	for _, slot := range slots {
		if slot.SameSlot(recommended) {
			continue
		}
		if slot.StartTime.DiffMinutes(recommended.StartTime) > windowMinutes {
			continue
		}
		if slotStartsBefore(slot, minStart) {
			continue
		}
		if len(uc.freeTechnicians(slot, service, index, appointments)) == 0 {
			continue
		}

		alternatives = append(alternatives, AlternativeSlot{
			StartTime: absoluteTime(slot.Date, slot.StartTime),
			EndTime:   absoluteTime(slot.Date, slot.EndTime),
		})
		if len(alternatives) == domain.MaxAlternativeSlots {
			break
		}
	}

	return alternatives
}

// slotStartsBefore сообщает, начинается ли слот раньше границы minStart
func slotStartsBefore(slot domain.TimeSlot, minStart time.Time) bool {
	return absoluteTime(slot.Date, slot.StartTime).Before(minStart)
}

// absoluteTime собирает абсолютный момент из даты и времени слота
func absoluteTime(date time.Time, t types.TimeString) time.Time {
	minutes, err := t.Minutes()
	if err != nil {
		return scheduling.DateOnly(date)
	}
	return scheduling.DateOnly(date).Add(time.Duration(minutes) * time.Minute)
}
