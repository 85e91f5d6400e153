package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidDateOrTime      = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID          = "отсутствует ID пользователя"
	msgServiceNotFound        = "услуга не найдена"
	msgVehicleNotFound        = "автомобиль не найден"
	msgInvalidDate            = "некорректная дата записи"
	msgDateTooFar             = "дата записи слишком далеко в будущем"
	msgTooLateToBook          = "слишком поздно для записи на этот слот"
	msgInvalidTimeSlot        = "некорректный временной слот"
	msgTechnicianNotAvailable = "механик недоступен в выбранное время"
	msgSlotConflict           = "выбранный слот уже занят"
	msgInvalidData            = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: user_id=%d, service_id=%d, date=%s, time=%s",
				userID, req.ServiceID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createAppointment.ErrTechnicianNotAvailable):
			h.logger.Warn("POST /appointments - Technician not available: user_id=%d, service_id=%d, date=%s, time=%s",
				userID, req.ServiceID, req.Date, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgTechnicianNotAvailable)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrVehicleNotFound):
			h.logger.Warn("POST /appointments - Vehicle not found: user_id=%d, vehicle_id=%d", userID, req.VehicleID)
			handlers.RespondNotFound(w, msgVehicleNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid appointment date: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: user_id=%d, date=%s", userID, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: user_id=%d, date=%s, time=%s",
				userID, req.Date, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: user_id=%d, time=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, service_id=%d, error=%v",
				userID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, technician_id=%d, status=%s",
		result.ID, userID, result.TechnicianID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
