package get_recommendations

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	getRecommendations "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_recommendations"
)

const (
	msgMissingServiceID = "ID услуги обязателен"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidParams    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgServiceNotFound  = "услуга не найдена"
	msgInvalidDate      = "некорректная желаемая дата"
	msgDateTooFar       = "желаемая дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetRecommendationsUseCase
	logger  Logger
}

func NewHandler(useCase GetRecommendationsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/recommendations
// Query params: serviceId (required), preferredDate (optional, YYYY-MM-DD), preferredTime (optional, HH:MM)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем serviceId из query параметров
	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /recommendations - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /recommendations - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Эндпоинт публичный, userID - опциональный (только для логирования)
	userID, _ := middleware.GetUserID(r.Context())

	// Формируем запрос к use case (с парсингом даты и времени)
	useCaseReq, err := ToUseCaseRequest(userID, serviceID, r.URL.Query().Get("preferredDate"), r.URL.Query().Get("preferredTime"))
	if err != nil {
		h.logger.Warn("GET /recommendations - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getRecommendations.ErrServiceNotFound):
			h.logger.Warn("GET /recommendations - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getRecommendations.ErrInvalidDate):
			h.logger.Warn("GET /recommendations - Invalid preferred date: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getRecommendations.ErrDateTooFarInFuture):
			h.logger.Warn("GET /recommendations - Preferred date too far in future: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getRecommendations.ErrInvalidInput):
			h.logger.Warn("GET /recommendations - Invalid input: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		default:
			h.logger.Error("GET /recommendations - Failed to get recommendations: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ (деградация до пустой выдачи - тоже 200 OK)
	response := FromUseCaseResponse(result)

	h.logger.Info("GET /recommendations - Recommendations retrieved: service_id=%d, count=%d, degraded=%t",
		serviceID, len(result.Recommendations), result.DataUnavailable)
	handlers.RespondJSON(w, http.StatusOK, response)
}
