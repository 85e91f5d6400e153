package get_recommendations

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getRecommendations "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_recommendations"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// RecommendationsResponse HTTP response model
type RecommendationsResponse struct {
	ServiceID       int64             `json:"serviceId"`
	Recommendations []RecommendedSlot `json:"recommendations"`
	DataUnavailable bool              `json:"dataUnavailable,omitempty"`
}

// RecommendedSlot модель рекомендованного слота
type RecommendedSlot struct {
	Date             string            `json:"date"`
	StartTime        string            `json:"startTime"`
	EndTime          string            `json:"endTime"`
	TechnicianID     int64             `json:"technicianId"`
	Score            int               `json:"score"`
	Reasons          []string          `json:"reasons"`
	IsOptimal        bool              `json:"isOptimal"`
	AlternativeSlots []AlternativeSlot `json:"alternativeSlots,omitempty"`
}

// AlternativeSlot соседний свободный слот того же дня
type AlternativeSlot struct {
	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(userID, serviceID int64, preferredDateStr, preferredTimeStr string) (*getRecommendations.Request, error) {
	req := &getRecommendations.Request{
		UserID:    userID,
		ServiceID: serviceID,
	}

	if preferredDateStr != "" {
		date, err := time.Parse(domain.DateFormat, preferredDateStr)
		if err != nil {
			return nil, err
		}
		req.PreferredDate = &date
	}

	if preferredTimeStr != "" {
		preferredTime, err := types.NewTimeStringFromString(preferredTimeStr)
		if err != nil {
			return nil, err
		}
		req.PreferredTime = &preferredTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getRecommendations.Response) *RecommendationsResponse {
	recommendations := make([]RecommendedSlot, len(resp.Recommendations))
	for i, rec := range resp.Recommendations {
		alternatives := make([]AlternativeSlot, len(rec.AlternativeSlots))
		for j, alt := range rec.AlternativeSlots {
			alternatives[j] = AlternativeSlot{
				StartTime: alt.StartTime.Format(time.RFC3339),
				EndTime:   alt.EndTime.Format(time.RFC3339),
			}
		}

		recommendations[i] = RecommendedSlot{
			Date:             rec.Date.Format(domain.DateFormat),
			StartTime:        rec.StartTime.String(),
			EndTime:          rec.EndTime.String(),
			TechnicianID:     rec.TechnicianID,
			Score:            rec.Score,
			Reasons:          rec.Reasons,
			IsOptimal:        rec.IsOptimal,
			AlternativeSlots: alternatives,
		}
	}

	return &RecommendationsResponse{
		ServiceID:       resp.ServiceID,
		Recommendations: recommendations,
		DataUnavailable: resp.DataUnavailable,
	}
}
