package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID    int64  `json:"serviceId"`
	VehicleID    int64  `json:"vehicleId"`
	Date         string `json:"date"`      // "2026-09-10"
	StartTime    string `json:"startTime"` // "10:00"
	TechnicianID *int64 `json:"technicianId,omitempty"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID           int64  `json:"id"`
	ServiceID    int64  `json:"serviceId"`
	VehicleID    int64  `json:"vehicleId"`
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	TechnicianID int64  `json:"technicianId"`
	Status       string `json:"status"`

	EstimatedDurationMinutes int     `json:"estimatedDurationMinutes"`
	EstimatedCost            float64 `json:"estimatedCost"`

	ServiceName  string  `json:"serviceName"`
	VehicleBrand *string `json:"vehicleBrand,omitempty"`
	VehicleModel *string `json:"vehicleModel,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	ConfirmationSent bool `json:"confirmationSent"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		UserID:        userID,
		ServiceID:     r.ServiceID,
		VehicleID:     r.VehicleID,
		Date:          date,
		StartTime:     startTime,
		TechnicianID:  r.TechnicianID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		CustomerEmail: r.CustomerEmail,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                       resp.ID,
		ServiceID:                resp.ServiceID,
		VehicleID:                resp.VehicleID,
		Date:                     resp.Date.Format(domain.DateFormat),
		StartTime:                resp.StartTime.String(),
		EndTime:                  resp.EndTime.String(),
		TechnicianID:             resp.TechnicianID,
		Status:                   resp.Status,
		EstimatedDurationMinutes: resp.EstimatedDurationMinutes,
		EstimatedCost:            resp.EstimatedCost,
		ServiceName:              resp.ServiceName,
		VehicleBrand:             resp.VehicleBrand,
		VehicleModel:             resp.VehicleModel,
		LicensePlate:             resp.LicensePlate,
		Notes:                    resp.Notes,
		ConfirmationSent:         resp.ConfirmationSent,
		CreatedAt:                resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:                resp.UpdatedAt.Format(time.RFC3339),
	}
}
