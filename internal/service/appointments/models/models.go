package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetVehicleAppointmentsRequest запрос истории записей автомобиля
type GetVehicleAppointmentsRequest struct {
	VehicleID int64   `json:"vehicleId"`
	Status    *string `json:"status,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID        int64 `json:"id"`
	ServiceID int64 `json:"serviceId"`
	VehicleID int64 `json:"vehicleId"`

	CustomerName  string  `json:"customerName"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerEmail *string `json:"customerEmail,omitempty"`

	Date         string `json:"date"`      // "2026-09-10"
	StartTime    string `json:"startTime"` // "10:00"
	EndTime      string `json:"endTime"`   // "10:30"
	TechnicianID *int64 `json:"technicianId,omitempty"`
	Status       string `json:"status"`

	EstimatedDurationMinutes int     `json:"estimatedDurationMinutes"`
	EstimatedCost            float64 `json:"estimatedCost"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	VehicleBrand *string `json:"vehicleBrand,omitempty"`
	VehicleModel *string `json:"vehicleModel,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	ConfirmationSent bool `json:"confirmationSent"`
	ReminderSent     bool `json:"reminderSent"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                       a.ID,
		ServiceID:                a.ServiceID,
		VehicleID:                a.VehicleID,
		CustomerName:             a.Customer.Name,
		CustomerPhone:            a.Customer.Phone,
		CustomerEmail:            a.Customer.Email,
		Date:                     a.Date.Format(domain.DateFormat),
		StartTime:                a.StartTime.String(),
		EndTime:                  a.EndTime.String(),
		TechnicianID:             a.TechnicianID,
		Status:                   string(a.Status),
		EstimatedDurationMinutes: a.EstimatedDurationMinutes,
		EstimatedCost:            a.EstimatedCost,
		ServiceName:              a.ServiceName,
		VehicleBrand:             a.VehicleBrand,
		VehicleModel:             a.VehicleModel,
		LicensePlate:             a.LicensePlate,
		Notes:                    a.Notes,
		ConfirmationSent:         a.ConfirmationSent,
		ReminderSent:             a.ReminderSent,
		CancellationReason:       a.CancellationReason,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledAt := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, appointment := range appointments {
		if converted := FromDomainAppointment(appointment); converted != nil {
			resp.Appointments = append(resp.Appointments, *converted)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain статус
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	for _, valid := range domain.ValidStatuses {
		if string(valid) == status {
			return valid, nil
		}
	}
	return "", ErrInvalidStatus
}
