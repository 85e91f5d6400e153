package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "pending"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusProcessed  AppointmentStatus = "processed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// Customer holds the contact data captured at booking time
type Customer struct {
	Name  string
	Phone string
	Email *string
}

// Appointment represents a maintenance service appointment in the system
type Appointment struct {
	ID int64

	Customer  Customer
	VehicleID int64
	ServiceID int64

	// Slot data. TechnicianID is bound no later than confirmation
	Date         time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	TechnicianID *int64

	Status AppointmentStatus

	EstimatedDurationMinutes int
	EstimatedCost            float64

	// Denormalized data for history
	ServiceName  string
	VehicleBrand *string
	VehicleModel *string
	LicensePlate *string
	Notes        *string

	ConfirmationSent bool
	ReminderSent     bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// validTransitions defines the appointment lifecycle:
// pending -> confirmed -> processed -> in_progress -> completed,
// cancellation is reachable from pending/confirmed only.
// Once work has started, an appointment cannot be cancelled through
// this state machine - aborting started work belongs to the work-order
// subsystem.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessed, StatusInProgress, StatusCancelled},
	StatusProcessed:  {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransitionTo returns true if the lifecycle allows moving to the target status
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	for _, allowed := range validTransitions[a.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsActive returns true if the appointment still occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsConfirmedOrLater returns true once the appointment has left pending
func (a *Appointment) IsConfirmedOrLater() bool {
	return a.Status != StatusPending && a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// AppointmentsFilter фильтр для выборки записей на обслуживание
type AppointmentsFilter struct {
	TechnicianIDs   []int64    // Фильтр по механикам (пусто - все механики)
	VehicleID       *int64     // Фильтр по автомобилю (опционально)
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *AppointmentStatus
	IncludeInactive bool // Включать ли отмененные записи
}
