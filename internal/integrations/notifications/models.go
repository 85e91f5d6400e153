package notifications

// ConfirmationMessage запрос на отправку подтверждения записи
type ConfirmationMessage struct {
	AppointmentID int64   `json:"appointment_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	ServiceName   string  `json:"service_name"`
	Date          string  `json:"date"`       // YYYY-MM-DD
	StartTime     string  `json:"start_time"` // HH:MM
}

// ReminderMessage запрос на отправку напоминания о записи
type ReminderMessage struct {
	AppointmentID int64   `json:"appointment_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	ServiceName   string  `json:"service_name"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	HoursBefore   int     `json:"hours_before"`
}
