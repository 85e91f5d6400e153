package servicecatalog

// ServiceCategory категория услуги
type ServiceCategory string

const (
	CategoryRegular    ServiceCategory = "regular"
	CategoryRepair     ServiceCategory = "repair"
	CategoryInspection ServiceCategory = "inspection"
)

// MaintenanceService модель услуги из каталога
// Справочные данные, управляются администрированием каталога
type MaintenanceService struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Category        ServiceCategory `json:"category"`
	DurationMinutes int             `json:"duration_minutes"`
	BasePrice       float64         `json:"base_price"`

	// AvailableTechnicians механики, допущенные к услуге
	// Порядок стабилен и определяет выбор механика при равных условиях
	AvailableTechnicians []int64 `json:"available_technicians"`
}

// ErrorResponse модель ошибки от каталога услуг
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
