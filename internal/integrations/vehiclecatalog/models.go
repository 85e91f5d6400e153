package vehiclecatalog

// Vehicle модель автомобиля из каталога
type Vehicle struct {
	ID           int64  `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	OwnerName    string `json:"owner_name"`
	OwnerPhone   string `json:"owner_phone"`
}

// ErrorResponse модель ошибки от каталога автомобилей
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
