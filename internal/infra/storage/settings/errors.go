package settings

import "errors"

var (
	// ErrSettingsNotFound настройки еще не сохранены
	ErrSettingsNotFound = errors.New("settings.repository: settings not found")

	// ErrBuildQuery ошибка построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery ошибка выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow ошибка сканирования строки результата
	ErrScanRow = errors.New("settings.repository: failed to scan row")
)
