package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	// timeFormat формат времени HH:MM
	timeFormat = "15:04"

	// minutesPerDay количество минут в сутках
	minutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени
	ErrInvalidTimeFormat = errors.New("invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время в формате "HH:MM" (например, "09:30")
// Все сравнения и арифметика выполняются в минутах с начала суток,
// а не лексикографически по строке
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeFormat))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из количества минут с начала суток
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет, что строка соответствует формату HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeFormat, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// mustMinutes используется для сравнений: некорректное значение считается 0
func (t TimeString) mustMinutes() int {
	m, err := t.Minutes()
	if err != nil {
		return 0
	}
	return m
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.mustMinutes() < other.mustMinutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.mustMinutes() > other.mustMinutes()
}

// Equal возвращает true, если t и other обозначают одну и ту же минуту
func (t TimeString) Equal(other TimeString) bool {
	return t.mustMinutes() == other.mustMinutes()
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
// Возвращает ошибку при выходе за пределы суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// SubMinutes возвращает время, сдвинутое на minutes минут назад
func (t TimeString) SubMinutes(minutes int) (TimeString, error) {
	return t.AddMinutes(-minutes)
}

// DiffMinutes возвращает абсолютную разницу между t и other в минутах
func (t TimeString) DiffMinutes(other TimeString) int {
	diff := t.mustMinutes() - other.mustMinutes()
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает колонки типа TIME (lib/pq возвращает []byte или time.Time) и TEXT
func (t *TimeString) Scan(value interface{}) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, value)
	}
}

// scanString обрезает секунды у значений вида "09:30:00"
func (t *TimeString) scanString(s string) error {
	if len(s) > len("15:04") {
		s = s[:len("15:04")]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
