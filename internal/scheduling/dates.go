package scheduling

import "time"

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameDay проверяет, что две даты относятся к одному и тому же дню
func SameDay(date1, date2 time.Time) bool {
	return sameDay(date1, date2)
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
// Время обнуляется - сравниваются только даты
func IsDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// DateOnly обнуляет время у даты
func DateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
