package get_recommendations

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/scheduling"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.PreferredTime != nil {
		if err := req.PreferredTime.Validate(); err != nil {
			return fmt.Errorf("%w: preferredTime: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// validatePreferredDate проверяет желаемую дату относительно окна бронирования
func validatePreferredDate(preferredDate time.Time, now time.Time, maxDaysInAdvance int) error {
	if scheduling.IsDateInPast(preferredDate, now) {
		return ErrInvalidDate
	}

	maxDate := scheduling.DateOnly(now).AddDate(0, 0, maxDaysInAdvance)
	if scheduling.DateOnly(preferredDate).After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxDaysInAdvance)
	}

	return nil
}
