package get_quote

import (
	"fmt"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}
	if req.ServiceID == "" {
		return fmt.Errorf("%w: service id is required", ErrInvalidInput)
	}

	if req.Hours != nil {
		hours := *req.Hours
		if hours < domain.MinSliderHours || hours > domain.MaxSliderHours || !domain.IsHalfHourMultiple(hours) {
			return fmt.Errorf("%w: hours must be between %.0f and %.0f in steps of %.1f",
				ErrInvalidInput, domain.MinSliderHours, domain.MaxSliderHours, domain.HoursStep)
		}
	}

	if req.Home != nil {
		if err := validateCounts(req.Home.Bedrooms, req.Home.Bathrooms, req.Home.Kitchen, req.Home.Living); err != nil {
			return err
		}
	}
	if req.Office != nil {
		if err := validateCounts(req.Office.Rooms, req.Office.Cafeteria, req.Office.Desks, req.Office.Washrooms); err != nil {
			return err
		}
	}

	return nil
}

func validateCounts(values ...int) error {
	for _, v := range values {
		if v < 0 || v > domain.MaxCounterValue {
			return fmt.Errorf("%w: counters must be between 0 and %d", ErrInvalidInput, domain.MaxCounterValue)
		}
	}
	return nil
}
