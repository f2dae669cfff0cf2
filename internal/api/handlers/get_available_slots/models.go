package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/availability"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date          string          `json:"date"`
	DurationHours int             `json:"durationHours"`
	Slots         []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Available      bool   `json:"available"`
	AvailableCrews int    `json:"availableCrews"`
	TotalCrews     int    `json:"totalCrews"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Available:      slot.IsAvailable(),
			AvailableCrews: slot.AvailableCrews,
			TotalCrews:     slot.TotalCrews,
		}
	}

	return &AvailableSlotsResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		DurationHours: resp.DurationHours,
		Slots:         slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// hours может быть дробным (2.5): блок бригады округляется вверх до целого часа
func ToUseCaseRequest(dateStr, hoursStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	hours, err := strconv.ParseFloat(hoursStr, 64)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		Date:          date,
		DurationHours: availability.DurationHours(hours),
	}, nil
}
