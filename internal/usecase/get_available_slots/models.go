package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Request модель запроса на получение слотов
type Request struct {
	Date          time.Time // Дата уборки (без времени)
	DurationHours int       // Длительность блока бригады в целых часах
}

// Response модель ответа со списком слотов
type Response struct {
	Date          time.Time // Дата, на которую запрашивались слоты
	DurationHours int       // Длительность блока бригады
	Slots         []Slot    // Слоты дня, включая занятые
}

// Slot модель временного слота
type Slot struct {
	StartTime      types.TimeString // Время начала уборки (например, "10:00")
	EndTime        types.TimeString // Время окончания уборки
	AvailableCrews int              // Количество свободных бригад
	TotalCrews     int              // Общее количество бригад
}

// IsAvailable true, если хотя бы одна бригада свободна на весь интервал
func (s Slot) IsAvailable() bool {
	return s.AvailableCrews > 0
}
