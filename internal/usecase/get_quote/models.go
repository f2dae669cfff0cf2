package get_quote

import "github.com/m04kA/SMC-CleaningBooking/internal/domain"

// Request параметры расчета стоимости
// Hours задает часы вручную; иначе часы считаются по счетчикам категории услуги
type Request struct {
	ServiceID string
	Hours     *float64
	Home      *domain.HomeCounts
	Office    *domain.OfficeCounts
}

// Response результат расчета
type Response struct {
	Service   *domain.ServiceType
	Hours     float64
	Estimated bool // часы получены оценщиком, а не заданы вручную
	Invoice   domain.Invoice
}
