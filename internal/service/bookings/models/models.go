package models

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// GetBookingsRequest запрос на получение бронирований за период
type GetBookingsRequest struct {
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter() domain.BookingsFilter {
	return domain.BookingsFilter{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}
}

// ClientResponse контактные данные клиента
type ClientResponse struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	ServiceID       string  `json:"serviceId"`
	ServiceTitle    string  `json:"serviceTitle"`
	ServiceCategory string  `json:"serviceCategory"`
	Hours           float64 `json:"hours"`
	BookingDate     string  `json:"bookingDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`   // "10:00"
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`

	Client ClientResponse `json:"client"`

	// Суммы в долларах с точностью до цента
	HourlyRate string `json:"hourlyRate"`
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Total      string `json:"total"`
	Deposit    string `json:"deposit"`
	Remaining  string `json:"remaining"`

	PaymentTransactionID string `json:"paymentTransactionId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// EmailResponse сгенерированный текст письма
type EmailResponse struct {
	BookingID int64  `json:"bookingId"`
	Kind      string `json:"kind"`
	Content   string `json:"content"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.BookingRecord) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ServiceTitle:    b.ServiceTitle,
		ServiceCategory: string(b.ServiceCategory),
		Hours:           b.Hours,
		BookingDate:     b.BookingDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		Client: ClientResponse{
			FirstName:   b.Client.FirstName,
			LastName:    b.Client.LastName,
			Email:       b.Client.Email,
			CountryCode: b.Client.CountryCode,
			Phone:       b.Client.Phone,
			Address:     b.Client.Address,
			Notes:       b.Client.Notes,
		},
		HourlyRate:           b.HourlyRate.StringFixed(2),
		Subtotal:             b.Subtotal.StringFixed(2),
		Tax:                  b.Tax.StringFixed(2),
		Total:                b.Total.StringFixed(2),
		Deposit:              b.Deposit.StringFixed(2),
		Remaining:            b.Remaining.StringFixed(2),
		PaymentTransactionID: b.PaymentTransactionID,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.BookingRecord) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainEmailKind конвертирует строку в domain.EmailKind с валидацией
func ToDomainEmailKind(kind string) (domain.EmailKind, bool) {
	switch k := domain.EmailKind(kind); k {
	case domain.EmailConfirmation, domain.EmailInvoice:
		return k, true
	default:
		return "", false
	}
}
