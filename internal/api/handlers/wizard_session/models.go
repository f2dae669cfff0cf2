package wizard_session

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers/get_quote"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// CreateSessionRequest профиль авторизованного пользователя для предзаполнения (опционально)
type CreateSessionRequest struct {
	Profile *ProfileRequest `json:"profile,omitempty"`
}

// ProfileRequest данные профиля
type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// ToDomain конвертирует профиль; nil остается nil
func (p *ProfileRequest) ToDomain() *domain.UserProfile {
	if p == nil {
		return nil
	}
	return &domain.UserProfile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
	}
}

type SelectServiceRequest struct {
	ServiceID string `json:"serviceId"`
}

// CounterRequest команда счетчика: op = increment, decrement или set
type CounterRequest struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value *int   `json:"value,omitempty"`
}

type SetHoursRequest struct {
	Hours float64 `json:"hours"`
}

type SetDateRequest struct {
	Date string `json:"date"` // "2025-10-15"
}

type SelectSlotRequest struct {
	StartTime string `json:"startTime"` // "10:00"
}

// DetailsRequest частичное обновление контактных данных; отсутствующие поля не меняются
type DetailsRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CountryCode *string `json:"countryCode,omitempty"`
	Address     *string `json:"address,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ToPatch конвертирует запрос в патч мастера
func (r *DetailsRequest) ToPatch() wizard.DetailsPatch {
	return wizard.DetailsPatch{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		CountryCode: r.CountryCode,
		Address:     r.Address,
		Notes:       r.Notes,
	}
}

type TypeAddressRequest struct {
	Text string `json:"text"`
}

type SelectSuggestionRequest struct {
	Index int `json:"index"`
}

// LocateRequest координаты браузера; без них используется IP клиента
type LocateRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type PayRequest struct {
	Token string `json:"token"`
}

// SessionResponse снимок сессии
type SessionResponse struct {
	SessionID   string                    `json:"sessionId"`
	Step        int                       `json:"step"`
	StepName    string                    `json:"stepName"`
	Service     *ServiceResponse          `json:"service,omitempty"`
	Hours       float64                   `json:"hours"`
	Counters    CountersResponse          `json:"counters"`
	Date        *string                   `json:"date,omitempty"`
	TimeSlot    *SlotResponse             `json:"timeSlot,omitempty"`
	Slots       SlotsResponse             `json:"slots"`
	Client      ClientResponse            `json:"client"`
	Address     AddressResponse           `json:"address"`
	Payment     PaymentResponse           `json:"payment"`
	Invoice     get_quote.InvoiceResponse `json:"invoice"`
	CanProceed  bool                      `json:"canProceed"`
	GuardErrors map[string]string         `json:"guardErrors,omitempty"`
	ExpiresAt   string                    `json:"expiresAt,omitempty"`
	Revision    uint64                    `json:"revision"`
}

type ServiceResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	HourlyRate string `json:"hourlyRate"`
}

type CountersResponse struct {
	Active       string          `json:"active"`
	Values       map[string]int  `json:"values"`
	CanDecrement map[string]bool `json:"canDecrement"`
}

type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

type SlotsResponse struct {
	Date    string         `json:"date,omitempty"`
	Hours   float64        `json:"hours,omitempty"`
	Loading bool           `json:"loading"`
	Items   []SlotResponse `json:"items"`
}

type ClientResponse struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type SuggestionResponse struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId,omitempty"`
}

type AddressResponse struct {
	Text        string               `json:"text"`
	Suggestions []SuggestionResponse `json:"suggestions"`
	Visible     bool                 `json:"visible"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	Locating    bool                 `json:"locating"`
	LocateError string               `json:"locateError,omitempty"`
}

type PaymentResponse struct {
	Status             string `json:"status"`
	Error              string `json:"error,omitempty"`
	TransactionID      string `json:"transactionId,omitempty"`
	BookingID          int64  `json:"bookingId,omitempty"`
	PersistencePending bool   `json:"persistencePending"`
	PersistenceError   string `json:"persistenceError,omitempty"`
	RetryScheduled     bool   `json:"retryScheduled"`
	ConfirmationSent   bool   `json:"confirmationSent"`
}

// FromView конвертирует снимок сессии в HTTP модель
func FromView(view wizard.View, ttl time.Duration) *SessionResponse {
	resp := &SessionResponse{
		SessionID:   view.SessionID,
		Step:        int(view.Step),
		StepName:    view.Step.String(),
		Hours:       view.Hours,
		Counters:    fromCounters(view.Counters),
		Slots:       fromSlots(view),
		Client:      fromClient(view.Client),
		Address:     fromAddress(view),
		Invoice:     get_quote.FromInvoice(view.Invoice),
		CanProceed:  view.CanProceed,
		GuardErrors: view.GuardErrors,
		Revision:    view.Revision,
		Payment: PaymentResponse{
			Status:             string(view.Payment.Status),
			Error:              view.Payment.Error,
			TransactionID:      view.Payment.TransactionID,
			BookingID:          view.Payment.BookingID,
			PersistencePending: view.Payment.PersistencePending,
			PersistenceError:   view.Payment.PersistenceError,
			RetryScheduled:     view.Payment.RetryScheduled,
			ConfirmationSent:   view.Payment.ConfirmationSent,
		},
	}

	if view.Service != nil {
		resp.Service = &ServiceResponse{
			ID:         view.Service.ID,
			Title:      view.Service.Title,
			Category:   string(view.Service.Category),
			HourlyRate: view.Service.HourlyRate.StringFixed(2),
		}
	}
	if view.Date != nil {
		date := view.Date.Format(domain.DateFormat)
		resp.Date = &date
	}
	if view.TimeSlot != nil {
		slot := fromSlot(*view.TimeSlot)
		resp.TimeSlot = &slot
	}
	if ttl > 0 && !view.LastActivity.IsZero() {
		resp.ExpiresAt = view.LastActivity.Add(ttl).UTC().Format(time.RFC3339)
	}

	return resp
}

func fromCounters(c wizard.CountersView) CountersResponse {
	values := map[string]int{
		string(domain.FieldBedrooms):  c.Home.Bedrooms,
		string(domain.FieldBathrooms): c.Home.Bathrooms,
		string(domain.FieldKitchen):   c.Home.Kitchen,
		string(domain.FieldLiving):    c.Home.Living,
		string(domain.FieldRooms):     c.Office.Rooms,
		string(domain.FieldCafeteria): c.Office.Cafeteria,
		string(domain.FieldDesks):     c.Office.Desks,
		string(domain.FieldWashrooms): c.Office.Washrooms,
	}

	canDecrement := make(map[string]bool, len(c.CanDecrement))
	for field, ok := range c.CanDecrement {
		canDecrement[string(field)] = ok
	}

	return CountersResponse{
		Active:       string(c.Active),
		Values:       values,
		CanDecrement: canDecrement,
	}
}

func fromSlot(slot domain.TimeSlot) SlotResponse {
	return SlotResponse{
		StartTime: slot.Start.String(),
		EndTime:   slot.End.String(),
		Available: slot.Available,
	}
}

func fromSlots(view wizard.View) SlotsResponse {
	items := make([]SlotResponse, len(view.Slots.Slots))
	for i, slot := range view.Slots.Slots {
		items[i] = fromSlot(slot)
	}
	return SlotsResponse{
		Date:    view.Slots.Key.Date,
		Hours:   view.Slots.Key.Hours,
		Loading: view.Slots.Loading,
		Items:   items,
	}
}

func fromClient(c domain.ClientDetails) ClientResponse {
	return ClientResponse{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		CountryCode: c.CountryCode,
		Phone:       c.Phone,
		Address:     c.Address,
		Notes:       c.Notes,
	}
}

func fromAddress(view wizard.View) AddressResponse {
	suggestions := make([]SuggestionResponse, len(view.Address.Suggestions))
	for i, s := range view.Address.Suggestions {
		suggestions[i] = SuggestionResponse{Description: s.Description, PlaceID: s.PlaceID}
	}
	return AddressResponse{
		Text:        view.Address.Text,
		Suggestions: suggestions,
		Visible:     view.Address.Visible,
		Loading:     view.Address.Loading,
		Error:       view.Address.Error,
		Locating:    view.Address.Locating,
		LocateError: view.Address.LocateError,
	}
}
