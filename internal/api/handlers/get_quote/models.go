package get_quote

import (
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	getQuote "github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_quote"
)

// QuoteResponse HTTP response model
type QuoteResponse struct {
	ServiceID string          `json:"serviceId"`
	Category  string          `json:"category"`
	Hours     float64         `json:"hours"`
	Estimated bool            `json:"estimated"`
	Invoice   InvoiceResponse `json:"invoice"`
}

// InvoiceResponse суммы счета с точностью до цента
type InvoiceResponse struct {
	HourlyRate string             `json:"hourlyRate"`
	Subtotal   string             `json:"subtotal"`
	Tax        string             `json:"tax"`
	Total      string             `json:"total"`
	Deposit    string             `json:"deposit"`
	Remaining  string             `json:"remaining"`
	LineItems  []LineItemResponse `json:"lineItems"`
}

// LineItemResponse строка счета
type LineItemResponse struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// FromInvoice конвертирует счет в HTTP модель
func FromInvoice(invoice domain.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, len(invoice.LineItems))
	for i, item := range invoice.LineItems {
		items[i] = LineItemResponse{Description: item.Description, Amount: item.Amount.StringFixed(2)}
	}

	return InvoiceResponse{
		HourlyRate: invoice.HourlyRate.StringFixed(2),
		Subtotal:   invoice.Subtotal.StringFixed(2),
		Tax:        invoice.Tax.StringFixed(2),
		Total:      invoice.Total.StringFixed(2),
		Deposit:    invoice.Deposit.StringFixed(2),
		Remaining:  invoice.Remaining.StringFixed(2),
		LineItems:  items,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getQuote.Response) *QuoteResponse {
	return &QuoteResponse{
		ServiceID: resp.Service.ID,
		Category:  string(resp.Service.Category),
		Hours:     resp.Hours,
		Estimated: resp.Estimated,
		Invoice:   FromInvoice(resp.Invoice),
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
// Счетчики, не указанные в запросе, берутся по умолчанию
func ToUseCaseRequest(query url.Values) (*getQuote.Request, error) {
	req := &getQuote.Request{ServiceID: query.Get("serviceId")}

	if hoursStr := query.Get("hours"); hoursStr != "" {
		hours, err := strconv.ParseFloat(hoursStr, 64)
		if err != nil {
			return nil, err
		}
		req.Hours = &hours
	}

	home := domain.DefaultHomeCounts()
	homeSet, err := parseCounters(query, map[domain.CounterField]*int{
		domain.FieldBedrooms:  &home.Bedrooms,
		domain.FieldBathrooms: &home.Bathrooms,
		domain.FieldKitchen:   &home.Kitchen,
		domain.FieldLiving:    &home.Living,
	})
	if err != nil {
		return nil, err
	}
	if homeSet {
		req.Home = &home
	}

	office := domain.DefaultOfficeCounts()
	officeSet, err := parseCounters(query, map[domain.CounterField]*int{
		domain.FieldRooms:     &office.Rooms,
		domain.FieldCafeteria: &office.Cafeteria,
		domain.FieldDesks:     &office.Desks,
		domain.FieldWashrooms: &office.Washrooms,
	})
	if err != nil {
		return nil, err
	}
	if officeSet {
		req.Office = &office
	}

	return req, nil
}

func parseCounters(query url.Values, targets map[domain.CounterField]*int) (bool, error) {
	set := false
	for field, target := range targets {
		value := query.Get(string(field))
		if value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return false, err
		}
		*target = n
		set = true
	}
	return set, nil
}
