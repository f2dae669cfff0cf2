// Package pricing derives invoice figures from the selected service and hours.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Compute считает счет по услуге и количеству часов
// Без услуги все суммы нулевые
func Compute(service *domain.ServiceType, hours float64) domain.Invoice {
	if service == nil {
		return domain.Invoice{
			HourlyRate: decimal.Zero,
			Hours:      decimal.Zero,
			Subtotal:   decimal.Zero,
			Tax:        decimal.Zero,
			Total:      decimal.Zero,
			Deposit:    decimal.Zero,
			Remaining:  decimal.Zero,
		}
	}

	h := decimal.NewFromFloat(hours)
	subtotal := service.HourlyRate.Mul(h)
	tax := subtotal.Mul(domain.HSTRate)
	total := subtotal.Add(tax)
	deposit := total.Mul(domain.DepositFraction)
	remaining := total.Sub(deposit)

	return domain.Invoice{
		HourlyRate: service.HourlyRate,
		Hours:      h,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		Deposit:    deposit,
		Remaining:  remaining,
		LineItems: []domain.LineItem{
			{
				Description: fmt.Sprintf("%s: %s h x %s/h", service.Title, h.String(), FormatMoney(service.HourlyRate)),
				Amount:      subtotal,
			},
			{
				Description: fmt.Sprintf("HST (%s%%)", domain.HSTRate.Mul(hundred).String()),
				Amount:      tax,
			},
		},
	}
}

// Cents переводит сумму в центы для платежного шлюза (с округлением до центов)
func Cents(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(hundred).IntPart()
}

// FormatMoney форматирует сумму как $1234.50
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
