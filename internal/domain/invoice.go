package domain

import "github.com/shopspring/decimal"

// LineItem строка счета
type LineItem struct {
	Description string
	Amount      decimal.Decimal
}

// Invoice производные суммы бронирования; не сохраняются до успешной оплаты
type Invoice struct {
	HourlyRate decimal.Decimal
	Hours      decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Deposit    decimal.Decimal
	Remaining  decimal.Decimal
	LineItems  []LineItem
}

// Rounded округляет суммы до центов для отображения
func (i Invoice) Rounded() Invoice {
	out := i
	out.Subtotal = i.Subtotal.Round(2)
	out.Tax = i.Tax.Round(2)
	out.Total = i.Total.Round(2)
	out.Deposit = i.Deposit.Round(2)
	out.Remaining = i.Remaining.Round(2)
	out.LineItems = make([]LineItem, len(i.LineItems))
	for idx, item := range i.LineItems {
		out.LineItems[idx] = LineItem{Description: item.Description, Amount: item.Amount.Round(2)}
	}
	return out
}
