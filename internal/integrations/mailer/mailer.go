// Package mailer генерирует текст писем по сохраненному бронированию.
package mailer

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/pricing"
)

// Generator генератор содержимого писем (generateEmailContent)
type Generator struct {
	templates map[domain.EmailKind]*template.Template
}

// NewGenerator создает генератор; companyName подставляется в подпись и шапку счета
func NewGenerator(companyName string) *Generator {
	funcs := template.FuncMap{
		"company":        func() string { return companyName },
		"money":          pricing.FormatMoney,
		"date":           func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
		"hours":          func(h float64) string { return strconv.FormatFloat(h, 'f', -1, 64) },
		"taxPercent":     func() string { return domain.HSTRate.Shift(2).String() },
		"depositPercent": func() string { return domain.DepositFraction.Shift(2).String() },
	}

	return &Generator{
		templates: map[domain.EmailKind]*template.Template{
			domain.EmailConfirmation: template.Must(template.New("confirmation").Funcs(funcs).Parse(confirmationTemplate)),
			domain.EmailInvoice:      template.Must(template.New("invoice").Funcs(funcs).Parse(invoiceTemplate)),
		},
	}
}

// GenerateEmailContent возвращает текст письма указанного вида
func (g *Generator) GenerateEmailContent(record *domain.BookingRecord, kind domain.EmailKind) (string, error) {
	if record == nil {
		return "", ErrInvalidRecord
	}

	tmpl, ok := g.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, record); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, kind, err)
	}

	return buf.String(), nil
}
