package mailer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func record() *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:           42,
		ServiceTitle: "Standard Cleaning",
		HourlyRate:   decimal.NewFromInt(50),
		Hours:        2.5,
		BookingDate:  time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "12:00",
		Client: domain.ClientDetails{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Address:   "100 Queen St W, Toronto",
		},
		Subtotal:             decimal.RequireFromString("125"),
		Tax:                  decimal.RequireFromString("16.25"),
		Total:                decimal.RequireFromString("141.25"),
		Deposit:              decimal.RequireFromString("42.38"),
		Remaining:            decimal.RequireFromString("98.87"),
		PaymentTransactionID: "pi_123",
	}
}

func TestConfirmation(t *testing.T) {
	content, err := NewGenerator("Sparkle Cleaning").GenerateEmailContent(record(), domain.EmailConfirmation)
	require.NoError(t, err)

	assert.Contains(t, content, "Hi Jane,")
	assert.Contains(t, content, "Booking #42")
	assert.Contains(t, content, "Tuesday, March 5, 2030")
	assert.Contains(t, content, "09:00 - 12:00")
	assert.Contains(t, content, "Duration: 2.5 h")
	assert.Contains(t, content, "Deposit paid: $42.38")
	assert.Contains(t, content, "Due on the day of cleaning: $98.87")
	assert.Contains(t, content, "Sparkle Cleaning")
	assert.NotContains(t, content, "Notes:")
}

func TestInvoice(t *testing.T) {
	content, err := NewGenerator("Sparkle Cleaning").GenerateEmailContent(record(), domain.EmailInvoice)
	require.NoError(t, err)

	assert.Contains(t, content, "Billed to: Jane Doe <jane@example.com>")
	assert.Contains(t, content, "Standard Cleaning: 2.5 h x $50.00/h  $125.00")
	assert.Contains(t, content, "HST (13%)  $16.25")
	assert.Contains(t, content, "Total  $141.25")
	assert.Contains(t, content, "Deposit paid (30%)  $42.38")
}

func TestErrors(t *testing.T) {
	g := NewGenerator("Sparkle Cleaning")

	_, err := g.GenerateEmailContent(record(), "receipt")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = g.GenerateEmailContent(nil, domain.EmailInvoice)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
