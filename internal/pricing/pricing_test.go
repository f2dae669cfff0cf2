package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func standardCleaning(rate string) *domain.ServiceType {
	return &domain.ServiceType{
		ID:               "standard",
		Title:            "Standard Cleaning",
		HourlyRate:       decimal.RequireFromString(rate),
		RecommendedHours: 3,
		Category:         domain.CategoryHome,
	}
}

func TestCompute_Scenario(t *testing.T) {
	invoice := Compute(standardCleaning("50"), 2.5)

	assert.Equal(t, "$125.00", FormatMoney(invoice.Subtotal))
	assert.Equal(t, "$16.25", FormatMoney(invoice.Tax))
	assert.Equal(t, "$141.25", FormatMoney(invoice.Total))
	assert.Equal(t, "$42.38", FormatMoney(invoice.Deposit))
	assert.Equal(t, "$98.88", FormatMoney(invoice.Remaining))
	assert.Equal(t, int64(4238), Cents(invoice.Deposit))

	require.Len(t, invoice.LineItems, 2)
	assert.Equal(t, "Standard Cleaning: 2.5 h x $50.00/h", invoice.LineItems[0].Description)
	assert.Equal(t, "HST (13%)", invoice.LineItems[1].Description)
}

func TestCompute_Identities(t *testing.T) {
	rates := []string{"35", "49.99", "50", "62.5", "120"}
	for _, rate := range rates {
		for hours := 2.0; hours <= 12; hours += 0.5 {
			invoice := Compute(standardCleaning(rate), hours)

			assert.True(t, invoice.Deposit.Add(invoice.Remaining).Equal(invoice.Total),
				"deposit + remaining != total for rate=%s hours=%v", rate, hours)
			assert.True(t, invoice.Subtotal.Mul(decimal.RequireFromString("1.13")).Equal(invoice.Total),
				"total != subtotal*1.13 for rate=%s hours=%v", rate, hours)
		}
	}
}

func TestCompute_NoService(t *testing.T) {
	invoice := Compute(nil, 4)

	assert.True(t, invoice.Subtotal.IsZero())
	assert.True(t, invoice.Tax.IsZero())
	assert.True(t, invoice.Total.IsZero())
	assert.True(t, invoice.Deposit.IsZero())
	assert.True(t, invoice.Remaining.IsZero())
	assert.Empty(t, invoice.LineItems)
}

func TestCompute_IsIdempotent(t *testing.T) {
	service := standardCleaning("50")
	assert.Equal(t, Compute(service, 3.5), Compute(service, 3.5))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(4238), Cents(decimal.RequireFromString("42.375")))
	assert.Equal(t, int64(100), Cents(decimal.NewFromInt(1)))
	assert.Equal(t, int64(0), Cents(decimal.Zero))
}
