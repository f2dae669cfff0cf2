package get_quote

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeCatalog struct {
	services map[string]*domain.ServiceType
	err      error
}

func (f *fakeCatalog) GetService(_ context.Context, id string) (*domain.ServiceType, error) {
	if f.err != nil {
		return nil, f.err
	}
	service, ok := f.services[id]
	if !ok {
		return nil, catalogService.ErrServiceNotFound
	}
	return service, nil
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{services: map[string]*domain.ServiceType{
		"standard": {ID: "standard", Title: "Standard", HourlyRate: decimal.NewFromInt(50), Category: domain.CategoryHome, IsActive: true},
		"office":   {ID: "office", Title: "Office", HourlyRate: decimal.NewFromInt(60), Category: domain.CategoryOffice, IsActive: true},
	}}
}

func TestExecute_HomeCounters(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: "standard",
		Home:      &domain.HomeCounts{Bedrooms: 2, Bathrooms: 1, Kitchen: 1, Living: 1},
	})
	require.NoError(t, err)

	assert.True(t, resp.Estimated)
	assert.Equal(t, 2.5, resp.Hours)
	assert.Equal(t, "125.00", resp.Invoice.Subtotal.StringFixed(2))
	assert.Equal(t, "16.25", resp.Invoice.Tax.StringFixed(2))
	assert.Equal(t, "141.25", resp.Invoice.Total.StringFixed(2))
	assert.Equal(t, "42.38", resp.Invoice.Deposit.StringFixed(2))
	assert.Equal(t, "98.88", resp.Invoice.Remaining.StringFixed(2))
}

func TestExecute_DefaultCountersPerCategory(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})

	home, err := uc.Execute(context.Background(), &Request{ServiceID: "standard"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, home.Hours)

	// 6*0.3 + 20*0.133 + 2*0.42 + 0.75 = 6.05 -> 6.5
	office, err := uc.Execute(context.Background(), &Request{ServiceID: "office"})
	require.NoError(t, err)
	assert.Equal(t, 6.5, office.Hours)
}

func TestExecute_OfficeMinimum(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: "office",
		Office:    &domain.OfficeCounts{},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MinOfficeHours, resp.Hours)
}

func TestExecute_ManualHours(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})
	hours := 4.0

	resp, err := uc.Execute(context.Background(), &Request{
		ServiceID: "standard",
		Hours:     &hours,
		Home:      &domain.HomeCounts{Bedrooms: 9},
	})
	require.NoError(t, err)
	assert.False(t, resp.Estimated)
	assert.Equal(t, 4.0, resp.Hours)
	assert.Equal(t, "200.00", resp.Invoice.Subtotal.StringFixed(2))
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})
	tooMany := 10.5
	notHalf := 3.2

	tests := []struct {
		name string
		req  *Request
	}{
		{name: "nil request", req: nil},
		{name: "missing service", req: &Request{}},
		{name: "hours above slider", req: &Request{ServiceID: "standard", Hours: &tooMany}},
		{name: "hours not half step", req: &Request{ServiceID: "standard", Hours: &notHalf}},
		{name: "negative counter", req: &Request{ServiceID: "standard", Home: &domain.HomeCounts{Bedrooms: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_CatalogErrors(t *testing.T) {
	uc := NewUseCase(newCatalog(), nopLogger{})
	_, err := uc.Execute(context.Background(), &Request{ServiceID: "unknown"})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	broken := NewUseCase(&fakeCatalog{err: errors.New("db down")}, nopLogger{})
	_, err = broken.Execute(context.Background(), &Request{ServiceID: "standard"})
	assert.ErrorIs(t, err, ErrInternal)
}
