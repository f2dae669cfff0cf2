package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeRepo struct {
	records map[int64]*domain.BookingRecord
	err     error
	filter  domain.BookingsFilter
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.BookingRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	record, ok := r.records[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return record, nil
}

func (r *fakeRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.BookingRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, record := range r.records {
		if record.PaymentTransactionID == transactionID {
			return record, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *fakeRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.BookingRecord, error) {
	r.filter = filter
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.BookingRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	return out, nil
}

type fakeEmails struct{ kinds []domain.EmailKind }

func (e *fakeEmails) GenerateEmailContent(record *domain.BookingRecord, kind domain.EmailKind) (string, error) {
	e.kinds = append(e.kinds, kind)
	return string(kind) + " for " + record.Client.FirstName, nil
}

func sampleRecord() *domain.BookingRecord {
	return &domain.BookingRecord{
		ID:              42,
		ServiceID:       "standard",
		ServiceTitle:    "Standard Cleaning",
		ServiceCategory: domain.CategoryHome,
		HourlyRate:      decimal.NewFromInt(50),
		Hours:           2.5,
		BookingDate:     time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("09:00"),
		EndTime:         types.TimeString("12:00"),
		DurationMinutes: 180,
		Client:          domain.ClientDetails{FirstName: "Jane", LastName: "Doe"},
		Subtotal:        decimal.RequireFromString("125"),
		Tax:             decimal.RequireFromString("16.25"),
		Total:           decimal.RequireFromString("141.25"),
		Deposit:         decimal.RequireFromString("42.38"),
		Remaining:       decimal.RequireFromString("98.87"),
		Status:          domain.StatusConfirmed,

		PaymentTransactionID: "pi_123",
	}
}

func TestGetByID(t *testing.T) {
	svc := NewService(&fakeRepo{records: map[int64]*domain.BookingRecord{42: sampleRecord()}}, &fakeEmails{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "2030-03-05", resp.BookingDate)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "125.00", resp.Subtotal)
	assert.Equal(t, "42.38", resp.Deposit)

	_, err = svc.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	broken := NewService(&fakeRepo{err: errors.New("db down")}, &fakeEmails{}, nopLogger{})
	_, err = broken.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetByTransactionID(t *testing.T) {
	svc := NewService(&fakeRepo{records: map[int64]*domain.BookingRecord{42: sampleRecord()}}, &fakeEmails{}, nopLogger{})

	resp, err := svc.GetByTransactionID(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)

	_, err = svc.GetByTransactionID(context.Background(), "pi_unknown")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByTransactionID(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBookings(t *testing.T) {
	repo := &fakeRepo{records: map[int64]*domain.BookingRecord{42: sampleRecord()}}
	svc := NewService(repo, &fakeEmails{}, nopLogger{})

	from := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2030, 3, 31, 0, 0, 0, 0, time.UTC)

	resp, err := svc.GetBookings(context.Background(), &models.GetBookingsRequest{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	assert.Equal(t, &from, repo.filter.StartDate)

	_, err = svc.GetBookings(context.Background(), &models.GetBookingsRequest{StartDate: &to, EndDate: &from})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRenderEmail(t *testing.T) {
	emails := &fakeEmails{}
	svc := NewService(&fakeRepo{records: map[int64]*domain.BookingRecord{42: sampleRecord()}}, emails, nopLogger{})

	resp, err := svc.RenderEmail(context.Background(), 42, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "invoice for Jane", resp.Content)
	assert.Equal(t, []domain.EmailKind{domain.EmailInvoice}, emails.kinds)

	_, err = svc.RenderEmail(context.Background(), 42, "newsletter")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RenderEmail(context.Background(), 1, "confirmation")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
