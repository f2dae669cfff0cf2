package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/payment"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

var testNow = time.Date(2030, time.March, 1, 10, 0, 0, 0, time.UTC)

var (
	homeService = &domain.ServiceType{
		ID:               "standard-home",
		Title:            "Standard Home Clean",
		HourlyRate:       decimal.NewFromInt(50),
		RecommendedHours: 3,
		Category:         domain.CategoryHome,
		IsActive:         true,
	}
	officeService = &domain.ServiceType{
		ID:               "office",
		Title:            "Office Cleaning",
		HourlyRate:       decimal.NewFromInt(65),
		RecommendedHours: 6,
		Category:         domain.CategoryOffice,
		IsActive:         true,
	}
)

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, id string) (*domain.ServiceType, error) {
	for _, s := range []*domain.ServiceType{homeService, officeService} {
		if s.ID == id {
			copied := *s
			return &copied, nil
		}
	}
	return nil, catalogService.ErrServiceNotFound
}

type fakeCalendar struct {
	mu    sync.Mutex
	calls []int
	// число ближайших запросов, завершающихся ошибкой
	failures int
}

func (c *fakeCalendar) GetRealAvailability(_ context.Context, _ time.Time, durationHours int) ([]domain.TimeSlot, error) {
	c.mu.Lock()
	c.calls = append(c.calls, durationHours)
	if c.failures > 0 {
		c.failures--
		c.mu.Unlock()
		return nil, errBoom
	}
	c.mu.Unlock()

	return []domain.TimeSlot{
		{Start: types.TimeString("09:00"), End: types.TimeString("12:00"), Available: true},
		{Start: types.TimeString("13:00"), End: types.TimeString("16:00"), Available: false},
	}, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Suggest(_ context.Context, text string) ([]domain.AddressCandidate, error) {
	return []domain.AddressCandidate{{Description: text + " St, Toronto, ON"}}, nil
}

func (fakeGeocoder) ReverseGeocode(context.Context, domain.Coordinates) (string, error) {
	return "100 Front St W, Toronto, ON", nil
}

type fakePayments struct {
	mu       sync.Mutex
	requests []payment.Request
	err      error
}

func (p *fakePayments) ProcessPayment(_ context.Context, req payment.Request) (*payment.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, req)
	if p.err != nil {
		return nil, p.err
	}
	return &payment.Result{TransactionID: "pi_test", AmountCents: req.AmountCents, Currency: req.Currency}, nil
}

type fakeBookings struct {
	mu      sync.Mutex
	records []domain.BookingRecord
	err     error
}

func (b *fakeBookings) SaveBooking(_ context.Context, record *domain.BookingRecord) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append(b.records, *record)
	if b.err != nil {
		return 0, b.err
	}
	return 42, nil
}

type fakeEmails struct {
	mu    sync.Mutex
	kinds []domain.EmailKind
	err   error
}

func (e *fakeEmails) GenerateEmailContent(_ *domain.BookingRecord, kind domain.EmailKind) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.kinds = append(e.kinds, kind)
	return "content", e.err
}

type fakeRetries struct {
	mu       sync.Mutex
	sessions []string
}

func (r *fakeRetries) SchedulePersistenceRetry(_ context.Context, sessionID string, _ *domain.BookingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
	return nil
}

type fakeClock struct {
	mu    sync.Mutex
	funcs []func()
}

type fakeTimer struct {
	clock *fakeClock
	index int
}

func (t fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := t.clock.funcs[t.index] != nil
	t.clock.funcs[t.index] = nil
	return active
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) autocomplete.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
	return fakeTimer{clock: c, index: len(c.funcs) - 1}
}

func (c *fakeClock) Fire() {
	c.mu.Lock()
	var due []func()
	for i, f := range c.funcs {
		if f != nil {
			due = append(due, f)
			c.funcs[i] = nil
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

type testEnv struct {
	calendar *fakeCalendar
	payments *fakePayments
	bookings *fakeBookings
	emails   *fakeEmails
	retries  *fakeRetries
	clock    *fakeClock
	time     *fixedTime
	deps     Dependencies
	cfg      Config
}

func newTestEnv() *testEnv {
	env := &testEnv{
		calendar: &fakeCalendar{},
		payments: &fakePayments{},
		bookings: &fakeBookings{},
		emails:   &fakeEmails{},
		retries:  &fakeRetries{},
		clock:    &fakeClock{},
		time:     &fixedTime{now: testNow},
	}
	env.deps = Dependencies{
		Catalog:      fakeCatalog{},
		Availability: env.calendar,
		Geocoder:     fakeGeocoder{},
		Payments:     env.payments,
		Bookings:     env.bookings,
		Emails:       env.emails,
		Retries:      env.retries,
		Clock:        env.clock,
		TimeProvider: env.time,
		Logger:       logger.NewNop(),
	}
	env.cfg = Config{
		SessionTTL: 30 * time.Minute,
		Location:   time.UTC,
		Address:    autocomplete.Config{Debounce: 300 * time.Millisecond, MinChars: 3},
	}
	return env
}

func (e *testEnv) newSession(t *testing.T, profile *domain.UserProfile) *Session {
	t.Helper()
	s := NewSession("session-1", e.deps, e.cfg, profile)
	t.Cleanup(s.Close)
	return s
}

var bookingDate = time.Date(2030, time.March, 5, 0, 0, 0, 0, time.UTC)

// toSchedule доводит сессию до шага 3 с домашней услугой
func toSchedule(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.SelectService(ctx, homeService.ID))
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, domain.StepSchedule, s.State().Step)
}

// toPayment доводит сессию до шага 5 с корректными данными
func toPayment(t *testing.T, s *Session) {
	t.Helper()

	toSchedule(t, s)
	require.NoError(t, s.SetDate(bookingDate))
	s.fetcher.Wait()
	require.NoError(t, s.SelectTimeSlot("09:00"))
	require.NoError(t, s.Next())

	require.NoError(t, s.UpdateClientDetails(DetailsPatch{
		FirstName: ptr.Ptr("Jane"),
		LastName:  ptr.Ptr("Doe"),
		Email:     ptr.Ptr("jane@example.com"),
		Phone:     ptr.Ptr("(416) 555-0199"),
		Address:   ptr.Ptr("1 Yonge St, Toronto, ON"),
	}))
	require.NoError(t, s.Next())
	require.Equal(t, domain.StepPayment, s.State().Step)
}

var errBoom = errors.New("boom")
