package wizard_session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/payment"
	catalogService "github.com/m04kA/SMC-CleaningBooking/internal/service/catalog"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, id string) (*domain.ServiceType, error) {
	if id != "standard" {
		return nil, catalogService.ErrServiceNotFound
	}
	return &domain.ServiceType{
		ID:         "standard",
		Title:      "Standard Home Clean",
		HourlyRate: decimal.NewFromInt(50),
		Category:   domain.CategoryHome,
		IsActive:   true,
	}, nil
}

type emptyCalendar struct{}

func (emptyCalendar) GetRealAvailability(context.Context, time.Time, int) ([]domain.TimeSlot, error) {
	return nil, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Suggest(context.Context, string) ([]domain.AddressCandidate, error) {
	return nil, nil
}

func (fakeGeocoder) ReverseGeocode(context.Context, domain.Coordinates) (string, error) {
	return "1 Yonge St, Toronto, ON", nil
}

type slotCalendar struct{}

func (slotCalendar) GetRealAvailability(context.Context, time.Time, int) ([]domain.TimeSlot, error) {
	return []domain.TimeSlot{
		{Start: types.TimeString("09:00"), End: types.TimeString("12:00"), Available: true},
	}, nil
}

type fakePayments struct {
	declineReason string
}

func (p fakePayments) ProcessPayment(context.Context, payment.Request) (*payment.Result, error) {
	if p.declineReason != "" {
		return nil, &payment.DeclineError{Reason: p.declineReason}
	}
	return &payment.Result{TransactionID: "pi_test"}, nil
}

type fakeBookings struct {
	err error
}

func (b fakeBookings) SaveBooking(context.Context, *domain.BookingRecord) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	return 1, nil
}

type fakeEmails struct{}

func (fakeEmails) GenerateEmailContent(*domain.BookingRecord, domain.EmailKind) (string, error) {
	return "", nil
}

type fixedTime struct{}

func (fixedTime) Now() time.Time {
	return time.Date(2030, time.March, 1, 10, 0, 0, 0, time.UTC)
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	return newTestRouterWith(t, func(*wizard.Dependencies) {})
}

// newTestRouterWith позволяет подменить зависимости мастера
func newTestRouterWith(t *testing.T, override func(deps *wizard.Dependencies)) *mux.Router {
	t.Helper()

	deps := wizard.Dependencies{
		Catalog:      fakeCatalog{},
		Availability: emptyCalendar{},
		Geocoder:     fakeGeocoder{},
		Payments:     fakePayments{},
		Bookings:     fakeBookings{},
		Emails:       fakeEmails{},
		TimeProvider: fixedTime{},
		Logger:       logger.NewNop(),
	}
	override(&deps)
	registry := wizard.NewRegistry(deps, wizard.Config{SessionTTL: time.Hour})

	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	NewHandler(registry, nil, time.Hour, logger.NewNop()).Register(api, nil)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, r http.Handler) SessionResponse {
	t.Helper()

	rec := do(t, r, http.MethodPost, "/api/v1/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreate_WithProfile(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/api/v1/wizard/sessions", CreateSessionRequest{
		Profile: &ProfileRequest{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "service", resp.StepName)
	assert.Equal(t, 2.5, resp.Hours)
	assert.Equal(t, "Ada", resp.Client.FirstName)
	assert.Equal(t, "+1", resp.Client.CountryCode)
	assert.Equal(t, "pending", resp.Payment.Status)
	assert.False(t, resp.CanProceed)
}

func TestNext_GuardFailureIsUnprocessable(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)

	rec := do(t, r, http.MethodPost, "/api/v1/wizard/sessions/"+session.SessionID+"/next", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "service")
}

func TestSelectService_AndCounters(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)
	base := "/api/v1/wizard/sessions/" + session.SessionID

	rec := do(t, r, http.MethodPut, base+"/service", SelectServiceRequest{ServiceID: "unknown"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, base+"/service", SelectServiceRequest{ServiceID: "standard"})
	require.Equal(t, http.StatusOK, rec.Code)

	// счетчики принадлежат шагу длительности
	rec = do(t, r, http.MethodPost, base+"/counters", CounterRequest{Field: "bathrooms", Op: "increment"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, base+"/counters", CounterRequest{Field: "bathrooms", Op: "increment"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "duration", resp.StepName)
	assert.Equal(t, 3.0, resp.Hours)
	assert.Equal(t, 2, resp.Counters.Values["bathrooms"])
	assert.Equal(t, "150.00", resp.Invoice.Subtotal)

	rec = do(t, r, http.MethodPost, base+"/counters", CounterRequest{Field: "bathrooms", Op: "multiply"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, base+"/counters", CounterRequest{Field: "desks", Op: "increment"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetHours_OutOfRange(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)
	base := "/api/v1/wizard/sessions/" + session.SessionID

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPut, base+"/service", SelectServiceRequest{ServiceID: "standard"}).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, base+"/next", nil).Code)

	rec := do(t, r, http.MethodPut, base+"/hours", SetHoursRequest{Hours: 12})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, r, http.MethodPut, base+"/hours", SetHoursRequest{Hours: 4})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4.0, resp.Hours)
}

func TestBadRequests(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)
	base := "/api/v1/wizard/sessions/" + session.SessionID

	rec := do(t, r, http.MethodPut, base+"/date", SetDateRequest{Date: "01/03/2030"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, base+"/service", map[string]string{"unexpected": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, base+"/address/locate", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	lat := 43.65
	rec = do(t, r, http.MethodPost, base+"/address/locate", LocateRequest{Latitude: &lat})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPay_WrongStep(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)

	rec := do(t, r, http.MethodPost, "/api/v1/wizard/sessions/"+session.SessionID+"/payment", PayRequest{Token: "pm_card_visa"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/v1/wizard/sessions/"+session.SessionID+"/payment/retry-save", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDelete(t *testing.T) {
	r := newTestRouter(t)
	session := createSession(t, r)
	path := "/api/v1/wizard/sessions/" + session.SessionID

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, path, nil).Code)
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) SessionResponse {
	t.Helper()

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

// toPaymentStep проводит сессию через шаги 1-4 по HTTP
func toPaymentStep(t *testing.T, r http.Handler) string {
	t.Helper()

	base := "/api/v1/wizard/sessions/" + createSession(t, r).SessionID

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPut, base+"/service", SelectServiceRequest{ServiceID: "standard"}).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, base+"/next", nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, base+"/next", nil).Code)

	rec := do(t, r, http.MethodPut, base+"/date", SetDateRequest{Date: "2030-03-05"})
	require.Equal(t, http.StatusOK, rec.Code)

	// слоты загружаются асинхронно
	require.Eventually(t, func() bool {
		var resp SessionResponse
		if err := json.Unmarshal(do(t, r, http.MethodGet, base, nil).Body.Bytes(), &resp); err != nil {
			return false
		}
		return !resp.Slots.Loading && len(resp.Slots.Items) > 0
	}, time.Second, 5*time.Millisecond)

	rec = do(t, r, http.MethodPut, base+"/slot", SelectSlotRequest{StartTime: "09:00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, r, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "details", decodeSession(t, rec).StepName)

	first, last, email, phone := "Jane", "Doe", "jane@example.com", "(416) 555-0199"
	address := "1 Yonge St, Toronto, ON"
	rec = do(t, r, http.MethodPatch, base+"/details", DetailsRequest{
		FirstName: &first,
		LastName:  &last,
		Email:     &email,
		Phone:     &phone,
		Address:   &address,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "payment", decodeSession(t, rec).StepName)

	return base
}

func TestFlow_PaymentCompletesBooking(t *testing.T) {
	r := newTestRouterWith(t, func(deps *wizard.Dependencies) {
		deps.Availability = slotCalendar{}
	})
	base := toPaymentStep(t, r)

	rec := do(t, r, http.MethodPost, base+"/payment", PayRequest{Token: "pm_card_visa"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeSession(t, rec)
	assert.Equal(t, "success", resp.StepName)
	assert.Equal(t, "paid", resp.Payment.Status)
	assert.Equal(t, "pi_test", resp.Payment.TransactionID)
	assert.Equal(t, int64(1), resp.Payment.BookingID)
	assert.False(t, resp.Payment.PersistencePending)
	assert.True(t, resp.Payment.ConfirmationSent)

	rec = do(t, r, http.MethodPost, base+"/payment", PayRequest{Token: "pm_card_visa"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFlow_PaidButNotSavedIsAccepted(t *testing.T) {
	r := newTestRouterWith(t, func(deps *wizard.Dependencies) {
		deps.Availability = slotCalendar{}
		deps.Bookings = fakeBookings{err: errors.New("db is down")}
	})
	base := toPaymentStep(t, r)

	rec := do(t, r, http.MethodPost, base+"/payment", PayRequest{Token: "pm_card_visa"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decodeSession(t, rec)
	assert.Equal(t, "payment", resp.StepName)
	assert.Equal(t, "paid", resp.Payment.Status)
	assert.Equal(t, "pi_test", resp.Payment.TransactionID)
	assert.True(t, resp.Payment.PersistencePending)
	assert.NotEmpty(t, resp.Payment.PersistenceError)

	// повторная оплата запрещена, доступно только повторное сохранение
	rec = do(t, r, http.MethodPost, base+"/payment", PayRequest{Token: "pm_card_visa"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, r, http.MethodPost, base+"/payment/retry-save", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestFlow_DeclineReturnsReason(t *testing.T) {
	const reason = "Your card was declined."
	r := newTestRouterWith(t, func(deps *wizard.Dependencies) {
		deps.Availability = slotCalendar{}
		deps.Payments = fakePayments{declineReason: reason}
	})
	base := toPaymentStep(t, r)

	rec := do(t, r, http.MethodPost, base+"/payment", PayRequest{Token: "tok_chargeDeclined"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code, rec.Body.String())

	resp := decodeSession(t, rec)
	assert.Equal(t, "payment", resp.StepName)
	assert.Equal(t, "failed", resp.Payment.Status)
	assert.Equal(t, reason, resp.Payment.Error)
	assert.Empty(t, resp.Payment.TransactionID)
}
