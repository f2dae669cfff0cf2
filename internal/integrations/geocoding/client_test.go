package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", "ca", "en", time.Second, nopLogger{})
}

func TestSuggest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/autocomplete/json", r.URL.Path)
		assert.Equal(t, "123 Main", r.URL.Query().Get("input"))
		assert.Equal(t, "country:ca", r.URL.Query().Get("components"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[
			{"description":"123 Main St, Toronto, ON, Canada","place_id":"p1"},
			{"description":"123 Main St W, Hamilton, ON, Canada","place_id":"p2"}]}`))
	})

	candidates, err := client.Suggest(context.Background(), "123 Main")
	require.NoError(t, err)
	assert.Equal(t, []domain.AddressCandidate{
		{Description: "123 Main St, Toronto, ON, Canada", PlaceID: "p1"},
		{Description: "123 Main St W, Hamilton, ON, Canada", PlaceID: "p2"},
	}, candidates)
}

func TestSuggest_ZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","predictions":[]}`))
	})

	candidates, err := client.Suggest(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSuggest_Errors(t *testing.T) {
	denied := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	})
	_, err := denied.Suggest(context.Background(), "123 Main")
	assert.ErrorIs(t, err, ErrRequestDenied)

	broken := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = broken.Suggest(context.Background(), "123 Main")
	assert.ErrorIs(t, err, ErrInvalidResponse)

	garbage := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})
	_, err = garbage.Suggest(context.Background(), "123 Main")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestReverseGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "43.653200,-79.383200", r.URL.Query().Get("latlng"))
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"100 Queen St W, Toronto, ON M5H 2N2, Canada"}]}`))
	})

	address, err := client.ReverseGeocode(context.Background(), domain.Coordinates{Latitude: 43.6532, Longitude: -79.3832})
	require.NoError(t, err)
	assert.Equal(t, "100 Queen St W, Toronto, ON M5H 2N2, Canada", address)
}

func TestReverseGeocode_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	_, err := client.ReverseGeocode(context.Background(), domain.Coordinates{})
	assert.ErrorIs(t, err, ErrNoResults)
}
