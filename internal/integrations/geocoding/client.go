package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// DefaultBaseURL адрес Google Maps Platform
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// Client клиент геокодирования (подсказки адресов и обратное геокодирование)
type Client struct {
	baseURL    string
	apiKey     string
	country    string
	language   string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента геокодирования
// country ограничивает подсказки страной (ISO 3166-1 alpha-2), пустая строка - без ограничения
func NewClient(baseURL, apiKey, country, language string, timeout time.Duration, log Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		country:  country,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Suggest возвращает подсказки адресов для введенного текста
func (c *Client) Suggest(ctx context.Context, text string) ([]domain.AddressCandidate, error) {
	query := url.Values{}
	query.Set("input", text)
	query.Set("types", "address")
	query.Set("key", c.apiKey)
	if c.country != "" {
		query.Set("components", "country:"+c.country)
	}
	if c.language != "" {
		query.Set("language", c.language)
	}

	var payload autocompleteResponse
	if err := c.get(ctx, "/place/autocomplete/json", query, &payload); err != nil {
		return nil, err
	}

	switch payload.Status {
	case statusOK:
		// Продолжаем обработку
	case statusZeroResults:
		return []domain.AddressCandidate{}, nil
	default:
		c.log.Warn("Suggest: geocoding status=%s: %s", payload.Status, payload.ErrorMessage)
		return nil, statusError(payload.Status, payload.ErrorMessage)
	}

	candidates := make([]domain.AddressCandidate, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		candidates = append(candidates, domain.AddressCandidate{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}

	return candidates, nil
}

// ReverseGeocode возвращает отформатированный адрес по координатам
func (c *Client) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	query := url.Values{}
	query.Set("latlng", strconv.FormatFloat(coords.Latitude, 'f', 6, 64)+","+strconv.FormatFloat(coords.Longitude, 'f', 6, 64))
	query.Set("result_type", "street_address|premise")
	query.Set("key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}

	var payload geocodeResponse
	if err := c.get(ctx, "/geocode/json", query, &payload); err != nil {
		return "", err
	}

	switch payload.Status {
	case statusOK:
		// Продолжаем обработку
	case statusZeroResults:
		return "", ErrNoResults
	default:
		c.log.Warn("ReverseGeocode: geocoding status=%s: %s", payload.Status, payload.ErrorMessage)
		return "", statusError(payload.Status, payload.ErrorMessage)
	}

	if len(payload.Results) == 0 || payload.Results[0].FormattedAddress == "" {
		return "", ErrNoResults
	}

	return payload.Results[0].FormattedAddress, nil
}

// get выполняет GET запрос и декодирует JSON ответ
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusForbidden, http.StatusUnauthorized:
		return ErrRequestDenied
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// statusError конвертирует статус Google Maps Platform в ошибку клиента
func statusError(status, message string) error {
	switch status {
	case statusRequestDenied, statusOverQueryLimit:
		return fmt.Errorf("%w: %s: %s", ErrRequestDenied, status, message)
	case statusInvalidRequest:
		return fmt.Errorf("%w: %s: %s", ErrInvalidResponse, status, message)
	default:
		return fmt.Errorf("%w: unexpected status %s: %s", ErrInvalidResponse, status, message)
	}
}
