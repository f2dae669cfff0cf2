package iplocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// DefaultBaseURL адрес ipapi.co
const DefaultBaseURL = "https://ipapi.co"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент определения примерного местоположения по IP
// Используется, когда браузер не передал координаты
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	mu    sync.RWMutex
	cache map[string]domain.Coordinates
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log:   log,
		cache: make(map[string]domain.Coordinates),
	}
}

// LocateIP возвращает координаты для IP адреса
func (c *Client) LocateIP(ctx context.Context, ip string) (domain.Coordinates, error) {
	if isPrivateIP(ip) {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrPrivateIP, ip)
	}

	c.mu.RLock()
	coords, ok := c.cache[ip]
	c.mu.RUnlock()
	if ok {
		return coords, nil
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusTooManyRequests:
		return domain.Coordinates{}, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return domain.Coordinates{}, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var geo GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if geo.Error {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrInvalidResponse, geo.Reason)
	}

	coords = domain.Coordinates{Latitude: geo.Latitude, Longitude: geo.Longitude}

	c.mu.Lock()
	c.cache[ip] = coords
	c.mu.Unlock()

	c.log.Info("LocateIP: resolved ip=%s to %s, %s", ip, geo.City, geo.CountryCode)
	return coords, nil
}

// ForIP возвращает Locator для конкретного клиента
func (c *Client) ForIP(ip string) *IPLocator {
	return &IPLocator{client: c, ip: ip}
}

// IPLocator определяет местоположение одного клиента по его IP
type IPLocator struct {
	client *Client
	ip     string
}

// Locate реализует autocomplete.Locator
func (l *IPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	return l.client.LocateIP(ctx, l.ip)
}

// ClientIP извлекает IP клиента из X-Forwarded-For, X-Real-IP или RemoteAddr
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// isPrivateIP проверяет, что IP локальный или loopback
func isPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast()
}
