package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-CleaningBooking/internal/autocomplete"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Redis      RedisConfig      `toml:"redis"`
	Queue      QueueConfig      `toml:"queue"`
	Payment    PaymentConfig    `toml:"payment"`
	Geocoding  GeocodingConfig  `toml:"geocoding"`
	IPLocation IPLocationConfig `toml:"iplocation"`
	Wizard     WizardConfig     `toml:"wizard"`
	Calendar   CalendarConfig   `toml:"calendar"`
	Catalog    []CatalogEntry   `toml:"catalog"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`

	// Ограничение частоты запросов к адресным эндпоинтам (на IP)
	AddressRateLimit float64 `toml:"address_rate_limit"`
	AddressRateBurst int     `toml:"address_rate_burst"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки redis (кэш подсказок и очередь)
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	CacheDB  int    `toml:"cache_db"`
	QueueDB  int    `toml:"queue_db"`
	CacheTTL int    `toml:"cache_ttl"` // секунды
}

// QueueConfig настройки очереди повторного сохранения
type QueueConfig struct {
	Enabled     bool   `toml:"enabled"`
	Name        string `toml:"name"`
	Concurrency int    `toml:"concurrency"`
	MaxRetry    int    `toml:"max_retry"`
	RetryDelay  int    `toml:"retry_delay"` // секунды
}

// PaymentConfig настройки платежного шлюза
type PaymentConfig struct {
	Provider   string `toml:"provider"` // stripe или sandbox
	SecretKey  string `toml:"secret_key"`
	BackendURL string `toml:"backend_url"`
	Timeout    int    `toml:"timeout"` // секунды
	Currency   string `toml:"currency"`
}

// GeocodingConfig настройки геокодирования
type GeocodingConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Country  string `toml:"country"`
	Language string `toml:"language"`
	Timeout  int    `toml:"timeout"` // секунды
}

// IPLocationConfig настройки определения местоположения по IP
type IPLocationConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Timeout int    `toml:"timeout"` // секунды
}

// WizardConfig настройки сессий мастера
type WizardConfig struct {
	CompanyName         string `toml:"company_name"`
	Timezone            string `toml:"timezone"`
	SessionTTL          int    `toml:"session_ttl"`          // минуты
	JanitorInterval     int    `toml:"janitor_interval"`     // секунды
	AvailabilityTimeout int    `toml:"availability_timeout"` // секунды
	PaymentTimeout      int    `toml:"payment_timeout"`      // секунды
	SaveTimeout         int    `toml:"save_timeout"`         // секунды
	AddressDebounceMs   int    `toml:"address_debounce_ms"`
	AddressMinChars     int    `toml:"address_min_chars"`
	AddressMaxResults   int    `toml:"address_max_results"`
	AddressTimeout      int    `toml:"address_timeout"` // секунды
}

// CalendarConfig рабочие часы бригад
type CalendarConfig struct {
	SlotStepMinutes         int                 `toml:"slot_step_minutes"`
	Crews                   int                 `toml:"crews"`
	AdvanceBookingDays      int                 `toml:"advance_booking_days"`
	MinBookingNoticeMinutes int                 `toml:"min_booking_notice_minutes"`
	Hours                   map[string]DayHours `toml:"hours"`
}

// DayHours рабочие часы дня; пустые значения = выходной
type DayHours struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// CatalogEntry услуга каталога
type CatalogEntry struct {
	ID               string  `toml:"id"`
	Title            string  `toml:"title"`
	Description      string  `toml:"description"`
	HourlyRate       string  `toml:"hourly_rate"`
	RecommendedHours float64 `toml:"recommended_hours"`
	Category         string  `toml:"category"`
	Disabled         bool    `toml:"disabled"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Load загружает .env (если есть), конфигурацию из TOML файла и переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv переопределяет секреты и адреса из переменных окружения
func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_HOST":           &c.Database.Host,
		"DB_USER":           &c.Database.User,
		"DB_PASSWORD":       &c.Database.Password,
		"DB_NAME":           &c.Database.DBName,
		"REDIS_ADDR":        &c.Redis.Addr,
		"REDIS_PASSWORD":    &c.Redis.Password,
		"STRIPE_SECRET_KEY": &c.Payment.SecretKey,
		"GOOGLE_API_KEY":    &c.Geocoding.APIKey,
		"LOG_LEVEL":         &c.Logs.Level,
	}
	for env, target := range overrides {
		if value, ok := os.LookupEnv(env); ok && value != "" {
			*target = value
		}
	}

	if value, ok := os.LookupEnv("HTTP_PORT"); ok {
		if port, err := strconv.Atoi(value); err == nil {
			c.Server.HTTPPort = port
		}
	}
	if value, ok := os.LookupEnv("DB_PORT"); ok {
		if port, err := strconv.Atoi(value); err == nil {
			c.Database.Port = port
		}
	}
}

// applyDefaults заполняет незаданные значения
func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 15)
	setInt(&c.Server.WriteTimeout, 30)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)
	if c.Server.AddressRateLimit <= 0 {
		c.Server.AddressRateLimit = 5
	}
	setInt(&c.Server.AddressRateBurst, 10)

	setString(&c.Database.Host, "localhost")
	setInt(&c.Database.Port, 5432)
	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 25)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.Path, "/metrics")
	setString(&c.Metrics.ServiceName, "cleaning-booking")

	setString(&c.Redis.Addr, "localhost:6379")
	setInt(&c.Redis.QueueDB, 1)
	setInt(&c.Redis.CacheTTL, 24*60*60)

	setString(&c.Queue.Name, "bookings")
	setInt(&c.Queue.Concurrency, 5)
	setInt(&c.Queue.MaxRetry, 10)
	setInt(&c.Queue.RetryDelay, 30)

	setString(&c.Payment.Provider, "sandbox")
	setInt(&c.Payment.Timeout, 20)
	setString(&c.Payment.Currency, domain.Currency)

	setString(&c.Geocoding.Country, "ca")
	setString(&c.Geocoding.Language, "en")
	setInt(&c.Geocoding.Timeout, 3)

	setInt(&c.IPLocation.Timeout, 3)

	setString(&c.Wizard.CompanyName, "Cleaning Co.")
	setString(&c.Wizard.Timezone, "America/Toronto")
	setInt(&c.Wizard.SessionTTL, 60)
	setInt(&c.Wizard.JanitorInterval, 60)
	setInt(&c.Wizard.AvailabilityTimeout, 10)
	setInt(&c.Wizard.PaymentTimeout, 30)
	setInt(&c.Wizard.SaveTimeout, 10)
	setInt(&c.Wizard.AddressDebounceMs, 300)
	setInt(&c.Wizard.AddressMinChars, 3)
	setInt(&c.Wizard.AddressMaxResults, 5)
	setInt(&c.Wizard.AddressTimeout, 5)

	setInt(&c.Calendar.SlotStepMinutes, domain.DefaultSlotStepMinutes)
	setInt(&c.Calendar.Crews, domain.DefaultCrews)
	if c.Calendar.MinBookingNoticeMinutes == 0 {
		c.Calendar.MinBookingNoticeMinutes = domain.DefaultMinBookingNoticeMinutes
	}
	if len(c.Calendar.Hours) == 0 {
		c.Calendar.Hours = map[string]DayHours{
			"monday":    {Open: "08:00", Close: "18:00"},
			"tuesday":   {Open: "08:00", Close: "18:00"},
			"wednesday": {Open: "08:00", Close: "18:00"},
			"thursday":  {Open: "08:00", Close: "18:00"},
			"friday":    {Open: "08:00", Close: "18:00"},
			"saturday":  {Open: "09:00", Close: "15:00"},
		}
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be between 1 and 65535")
	}

	switch c.Payment.Provider {
	case "sandbox":
	case "stripe":
		if c.Payment.SecretKey == "" {
			problems = append(problems, "payment.secret_key (or STRIPE_SECRET_KEY) is required for stripe")
		}
	default:
		problems = append(problems, fmt.Sprintf("payment.provider %q is not supported", c.Payment.Provider))
	}

	if c.Queue.Enabled && !c.Redis.Enabled {
		problems = append(problems, "queue requires redis to be enabled")
	}

	if _, err := time.LoadLocation(c.Wizard.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("wizard.timezone: %v", err))
	}

	if c.Calendar.SlotStepMinutes <= 0 || c.Calendar.SlotStepMinutes > 240 {
		problems = append(problems, "calendar.slot_step_minutes must be between 1 and 240")
	}
	if c.Calendar.Crews <= 0 || c.Calendar.Crews > 100 {
		problems = append(problems, "calendar.crews must be between 1 and 100")
	}
	if c.Calendar.AdvanceBookingDays < 0 || c.Calendar.AdvanceBookingDays > 365 {
		problems = append(problems, "calendar.advance_booking_days must be between 0 and 365")
	}
	if c.Calendar.MinBookingNoticeMinutes < 0 || c.Calendar.MinBookingNoticeMinutes > 10080 {
		problems = append(problems, "calendar.min_booking_notice_minutes must be between 0 and 10080")
	}
	if _, err := c.Calendar.Schedule(); err != nil {
		problems = append(problems, err.Error())
	}

	seen := make(map[string]bool, len(c.Catalog))
	for i, entry := range c.Catalog {
		if entry.ID == "" {
			problems = append(problems, fmt.Sprintf("catalog[%d].id is required", i))
			continue
		}
		if seen[entry.ID] {
			problems = append(problems, fmt.Sprintf("catalog[%d]: duplicate id %q", i, entry.ID))
		}
		seen[entry.ID] = true
		if _, err := entry.toDomain(); err != nil {
			problems = append(problems, fmt.Sprintf("catalog[%d]: %v", i, err))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Schedule конвертирует рабочие часы в domain.WeeklySchedule
func (c CalendarConfig) Schedule() (domain.WeeklySchedule, error) {
	schedule := make(domain.WeeklySchedule, len(c.Hours))
	for name, hours := range c.Hours {
		weekday, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("calendar.hours: unknown weekday %q", name)
		}
		if hours.Open == "" && hours.Close == "" {
			schedule[weekday] = domain.DaySchedule{IsOpen: false}
			continue
		}

		open, err := types.NewTimeStringFromString(hours.Open)
		if err != nil {
			return nil, fmt.Errorf("calendar.hours.%s.open: %w", name, err)
		}
		closeTime, err := types.NewTimeStringFromString(hours.Close)
		if err != nil {
			return nil, fmt.Errorf("calendar.hours.%s.close: %w", name, err)
		}
		if !open.IsBefore(closeTime) {
			return nil, fmt.Errorf("calendar.hours.%s: open must be before close", name)
		}

		schedule[weekday] = domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: closeTime}
	}
	return schedule, nil
}

// ToDomain конвертирует настройки календаря (вызывать после Validate)
func (c CalendarConfig) ToDomain() domain.CalendarConfig {
	schedule, _ := c.Schedule()
	return domain.CalendarConfig{
		Schedule:                schedule,
		SlotStepMinutes:         c.SlotStepMinutes,
		Crews:                   c.Crews,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
	}
}

// CatalogServices услуги каталога из конфигурации (вызывать после Validate)
func (c *Config) CatalogServices() []*domain.ServiceType {
	services := make([]*domain.ServiceType, 0, len(c.Catalog))
	for _, entry := range c.Catalog {
		service, err := entry.toDomain()
		if err != nil {
			continue
		}
		services = append(services, service)
	}
	return services
}

func (e CatalogEntry) toDomain() (*domain.ServiceType, error) {
	rate, err := decimal.NewFromString(e.HourlyRate)
	if err != nil {
		return nil, fmt.Errorf("hourly_rate %q: %w", e.HourlyRate, err)
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("hourly_rate must be positive")
	}

	category := domain.ServiceCategory(strings.ToLower(e.Category))
	if category == "" {
		category = domain.CategoryHome
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("unknown category %q", e.Category)
	}

	return &domain.ServiceType{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		HourlyRate:       rate,
		RecommendedHours: e.RecommendedHours,
		Category:         category,
		IsActive:         !e.Disabled,
	}, nil
}

// WizardSettings настройки сессий мастера (вызывать после Validate)
func (c *Config) WizardSettings() wizard.Config {
	location, err := time.LoadLocation(c.Wizard.Timezone)
	if err != nil {
		location = time.UTC
	}

	return wizard.Config{
		SessionTTL:          time.Duration(c.Wizard.SessionTTL) * time.Minute,
		AvailabilityTimeout: time.Duration(c.Wizard.AvailabilityTimeout) * time.Second,
		PaymentTimeout:      time.Duration(c.Wizard.PaymentTimeout) * time.Second,
		SaveTimeout:         time.Duration(c.Wizard.SaveTimeout) * time.Second,
		Location:            location,
		Currency:            c.Payment.Currency,
		Address: autocomplete.Config{
			Debounce:      time.Duration(c.Wizard.AddressDebounceMs) * time.Millisecond,
			MinChars:      c.Wizard.AddressMinChars,
			LookupTimeout: time.Duration(c.Wizard.AddressTimeout) * time.Second,
			MaxResults:    c.Wizard.AddressMaxResults,
		},
	}
}

func setInt(target *int, value int) {
	if *target == 0 {
		*target = value
	}
}

func setString(target *string, value string) {
	if *target == "" {
		*target = value
	}
}
