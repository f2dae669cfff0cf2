package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_ADDR", "REDIS_PASSWORD", "STRIPE_SECRET_KEY", "GOOGLE_API_KEY",
		"LOG_LEVEL", "HTTP_PORT",
	} {
		t.Setenv(name, "")
	}
}

const minimalConfig = `
[database]
user = "postgres"
dbname = "cleaning"

[[catalog]]
id = "standard-home"
title = "Standard Home Clean"
hourly_rate = "50.00"
recommended_hours = 3

[[catalog]]
id = "office"
title = "Office Cleaning"
hourly_rate = "65"
category = "Office"

[[catalog]]
id = "windows"
title = "Windows"
hourly_rate = "40"
disabled = true
`

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5.0, cfg.Server.AddressRateLimit)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "sandbox", cfg.Payment.Provider)
	assert.Equal(t, domain.Currency, cfg.Payment.Currency)
	assert.Equal(t, "bookings", cfg.Queue.Name)
	assert.Equal(t, 3, cfg.Wizard.AddressMinChars)
	assert.Equal(t, domain.DefaultSlotStepMinutes, cfg.Calendar.SlotStepMinutes)
	assert.Equal(t, domain.DefaultMinBookingNoticeMinutes, cfg.Calendar.MinBookingNoticeMinutes)
	assert.Len(t, cfg.Calendar.Hours, 6)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	cfg, err := Load(writeConfig(t, minimalConfig+`
[payment]
provider = "stripe"
`))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "sk_test_123", cfg.Payment.SecretKey)
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantMsg string
	}{
		{
			name:    "stripe without secret key",
			extra:   "[payment]\nprovider = \"stripe\"\n",
			wantMsg: "payment.secret_key",
		},
		{
			name:    "unknown payment provider",
			extra:   "[payment]\nprovider = \"paypal\"\n",
			wantMsg: "not supported",
		},
		{
			name:    "queue without redis",
			extra:   "[queue]\nenabled = true\n",
			wantMsg: "queue requires redis",
		},
		{
			name:    "unknown timezone",
			extra:   "[wizard]\ntimezone = \"Mars/Olympus\"\n",
			wantMsg: "wizard.timezone",
		},
		{
			name:    "unknown weekday",
			extra:   "[calendar.hours]\nfunday = { open = \"08:00\", close = \"18:00\" }\n",
			wantMsg: "unknown weekday",
		},
		{
			name:    "open after close",
			extra:   "[calendar.hours]\nmonday = { open = \"18:00\", close = \"08:00\" }\n",
			wantMsg: "open must be before close",
		},
		{
			name:    "duplicate catalog id",
			extra:   "[[catalog]]\nid = \"office\"\ntitle = \"Again\"\nhourly_rate = \"10\"\n",
			wantMsg: "duplicate id",
		},
		{
			name:    "bad hourly rate",
			extra:   "[[catalog]]\nid = \"bad\"\ntitle = \"Bad\"\nhourly_rate = \"abc\"\n",
			wantMsg: "hourly_rate",
		},
		{
			name:    "unknown category",
			extra:   "[[catalog]]\nid = \"car\"\ntitle = \"Car wash\"\nhourly_rate = \"10\"\ncategory = \"car\"\n",
			wantMsg: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(writeConfig(t, minimalConfig+tt.extra))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCalendarConfig_ToDomain(t *testing.T) {
	c := CalendarConfig{
		SlotStepMinutes: 30,
		Crews:           2,
		Hours: map[string]DayHours{
			"Monday": {Open: "08:00", Close: "12:00"},
			"sunday": {},
		},
	}

	cal := c.ToDomain()

	assert.Equal(t, 30, cal.SlotStepMinutes)
	assert.Equal(t, 2, cal.Crews)

	monday := cal.Schedule[time.Monday]
	assert.True(t, monday.IsOpen)
	assert.Equal(t, "08:00", monday.OpenTime.String())
	assert.False(t, cal.Schedule[time.Sunday].IsOpen)
}

func TestConfig_CatalogServices(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	services := cfg.CatalogServices()
	require.Len(t, services, 3)

	assert.Equal(t, domain.CategoryHome, services[0].Category)
	assert.Equal(t, "50", services[0].HourlyRate.String())
	assert.True(t, services[0].IsActive)

	assert.Equal(t, domain.CategoryOffice, services[1].Category)
	assert.False(t, services[2].IsActive)
}

func TestConfig_WizardSettings(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, minimalConfig+`
[wizard]
timezone = "America/Toronto"
session_ttl = 45
address_debounce_ms = 250
`))
	require.NoError(t, err)

	settings := cfg.WizardSettings()

	assert.Equal(t, 45*time.Minute, settings.SessionTTL)
	assert.Equal(t, 250*time.Millisecond, settings.Address.Debounce)
	assert.Equal(t, 3, settings.Address.MinChars)
	assert.Equal(t, "America/Toronto", settings.Location.String())
	assert.Equal(t, domain.Currency, settings.Currency)
	assert.Equal(t, 30*time.Second, settings.PaymentTimeout)
}
