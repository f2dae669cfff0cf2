package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// RedisClient подмножество команд redis, используемых кэшем
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Geocoder интерфейс сервиса геокодирования
type Geocoder interface {
	Suggest(ctx context.Context, text string) ([]domain.AddressCandidate, error)
	ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
