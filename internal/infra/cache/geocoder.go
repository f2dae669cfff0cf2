package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

const (
	suggestKeyPrefix = "geocode:suggest:"
	reverseKeyPrefix = "geocode:reverse:"
)

// CachedGeocoder кэширует ответы геокодера в redis
// Ошибки redis не влияют на результат: запрос уходит в геокодер
type CachedGeocoder struct {
	next   Geocoder
	redis  RedisClient
	ttl    time.Duration
	logger Logger
}

// NewCachedGeocoder создает кэширующую обертку над геокодером
func NewCachedGeocoder(next Geocoder, client RedisClient, ttl time.Duration, logger Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: logger,
	}
}

// Suggest возвращает подсказки из кэша или из геокодера
func (c *CachedGeocoder) Suggest(ctx context.Context, text string) ([]domain.AddressCandidate, error) {
	key := suggestKey(text)

	raw, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var candidates []domain.AddressCandidate
		if err := json.Unmarshal(raw, &candidates); err == nil {
			return candidates, nil
		}
		c.logger.Warn("CachedGeocoder: corrupted entry %s", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("CachedGeocoder: redis get %s failed: %v", key, err)
	}

	candidates, err := c.next.Suggest(ctx, text)
	if err != nil {
		return nil, err
	}

	c.store(ctx, key, candidates)
	return candidates, nil
}

// ReverseGeocode возвращает адрес из кэша или из геокодера
func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	key := reverseKey(coords)

	address, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil && address != "":
		return address, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("CachedGeocoder: redis get %s failed: %v", key, err)
	}

	address, err = c.next.ReverseGeocode(ctx, coords)
	if err != nil {
		return "", err
	}

	if err := c.redis.Set(ctx, key, address, c.ttl).Err(); err != nil {
		c.logger.Warn("CachedGeocoder: redis set %s failed: %v", key, err)
	}
	return address, nil
}

func (c *CachedGeocoder) store(ctx context.Context, key string, candidates []domain.AddressCandidate) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		c.logger.Error("CachedGeocoder: failed to encode %s: %v", key, err)
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("CachedGeocoder: redis set %s failed: %v", key, err)
	}
}

// suggestKey нормализует текст: регистр и повторные пробелы не влияют на ключ
func suggestKey(text string) string {
	return suggestKeyPrefix + strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// reverseKey округляет координаты до ~11 метров
func reverseKey(coords domain.Coordinates) string {
	return fmt.Sprintf("%s%.4f,%.4f", reverseKeyPrefix, coords.Latitude, coords.Longitude)
}
