// Package availability keeps the slot list of one wizard session in sync with
// the selected date and duration.
//
// Every Refresh bumps a generation counter and cancels the previous request;
// a response is applied only if its generation is still the latest one.
package availability

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Snapshot состояние списка слотов на момент чтения
type Snapshot struct {
	Key     domain.SlotKey
	Slots   []domain.TimeSlot
	Loading bool
}

// Fetcher загружает слоты для текущих (date, hours)
type Fetcher struct {
	provider Provider
	observer Observer
	logger   Logger
	timeout  time.Duration

	mu         sync.Mutex
	generation uint64
	key        domain.SlotKey
	slots      []domain.TimeSlot
	loading    bool
	cancel     context.CancelFunc
	closed     bool
	onChange   func()

	wg sync.WaitGroup
}

// NewFetcher создает новый fetcher; observer может быть nil
func NewFetcher(provider Provider, observer Observer, logger Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		provider: provider,
		observer: observer,
		logger:   logger,
		timeout:  timeout,
	}
}

// OnChange регистрирует колбэк, вызываемый после применения ответа (без удержания блокировки)
func (f *Fetcher) OnChange(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// DurationHours длительность, отправляемая в календарь: целые часы с округлением вверх
func DurationHours(hours float64) int {
	return int(math.Ceil(hours))
}

// Refresh запускает загрузку слотов для (date, hours)
// Предыдущий запрос отменяется, его ответ будет отброшен
func (f *Fetcher) Refresh(date time.Time, hours float64) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}

	f.generation++
	gen := f.generation
	if f.cancel != nil {
		f.cancel()
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if f.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), f.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	f.cancel = cancel
	f.key = domain.SlotKey{Date: date.Format(domain.DateFormat), Hours: hours}
	f.slots = nil
	f.loading = true
	f.wg.Add(1)
	f.mu.Unlock()

	go f.fetch(ctx, cancel, gen, date, DurationHours(hours))
}

// Clear сбрасывает список и отменяет запрос в полете (дата или часы не заданы)
func (f *Fetcher) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.key = domain.SlotKey{}
	f.slots = nil
	f.loading = false
}

func (f *Fetcher) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, date time.Time, durationHours int) {
	defer f.wg.Done()
	defer cancel()

	slots, err := f.provider.GetRealAvailability(ctx, date, durationHours)

	f.mu.Lock()
	if gen != f.generation {
		f.mu.Unlock()
		f.observe(OutcomeStale)
		f.logger.Info("Availability: dropped stale response for date=%s, duration=%d", date.Format(domain.DateFormat), durationHours)
		return
	}

	f.loading = false
	f.cancel = nil
	if err != nil {
		f.slots = nil
	} else {
		f.slots = append([]domain.TimeSlot(nil), slots...)
	}
	onChange := f.onChange
	f.mu.Unlock()

	if err != nil {
		f.observe(OutcomeError)
		f.logger.Error("Availability: failed to get slots for date=%s, duration=%d: %v", date.Format(domain.DateFormat), durationHours, err)
	} else {
		f.observe(OutcomeOK)
	}

	if onChange != nil {
		onChange()
	}
}

// Snapshot возвращает копию текущего состояния
func (f *Fetcher) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		Key:     f.key,
		Slots:   append([]domain.TimeSlot(nil), f.slots...),
		Loading: f.loading,
	}
}

// Lookup ищет слот по времени начала в последнем списке для key
func (f *Fetcher) Lookup(key domain.SlotKey, start string) (domain.TimeSlot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loading || f.key != key {
		return domain.TimeSlot{}, false
	}
	for _, slot := range f.slots {
		if slot.Start.String() == start {
			return slot, true
		}
	}
	return domain.TimeSlot{}, false
}

// Contains проверяет, что слот присутствует в последнем списке для key
func (f *Fetcher) Contains(key domain.SlotKey, start string) bool {
	_, ok := f.Lookup(key, start)
	return ok
}

// Wait ждет завершения всех запросов в полете
func (f *Fetcher) Wait() {
	f.wg.Wait()
}

// Close отменяет запрос в полете и запрещает новые
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.key = domain.SlotKey{}
	f.slots = nil
	f.loading = false
	f.mu.Unlock()

	f.wg.Wait()
}

func (f *Fetcher) observe(outcome string) {
	if f.observer != nil {
		f.observer.ObserveAvailability(outcome)
	}
}
