package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/logger"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

type call struct {
	date     time.Time
	duration int
	release  chan struct{}
	slots    []domain.TimeSlot
	err      error
}

// gatedProvider отвечает только после закрытия release соответствующего вызова
type gatedProvider struct {
	mu      sync.Mutex
	calls   []*call
	started chan *call
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{started: make(chan *call, 16)}
}

func (p *gatedProvider) GetRealAvailability(ctx context.Context, date time.Time, durationHours int) ([]domain.TimeSlot, error) {
	c := &call{date: date, duration: durationHours, release: make(chan struct{})}
	p.mu.Lock()
	p.calls = append(p.calls, c)
	p.mu.Unlock()
	p.started <- c

	<-c.release
	return c.slots, c.err
}

type countingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (o *countingObserver) ObserveAvailability(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.outcomes == nil {
		o.outcomes = map[string]int{}
	}
	o.outcomes[outcome]++
}

func (o *countingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

func slot(start, end string) domain.TimeSlot {
	return domain.TimeSlot{Start: types.TimeString(start), End: types.TimeString(end), Available: true}
}

func date(day int) time.Time {
	return time.Date(2030, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestFetcher_StaleResponseIsDropped(t *testing.T) {
	provider := newGatedProvider()
	observer := &countingObserver{}
	fetcher := NewFetcher(provider, observer, logger.NewNop(), 0)
	defer fetcher.Close()

	fetcher.Refresh(date(10), 2.5)
	first := <-provider.started
	fetcher.Refresh(date(11), 2.5)
	second := <-provider.started

	// второй запрос отвечает первым, первый отвечает позже
	second.slots = []domain.TimeSlot{slot("09:00", "12:00")}
	close(second.release)
	first.slots = []domain.TimeSlot{slot("13:00", "16:00")}
	close(first.release)
	fetcher.Wait()

	snapshot := fetcher.Snapshot()
	assert.False(t, snapshot.Loading)
	assert.Equal(t, domain.SlotKey{Date: "2030-03-11", Hours: 2.5}, snapshot.Key)
	require.Len(t, snapshot.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), snapshot.Slots[0].Start)

	assert.Equal(t, 1, observer.count(OutcomeOK))
	assert.Equal(t, 1, observer.count(OutcomeStale))
}

func TestFetcher_StaleResponseAfterLatestFailure(t *testing.T) {
	provider := newGatedProvider()
	fetcher := NewFetcher(provider, nil, logger.NewNop(), 0)
	defer fetcher.Close()

	fetcher.Refresh(date(10), 2)
	first := <-provider.started
	fetcher.Refresh(date(10), 3)
	second := <-provider.started

	second.err = errors.New("calendar down")
	close(second.release)
	first.slots = []domain.TimeSlot{slot("09:00", "11:00")}
	close(first.release)
	fetcher.Wait()

	snapshot := fetcher.Snapshot()
	assert.Empty(t, snapshot.Slots)
	assert.False(t, snapshot.Loading)
}

func TestFetcher_SendsWholeHours(t *testing.T) {
	provider := newGatedProvider()
	fetcher := NewFetcher(provider, nil, logger.NewNop(), 0)
	defer fetcher.Close()

	fetcher.Refresh(date(12), 2.5)
	c := <-provider.started
	assert.Equal(t, 3, c.duration)

	assert.True(t, fetcher.Snapshot().Loading)
	close(c.release)
	fetcher.Wait()
}

func TestFetcher_Contains(t *testing.T) {
	provider := newGatedProvider()
	fetcher := NewFetcher(provider, nil, logger.NewNop(), 0)
	defer fetcher.Close()

	fetcher.Refresh(date(12), 4)
	c := <-provider.started
	key := domain.SlotKey{Date: "2030-03-12", Hours: 4}

	// пока запрос в полете, список пуст
	assert.False(t, fetcher.Contains(key, "09:00"))

	c.slots = []domain.TimeSlot{slot("09:00", "13:00")}
	close(c.release)
	fetcher.Wait()

	assert.True(t, fetcher.Contains(key, "09:00"))
	assert.False(t, fetcher.Contains(key, "10:00"))
	assert.False(t, fetcher.Contains(domain.SlotKey{Date: "2030-03-12", Hours: 3.5}, "09:00"))
}

func TestFetcher_ClearDropsInFlight(t *testing.T) {
	provider := newGatedProvider()
	fetcher := NewFetcher(provider, nil, logger.NewNop(), 0)
	defer fetcher.Close()

	fetcher.Refresh(date(12), 4)
	c := <-provider.started
	fetcher.Clear()

	c.slots = []domain.TimeSlot{slot("09:00", "13:00")}
	close(c.release)
	fetcher.Wait()

	snapshot := fetcher.Snapshot()
	assert.Empty(t, snapshot.Slots)
	assert.True(t, snapshot.Key.IsZero())
}

func TestFetcher_OnChange(t *testing.T) {
	provider := newGatedProvider()
	fetcher := NewFetcher(provider, nil, logger.NewNop(), 0)
	defer fetcher.Close()

	changed := make(chan struct{}, 1)
	fetcher.OnChange(func() { changed <- struct{}{} })

	fetcher.Refresh(date(12), 2)
	c := <-provider.started
	close(c.release)

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("OnChange was not called")
	}
	fetcher.Wait()
}

type ctxProvider struct{}

func (ctxProvider) GetRealAvailability(ctx context.Context, _ time.Time, _ int) ([]domain.TimeSlot, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestFetcher_CloseCancelsInFlight(t *testing.T) {
	fetcher := NewFetcher(ctxProvider{}, nil, logger.NewNop(), 0)
	fetcher.Refresh(date(12), 2)

	done := make(chan struct{})
	go func() {
		fetcher.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the in-flight request")
	}

	fetcher.Refresh(date(13), 2)
	assert.True(t, fetcher.Snapshot().Key.IsZero())
}
