// Package autocomplete implements debounced address suggestions and the
// one-shot "use current location" fill for a wizard session.
package autocomplete

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// Config настройки автодополнения
type Config struct {
	Debounce      time.Duration
	MinChars      int
	LookupTimeout time.Duration
	MaxResults    int
}

// State состояние автодополнения для отображения
type State struct {
	Text          string
	Suggestions   []domain.AddressCandidate
	Visible       bool
	Loading       bool
	Error         string
	Locating      bool
	LocateError   string
	LookupsIssued int
}

// Autocomplete подсказки адреса одной сессии
type Autocomplete struct {
	geocoder  Geocoder
	observer  Observer
	logger    Logger
	debouncer *Debouncer
	cfg       Config

	mu          sync.Mutex
	generation  uint64
	text        string
	suggestions []domain.AddressCandidate
	visible     bool
	loading     bool
	lookupErr   string
	locating    bool
	locateErr   string
	issued      int
	cancel      context.CancelFunc
	closed      bool
	onChange    func()

	wg sync.WaitGroup
}

// New создает автодополнение; observer может быть nil
func New(geocoder Geocoder, clock Clock, observer Observer, logger Logger, cfg Config) *Autocomplete {
	return &Autocomplete{
		geocoder:  geocoder,
		observer:  observer,
		logger:    logger,
		debouncer: NewDebouncer(clock, cfg.Debounce),
		cfg:       cfg,
	}
}

// OnChange регистрирует колбэк, вызываемый после применения ответа геокодера
func (a *Autocomplete) OnChange(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// Type обрабатывает ввод в поле адреса
// Перезапускает таймер; запрос уйдет только после паузы во вводе
func (a *Autocomplete) Type(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.text = text
	a.generation++
	a.cancelLookupLocked()
	a.lookupErr = ""

	if len([]rune(strings.TrimSpace(text))) < a.cfg.MinChars {
		a.debouncer.Cancel()
		a.suggestions = nil
		a.visible = false
		return
	}

	gen := a.generation
	a.debouncer.Trigger(func() {
		a.lookup(gen, text)
	})
}

func (a *Autocomplete) lookup(gen uint64, text string) {
	a.mu.Lock()
	if a.closed || gen != a.generation {
		a.mu.Unlock()
		return
	}

	ctx, cancel := a.newContext()
	a.cancel = cancel
	a.loading = true
	a.issued++
	a.wg.Add(1)
	a.mu.Unlock()

	defer a.wg.Done()
	defer cancel()

	suggestions, err := a.geocoder.Suggest(ctx, text)

	a.mu.Lock()
	if gen != a.generation {
		a.mu.Unlock()
		a.observe(KindSuggest, OutcomeStale)
		return
	}

	a.loading = false
	a.cancel = nil
	if err != nil {
		a.suggestions = nil
		a.visible = false
		a.lookupErr = msgLookupFailed
	} else {
		if a.cfg.MaxResults > 0 && len(suggestions) > a.cfg.MaxResults {
			suggestions = suggestions[:a.cfg.MaxResults]
		}
		a.suggestions = append([]domain.AddressCandidate(nil), suggestions...)
		a.visible = len(a.suggestions) > 0
		a.lookupErr = ""
	}
	onChange := a.onChange
	a.mu.Unlock()

	if err != nil {
		a.observe(KindSuggest, OutcomeError)
		a.logger.Warn("Autocomplete: failed to get suggestions for %q: %v", text, err)
	} else {
		a.observe(KindSuggest, OutcomeOK)
	}

	if onChange != nil {
		onChange()
	}
}

// Select выбирает подсказку: заполняет адрес и скрывает список
func (a *Autocomplete) Select(index int) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return "", ErrClosed
	}
	if !a.visible || index < 0 || index >= len(a.suggestions) {
		return "", fmt.Errorf("%w: index %d", ErrSuggestionNotFound, index)
	}

	address := a.suggestions[index].Description
	a.generation++
	a.debouncer.Cancel()
	a.cancelLookupLocked()
	a.text = address
	a.suggestions = nil
	a.visible = false
	a.loading = false
	a.lookupErr = ""

	return address, nil
}

// UseCurrentLocation определяет адрес по текущему местоположению
// Имеет собственный флаг загрузки и ошибку, независимые от подсказок
func (a *Autocomplete) UseCurrentLocation(ctx context.Context, locator Locator) (string, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return "", ErrClosed
	}
	if a.locating {
		a.mu.Unlock()
		return "", ErrLocateInProgress
	}
	a.locating = true
	a.locateErr = ""
	a.mu.Unlock()

	address, err := a.locate(ctx, locator)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.locating = false
	if err != nil {
		a.locateErr = msgLocateFailed
		a.observe(KindLocate, OutcomeError)
		a.logger.Warn("Autocomplete: failed to use current location: %v", err)
		return "", fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}
	a.observe(KindLocate, OutcomeOK)

	// ручной ввод после нажатия кнопки не перетирается
	a.generation++
	a.debouncer.Cancel()
	a.cancelLookupLocked()
	a.text = address
	a.suggestions = nil
	a.visible = false
	a.loading = false

	return address, nil
}

func (a *Autocomplete) locate(ctx context.Context, locator Locator) (string, error) {
	if locator == nil {
		return "", errors.New("no locator available")
	}
	if a.cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.LookupTimeout)
		defer cancel()
	}

	coords, err := locator.Locate(ctx)
	if err != nil {
		return "", fmt.Errorf("locate: %w", err)
	}
	address, err := a.geocoder.ReverseGeocode(ctx, coords)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if strings.TrimSpace(address) == "" {
		return "", errors.New("reverse geocode: empty address")
	}
	return address, nil
}

// State возвращает копию состояния
func (a *Autocomplete) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return State{
		Text:          a.text,
		Suggestions:   append([]domain.AddressCandidate(nil), a.suggestions...),
		Visible:       a.visible,
		Loading:       a.loading,
		Error:         a.lookupErr,
		Locating:      a.locating,
		LocateError:   a.locateErr,
		LookupsIssued: a.issued,
	}
}

// Wait ждет завершения запросов в полете
func (a *Autocomplete) Wait() {
	a.wg.Wait()
}

// Close отменяет таймер и запросы в полете
func (a *Autocomplete) Close() {
	a.mu.Lock()
	a.closed = true
	a.generation++
	a.cancelLookupLocked()
	a.mu.Unlock()

	a.debouncer.Close()
	a.wg.Wait()
}

func (a *Autocomplete) newContext() (context.Context, context.CancelFunc) {
	if a.cfg.LookupTimeout > 0 {
		return context.WithTimeout(context.Background(), a.cfg.LookupTimeout)
	}
	return context.WithCancel(context.Background())
}

func (a *Autocomplete) cancelLookupLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.loading = false
}

func (a *Autocomplete) observe(kind, outcome string) {
	if a.observer != nil {
		a.observer.ObserveAddressLookup(kind, outcome)
	}
}
