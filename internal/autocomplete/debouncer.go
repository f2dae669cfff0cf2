package autocomplete

import (
	"sync"
	"time"
)

// Debouncer откладывает вызов до паузы во входящих событиях
// Каждый Trigger отменяет предыдущий ожидающий таймер
type Debouncer struct {
	clock Clock
	delay time.Duration

	mu     sync.Mutex
	timer  Timer
	closed bool
}

// NewDebouncer создает debouncer с заданной задержкой
func NewDebouncer(clock Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Trigger перезапускает таймер; fn будет вызвана, если за delay не последует новый Trigger
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	var timer Timer
	timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || d.timer != timer {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
	d.timer = timer
}

// Cancel отменяет ожидающий вызов
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending true, если есть ожидающий вызов
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Close отменяет ожидающий вызов и запрещает новые
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
