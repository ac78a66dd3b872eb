package carousel

import (
	"errors"
	"sync"
	"time"
)

// AutoplayInterval is the delay between automatic advances.
const AutoplayInterval = 5 * time.Second

var ErrDisposed = errors.New("carousel: autoplay disposed")

// Ticker is the subset of *time.Ticker used by Autoplay.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Advancer is what autoplay drives; *Model satisfies it.
type Advancer interface {
	Next() int
}

type AutoplayOption func(*Autoplay)

func WithInterval(d time.Duration) AutoplayOption {
	return func(a *Autoplay) {
		if d > 0 {
			a.interval = d
		}
	}
}

func WithTicker(fn TickerFunc) AutoplayOption {
	return func(a *Autoplay) {
		if fn != nil {
			a.newTicker = fn
		}
	}
}

// WithOnAdvance registers a callback run after each automatic advance with
// the new position. It must not call back into the Autoplay.
func WithOnAdvance(fn func(int)) AutoplayOption {
	return func(a *Autoplay) {
		a.onAdvance = fn
	}
}

// Autoplay advances a carousel on a fixed interval. There is at most one
// live tick source: Start always tears down the previous one first.
type Autoplay struct {
	target    Advancer
	interval  time.Duration
	newTicker TickerFunc
	onAdvance func(int)

	mu       sync.Mutex
	stop     chan struct{}
	done     chan struct{}
	disposed bool
}

func NewAutoplay(target Advancer, opts ...AutoplayOption) (*Autoplay, error) {
	if target == nil {
		return nil, errors.New("carousel: autoplay target must not be nil")
	}
	a := &Autoplay{
		target:    target,
		interval:  AutoplayInterval,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Start (re)starts the timer.
func (a *Autoplay) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.disposed {
		return ErrDisposed
	}
	a.stopLocked()

	t := a.newTicker(a.interval)
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(t, a.stop, a.done)
	return nil
}

// Stop clears the timer. It is a no-op when autoplay is not running.
func (a *Autoplay) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Autoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

// PointerEnter suspends autoplay while the pointer hovers the carousel.
func (a *Autoplay) PointerEnter() {
	a.Stop()
}

// PointerLeave resumes autoplay.
func (a *Autoplay) PointerLeave() error {
	return a.Start()
}

// Dispose stops the timer for good. Later Start calls return ErrDisposed.
func (a *Autoplay) Dispose() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.disposed = true
}

func (a *Autoplay) stopLocked() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop = nil
	a.done = nil
}

func (a *Autoplay) run(t Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			idx := a.target.Next()
			if a.onAdvance != nil {
				a.onAdvance(idx)
			}
		}
	}
}
