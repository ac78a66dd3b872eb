package carousel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type tickerFactory struct {
	mu        sync.Mutex
	tickers   []*fakeTicker
	intervals []time.Duration
}

func (f *tickerFactory) new(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	f.intervals = append(f.intervals, d)
	return t
}

func (f *tickerFactory) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func (f *tickerFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func newAutoplay(t *testing.T, m *Model) (*Autoplay, *tickerFactory, chan int) {
	t.Helper()
	factory := &tickerFactory{}
	advanced := make(chan int, 16)
	a, err := NewAutoplay(m,
		WithTicker(factory.new),
		WithOnAdvance(func(i int) { advanced <- i }),
	)
	require.NoError(t, err)
	t.Cleanup(a.Dispose)
	return a, factory, advanced
}

func waitAdvance(t *testing.T, advanced <-chan int) int {
	t.Helper()
	select {
	case i := <-advanced:
		return i
	case <-time.After(2 * time.Second):
		t.Fatal("autoplay did not advance")
		return -1
	}
}

func TestNewAutoplay_NilTarget(t *testing.T) {
	_, err := NewAutoplay(nil)
	require.Error(t, err)
}

func TestAutoplay_AdvancesOnTick(t *testing.T) {
	m, _ := newModel(t, 4, 1024)
	a, factory, advanced := newAutoplay(t, m)

	require.NoError(t, a.Start())
	require.True(t, a.Running())
	require.Equal(t, []time.Duration{AutoplayInterval}, factory.intervals)

	tk := factory.last()
	tk.ch <- time.Now()
	require.Equal(t, 1, waitAdvance(t, advanced))
	tk.ch <- time.Now()
	require.Equal(t, 2, waitAdvance(t, advanced))
	tk.ch <- time.Now()
	require.Equal(t, 0, waitAdvance(t, advanced))
}

func TestAutoplay_StartReplacesPreviousTimer(t *testing.T) {
	m, _ := newModel(t, 4, 500)
	a, factory, advanced := newAutoplay(t, m)

	require.NoError(t, a.Start())
	first := factory.last()
	require.NoError(t, a.Start())

	require.Equal(t, 2, factory.count())
	require.True(t, first.isStopped())

	factory.last().ch <- time.Now()
	require.Equal(t, 1, waitAdvance(t, advanced))
	require.Equal(t, 1, m.Current())
}

func TestAutoplay_PointerHoverPausesAndResumes(t *testing.T) {
	m, _ := newModel(t, 4, 500)
	a, factory, advanced := newAutoplay(t, m)

	require.NoError(t, a.Start())
	hovered := factory.last()

	a.PointerEnter()
	require.False(t, a.Running())
	require.True(t, hovered.isStopped())

	select {
	case hovered.ch <- time.Now():
		t.Fatal("stopped autoplay still receiving ticks")
	case <-time.After(50 * time.Millisecond):
	}
	require.Equal(t, 0, m.Current())

	require.NoError(t, a.PointerLeave())
	require.True(t, a.Running())
	factory.last().ch <- time.Now()
	require.Equal(t, 1, waitAdvance(t, advanced))
}

func TestAutoplay_StopWhenIdle(t *testing.T) {
	m, _ := newModel(t, 4, 500)
	a, factory, _ := newAutoplay(t, m)

	a.Stop()
	a.PointerEnter()
	require.False(t, a.Running())
	require.Equal(t, 0, factory.count())
}

func TestAutoplay_Dispose(t *testing.T) {
	m, _ := newModel(t, 4, 500)
	a, factory, _ := newAutoplay(t, m)

	require.NoError(t, a.Start())
	tk := factory.last()

	a.Dispose()
	require.False(t, a.Running())
	require.True(t, tk.isStopped())
	require.ErrorIs(t, a.Start(), ErrDisposed)
	require.ErrorIs(t, a.PointerLeave(), ErrDisposed)
	require.Equal(t, 1, factory.count())

	a.Dispose()
}

func TestAutoplay_RealTicker(t *testing.T) {
	m, _ := newModel(t, 3, 500)
	a, err := NewAutoplay(m, WithInterval(5*time.Millisecond))
	require.NoError(t, err)
	defer a.Dispose()

	require.NoError(t, a.Start())
	require.Eventually(t, func() bool {
		return m.Current() > 0
	}, time.Second, 5*time.Millisecond)
}
