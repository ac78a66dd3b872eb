// Package carousel models the testimonials slider: a wrapping position over a
// fixed set of slides whose visible window depends on the viewport width.
package carousel

import (
	"errors"
	"sync"
)

const (
	// WideViewport is the width from which two slides are shown side by side.
	WideViewport = 768
	// SwipeThreshold is the horizontal travel a swipe needs to change slides.
	SwipeThreshold = 50
)

// WidthFunc reports the current viewport width in logical pixels.
type WidthFunc func() int

// Model tracks the current slide. Its position is only changed through its
// methods and always stays within [0, MaxIndex()]. All methods are safe for
// concurrent use; each one is applied atomically.
type Model struct {
	mu      sync.Mutex
	slides  int
	current int
	width   WidthFunc
}

func NewModel(slides int, width WidthFunc) (*Model, error) {
	if slides < 0 {
		return nil, errors.New("carousel: slide count must not be negative")
	}
	if width == nil {
		return nil, errors.New("carousel: width func must not be nil")
	}
	return &Model{slides: slides, width: width}, nil
}

// VisibleSlots is 2 on wide viewports and 1 otherwise. The width is read on
// every call.
func (m *Model) VisibleSlots() int {
	if m.width() >= WideViewport {
		return 2
	}
	return 1
}

func (m *Model) MaxIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxIndexLocked()
}

func (m *Model) maxIndexLocked() int {
	return max(0, m.slides-m.VisibleSlots())
}

// Dots is the number of pager dots, one per reachable position.
func (m *Model) Dots() int {
	return m.MaxIndex() + 1
}

func (m *Model) Slides() int {
	return m.slides
}

func (m *Model) Current() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Next advances one slide, wrapping from the last position to the first.
func (m *Model) Next() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxIdx := m.clampLocked()
	if m.current >= maxIdx {
		m.current = 0
	} else {
		m.current++
	}
	return m.current
}

// Prev steps back one slide, wrapping from the first position to the last.
func (m *Model) Prev() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	maxIdx := m.clampLocked()
	if m.current <= 0 {
		m.current = maxIdx
	} else {
		m.current--
	}
	return m.current
}

// Goto moves to i clamped into [0, MaxIndex()].
func (m *Model) Goto(i int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = min(max(i, 0), m.maxIndexLocked())
	return m.current
}

// Resize re-reads the viewport and pulls the position back in range when the
// visible window grew.
func (m *Model) Resize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clampLocked()
	return m.current
}

// Swipe turns a horizontal gesture into Next (leftward) or Prev (rightward).
// Travel of SwipeThreshold or less is ignored.
func (m *Model) Swipe(startX, endX float64) int {
	diff := startX - endX
	switch {
	case diff > SwipeThreshold:
		return m.Next()
	case diff < -SwipeThreshold:
		return m.Prev()
	}
	return m.Current()
}

func (m *Model) clampLocked() int {
	maxIdx := m.maxIndexLocked()
	if m.current > maxIdx {
		m.current = maxIdx
	}
	return maxIdx
}
