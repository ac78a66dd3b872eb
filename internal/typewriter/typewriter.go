// Package typewriter drives the hero "typed role" effect: each word is typed
// out, held, deleted, and followed by the next word, forever.
package typewriter

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

const (
	TypeDelay     = 100 * time.Millisecond
	DeleteDelay   = 50 * time.Millisecond
	HoldDelay     = 2000 * time.Millisecond
	NextWordDelay = 500 * time.Millisecond
	StartDelay    = 1500 * time.Millisecond
)

// DefaultWords are the roles shown on the landing page.
var DefaultWords = []string{
	"Creative Developer",
	"UI/UX Designer",
	"Full Stack Engineer",
	"Problem Solver",
	"Tech Enthusiast",
}

// Typewriter is a step-driven state machine. It is not safe for concurrent
// use.
type Typewriter struct {
	words    [][]rune
	word     int
	chars    int
	deleting bool

	after func(time.Duration) <-chan time.Time
}

func New(words []string) (*Typewriter, error) {
	if len(words) == 0 {
		return nil, errors.New("typewriter: at least one word is required")
	}
	rs := make([][]rune, 0, len(words))
	for _, w := range words {
		if w == "" || !utf8.ValidString(w) {
			return nil, errors.New("typewriter: words must be non-empty valid UTF-8")
		}
		rs = append(rs, []rune(w))
	}
	return &Typewriter{words: rs, after: time.After}, nil
}

// Step applies one keystroke and returns the text to display together with
// how long to wait before the next Step.
func (t *Typewriter) Step() (string, time.Duration) {
	cur := t.words[t.word]

	delay := TypeDelay
	if t.deleting {
		t.chars--
		delay = DeleteDelay
	} else {
		t.chars++
	}
	text := string(cur[:t.chars])

	switch {
	case !t.deleting && t.chars == len(cur):
		t.deleting = true
		delay = HoldDelay
	case t.deleting && t.chars == 0:
		t.deleting = false
		t.word = (t.word + 1) % len(t.words)
		delay = NextWordDelay
	}
	return text, delay
}

// Word is the index of the word currently being typed or deleted.
func (t *Typewriter) Word() int {
	return t.word
}

// Run waits StartDelay, then calls emit with each Step's text on schedule
// until ctx is done.
func (t *Typewriter) Run(ctx context.Context, emit func(string)) error {
	if emit == nil {
		return errors.New("typewriter: emit must not be nil")
	}
	delay := StartDelay
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.after(delay):
		}
		var text string
		text, delay = t.Step()
		emit(text)
	}
}
