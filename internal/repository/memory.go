package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"portfolio-site/internal/domain"
)

const (
	// DefaultTranscriptTTL is how long an idle conversation is kept.
	DefaultTranscriptTTL = 24 * time.Hour
	// DefaultMaxConversations caps the number of live conversations.
	DefaultMaxConversations = 10000
)

type conversation struct {
	turns    []domain.ChatMessage
	lastSeen time.Time
}

// TranscriptOption configures a Transcripts store.
type TranscriptOption func(*Transcripts)

// WithTTL sets the idle lifetime of a conversation.
func WithTTL(d time.Duration) TranscriptOption {
	return func(t *Transcripts) {
		if d > 0 {
			t.ttl = d
		}
	}
}

// WithMaxConversations caps the store; the least recently used conversation
// is dropped to make room for a new one.
func WithMaxConversations(n int) TranscriptOption {
	return func(t *Transcripts) {
		if n > 0 {
			t.maxConversations = n
		}
	}
}

// WithClock replaces the time source used for expiry.
func WithClock(now func() time.Time) TranscriptOption {
	return func(t *Transcripts) {
		if now != nil {
			t.now = now
		}
	}
}

// Transcripts holds conversation turns in process memory. Nothing is ever
// written to durable storage; a cold start forgets every conversation.
// Conversations idle for longer than the TTL are dropped.
type Transcripts struct {
	mu               sync.Mutex
	convs            map[string]*conversation
	ttl              time.Duration
	maxConversations int
	now              func() time.Time
	lastSweep        time.Time
}

func NewTranscripts(opts ...TranscriptOption) *Transcripts {
	t := &Transcripts{
		convs:            make(map[string]*conversation),
		ttl:              DefaultTranscriptTTL,
		maxConversations: DefaultMaxConversations,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append adds turns to the end of a conversation, creating it if needed.
func (t *Transcripts) Append(_ context.Context, conversationID string, turns ...domain.ChatMessage) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("repository: Append: conversation id is required")
	}
	for _, turn := range turns {
		if turn.Role != domain.RoleUser && turn.Role != domain.RoleAssistant {
			return errors.New("repository: Append: role must be user or assistant")
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweepLocked(now)

	c, ok := t.convs[conversationID]
	if !ok || t.expired(c, now) {
		if len(t.convs) >= t.maxConversations {
			t.evictOldestLocked()
		}
		c = &conversation{}
		t.convs[conversationID] = c
	}
	c.turns = append(c.turns, turns...)
	c.lastSeen = now
	return nil
}

// Get returns a copy of the conversation's turns in append order. An expired
// conversation is reported as missing.
func (t *Transcripts) Get(_ context.Context, conversationID string) ([]domain.ChatMessage, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, ok := t.convs[conversationID]
	if !ok {
		return nil, false, nil
	}
	if t.expired(c, t.now()) {
		delete(t.convs, conversationID)
		return nil, false, nil
	}
	return append([]domain.ChatMessage(nil), c.turns...), true, nil
}

// Len reports the number of conversations currently held, expired or not.
func (t *Transcripts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.convs)
}

func (t *Transcripts) expired(c *conversation, now time.Time) bool {
	return now.Sub(c.lastSeen) > t.ttl
}

// sweepLocked drops expired conversations, at most once per tenth of the TTL.
func (t *Transcripts) sweepLocked(now time.Time) {
	if now.Sub(t.lastSweep) < t.ttl/10 {
		return
	}
	t.lastSweep = now
	for id, c := range t.convs {
		if t.expired(c, now) {
			delete(t.convs, id)
		}
	}
}

func (t *Transcripts) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, c := range t.convs {
		if oldestID == "" || c.lastSeen.Before(oldest) {
			oldestID, oldest = id, c.lastSeen
		}
	}
	if oldestID != "" {
		delete(t.convs, oldestID)
	}
}

// Preferences is an in-memory preference store for the dev server.
type Preferences struct {
	mu    sync.RWMutex
	prefs map[string]domain.Preference
}

func NewPreferences() *Preferences {
	return &Preferences{prefs: make(map[string]domain.Preference)}
}

func (p *Preferences) GetPreference(_ context.Context, visitorID string) (domain.Preference, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pref, ok := p.prefs[visitorID]
	return pref, ok, nil
}

func (p *Preferences) PutPreference(_ context.Context, pref domain.Preference) error {
	if strings.TrimSpace(pref.VisitorID) == "" {
		return errors.New("repository: PutPreference: visitor id is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs[pref.VisitorID] = pref
	return nil
}
