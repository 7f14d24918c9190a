// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/livepoll/auth"
	"github.com/danielhkuo/livepoll/importer"
)

// Pending is a parsed spreadsheet that has not been saved yet
type Pending struct {
	Filename   string              `json:"filename"`
	UploadedAt time.Time           `json:"uploaded_at"`
	Rows       []importer.Row      `json:"rows"`
	Skipped    []importer.RowError `json:"skipped"`
}

// Session is the per-browser context passed through the screen layer
type Session struct {
	ID string

	mu        sync.Mutex
	pending   *Pending
	touchedAt time.Time
}

// Pending returns a copy of the stashed upload, or nil
func (s *Session) Pending() *Pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return nil
	}
	p := *s.pending
	return &p
}

func (s *Session) SetPending(p *Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = p
}

func (s *Session) ClearPending() {
	s.SetPending(nil)
}

// Store keeps sessions in memory; they do not survive a restart
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session with a fresh ID
func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := &Session{ID: auth.NewSessionID(), touchedAt: st.now()}
	st.sessions[s.ID] = s
	return s
}

// Get returns a live session and marks it used
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}

	now := st.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.touchedAt) > st.ttl {
		delete(st.sessions, id)
		return nil, false
	}
	s.touchedAt = now
	return s, true
}

// Len returns the number of tracked sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle longer than the TTL and returns how many went
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.touchedAt)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is cancelled
func (st *Store) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}
