// internal/store/memory.go
//
// In-memory session store.
// Live games only exist for as long as someone plays them; state is lost
// when the process restarts.
//
// Characteristics:
//   - Stores *session.Session objects keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are stopped and removed by Sweep / Maintain.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/session"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by game ID.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Delete stops and removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Sweep stops and removes sessions idle for longer than ttl.
	// Returns how many were removed.
	Sweep(ctx context.Context, ttl time.Duration) int

	// Len reports how many sessions are live.
	Len() int

	// Close stops every session.
	Close()
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[s.ID()]; ok && old != s {
		old.Stop()
	}
	m.sessions[s.ID()] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.Stop()
		delete(m.sessions, id)
	}
	return nil
}

func (m *memory) Sweep(ctx context.Context, ttl time.Duration) int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.Idle(ttl, now) {
			s.Stop()
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Stop()
		delete(m.sessions, id)
	}
}

// Maintain sweeps st every interval until ctx is done.
func Maintain(ctx context.Context, st Store, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(ctx, ttl); n > 0 {
				log.Info().Int("removed", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
		}
	}
}
