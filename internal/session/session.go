// internal/session/session.go
//
// A Session owns one live game on the server.
//
// The game engine itself is single-owner; HTTP handlers, websocket readers
// and the countdown timer can all reach the same game concurrently, so every
// access goes through the session mutex.
//
// Responsibilities:
//   - Fire OnTimeout when the countdown reaches zero (time.AfterFunc).
//   - Fan out state changes to websocket subscribers.
//   - Track activity so idle sessions can be swept from the store.

package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/game"
)

// Event types pushed to subscribers.
const (
	EventState = "state"
	EventTick  = "tick"
)

// Event is one message for a subscriber.
type Event struct {
	Type      string     `json:"type"`
	View      *game.View `json:"view,omitempty"`
	Remaining string     `json:"remaining,omitempty"`
}

// Session wraps a game with locking, a countdown timer and subscribers.
type Session struct {
	mu       sync.Mutex
	game     *game.Game
	timer    *time.Timer
	subs     map[chan Event]struct{}
	lastSeen time.Time
	stopped  bool
	now      func() time.Time
}

// New wraps g and arms its countdown. A nil clock means time.Now.
func New(g *game.Game, clock func() time.Time) *Session {
	if clock == nil {
		clock = time.Now
	}
	s := &Session{
		game:     g,
		subs:     make(map[chan Event]struct{}),
		lastSeen: clock(),
		now:      clock,
	}
	s.mu.Lock()
	s.armLocked()
	s.mu.Unlock()
	return s
}

// ID returns the wrapped game's ID.
func (s *Session) ID() string { return s.game.ID }

// Snapshot returns the current view.
func (s *Session) Snapshot() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot(s.now())
}

// Remaining returns the formatted countdown and whether the game is still running.
func (s *Session) Remaining() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	return game.FormatRemaining(s.game.Remaining(now)), s.game.State() == game.StatePlaying
}

// Select applies a pick and notifies subscribers when the game changed.
// The returned view is valid even when err is non-nil.
func (s *Session) Select(row, col int) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.lastSeen = now

	before := len(s.game.Buffer)
	wasPlaying := s.game.State() == game.StatePlaying
	_, err := s.game.Select(row, col, now)
	v := s.game.Snapshot(now)

	if len(s.game.Buffer) != before || (wasPlaying && v.State != game.StatePlaying) {
		s.broadcastLocked(Event{Type: EventState, View: &v})
	}
	if v.State != game.StatePlaying && s.timer != nil {
		s.timer.Stop()
	}
	return v, err
}

// Reset starts a new round and re-arms the countdown.
func (s *Session) Reset() (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.lastSeen = now
	if err := s.game.Reset(now); err != nil {
		return s.game.Snapshot(now), err
	}
	s.armLocked()
	v := s.game.Snapshot(now)
	s.broadcastLocked(Event{Type: EventState, View: &v})
	return v, nil
}

// Subscribe registers for events. The returned cancel func must be called
// once the subscriber is done; it closes the channel.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.lastSeen = s.now()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.lastSeen = s.now()
		})
	}
}

// Idle reports whether nobody is watching and nothing happened for ttl.
func (s *Session) Idle(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) == 0 && now.Sub(s.lastSeen) > ttl
}

// Stop disarms the timer and disconnects all subscribers.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
	s.stopped = true
}

// armLocked (re)starts the countdown timer for the current round.
func (s *Session) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	deadline := s.game.Deadline
	wait := deadline.Sub(s.now())
	if wait < 0 {
		wait = 0
	}
	s.timer = time.AfterFunc(wait, func() { s.expire(deadline) })
}

// expire is the countdown callback. A stale timer from an earlier round
// is recognised by its deadline and ignored.
func (s *Session) expire(deadline time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || !s.game.Deadline.Equal(deadline) || s.game.State() != game.StatePlaying {
		return
	}
	s.game.OnTimeout()
	v := s.game.Snapshot(s.now())
	log.Debug().Str("gameId", s.game.ID).Str("state", string(v.State)).Msg("countdown expired")
	s.broadcastLocked(Event{Type: EventState, View: &v})
}

// broadcastLocked sends ev to every subscriber without blocking;
// a subscriber whose buffer is full misses the event.
func (s *Session) broadcastLocked(ev Event) {
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Str("gameId", s.game.ID).Str("type", ev.Type).Msg("subscriber lagging, event dropped")
		}
	}
}
