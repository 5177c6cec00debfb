// internal/httpserver/ws.go
//
// GET /game/{id}/ws streams a game to the browser.
//
// Server → client:
//   {"type":"state","view":{...}}     on connect and on every change
//   {"type":"tick","remaining":"12.34"} every 100ms while playing
//   {"type":"error","error":"off_line"} when a pick is rejected
//
// Client → server:
//   {"type":"select","row":1,"col":3}
//   {"type":"reset"}

package httpserver

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/Bendr-Dev/matrix-code-game/internal/session"
)

const (
	tickInterval = 100 * time.Millisecond
	writeWait    = 5 * time.Second
)

// clientMsg is a message sent by the browser.
type clientMsg struct {
	Type string `json:"type"`
	Row  *int   `json:"row"`
	Col  *int   `json:"col"`
}

// errorMsg reports a rejected client message.
type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts same-host requests and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// handleStream upgrades the connection and relays session events.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	logger := hlog.FromRequest(r).With().Str("gameId", sess.ID()).Logger()

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := sess.Subscribe()
	defer cancel()

	// reader: decode client messages until the connection drops
	done := make(chan struct{})
	defer close(done)
	incoming := make(chan clientMsg)
	go func() {
		defer close(incoming)
		for {
			var m clientMsg
			if err := conn.ReadJSON(&m); err != nil {
				return
			}
			select {
			case incoming <- m:
			case <-done:
				return
			}
		}
	}()

	send := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			logger.Debug().Err(err).Msg("websocket write failed")
			return false
		}
		return true
	}

	v := sess.Snapshot()
	if !send(session.Event{Type: session.EventState, View: &v}) {
		return
	}

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !send(ev) {
				return
			}
		case <-ticker.C:
			remaining, playing := sess.Remaining()
			if playing && !send(session.Event{Type: session.EventTick, Remaining: remaining}) {
				return
			}
		case m, ok := <-incoming:
			if !ok {
				return
			}
			switch m.Type {
			case "select":
				if m.Row == nil || m.Col == nil {
					if !send(errorMsg{Type: "error", Error: "bad_json"}) {
						return
					}
					continue
				}
				if _, err := sess.Select(*m.Row, *m.Col); err != nil {
					_, code := selectError(err)
					if !send(errorMsg{Type: "error", Error: code}) {
						return
					}
				}
			case "reset":
				if _, err := sess.Reset(); err != nil {
					logger.Error().Err(err).Msg("reset")
				}
			default:
				if !send(errorMsg{Type: "error", Error: "unknown_type"}) {
					return
				}
			}
		}
	}
}
