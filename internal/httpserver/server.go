// internal/httpserver/server.go
//
// HTTP server wiring for the matrix code game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/app" (embedded browser client).
//   - Game endpoints: POST /game/new, GET /game/{id}, POST /game/{id}/select,
//     POST /game/{id}/reset, GET /game/{id}/ws (live stream).
//   - Daily puzzle endpoint: POST /daily/new.
//
// Notes:
//   - Every game lives in a session.Session; handlers never touch game.Game directly.
//   - The websocket route is mounted outside the timeout group since the
//     connection outlives any single request deadline.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/assets"
	"github.com/Bendr-Dev/matrix-code-game/internal/config"
	"github.com/Bendr-Dev/matrix-code-game/internal/game"
	"github.com/Bendr-Dev/matrix-code-game/internal/session"
	"github.com/Bendr-Dev/matrix-code-game/internal/store"
)

// Server bundles router, session store and startup config.
type Server struct {
	r     *chi.Mux
	store store.Store
	cfg   config.Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cfg config.Config) *Server {
	s := &Server{r: chi.NewRouter(), store: st, cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)             // add X-Request-ID
	s.r.Use(chimw.RealIP)                // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger)) // request-scoped logger
	s.r.Use(accessLog)                   // one line per request
	s.r.Use(chimw.Recoverer)             // recover from panics
	s.r.Use(corsFor(cfg.ClientOrigin))   // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"matrix-code-game","endpoints":["/health","/app","POST /game/new","POST /daily/new","GET /game/{id}","POST /game/{id}/select","POST /game/{id}/reset","GET /game/{id}/ws"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.store.Len()})
		})

		// --- game ---
		r.Post("/game/new", s.handleNewGame)
		r.Post("/daily/new", s.handleNewDaily)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/game/{id}/select", s.handleSelect)
		r.Post("/game/{id}/reset", s.handleReset)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
		})
	})

	s.r.Get("/app", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(assets.Index())
	})
	s.r.Get("/game/{id}/ws", s.handleStream)

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reqId", chimw.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("took", d).
		Msg("request")
})

// ------------------------------ GAME ---------------------------------------

// newGameRes is returned by /game/new and /daily/new.
type newGameRes struct {
	GameID string    `json:"gameId"`
	Date   string    `json:"date,omitempty"`
	View   game.View `json:"view"`
}

// selectReq is the payload for POST /game/{id}/select.
type selectReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// viewRes is returned by every endpoint that reports a game view.
type viewRes struct {
	View  game.View `json:"view"`
	Error string    `json:"error,omitempty"`
}

// handleNewGame creates a random game and registers its session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g, err := game.New(s.cfg.Game, nil, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create_failed"})
		return
	}
	s.startSession(w, r, g, "")
}

// startSession wraps g, saves it and writes the creation response.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, g *game.Game, date string) {
	sess := session.New(g, nil)
	if err := s.store.Save(r.Context(), sess); err != nil {
		sess.Stop()
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "save_failed"})
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", g.ID).Int("sequences", len(g.Tracks)).Msg("game started")
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Date: date, View: sess.Snapshot()})
}

// handleGetGame returns the current view.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewRes{View: sess.Snapshot()})
}

// handleSelect applies one pick. Rejected picks still return the view.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad_json"})
		return
	}
	v, err := sess.Select(*req.Row, *req.Col)
	if err != nil {
		status, code := selectError(err)
		writeJSON(w, status, viewRes{View: v, Error: code})
		return
	}
	writeJSON(w, http.StatusOK, viewRes{View: v})
}

// handleReset starts a new round in the same session.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := sess.Reset()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", sess.ID()).Msg("reset")
		writeJSON(w, http.StatusInternalServerError, viewRes{View: v, Error: "reset_failed"})
		return
	}
	writeJSON(w, http.StatusOK, viewRes{View: v})
}

// session loads the {id} session or writes a 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return nil, false
	}
	return sess, true
}

// selectError maps a rejected pick to a status code and error code.
func selectError(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "finished"
	case errors.Is(err, game.ErrTimeUp):
		return http.StatusGone, "time_up"
	case errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest, "out_of_bounds"
	case errors.Is(err, game.ErrOffLine):
		return http.StatusBadRequest, "off_line"
	case errors.Is(err, game.ErrCellUsed):
		return http.StatusBadRequest, "cell_used"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// ------------------------------- small util --------------------------------

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}
