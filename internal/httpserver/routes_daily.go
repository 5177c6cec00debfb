// internal/httpserver/routes_daily.go
//
// Daily puzzle: POST /daily/new starts a game whose grid and targets are
// seeded from HMAC(DAILY_SALT, today's date), so everybody races the same
// board. Nothing about the result is stored.

package httpserver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/daily"
	"github.com/Bendr-Dev/matrix-code-game/internal/game"
)

// handleNewDaily creates today's seeded game in a fresh session.
func (s *Server) handleNewDaily(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	g, err := game.New(s.cfg.Game, daily.Source(now, s.cfg.DailySalt), now)
	if err != nil {
		log.Error().Err(err).Msg("new daily game")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create_failed"})
		return
	}
	s.startSession(w, r, g, daily.DateKey(now))
}
