// internal/tui/app.go
//
// Terminal client: renders one local game with tcell and turns keyboard and
// mouse input into picks. Everything runs on the single loop goroutine, so
// the game needs no locking here.
//
// Keys:
//   ←/→ or ↑/↓      move along the active row/column
//   Enter/Space     pick the focused cell (a mouse click picks directly)
//   r               restart with a new board
//   q, Esc, Ctrl-C  quit

package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/game"
	"github.com/Bendr-Dev/matrix-code-game/internal/tracker"
)

const frameInterval = 100 * time.Millisecond

var (
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleActive  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.NewRGBColor(29, 42, 34))
	styleFocus   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleUsed    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHit     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFailed  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// App is the terminal game.
type App struct {
	screen tcell.Screen
	game   *game.Game
	sound  Sounder
	now    func() time.Time
	focus  int    // index along the active line
	status string // last message shown under the grid
}

// New builds an App around an already initialised screen and game.
func New(screen tcell.Screen, g *game.Game, sound Sounder) *App {
	if sound == nil {
		sound = silent{}
	}
	return &App{screen: screen, game: g, sound: sound, now: time.Now}
}

// Run draws and handles input until the player quits.
func (a *App) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	a.draw()
	for {
		select {
		case ev := <-events:
			if !a.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			a.tick()
		}
		a.draw()
	}
}

// handleEvent dispatches one input event; false means quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft, tcell.KeyUp:
			a.moveFocus(-1)
		case tcell.KeyRight, tcell.KeyDown:
			a.moveFocus(1)
		case tcell.KeyEnter:
			a.pickFocus()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				a.pickFocus()
			case 'r', 'R':
				a.restart()
			case 'q':
				return false
			}
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.clickAt(x, y)
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

// tick fires the timeout once the countdown is over.
func (a *App) tick() {
	if a.game.State() == game.StatePlaying && !a.now().Before(a.game.Deadline) {
		a.game.OnTimeout()
		a.status = "TIME UP - press r to restart"
		a.sound.Fail()
	}
}

// focusCell is the grid cell under the keyboard focus.
func (a *App) focusCell() (row, col int) {
	c := a.game.Cursor
	if c.ExpectingRow {
		return c.Row, a.focus
	}
	return a.focus, c.Col
}

// moveFocus steps the focus along the active line, wrapping around.
func (a *App) moveFocus(delta int) {
	n := a.game.Matrix.Size()
	a.focus = ((a.focus+delta)%n + n) % n
}

func (a *App) pickFocus() {
	row, col := a.focusCell()
	a.pick(row, col)
}

// clickAt picks the cell under a mouse click, if any.
func (a *App) clickAt(x, y int) {
	row, col, ok := cellAt(x, y, a.game.Matrix.Size())
	if !ok {
		return
	}
	a.pick(row, col)
}

// pick selects (row, col) and reports what changed.
func (a *App) pick(row, col int) {
	before := a.game.Statuses()
	st, err := a.game.Select(row, col, a.now())
	switch {
	case errors.Is(err, game.ErrTimeUp):
		a.status = "TIME UP - press r to restart"
		a.sound.Fail()
		return
	case errors.Is(err, game.ErrFinished):
		a.status = "game over - press r to restart"
		return
	case err != nil:
		a.status = err.Error()
		return
	}

	a.sound.Pick()
	after := a.game.Statuses()
	for i := range after {
		if before[i] == after[i] {
			continue
		}
		if after[i] == tracker.Success {
			a.sound.Success()
		} else if after[i] == tracker.Failed {
			a.sound.Fail()
		}
	}

	// keep the focus on the cell just picked; it lies on the new line
	if a.game.Cursor.ExpectingRow {
		a.focus = col
	} else {
		a.focus = row
	}
	a.status = ""
	if st != game.StatePlaying {
		a.status = fmt.Sprintf("%s - press r to restart", st)
	}
	log.Debug().Int("row", row).Int("col", col).Str("state", string(st)).Msg("pick")
}

// restart replaces the board with a new one.
func (a *App) restart() {
	if err := a.game.Reset(a.now()); err != nil {
		a.status = err.Error()
		log.Error().Err(err).Msg("reset")
		return
	}
	a.focus = 0
	a.status = ""
}

// ------------------------------- drawing -----------------------------------

func (a *App) draw() {
	a.screen.Clear()
	g := a.game
	now := a.now()

	a.text(gridX, 0, "BREACH TIME REMAINING "+game.FormatRemaining(g.Remaining(now)), styleText)

	for i := 0; i < g.Config.BufferCount; i++ {
		v := "__"
		if i < len(g.Buffer) {
			v = string(g.Buffer[i])
		}
		a.text(gridX+i*cellWidth, bufferY, v, styleText)
	}

	frow, fcol := a.focusCell()
	playing := g.State() == game.StatePlaying
	for r, row := range g.Matrix {
		for c, b := range row {
			style := styleText
			onLine := (g.Cursor.ExpectingRow && r == g.Cursor.Row) || (!g.Cursor.ExpectingRow && c == g.Cursor.Col)
			switch {
			case g.Used[r][c]:
				style = styleUsed
			case playing && r == frow && c == fcol:
				style = styleFocus
			case playing && onLine:
				style = styleActive
			}
			x, y := cellOrigin(r, c)
			a.text(x, y, string(b), style)
		}
	}

	sx := sequencesX(g.Matrix.Size())
	for i, ts := range g.Tracks {
		y := gridY + i
		for j, b := range ts.Seq {
			style := styleText
			switch {
			case ts.Complete == tracker.Success:
				style = styleSuccess
			case ts.Complete == tracker.Failed:
				style = styleFailed
			case j <= ts.CurrIndex:
				style = styleHit
			}
			a.text(sx+j*cellWidth, y, string(b), style)
		}
	}

	a.text(gridX, gridY+g.Matrix.Size()+1, a.status, styleText)
	a.screen.Show()
}

func (a *App) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}
