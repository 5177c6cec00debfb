package tui

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
)

// Sounder plays short cues for game events.
type Sounder interface {
	Pick()
	Success()
	Fail()
	Close()
}

// silent is used when audio is unavailable.
type silent struct{}

func (silent) Pick()    {}
func (silent) Success() {}
func (silent) Fail()    {}
func (silent) Close()   {}

// tones plays sine beeps through the system speaker.
type tones struct {
	sr beep.SampleRate
}

// NewSounder initialises the speaker. On failure it returns a silent
// Sounder together with the error; the game runs fine without sound.
func NewSounder() (Sounder, error) {
	sr := beep.SampleRate(44100)
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return silent{}, err
	}
	return &tones{sr: sr}, nil
}

func (t *tones) play(freq float64, d time.Duration) {
	sine, err := generators.SineTone(t.sr, freq)
	if err != nil {
		log.Debug().Err(err).Float64("freq", freq).Msg("sine tone")
		return
	}
	speaker.Play(beep.Take(t.sr.N(d), sine))
}

func (t *tones) Pick()    { t.play(880, 40*time.Millisecond) }
func (t *tones) Success() { t.play(1320, 150*time.Millisecond) }
func (t *tones) Fail()    { t.play(220, 250*time.Millisecond) }
func (t *tones) Close()   { speaker.Close() }
