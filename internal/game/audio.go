package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ghostmaze/internal/config"
	"github.com/Faultbox/ghostmaze/internal/engine/audio"
	"github.com/Faultbox/ghostmaze/internal/game/world"
	"github.com/Faultbox/ghostmaze/internal/logger"
)

// caughtNotes is the generated cue used when no caught sound file is set.
var caughtNotes = []audio.Note{
	{Freq: 494, Duration: 120 * time.Millisecond},
	{Freq: 440, Duration: 120 * time.Millisecond},
	{Freq: 392, Duration: 260 * time.Millisecond},
}

// Audio plays the maze sounds. A disabled Audio accepts calls and does
// nothing.
type Audio struct {
	m       *audio.Manager
	enabled bool
}

// readFunc reads an asset file by its configured path.
type readFunc func(path string) ([]byte, error)

// NewAudio opens the speaker and loads the maze sounds through read.
// Failures are logged and leave audio disabled.
func NewAudio(cfg config.AudioConfig, read readFunc) *Audio {
	a := &Audio{m: audio.New()}
	if cfg.Muted {
		logger.Info("audio muted")
		return a
	}
	if err := a.m.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
		return a
	}
	a.enabled = true

	a.m.SetMasterVolume(float64(cfg.MasterVolume))
	a.m.SetMusicVolume(float64(cfg.MusicVolume))
	a.m.SetSFXVolume(float64(cfg.SFXVolume))
	prepareSounds(a.m, cfg, read)

	if cfg.Music != "" {
		data, err := read(cfg.Music)
		if err == nil {
			err = a.m.PlayMusic(data, cfg.Music, true)
		}
		if err != nil {
			logger.Warn("background music disabled", zap.String("path", cfg.Music), zap.Error(err))
		} else {
			logger.Info("background music", zap.String("path", a.m.MusicPath()))
		}
	}
	return a
}

// prepareSounds loads the caught cue from disk, falling back to a
// generated tone.
func prepareSounds(m *audio.Manager, cfg config.AudioConfig, read readFunc) {
	if cfg.CaughtSound != "" {
		data, err := read(cfg.CaughtSound)
		if err == nil {
			err = m.LoadSFX(world.SoundCaught, data)
		}
		if err == nil {
			return
		}
		logger.Warn("caught sound unusable, using generated tone",
			zap.String("path", cfg.CaughtSound), zap.Error(err))
	}
	if err := m.SynthSFX(world.SoundCaught, caughtNotes...); err != nil {
		logger.Warn("caught tone failed", zap.Error(err))
	}
}

// Enabled reports whether sound will be heard.
func (a *Audio) Enabled() bool {
	return a.enabled
}

// ToggleMute silences or restores all sound and returns whether it is now
// muted.
func (a *Audio) ToggleMute() bool {
	if !a.enabled {
		return true
	}
	muted := !a.m.Muted()
	a.m.SetMuted(muted)
	return muted
}

// PlaySFX plays a loaded effect.
func (a *Audio) PlaySFX(name string) error {
	if !a.enabled {
		return nil
	}
	return a.m.PlaySFX(name)
}

// Close stops playback.
func (a *Audio) Close() {
	if a.enabled {
		a.m.Close()
	}
}
