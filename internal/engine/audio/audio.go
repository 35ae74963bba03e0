// Package audio plays background music and short sound effects.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Errors returned by Manager.
var (
	ErrNotInitialized = errors.New("audio not initialized")
	ErrUnknownSound   = errors.New("unknown sound effect")
)

// Note is one tone of a synthesized effect.
type Note struct {
	Freq     float64 // Hz
	Duration time.Duration
}

// Manager owns the speaker, the music stream and the effect buffers.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	muted       bool

	music      beep.StreamSeekCloser
	musicCtrl  *beep.Ctrl
	musicVol   *effects.Volume
	musicPath  string
	musicLevel float64

	masterLevel float64
	sfxLevel    float64
	sfx         map[string]*beep.Buffer
	sfxMixer    *beep.Mixer
}

// New creates a manager. Effects can be loaded before Init.
func New() *Manager {
	return &Manager{
		sampleRate:  DefaultSampleRate,
		masterLevel: 1.0,
		musicLevel:  0.7,
		sfxLevel:    1.0,
		sfx:         make(map[string]*beep.Buffer),
		sfxMixer:    &beep.Mixer{},
	}
}

// Init opens the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfxMixer)
	m.initialized = true
	return nil
}

// Close stops playback and releases the music stream.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopMusic()
	if m.initialized {
		speaker.Clear()
		speaker.Close()
	}
	m.initialized = false
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterLevel = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetMusicVolume sets the music volume (0.0 to 1.0).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicLevel = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetSFXVolume sets the effect volume (0.0 to 1.0).
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxLevel = clamp(vol, 0, 1)
}

// SetMuted silences everything without losing the volume settings.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
	m.updateMusicVolume()
}

// Muted reports whether all output is silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterLevel
}

// MusicVolume returns the music volume.
func (m *Manager) MusicVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicLevel
}

// SFXVolume returns the effect volume.
func (m *Manager) SFXVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sfxLevel
}

func (m *Manager) effective(level float64) float64 {
	if m.muted {
		return 0
	}
	return m.masterLevel * level
}

func (m *Manager) updateMusicVolume() {
	if m.musicVol == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	vol := m.effective(m.musicLevel)
	m.musicVol.Silent = vol <= 0
	m.musicVol.Volume = volumeExponent(vol)
}

// volumeExponent converts a linear 0-1 gain to the base-2 exponent used by
// effects.Volume: 1 -> 0, 0.5 -> -1, 0.25 -> -2.
func volumeExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return gomath.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlayMusic replaces the current music with WAV data. With loop set the
// track restarts at its end.
func (m *Manager) PlayMusic(data []byte, path string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.stopMusic()

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	var s beep.Streamer = streamer
	if loop {
		s = beep.Loop(-1, streamer)
	}
	s = m.resample(format, s)

	m.musicCtrl = &beep.Ctrl{Streamer: s}
	m.musicVol = &effects.Volume{Streamer: m.musicCtrl, Base: 2}
	m.music = streamer
	m.musicPath = path
	m.updateMusicVolume()

	speaker.Play(m.musicVol)
	return nil
}

func (m *Manager) stopMusic() {
	if m.musicCtrl != nil {
		speaker.Lock()
		m.musicCtrl.Paused = true
		m.musicCtrl.Streamer = nil
		speaker.Unlock()
	}
	if m.music != nil {
		m.music.Close()
	}
	m.music = nil
	m.musicCtrl = nil
	m.musicVol = nil
	m.musicPath = ""
}

// MusicPath returns the path of the current music, or "".
func (m *Manager) MusicPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.musicPath
}

func (m *Manager) resample(format beep.Format, s beep.Streamer) beep.Streamer {
	if format.SampleRate == m.sampleRate {
		return s
	}
	return beep.Resample(4, format.SampleRate, m.sampleRate, s)
}

// LoadSFX decodes WAV data into a named effect buffer.
func (m *Manager) LoadSFX(name string, data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", name, err)
	}
	defer streamer.Close()

	out := beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2}
	buf := beep.NewBuffer(out)
	buf.Append(m.resample(format, streamer))

	m.mu.Lock()
	m.sfx[name] = buf
	m.mu.Unlock()
	return nil
}

// SynthSFX renders a sequence of sine tones into a named effect buffer.
func (m *Manager) SynthSFX(name string, notes ...Note) error {
	buf := beep.NewBuffer(beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2})
	for _, n := range notes {
		tone, err := generators.SineTone(m.sampleRate, n.Freq)
		if err != nil {
			return fmt.Errorf("sfx %s: %w", name, err)
		}
		buf.Append(beep.Take(m.sampleRate.N(n.Duration), tone))
	}

	m.mu.Lock()
	m.sfx[name] = buf
	m.mu.Unlock()
	return nil
}

// SFXLength returns the duration of a loaded effect.
func (m *Manager) SFXLength(name string) (time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	buf, ok := m.sfx[name]
	if !ok {
		return 0, false
	}
	return m.sampleRate.D(buf.Len()), true
}

// PlaySFX starts a loaded effect. Effects mix with each other and the music.
func (m *Manager) PlaySFX(name string) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.effective(m.sfxLevel)
	buf, ok := m.sfx[name]
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}
	if vol <= 0 {
		return nil
	}

	speaker.Lock()
	m.sfxMixer.Add(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   volumeExponent(vol),
	})
	speaker.Unlock()
	return nil
}
