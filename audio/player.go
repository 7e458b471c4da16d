// Package audio loops one background track at a time through the beep speaker
package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/status"
)

var (
	ErrTrackNotFound     = errors.New("audio: track not found")
	ErrUnsupportedFormat = errors.New("audio: unsupported format")
)

// Track extensions probed, in order, when a song id has no explicit path
var trackExtensions = []string{".mp3", ".wav"}

// Config controls the player output and track lookup
type Config struct {
	Enabled    bool
	Volume     float64 // linear 0.0-1.0
	SampleRate int
	Dir        string            // searched for <id>.mp3 / <id>.wav
	Tracks     map[string]string // id -> explicit path, wins over Dir
}

// DefaultConfig returns the enabled player settings
func DefaultConfig() Config {
	return Config{
		Enabled:    true,
		Volume:     parameter.DefaultMasterVolume,
		SampleRate: parameter.AudioSampleRate,
		Dir:        "assets/music",
	}
}

// Player plays a looping track. Commands are fire-and-forget: failures are
// logged and playback simply does not start
type Player struct {
	mu      sync.Mutex
	cfg     Config
	backend Backend
	log     *slog.Logger

	open    bool
	stream  beep.StreamSeekCloser
	ctrl    *beep.Ctrl
	trackID string

	track   *status.AtomicString
	playing *atomic.Bool
}

// Option configures a Player
type Option func(*Player)

// WithBackend replaces the speaker backend
func WithBackend(b Backend) Option {
	return func(p *Player) { p.backend = b }
}

// WithLogger sets the player logger
func WithLogger(log *slog.Logger) Option {
	return func(p *Player) {
		if log != nil {
			p.log = log
		}
	}
}

// WithRegistry publishes the current track and play state
func WithRegistry(reg *status.Registry) Option {
	return func(p *Player) {
		if reg == nil {
			return
		}
		p.track = reg.Strings.Get(status.KeyTrack)
		p.playing = reg.Bools.Get(status.KeyPlaying)
	}
}

// NewPlayer creates a player; the backend is initialized on Open
func NewPlayer(cfg Config, opts ...Option) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	p := &Player{
		cfg:     cfg,
		backend: SpeakerBackend{},
		log:     slog.New(slog.DiscardHandler),
		track:   &status.AtomicString{},
		playing: &atomic.Bool{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open initializes the output device. A disabled player opens as a no-op
func (p *Player) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open || !p.cfg.Enabled {
		return nil
	}
	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := p.backend.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio: init output: %w", err)
	}
	p.open = true
	p.log.Debug("audio output ready", "rate", p.cfg.SampleRate)
	return nil
}

// PlayLoop stops the current track and loops id indefinitely
func (p *Player) PlayLoop(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.trackID = id
	p.track.Store(id)

	if !p.open {
		p.log.Debug("audio disabled, not playing", "track", id)
		return
	}

	stream, format, err := p.load(id)
	if err != nil {
		p.log.Warn("track not playable", "track", id, "error", err)
		return
	}

	var s beep.Streamer = beep.Loop(-1, stream)
	if rate := beep.SampleRate(p.cfg.SampleRate); format.SampleRate != rate {
		s = beep.Resample(parameter.AudioResampleQuality, format.SampleRate, rate, s)
	}
	s = volume(s, p.cfg.Volume)

	p.stream = stream
	p.ctrl = &beep.Ctrl{Streamer: s}
	p.backend.Play(p.ctrl)
	p.setPlaying(true)
	p.log.Info("track started", "track", id)
}

// Pause halts playback, keeping the position
func (p *Player) Pause() {
	p.setPaused(true)
}

// Resume continues a paused track
func (p *Player) Resume() {
	p.setPaused(false)
}

// Toggle flips between paused and playing
func (p *Player) Toggle() {
	p.mu.Lock()
	paused := p.ctrl != nil && !p.isPlayingLocked()
	p.mu.Unlock()
	p.setPaused(!paused)
}

func (p *Player) setPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	p.backend.Lock()
	p.ctrl.Paused = paused
	p.backend.Unlock()
	p.setPlaying(!paused)
}

// Stop ends playback and releases the decoded stream
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.ctrl == nil {
		return
	}
	p.backend.Lock()
	p.ctrl.Streamer = nil
	p.backend.Unlock()
	p.backend.Clear()
	if err := p.stream.Close(); err != nil {
		p.log.Debug("close track", "track", p.trackID, "error", err)
	}
	p.ctrl = nil
	p.stream = nil
	p.setPlaying(false)
}

// IsPlaying reports whether a track is loaded and not paused
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlayingLocked()
}

func (p *Player) isPlayingLocked() bool {
	if p.ctrl == nil {
		return false
	}
	p.backend.Lock()
	defer p.backend.Unlock()
	return !p.ctrl.Paused
}

// Track returns the id of the last requested track
func (p *Player) Track() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trackID
}

// Close stops playback and shuts the output down
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	if p.open {
		p.backend.Close()
		p.open = false
	}
}

func (p *Player) setPlaying(v bool) {
	p.playing.Store(v)
}

// resolve maps a track id to a file path
func (p *Player) resolve(id string) (string, error) {
	if path, ok := p.cfg.Tracks[id]; ok {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrTrackNotFound, path)
		}
		return path, nil
	}
	for _, ext := range trackExtensions {
		path := filepath.Join(p.cfg.Dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTrackNotFound, id)
}

func (p *Player) load(id string) (beep.StreamSeekCloser, beep.Format, error) {
	path, err := p.resolve(id)
	if err != nil {
		return nil, beep.Format{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open %s: %w", path, err)
	}
	stream, format, err := decode(f, filepath.Ext(path))
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return stream, format, nil
}

// decode takes ownership of rc; the returned stream closes it
func decode(rc io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// volume applies a linear gain as a base-2 exponent
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain >= 1 {
		return s
	}
	v := &effects.Volume{Streamer: s, Base: 2}
	if gain <= 0 {
		v.Silent = true
		return v
	}
	v.Volume = math.Log2(gain)
	return v
}
