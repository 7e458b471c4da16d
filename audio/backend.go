package audio

import (
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Backend is the output device the player streams into
// The speaker package is the only production implementation; tests swap in a fake
type Backend interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
	Close()
}

// SpeakerBackend drives the process-wide beep speaker
type SpeakerBackend struct{}

func (SpeakerBackend) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (SpeakerBackend) Play(s beep.Streamer) { speaker.Play(s) }
func (SpeakerBackend) Clear()               { speaker.Clear() }
func (SpeakerBackend) Lock()                { speaker.Lock() }
func (SpeakerBackend) Unlock()              { speaker.Unlock() }
func (SpeakerBackend) Close()               { speaker.Close() }
