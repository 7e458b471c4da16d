package parameter

import "time"

// Audio Output
const (
	// AudioSampleRate is the speaker output rate, decoded tracks are resampled to it
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioResampleQuality is the beep resampler quality (1-6)
	AudioResampleQuality = 4

	// DefaultMasterVolume is the linear master gain (0.0-1.0)
	DefaultMasterVolume = 0.8
)
