package config

import (
	"strconv"
	"time"
)

// Environment variables recognised by ApplyEnv
const (
	EnvThreshold  = "WASHAWAY_THRESHOLD"
	EnvCooldown   = "WASHAWAY_COOLDOWN"
	EnvWrap       = "WASHAWAY_WRAP"
	EnvProject    = "WASHAWAY_PROJECT_GROWTH"
	EnvAudio      = "WASHAWAY_AUDIO_ENABLED"
	EnvVolume     = "WASHAWAY_MASTER_VOLUME"
	EnvMusicDir   = "WASHAWAY_MUSIC_DIR"
	EnvSong       = "WASHAWAY_SONG"
	EnvStorePath  = "WASHAWAY_DB"
	EnvLogLevel   = "WASHAWAY_LOG_LEVEL"
	EnvTickRate   = "WASHAWAY_TICK_RATE"
	EnvImageCount = "WASHAWAY_IMAGE_COUNT"
)

// ApplyEnv overrides fields from the environment; unparsable values are ignored
// lookup is os.LookupEnv outside tests
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvThreshold); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Reveal.Threshold = f
		}
	}
	if v, ok := lookup(EnvCooldown); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Reveal.Cooldown = Duration(d)
		}
	}
	if v, ok := lookup(EnvWrap); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Reveal.WrapAtEnd = b
		}
	}
	if v, ok := lookup(EnvProject); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Reveal.ProjectGrowth = b
		}
	}
	if v, ok := lookup(EnvAudio); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Audio.Enabled = b
		}
	}
	// Master volume is given as 0-100
	if v, ok := lookup(EnvVolume); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Audio.Volume = min(max(float64(n)/100, 0), 1)
		}
	}
	if v, ok := lookup(EnvMusicDir); ok && v != "" {
		c.Audio.Dir = v
	}
	if v, ok := lookup(EnvSong); ok && v != "" {
		c.Audio.DefaultSong = v
	}
	if v, ok := lookup(EnvStorePath); ok && v != "" {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvTickRate); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Engine.TickRate = n
		}
	}
	if v, ok := lookup(EnvImageCount); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Images.Count = n
		}
	}
}
