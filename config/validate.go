package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrInvalid marks every configuration rejection
var ErrInvalid = errors.New("config: invalid")

// ValidationError is one rejected field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of one Validate pass
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e ValidationErrors) Unwrap() error { return ErrInvalid }

// Validate range-checks every tunable
// The returned error matches ErrInvalid and lists all failing fields
func (c *Config) Validate() error {
	var errs ValidationErrors
	check := func(ok bool, field, format string, args ...any) {
		if !ok {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
		}
	}

	r := c.Reveal
	check(r.Threshold > 0 && r.Threshold <= 1, "reveal.threshold", "%v not in (0, 1]", r.Threshold)
	check(r.Cooldown >= 0, "reveal.cooldown", "negative %v", r.Cooldown)
	check(r.RippleDuration > 0, "reveal.ripple_duration", "must be positive, got %v", r.RippleDuration)
	check(r.RadiusFraction > 0 && r.RadiusFraction <= 1, "reveal.radius_fraction", "%v not in (0, 1]", r.RadiusFraction)
	check(r.OverlapDiscount >= 1, "reveal.overlap_discount", "%v below 1", r.OverlapDiscount)
	check(r.OpacityFloor >= 0 && r.OpacityFloor <= 1, "reveal.opacity_floor", "%v not in [0, 1]", r.OpacityFloor)
	check(r.MinSpacing >= 0, "reveal.min_spacing", "negative %v", r.MinSpacing)
	check(r.LargeGestureMarks >= 0, "reveal.large_gesture_marks", "negative %d", r.LargeGestureMarks)

	check(c.Engine.TickRate > 0 && c.Engine.TickRate <= 240, "engine.tick_rate", "%d not in [1, 240]", c.Engine.TickRate)

	check(c.Render.WaveMaxOffset >= 0, "render.wave_max_offset", "negative %v", c.Render.WaveMaxOffset)
	check(c.Render.WaveLength > 0, "render.wave_length", "must be positive, got %v", c.Render.WaveLength)

	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume", "%v not in [0, 1]", c.Audio.Volume)
	check(c.Audio.SampleRate >= 8000 && c.Audio.SampleRate <= 192000, "audio.sample_rate", "%d not in [8000, 192000]", c.Audio.SampleRate)

	seen := make(map[string]struct{}, len(c.Songs))
	for i, s := range c.Songs {
		field := fmt.Sprintf("songs[%d].id", i)
		check(s.ID != "", field, "empty")
		_, dup := seen[s.ID]
		check(!dup, field, "duplicate %q", s.ID)
		seen[s.ID] = struct{}{}
	}
	if c.Audio.DefaultSong != "" {
		_, ok := seen[c.Audio.DefaultSong]
		check(ok, "audio.default_song", "unknown song %q", c.Audio.DefaultSong)
	}

	check(c.ImageCount() > 0, "images", "no images configured")
	check(c.Images.Count >= 0, "images.count", "negative %d", c.Images.Count)
	check(c.Store.Path != "", "store.path", "empty")

	var lvl slog.Level
	check(lvl.UnmarshalText([]byte(c.Log.Level)) == nil, "log.level", "unknown level %q", c.Log.Level)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SlogLevel returns the parsed log level, info when unparsable
func (c *Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
