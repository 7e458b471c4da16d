// Package config loads washaway settings from TOML, YAML or JSON with env overrides
package config

import (
	"fmt"
	"time"

	"github.com/lixenwraith/washaway/audio"
	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/gesture"
	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/playlist"
	"github.com/lixenwraith/washaway/render"
	"github.com/lixenwraith/washaway/reveal"
)

// Duration is a time.Duration written as a string such as "2.5s" or "100ms"
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Config is the complete application configuration
type Config struct {
	Reveal RevealConfig    `toml:"reveal" yaml:"reveal" json:"reveal"`
	Engine EngineConfig    `toml:"engine" yaml:"engine" json:"engine"`
	Render RenderConfig    `toml:"render" yaml:"render" json:"render"`
	Audio  AudioConfig     `toml:"audio" yaml:"audio" json:"audio"`
	Songs  []playlist.Song `toml:"songs" yaml:"songs" json:"songs"`
	Images ImagesConfig    `toml:"images" yaml:"images" json:"images"`
	Store  StoreConfig     `toml:"store" yaml:"store" json:"store"`
	Log    LogConfig       `toml:"log" yaml:"log" json:"log"`
}

// RevealConfig holds the hot-reloadable reveal tunables
type RevealConfig struct {
	Threshold         float64  `toml:"threshold" yaml:"threshold" json:"threshold"`
	Cooldown          Duration `toml:"cooldown" yaml:"cooldown" json:"cooldown"`
	WrapAtEnd         bool     `toml:"wrap_at_end" yaml:"wrap_at_end" json:"wrap_at_end"`
	RippleDuration    Duration `toml:"ripple_duration" yaml:"ripple_duration" json:"ripple_duration"`
	RadiusFraction    float64  `toml:"radius_fraction" yaml:"radius_fraction" json:"radius_fraction"`
	OverlapDiscount   float64  `toml:"overlap_discount" yaml:"overlap_discount" json:"overlap_discount"`
	OpacityFloor      float64  `toml:"opacity_floor" yaml:"opacity_floor" json:"opacity_floor"`
	ProjectGrowth     bool     `toml:"project_growth" yaml:"project_growth" json:"project_growth"`
	MinSpacing        float64  `toml:"min_spacing" yaml:"min_spacing" json:"min_spacing"`
	LargeGestureMarks int      `toml:"large_gesture_marks" yaml:"large_gesture_marks" json:"large_gesture_marks"`
	Graph             string   `toml:"graph,omitempty" yaml:"graph,omitempty" json:"graph,omitempty"`
}

type EngineConfig struct {
	TickRate int `toml:"tick_rate" yaml:"tick_rate" json:"tick_rate"`
}

type RenderConfig struct {
	WaveMaxOffset float64 `toml:"wave_max_offset" yaml:"wave_max_offset" json:"wave_max_offset"`
	WaveSpeed     float64 `toml:"wave_speed" yaml:"wave_speed" json:"wave_speed"`
	WaveLength    float64 `toml:"wave_length" yaml:"wave_length" json:"wave_length"`
}

type AudioConfig struct {
	Enabled     bool    `toml:"enabled" yaml:"enabled" json:"enabled"`
	Volume      float64 `toml:"volume" yaml:"volume" json:"volume"`
	SampleRate  int     `toml:"sample_rate" yaml:"sample_rate" json:"sample_rate"`
	Dir         string  `toml:"dir" yaml:"dir" json:"dir"`
	DefaultSong string  `toml:"default_song,omitempty" yaml:"default_song,omitempty" json:"default_song,omitempty"`
}

// ImagesConfig lists the image sequence; missing entries up to Count are generated
type ImagesConfig struct {
	Paths []string `toml:"paths" yaml:"paths" json:"paths"`
	Count int      `toml:"count" yaml:"count" json:"count"`
}

type StoreConfig struct {
	Path string `toml:"path" yaml:"path" json:"path"`
}

// LogConfig applies when logging is enabled with --debug
type LogConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
	Dir   string `toml:"dir" yaml:"dir" json:"dir"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Reveal: RevealConfig{
			Threshold:         parameter.CoverageThreshold,
			Cooldown:          Duration(parameter.TransitionCooldown),
			WrapAtEnd:         parameter.WrapAtEnd,
			RippleDuration:    Duration(parameter.RippleDuration),
			RadiusFraction:    parameter.RadiusFraction,
			OverlapDiscount:   parameter.OverlapDiscountFactor,
			OpacityFloor:      parameter.OpacityFloor,
			MinSpacing:        parameter.MinDragSpacing,
			LargeGestureMarks: parameter.LargeGestureMarks,
		},
		Engine: EngineConfig{TickRate: parameter.TickRate},
		Render: RenderConfig{
			WaveMaxOffset: parameter.WaveMaxOffset,
			WaveSpeed:     parameter.WaveSpeed,
			WaveLength:    parameter.WaveLength,
		},
		Audio: AudioConfig{
			Enabled:    true,
			Volume:     parameter.DefaultMasterVolume,
			SampleRate: parameter.AudioSampleRate,
			Dir:        "assets/music",
		},
		Songs: playlist.DefaultSongs(),
		Images: ImagesConfig{
			Paths: []string{"assets/images/image1.png", "assets/images/image2.png"},
		},
		Store: StoreConfig{Path: "washaway.db"},
		Log:   LogConfig{Level: "debug", Dir: "logs"},
	}
}

// Clone returns a deep copy
func (c *Config) Clone() *Config {
	out := *c
	out.Songs = append([]playlist.Song(nil), c.Songs...)
	out.Images.Paths = append([]string(nil), c.Images.Paths...)
	return &out
}

// ImageCount is the length of the reveal sequence
func (c *Config) ImageCount() int {
	return max(c.Images.Count, len(c.Images.Paths))
}

// TickInterval converts the tick rate into a loop period
func (c *Config) TickInterval() time.Duration {
	if c.Engine.TickRate <= 0 {
		return parameter.TickInterval
	}
	return time.Second / time.Duration(c.Engine.TickRate)
}

// ToReveal maps the reveal section onto a session configuration
func (c *Config) ToReveal() reveal.Config {
	r := c.Reveal
	return reveal.Config{
		Coverage: coverage.Config{
			RippleDuration:  r.RippleDuration.Std(),
			RadiusFraction:  r.RadiusFraction,
			OverlapDiscount: r.OverlapDiscount,
			OpacityFloor:    r.OpacityFloor,
			ProjectGrowth:   r.ProjectGrowth,
		},
		Gesture: gesture.Config{
			MinSpacing:        r.MinSpacing,
			LargeGestureMarks: r.LargeGestureMarks,
		},
		Threshold:  r.Threshold,
		Cooldown:   r.Cooldown.Std(),
		WrapAtEnd:  r.WrapAtEnd,
		ImageCount: c.ImageCount(),
	}
}

// ToAudio maps the audio section onto a player configuration
func (c *Config) ToAudio() audio.Config {
	tracks := make(map[string]string)
	for _, s := range c.Songs {
		if s.Path != "" {
			tracks[s.ID] = s.Path
		}
	}
	return audio.Config{
		Enabled:    c.Audio.Enabled,
		Volume:     c.Audio.Volume,
		SampleRate: c.Audio.SampleRate,
		Dir:        c.Audio.Dir,
		Tracks:     tracks,
	}
}

// ToWave maps the render section onto the distortion filter
func (c *Config) ToWave() render.WaveFilter {
	return render.WaveFilter{
		MaxOffset: c.Render.WaveMaxOffset,
		Speed:     c.Render.WaveSpeed,
		Length:    c.Render.WaveLength,
	}
}
