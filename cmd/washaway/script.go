package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/washaway/config"
	"github.com/lixenwraith/washaway/vmath"
)

// Script ops
const (
	opTap      = "tap"
	opDown     = "down"
	opMove     = "move"
	opUp       = "up"
	opDrag     = "drag"
	opForce    = "force"
	opBack     = "back"
	opCancel   = "cancel"
	opResize   = "resize"
	opSnapshot = "snapshot"
)

// script is a timed gesture sequence replayed against a headless session
type script struct {
	Viewport struct {
		Width  float64 `yaml:"width" json:"width"`
		Height float64 `yaml:"height" json:"height"`
	} `yaml:"viewport" json:"viewport"`
	Images   int             `yaml:"images" json:"images"`
	Start    int             `yaml:"start" json:"start"`
	Duration config.Duration `yaml:"duration" json:"duration"`
	Steps    []step          `yaml:"steps" json:"steps"`
}

type step struct {
	At   config.Duration `yaml:"at" json:"at"`
	Op   string          `yaml:"op" json:"op"`
	X    float64         `yaml:"x" json:"x"`
	Y    float64         `yaml:"y" json:"y"`
	X2   float64         `yaml:"x2" json:"x2"`
	Y2   float64         `yaml:"y2" json:"y2"`
	Over config.Duration `yaml:"over" json:"over"`
	Path string          `yaml:"path" json:"path"` // snapshot output
}

func (s step) pos() vmath.Vec2 { return vmath.V(s.X, s.Y) }

// scriptTail keeps ticking after the last step so growth and cooldown can settle
const scriptTail = 3 * time.Second

func loadScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s := &script{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, s)
	} else {
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, fmt.Errorf("decode script %s: %w", path, err)
	}
	if err := s.normalize(); err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// normalize validates ops, expands drags into down/move/up samples and sorts by time
func (s *script) normalize() error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		s.Viewport.Width, s.Viewport.Height = 390, 844
	}
	if s.Images < 1 {
		s.Images = 2
	}

	var out []step
	for i, st := range s.Steps {
		switch st.Op {
		case opTap, opDown, opMove, opUp, opForce, opBack, opCancel, opResize, opSnapshot:
			out = append(out, st)
		case opDrag:
			out = append(out, expandDrag(st)...)
		default:
			return fmt.Errorf("step %d: unknown op %q", i, st.Op)
		}
	}
	slices.SortStableFunc(out, func(a, b step) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	s.Steps = out

	if s.Duration <= 0 {
		var last config.Duration
		if len(out) > 0 {
			last = out[len(out)-1].At
		}
		s.Duration = last + config.Duration(scriptTail)
	}
	return nil
}

// dragSamples is the number of move samples a drag is split into
const dragSamples = 16

func expandDrag(st step) []step {
	over := st.Over
	if over <= 0 {
		over = config.Duration(250 * time.Millisecond)
	}
	from, to := st.pos(), vmath.V(st.X2, st.Y2)

	out := []step{{At: st.At, Op: opDown, X: st.X, Y: st.Y}}
	for i := 1; i <= dragSamples; i++ {
		t := float64(i) / dragSamples
		out = append(out, step{
			At: st.At + config.Duration(float64(over)*t),
			Op: opMove,
			X:  vmath.Lerp(from.X, to.X, t),
			Y:  vmath.Lerp(from.Y, to.Y, t),
		})
	}
	out = append(out, step{At: st.At + over, Op: opUp})
	return out
}
