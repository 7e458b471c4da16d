package render

import (
	"math"
	"time"

	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/vmath"
)

// WaveFilter bends sample positions into a travelling ring around the newest growing mark
// The offset magnitude never exceeds MaxOffset and fades to zero as the mark finalizes
type WaveFilter struct {
	MaxOffset float64 // Pixels
	Speed     float64 // Radians per second
	Length    float64 // Pixels per wave period
}

// DefaultWaveFilter returns the parameter defaults
func DefaultWaveFilter() WaveFilter {
	return WaveFilter{
		MaxOffset: parameter.WaveMaxOffset,
		Speed:     parameter.WaveSpeed,
		Length:    parameter.WaveLength,
	}
}

// Source picks the distortion origin: the newest mark still growing
func (f WaveFilter) Source(cmds []coverage.DrawCommand) (coverage.DrawCommand, bool) {
	for i := len(cmds) - 1; i >= 0; i-- {
		if cmds[i].Progress < 1 {
			return cmds[i], true
		}
	}
	return coverage.DrawCommand{}, false
}

// Offset returns the displacement to add to sample position p
func (f WaveFilter) Offset(p vmath.Vec2, src coverage.DrawCommand, t time.Duration) vmath.Vec2 {
	if f.MaxOffset <= 0 || f.Length <= 0 || src.Progress >= 1 {
		return vmath.Vec2{}
	}

	d := p.Sub(src.Center)
	dist := d.Len()
	if dist == 0 {
		return vmath.Vec2{}
	}

	// Strongest on the ring edge, decays one wavelength away from it
	falloff := math.Exp(-math.Abs(dist-src.Radius) / f.Length)
	amp := f.MaxOffset * (1 - src.Progress) * falloff
	phase := 2*math.Pi*dist/f.Length - t.Seconds()*f.Speed

	return d.Scale(amp * math.Sin(phase) / dist)
}
