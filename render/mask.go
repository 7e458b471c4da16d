package render

import (
	"iter"

	"github.com/gogpu/gg"

	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/vmath"
)

// RasterizeMask draws every command as a filled circle into a w×h alpha mask
// Commands are in viewport coordinates and are scaled onto the mask; opacity becomes alpha
func RasterizeMask(cmds iter.Seq[coverage.DrawCommand], viewport vmath.Size, w, h int) *gg.Mask {
	if w <= 0 || h <= 0 {
		return gg.NewMask(0, 0)
	}
	if viewport.Empty() {
		return gg.NewMask(w, h)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.Scale(float64(w)/viewport.Width, float64(h)/viewport.Height)
	drawn := 0
	for cmd := range cmds {
		if cmd.Radius <= 0 || cmd.Opacity <= 0 {
			continue
		}
		dc.SetRGBA(1, 1, 1, cmd.Opacity)
		dc.DrawCircle(cmd.Center.X, cmd.Center.Y, cmd.Radius)
		if err := dc.Fill(); err != nil {
			gg.Logger().Warn("mask circle fill failed", "mark", cmd.ID, "error", err)
			continue
		}
		drawn++
	}
	if drawn == 0 {
		return gg.NewMask(w, h)
	}
	return gg.NewMaskFromAlpha(dc.Image())
}

// MaskCoverage returns the mean mask alpha in [0,1], the exact union area the heuristic estimates
func MaskCoverage(m *gg.Mask) float64 {
	data := m.Data()
	if len(data) == 0 {
		return 0
	}
	sum := 0
	for _, a := range data {
		sum += int(a)
	}
	return float64(sum) / float64(255*len(data))
}
