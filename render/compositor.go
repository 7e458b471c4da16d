package render

import (
	"image"
	"iter"
	"time"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/vmath"
)

// Compositor blends the current image over the next one through the reveal mask
// Source images are scaled once per SetImages/Resize and reused every frame
type Compositor struct {
	wave WaveFilter

	width, height int
	src           [2]image.Image // Unscaled current, next
	scaled        [2]*image.RGBA // Scaled to width×height
	frame         *image.RGBA    // Reused output
	cmds          []coverage.DrawCommand
}

// NewCompositor creates a compositor producing w×h frames
func NewCompositor(wave WaveFilter, w, h int) *Compositor {
	c := &Compositor{wave: wave}
	c.Resize(w, h)
	return c
}

// Size returns the output frame size
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

// Resize changes the output size and rescales the cached images
func (c *Compositor) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	c.width, c.height = w, h
	c.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range c.src {
		c.scaled[i] = scale(c.src[i], w, h)
	}
}

// SetImages installs the current and next images; nil draws black
func (c *Compositor) SetImages(cur, next image.Image) {
	c.src = [2]image.Image{cur, next}
	for i := range c.src {
		c.scaled[i] = scale(c.src[i], c.width, c.height)
	}
}

// Compose renders one frame: next shows through where the mask is opaque,
// sampled with the wave offset around the newest growing mark
// The returned image is reused by the next call
func (c *Compositor) Compose(mask *gg.Mask, cmds []coverage.DrawCommand, viewport vmath.Size, t time.Duration) *image.RGBA {
	cur, next := c.scaled[0], c.scaled[1]
	src, waving := c.wave.Source(cmds)

	sx, sy := 1.0, 1.0
	if c.width > 0 && c.height > 0 && !viewport.Empty() {
		sx = viewport.Width / float64(c.width)
		sy = viewport.Height / float64(c.height)
	}

	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			base := pixel(cur, x, y)
			alpha := float64(mask.At(x, y)) / 255
			if alpha <= 0 {
				c.frame.SetRGBA(x, y, base.RGBA())
				continue
			}

			nx, ny := x, y
			if waving {
				p := vmath.V((float64(x)+0.5)*sx, (float64(y)+0.5)*sy)
				off := c.wave.Offset(p, src, t)
				nx = clampInt(x+int(off.X/sx), 0, c.width-1)
				ny = clampInt(y+int(off.Y/sy), 0, c.height-1)
			}
			c.frame.SetRGBA(x, y, Blend(base, pixel(next, nx, ny), alpha).RGBA())
		}
	}
	return c.frame
}

// CollectCommands materializes the command sequence into a reused slice
func (c *Compositor) CollectCommands(seq iter.Seq[coverage.DrawCommand]) []coverage.DrawCommand {
	c.cmds = c.cmds[:0]
	for cmd := range seq {
		c.cmds = append(c.cmds, cmd)
	}
	return c.cmds
}

func scale(img image.Image, w, h int) *image.RGBA {
	if img == nil || w <= 0 || h <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func pixel(img *image.RGBA, x, y int) RGB {
	if img == nil {
		return RGBBlack
	}
	p := img.RGBAAt(x, y)
	return RGB{p.R, p.G, p.B}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
