package render

import (
	"image"
	"iter"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/washaway/coverage"
	"github.com/lixenwraith/washaway/parameter"
	"github.com/lixenwraith/washaway/vmath"
)

// halfBlock paints the top pixel as foreground and the bottom pixel as background
const halfBlock = '▀'

// Geometry maps terminal cells to viewport points and frame pixels
// Each cell holds two vertically stacked frame pixels
type Geometry struct {
	Cols, Rows int
}

// Viewport returns the reveal viewport in points for this terminal size
func (g Geometry) Viewport() vmath.Size {
	return vmath.Sz(
		float64(g.Cols)*parameter.CellPixelWidth,
		float64(g.Rows)*parameter.CellPixelWidth*parameter.CellAspect,
	)
}

// FrameSize returns the frame pixel size
func (g Geometry) FrameSize() (int, int) {
	return g.Cols, g.Rows * 2
}

// CellToPoint returns the viewport point at the center of cell (x, y)
func (g Geometry) CellToPoint(x, y int) vmath.Vec2 {
	return vmath.V(
		(float64(x)+0.5)*parameter.CellPixelWidth,
		(float64(y)+0.5)*parameter.CellPixelWidth*parameter.CellAspect,
	)
}

// Terminal draws composited frames onto a tcell screen with half-block cells
type Terminal struct {
	screen tcell.Screen
	comp   *Compositor
	geom   Geometry
}

// NewTerminal creates a renderer sized to the screen
func NewTerminal(screen tcell.Screen, wave WaveFilter) *Terminal {
	t := &Terminal{screen: screen}
	cols, rows := screen.Size()
	t.geom = Geometry{Cols: cols, Rows: rows}
	fw, fh := t.geom.FrameSize()
	t.comp = NewCompositor(wave, fw, fh)
	return t
}

// Geometry returns the current cell geometry
func (t *Terminal) Geometry() Geometry {
	return t.geom
}

// Sync re-reads the screen size, returning true when it changed
func (t *Terminal) Sync() bool {
	cols, rows := t.screen.Size()
	if cols == t.geom.Cols && rows == t.geom.Rows {
		return false
	}
	t.geom = Geometry{Cols: cols, Rows: rows}
	t.comp.Resize(t.geom.FrameSize())
	return true
}

// SetImages installs the current and next images of the reveal
func (t *Terminal) SetImages(cur, next image.Image) {
	t.comp.SetImages(cur, next)
}

// RenderFrame rasterizes the mask, composites both images and presents them with the status line
func (t *Terminal) RenderFrame(cmds iter.Seq[coverage.DrawCommand], viewport vmath.Size, now time.Duration, hud string) *image.RGBA {
	fw, fh := t.geom.FrameSize()
	mask := RasterizeMask(cmds, viewport, fw, fh)
	list := t.comp.CollectCommands(cmds)
	frame := t.comp.Compose(mask, list, viewport, now)
	t.Draw(frame)
	t.DrawText(0, t.geom.Rows-1, hud)
	t.screen.Show()
	return frame
}

// Draw paints frame into the cell grid; pixels outside the frame stay black
func (t *Terminal) Draw(frame image.Image) {
	b := frame.Bounds()
	at := func(x, y int) RGB {
		p := image.Pt(b.Min.X+x, b.Min.Y+y)
		if !p.In(b) {
			return RGBBlack
		}
		return RGBOf(frame.At(p.X, p.Y))
	}

	for cy := 0; cy < t.geom.Rows; cy++ {
		for cx := 0; cx < t.geom.Cols; cx++ {
			top, bottom := at(cx, cy*2), at(cx, cy*2+1)
			style := tcell.StyleDefault.Foreground(top.Tcell()).Background(bottom.Tcell())
			t.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// DrawText writes a single status line, truncated to the screen width
func (t *Terminal) DrawText(x, y int, text string) {
	if y < 0 || y >= t.geom.Rows {
		return
	}
	style := tcell.StyleDefault.Foreground(RGBHud.Tcell()).Background(RGBBlack.Tcell())
	col := x
	for _, r := range text {
		if col >= t.geom.Cols {
			break
		}
		t.screen.SetContent(col, y, r, nil, style)
		col++
	}
}
