package render

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/gg"
)

// LoadImage decodes a PNG, JPEG or WebP file
func LoadImage(path string) (image.Image, error) {
	buf, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return buf.ToStdImage(), nil
}

// LoadImages loads every path, substituting a placeholder for files that fail
// Missing images are logged and never abort the sequence
func LoadImages(log *slog.Logger, paths []string, count int) []image.Image {
	if count < len(paths) {
		count = len(paths)
	}
	out := make([]image.Image, count)
	for i := range out {
		if i < len(paths) && paths[i] != "" {
			img, err := LoadImage(paths[i])
			if err == nil {
				out[i] = img
				continue
			}
			log.Warn("image unavailable, using placeholder", "index", i, "error", err)
		}
		out[i] = Placeholder(i, 320, 240)
	}
	return out
}

// Placeholder draws a distinct diagonal gradient with concentric rings for image index i
func Placeholder(i, w, h int) image.Image {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	hue := float64(i*67%360) + 20
	brush := gg.NewLinearGradientBrush(0, 0, float64(w), float64(h)).
		AddColorStop(0, gg.HSL(hue, 0.55, 0.35)).
		AddColorStop(1, gg.HSL(hue+40, 0.65, 0.6))
	dc.SetFillBrush(brush)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	if err := dc.Fill(); err != nil {
		gg.Logger().Warn("placeholder fill failed", "image", i, "error", err)
	}

	dc.SetRGBA(1, 1, 1, 0.18)
	dc.SetLineWidth(3)
	cx, cy := float64(w)/2, float64(h)/2
	for r := 20.0; r < float64(max(w, h)); r += 36 {
		dc.DrawCircle(cx, cy, r)
		if err := dc.Stroke(); err != nil {
			gg.Logger().Warn("placeholder ring stroke failed", "image", i, "radius", r, "error", err)
			break
		}
	}
	return dc.Image()
}

// SavePNG writes img to path as PNG
func SavePNG(img image.Image, path string) error {
	dc := gg.NewContextForImage(img)
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}
