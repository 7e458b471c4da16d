package parameter

// Distortion Filter
const (
	// WaveMaxOffset bounds the per-pixel sample displacement in pixels
	WaveMaxOffset = 10.0

	// WaveSpeed is the angular speed multiplier of the wave phase
	WaveSpeed = 2.0

	// WaveLength is the spatial period of the wave in pixels
	WaveLength = 48.0
)

// Terminal Cells
const (
	// CellAspect is the height/width ratio of a terminal cell, used to map cells to pixels
	CellAspect = 2.0

	// CellPixelWidth is the horizontal pixel extent of a single terminal cell
	CellPixelWidth = 8.0
)
