package convert

import "image/color"

const (
	IndexFirst  = 0
	IndexSecond = 1
	MinCoords   = 2

	KeyX      = "x"
	KeyY      = "y"
	KeyPoints = "points"
	KeyPaths  = "paths"
	KeyRings  = "rings"

	RendererUniqueValue = "uniqueValue"

	KindSingle      = "single"
	KindCategorized = "categorized"

	DateLayout = "2006-01-02"
)

// DefaultColor is used for symbols without a usable color.
var DefaultColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
