package render

import "image/color"

const (
	// ScreenDPI converts point sizes to pixels.
	ScreenDPI = 96

	headerHeightStandard   = 22
	headerHeightMinimalist = 25
	paddingLeft            = 8
	swatchSize             = 12
	swatchGap              = 6
	cornerRadius           = 4
)

var (
	headerStandardBackground = color.RGBA{R: 0xf1, G: 0xf2, B: 0xf6, A: 0xff}
	headerStandardText       = color.RGBA{R: 0x2f, G: 0x35, B: 0x42, A: 0xff}
	headerStandardRule       = color.RGBA{R: 0xce, G: 0xd6, B: 0xe0, A: 0xff}
	headerMinimalistText     = color.RGBA{A: 0xff}
	headerMinimalistRule     = color.RGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0xff}

	minimalistBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 220}
	minimalistBorder     = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
)
