// Package render measures legend text and paints the legend panel as a PNG
// bitmap for the markup archive.
package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

type faceKey struct {
	bold bool
	size float64
}

// Fonts caches font faces built from the Go font family. Requested families
// are approximated by Go Regular and Go Bold.
type Fonts struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewFonts parses the embedded Go fonts.
func NewFonts() (*Fonts, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Fonts{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Face returns the face for f. Point sizes are converted at ScreenDPI.
func (fs *Fonts) Face(f legend.Font) font.Face {
	size := f.Size
	if size <= 0 {
		size = legend.DefaultFontSize
	}
	key := faceKey{bold: f.Bold, size: size}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if face, ok := fs.faces[key]; ok {
		return face
	}
	ttf := fs.regular
	if f.Bold {
		ttf = fs.bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     ScreenDPI,
		Hinting: font.HintingFull,
	})
	fs.faces[key] = face
	return face
}

// Width implements legend.Measurer. It returns the horizontal advance of text
// rounded up to whole pixels.
func (fs *Fonts) Width(text string, f legend.Font) int {
	return font.MeasureString(fs.Face(f), text).Ceil()
}
