package legend

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style is the panel presentation mode.
type Style string

const (
	StyleStandard   Style = "standard"
	StyleMinimalist Style = "minimalist"
)

// ParseStyle accepts "standard" or "minimalist" (and the short forms "std"
// and "mini").
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "std", "box":
		return StyleStandard, nil
	case "minimalist", "mini", "clean":
		return StyleMinimalist, nil
	}
	return "", fmt.Errorf("unknown style %q", s)
}

// Font describes the row font.
type Font struct {
	Family    string
	Size      float64
	Bold      bool
	StrikeOut bool
}

// DisplayState is the panel configuration shared by the builder and the
// exporters. Only Lang survives a restart; every other field starts from
// DefaultState each session.
type DisplayState struct {
	Background  color.RGBA
	Border      color.RGBA
	TextColor   color.RGBA
	Font        Font
	ShowCount   bool
	ShowPercent bool
	Style       Style
	Lang        string
}

// DefaultState returns the session defaults with the given language.
func DefaultState(lang string) *DisplayState {
	if lang == "" {
		lang = DefaultLang
	}
	return &DisplayState{
		Background:  color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Border:      color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff},
		TextColor:   MustHex("#2f3542"),
		Font:        Font{Family: DefaultFontFamily, Size: DefaultFontSize},
		ShowCount:   true,
		ShowPercent: true,
		Style:       StyleMinimalist,
		Lang:        lang,
	}
}

// ParseHex parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
