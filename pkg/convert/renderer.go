package convert

import (
	"image/color"

	"github.com/Sudo-Ivan/embedlegend/pkg/arcgis"
)

// FromRenderer converts an esri renderer. Unique value renderers become
// categorized renderers keyed on field1, taking their classes from
// uniqueValueInfos or, when those are absent, from uniqueValueGroups. Any
// other renderer type becomes a single-symbol renderer.
//
// Parameters:
//   - r: The esri renderer, may be nil
//
// Returns:
//   - Renderer: The converted renderer
func FromRenderer(r *arcgis.Renderer) Renderer {
	if r == nil {
		return Renderer{Kind: KindSingle, Categories: []Category{{Color: DefaultColor}}}
	}

	if r.Type != RendererUniqueValue || r.Field1 == "" {
		return Renderer{
			Kind:       KindSingle,
			Categories: []Category{{Label: r.Label, Color: SymbolColor(r.Symbol)}},
		}
	}

	out := Renderer{Kind: KindCategorized, Field: r.Field1}
	for _, info := range r.UniqueValueInfos {
		out.Categories = append(out.Categories, Category{
			Value: info.Value,
			Label: labelOr(info.Label, info.Value),
			Color: SymbolColor(info.Symbol),
		})
	}
	if len(r.UniqueValueInfos) == 0 {
		for _, g := range r.UniqueValueGroups {
			for _, class := range g.Classes {
				for _, values := range class.Values {
					if len(values) == 0 {
						continue
					}
					out.Categories = append(out.Categories, Category{
						Value: values[IndexFirst],
						Label: labelOr(class.Label, values[IndexFirst]),
						Color: SymbolColor(class.Symbol),
					})
				}
			}
		}
	}
	if r.DefaultSymbol != nil {
		out.Default = &Category{Label: r.DefaultLabel, Color: SymbolColor(r.DefaultSymbol)}
	}
	return out
}

// SymbolColor returns the fill color of an esri symbol, falling back to its
// outline color and then to DefaultColor. A missing alpha component is opaque.
func SymbolColor(s *arcgis.Symbol) color.RGBA {
	if s == nil {
		return DefaultColor
	}
	if c, ok := rgba(s.Color); ok {
		return c
	}
	if s.Outline != nil {
		if c, ok := rgba(s.Outline.Color); ok {
			return c
		}
	}
	return DefaultColor
}

func rgba(c []int) (color.RGBA, bool) {
	if len(c) < 3 {
		return color.RGBA{}, false
	}
	out := color.RGBA{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: 0xff}
	if len(c) > 3 {
		out.A = clamp(c[3])
	}
	return out, true
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	}
	return uint8(v)
}

func labelOr(label, value string) string {
	if label != "" {
		return label
	}
	return value
}
