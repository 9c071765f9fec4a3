package project

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// class is one legend entry of a Renderer. The catch-all class of a
// categorized renderer has other set.
type class struct {
	value   string
	label   string
	color   color.RGBA
	checked bool
	other   bool
	cfg     *CategoryConfig
}

// Renderer is a single-symbol or categorized renderer. Its rule keys are the
// class positions as strings ("0", "1", ...); the legend nodes it hands out
// use integer keys for the same classes.
type Renderer struct {
	kind     string
	field    string
	classes  []*class
	fieldIdx int
	active   bool
}

// LegendSymbolItems returns one item per class in legend order.
func (r *Renderer) LegendSymbolItems() []host.SymbolItem {
	items := make([]host.SymbolItem, 0, len(r.classes))
	for i, c := range r.classes {
		items = append(items, host.SymbolItem{
			RuleKey: host.NewRuleKey(strconv.Itoa(i)),
			Label:   c.label,
			Symbol:  host.Symbol{Color: c.color},
		})
	}
	return items
}

// StartRender resolves the classification field against fields.
func (r *Renderer) StartRender(fields []host.Field) error {
	r.fieldIdx = -1
	if r.kind == RendererCategorized {
		r.fieldIdx = host.FieldIndex(fields, r.field)
		if r.fieldIdx < 0 {
			return fmt.Errorf("classification field %q not found", r.field)
		}
	}
	r.active = true
	return nil
}

// SymbolForFeature returns the symbol of the class f falls into. Features of
// unchecked classes, and features no class matches, have no symbol.
func (r *Renderer) SymbolForFeature(f host.Feature) (host.Symbol, bool) {
	c := r.classify(f.Attributes(), r.fieldIdx)
	if c == nil || !c.checked {
		return host.Symbol{}, false
	}
	return host.Symbol{Color: c.color}, true
}

// Rendering reports whether a render session is open.
func (r *Renderer) Rendering() bool {
	return r.active
}

// StopRender closes the render session.
func (r *Renderer) StopRender() {
	r.active = false
	r.fieldIdx = -1
}

func (r *Renderer) classify(values []any, idx int) *class {
	if len(r.classes) == 0 {
		return nil
	}
	if r.kind != RendererCategorized {
		return r.classes[0]
	}
	var other *class
	var value string
	if idx >= 0 && idx < len(values) && values[idx] != nil {
		value = formatValue(values[idx])
	}
	for _, c := range r.classes {
		if c.other {
			other = c
			continue
		}
		if c.value == value {
			return c
		}
	}
	return other
}

func formatValue(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// node is a legend node bound to one renderer class.
type node struct {
	class *class
	index int
	text  string
}

func (n *node) Text() string { return n.text }
func (n *node) Checked() bool { return n.class.checked }
func (n *node) SetChecked(checked bool) { n.class.checked = checked }
func (n *node) Icon() color.RGBA { return n.class.color }
func (n *node) Key() host.RuleKey { return host.NewRuleKey(n.index) }
