// Package hosttest provides in-memory host implementations for tests.
package hosttest

import (
	"image/color"
	"iter"

	"github.com/paulmach/orb"

	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// Layer is an in-memory vector layer.
type Layer struct {
	LayerID   string
	LayerName string
	CRSID     string
	Invalid   bool
	FieldList []host.Field
	Feats     []*Feature
	Rend      host.Renderer
	Repaints  int
}

func (l *Layer) ID() string { return l.LayerID }
func (l *Layer) Name() string { return l.LayerName }
func (l *Layer) IsValid() bool { return !l.Invalid }
func (l *Layer) CRS() string { return l.CRSID }
func (l *Layer) Fields() []host.Field { return l.FieldList }
func (l *Layer) FeatureCount() int { return len(l.Feats) }
func (l *Layer) TriggerRepaint() { l.Repaints++ }

func (l *Layer) Features() iter.Seq[host.Feature] {
	return func(yield func(host.Feature) bool) {
		for _, f := range l.Feats {
			f.fields = l.FieldList
			if !yield(f) {
				return
			}
		}
	}
}

func (l *Layer) Renderer() (host.Renderer, bool) {
	return l.Rend, l.Rend != nil
}

// Raster is a non-vector layer.
type Raster struct {
	LayerID   string
	LayerName string
}

func (r *Raster) ID() string { return r.LayerID }
func (r *Raster) Name() string { return r.LayerName }
func (r *Raster) IsValid() bool { return true }

// Feature is an in-memory feature.
type Feature struct {
	FID     int64
	Values  []any
	Geom    orb.Geometry
	GeomErr error

	// PanicOnGeometry makes Geometry panic, simulating a broken provider.
	PanicOnGeometry bool

	fields []host.Field
}

func (f *Feature) ID() int64 { return f.FID }
func (f *Feature) Attributes() []any { return f.Values }

func (f *Feature) Attribute(name string) (any, bool) {
	i := host.FieldIndex(f.fields, name)
	if i < 0 || i >= len(f.Values) {
		return nil, false
	}
	return f.Values[i], true
}

func (f *Feature) Geometry() (orb.Geometry, error) {
	if f.PanicOnGeometry {
		panic("geometry provider crashed")
	}
	return f.Geom, f.GeomErr
}

// Renderer resolves symbols by feature ID and records its session calls.
type Renderer struct {
	Items    []host.SymbolItem
	Symbols  map[int64]host.Symbol
	Default  *host.Symbol
	StartErr error
	Started  int
	Stopped  int
}

func (r *Renderer) LegendSymbolItems() []host.SymbolItem { return r.Items }

func (r *Renderer) StartRender([]host.Field) error {
	if r.StartErr != nil {
		return r.StartErr
	}
	r.Started++
	return nil
}

func (r *Renderer) SymbolForFeature(f host.Feature) (host.Symbol, bool) {
	if s, ok := r.Symbols[f.ID()]; ok {
		return s, true
	}
	if r.Default != nil {
		return *r.Default, true
	}
	return host.Symbol{}, false
}

func (r *Renderer) StopRender() { r.Stopped++ }

// Node is an in-memory legend node.
type Node struct {
	Label string
	On    bool
	Color color.RGBA
	K     host.RuleKey
}

func (n *Node) Text() string { return n.Label }
func (n *Node) Checked() bool { return n.On }
func (n *Node) SetChecked(on bool) { n.On = on }
func (n *Node) Icon() color.RGBA { return n.Color }
func (n *Node) Key() host.RuleKey { return n.K }

// Provider serves legend nodes by layer ID and counts fetches.
type Provider struct {
	Nodes   map[string][]*Node
	Fetches int
}

func (p *Provider) LegendNodes(layer host.VectorLayer) ([]host.LegendNode, bool) {
	p.Fetches++
	nodes, ok := p.Nodes[layer.ID()]
	if !ok {
		return nil, false
	}
	out := make([]host.LegendNode, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out, true
}

// Selection is a fixed layer selection.
type Selection []host.MapLayer

func (s Selection) SelectedLayers() []host.MapLayer { return s }

// Progress records progress values and cancels once CancelAt values were set.
// A zero CancelAt never cancels.
type Progress struct {
	CancelAt int
	Values   []int
}

func (p *Progress) SetValue(v int) { p.Values = append(p.Values, v) }

func (p *Progress) WasCanceled() bool {
	return p.CancelAt > 0 && len(p.Values) >= p.CancelAt
}
