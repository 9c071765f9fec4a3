package project

import (
	"iter"

	"github.com/paulmach/orb"

	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// Layer is a loaded vector layer.
type Layer struct {
	id        string
	name      string
	crs       string
	valid     bool
	fields    []host.Field
	features  []*Feature
	renderer  *Renderer
	showCount bool
	repaints  int
}

func (l *Layer) ID() string { return l.id }
func (l *Layer) Name() string { return l.name }
func (l *Layer) IsValid() bool { return l.valid }
func (l *Layer) CRS() string { return l.crs }
func (l *Layer) Fields() []host.Field { return l.fields }
func (l *Layer) FeatureCount() int { return len(l.features) }

// TriggerRepaint records a repaint request. The project has no canvas, so the
// count is all that is kept.
func (l *Layer) TriggerRepaint() { l.repaints++ }

// Repaints returns how many repaints were requested.
func (l *Layer) Repaints() int { return l.repaints }

// Features yields the features in load order.
func (l *Layer) Features() iter.Seq[host.Feature] {
	return func(yield func(host.Feature) bool) {
		for _, f := range l.features {
			if !yield(f) {
				return
			}
		}
	}
}

// Renderer returns the layer renderer, or false when the layer has none.
func (l *Layer) Renderer() (host.Renderer, bool) {
	if l.renderer == nil {
		return nil, false
	}
	return l.renderer, true
}

// Raster is a non-vector layer. It only takes part in selection.
type Raster struct {
	id   string
	name string
}

func (r *Raster) ID() string { return r.id }
func (r *Raster) Name() string { return r.name }
func (r *Raster) IsValid() bool { return true }

// Feature is one record of a Layer.
type Feature struct {
	id     int64
	values []any
	geom   orb.Geometry
	layer  *Layer
}

func (f *Feature) ID() int64 { return f.id }
func (f *Feature) Attributes() []any { return f.values }
func (f *Feature) Geometry() (orb.Geometry, error) { return f.geom, nil }

func (f *Feature) Attribute(name string) (any, bool) {
	i := host.FieldIndex(f.layer.fields, name)
	if i < 0 || i >= len(f.values) {
		return nil, false
	}
	return f.values[i], true
}
