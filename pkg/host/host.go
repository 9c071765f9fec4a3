// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package host defines the services the legend and export engines consume from
// the map application that owns the layers.
//
// The engines never assume a concrete implementation: a layer, its renderer,
// its legend nodes, the coordinate transform engine and the progress surface
// are all reached through the interfaces declared here.
package host

import (
	"image/color"
	"iter"

	"github.com/paulmach/orb"
)

// MapLayer is any layer of the host project, vector or not.
type MapLayer interface {
	ID() string
	Name() string
	IsValid() bool
}

// VectorLayer is a named vector dataset with a CRS, an ordered attribute
// schema, a feature set and (optionally) a renderer.
type VectorLayer interface {
	MapLayer

	// CRS returns the authority identifier of the layer CRS, e.g. "EPSG:3857".
	CRS() string
	Fields() []Field
	FeatureCount() int
	// Features yields every feature of the layer in storage order.
	Features() iter.Seq[Feature]
	// Renderer returns the active renderer, or false when none is set.
	Renderer() (Renderer, bool)
	TriggerRepaint()
}

// Feature is a single record of a vector layer.
type Feature interface {
	ID() int64
	// Attributes returns the values positionally aligned with the layer fields.
	Attributes() []any
	Attribute(name string) (any, bool)
	// Geometry returns the feature geometry. A nil geometry with a nil error
	// means the feature has no geometry.
	Geometry() (orb.Geometry, error)
}

// Symbol is the resolved drawing symbol of a feature.
type Symbol struct {
	Color color.RGBA
}

// SymbolItem is one legend entry of a renderer.
type SymbolItem struct {
	RuleKey RuleKey
	Label   string
	Symbol  Symbol
}

// Renderer maps features to symbols and exposes its ordered legend entries.
type Renderer interface {
	LegendSymbolItems() []SymbolItem
	// StartRender opens a render session. Every successful call must be
	// paired with StopRender.
	StartRender(fields []Field) error
	SymbolForFeature(f Feature) (Symbol, bool)
	StopRender()
}

// LegendNode is the host's visual and interactive state for one renderer
// category.
type LegendNode interface {
	// Text is the display label, possibly embedding a bracketed count such as
	// "Urban [1,234]".
	Text() string
	Checked() bool
	SetChecked(checked bool)
	Icon() color.RGBA
	Key() RuleKey
}

// NodeProvider returns the legend nodes of a layer. Implementations must
// return a freshly fetched list on every call; the list is positionally aligned
// with the renderer's LegendSymbolItems.
type NodeProvider interface {
	LegendNodes(layer VectorLayer) ([]LegendNode, bool)
}

// Transformer reprojects geometries between two coordinate reference systems.
type Transformer interface {
	Transform(g orb.Geometry) (orb.Geometry, error)
}

// Progress is the cancelable progress surface of a long running operation.
type Progress interface {
	SetValue(value int)
	WasCanceled() bool
}
