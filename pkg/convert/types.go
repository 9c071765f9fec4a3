package convert

import "image/color"

// Category is one class of a converted renderer.
type Category struct {
	Value string
	Label string
	Color color.RGBA
}

// Renderer is the host-neutral form of an esri drawingInfo renderer.
// Kind is KindSingle or KindCategorized; Field is empty for KindSingle.
type Renderer struct {
	Kind       string
	Field      string
	Categories []Category
	Default    *Category
}
