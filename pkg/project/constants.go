package project

const (
	LayerTypeVector = "vector"
	LayerTypeRaster = "raster"

	RendererSingle      = "single"
	RendererCategorized = "categorized"

	DefaultCRS    = "EPSG:4326"
	DefaultLocale = "en"

	// countFormat is printed through a locale printer, which applies digit
	// grouping.
	countFormat = "%d"
)
