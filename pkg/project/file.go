package project

// File is the on-disk project document.
type File struct {
	// Active is the ID of the layer the export actions run on.
	Active string `yaml:"active,omitempty"`
	// Selected lists the IDs of the layers selected in the layer tree.
	Selected []string `yaml:"selected,omitempty"`
	// Locale drives digit grouping of legend counts, e.g. "en" or "id".
	Locale string        `yaml:"locale,omitempty"`
	Layers []LayerConfig `yaml:"layers"`
}

// LayerConfig declares one layer. A vector layer reads its features from a
// GeoJSON Source path or an ArcGIS FeatureServer layer URL.
type LayerConfig struct {
	ID        string          `yaml:"id"`
	Name      string          `yaml:"name,omitempty"`
	Type      string          `yaml:"type,omitempty"`
	CRS       string          `yaml:"crs,omitempty"`
	Source    string          `yaml:"source,omitempty"`
	URL       string          `yaml:"url,omitempty"`
	Fields    []FieldConfig   `yaml:"fields,omitempty"`
	Renderer  *RendererConfig `yaml:"renderer,omitempty"`
	ShowCount *bool           `yaml:"show_count,omitempty"`
}

// FieldConfig declares one attribute column.
type FieldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

// RendererConfig declares a single-symbol or categorized renderer.
type RendererConfig struct {
	Type       string           `yaml:"type"`
	Field      string           `yaml:"field,omitempty"`
	Label      string           `yaml:"label,omitempty"`
	Color      string           `yaml:"color,omitempty"`
	Categories []CategoryConfig `yaml:"categories,omitempty"`
	Default    *CategoryConfig  `yaml:"default,omitempty"`
}

// CategoryConfig is one class of a categorized renderer. A nil Checked means
// checked.
type CategoryConfig struct {
	Value   string `yaml:"value"`
	Label   string `yaml:"label,omitempty"`
	Color   string `yaml:"color,omitempty"`
	Checked *bool  `yaml:"checked,omitempty"`
}

func (c *CategoryConfig) checked() bool {
	return c.Checked == nil || *c.Checked
}

func (l *LayerConfig) showCount() bool {
	return l.ShowCount == nil || *l.ShowCount
}

func (l *LayerConfig) layerType() string {
	if l.Type == "" {
		return LayerTypeVector
	}
	return l.Type
}
