package arcgis

// APIError is the error object ArcGIS REST endpoints embed in a 200 response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Layer represents the metadata of a FeatureServer or MapServer layer.
type Layer struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	GeometryType   string       `json:"geometryType"`
	Description    string       `json:"description"`
	Fields         []Field      `json:"fields"`
	DrawingInfo    *DrawingInfo `json:"drawingInfo"`
	Extent         *Extent      `json:"extent"`
	MaxRecordCount int          `json:"maxRecordCount"`
	Error          *APIError    `json:"error"`
}

// Field is one attribute column of a layer.
type Field struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Alias  string `json:"alias"`
	Length int    `json:"length"`
}

// Extent carries the layer's native spatial reference.
type Extent struct {
	SpatialReference *SpatialReference `json:"spatialReference"`
}

// SpatialReference identifies a CRS by well-known ID.
type SpatialReference struct {
	WKID       int `json:"wkid"`
	LatestWKID int `json:"latestWkid"`
}

// DrawingInfo represents drawing information for a layer.
type DrawingInfo struct {
	Renderer *Renderer `json:"renderer"`
}

// Renderer represents the renderer for a layer.
type Renderer struct {
	Type              string             `json:"type"`
	Field1            string             `json:"field1"`
	Symbol            *Symbol            `json:"symbol"`
	Label             string             `json:"label"`
	DefaultSymbol     *Symbol            `json:"defaultSymbol"`
	DefaultLabel      string             `json:"defaultLabel"`
	UniqueValueInfos  []UniqueValueInfo  `json:"uniqueValueInfos"`
	UniqueValueGroups []UniqueValueGroup `json:"uniqueValueGroups"`
}

// Symbol represents a symbol used for rendering features. Color is an
// [r, g, b, a] array; it is absent for picture symbols.
type Symbol struct {
	Type    string   `json:"type"`
	Style   string   `json:"style"`
	Color   []int    `json:"color"`
	Outline *Outline `json:"outline"`
	URL     string   `json:"url"`
	Width   float64  `json:"width"`
}

// Outline is the stroke of a fill or marker symbol.
type Outline struct {
	Color []int   `json:"color"`
	Width float64 `json:"width"`
}

// UniqueValueInfo is one category of a unique value renderer.
type UniqueValueInfo struct {
	Value  string  `json:"value"`
	Label  string  `json:"label"`
	Symbol *Symbol `json:"symbol"`
}

// UniqueValueGroup represents a group of unique values for rendering.
type UniqueValueGroup struct {
	Heading string             `json:"heading"`
	Classes []UniqueValueClass `json:"classes"`
}

// UniqueValueClass represents a class of unique values for rendering.
type UniqueValueClass struct {
	Label       string     `json:"label"`
	Description string     `json:"description"`
	Values      [][]string `json:"values"`
	Symbol      *Symbol    `json:"symbol"`
}

// FeatureResponse represents the response from a feature query.
type FeatureResponse struct {
	Features              []Feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
	Error                 *APIError `json:"error"`
}

// Feature represents a geographic feature with attributes and geometry.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   map[string]any `json:"geometry"`
}
