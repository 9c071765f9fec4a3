package arcgis

const (
	// OutSR is the spatial reference features are requested in.
	OutSR = "4326"
	// MaxPages bounds resultOffset paging of a single query.
	MaxPages = 100
)
