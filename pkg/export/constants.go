package export

import "image/color"

const (
	DefaultDestCRS = "EPSG:4326"

	ExtMIF = ".mif"
	ExtMID = ".mid"
	ExtKMZ = ".kmz"

	// MIF header
	MIFVersion     = "Version 300"
	MIFCharset     = `Charset "WindowsLatin1"`
	MIFDelimiter   = `Delimiter ","`
	MIFCoordSys    = "CoordSys Earth Projection 1, 104"
	MIFData        = "Data"
	MIFColumnChars = 10
	MIFTypeInteger = "Integer"
	MIFTypeFloat   = "Float"
	MIFTypeChar    = "Char(254)"
	MIFNone        = "None"

	// MIF styling directives, %d is the packed RGB color
	MIFSymbol  = `    Symbol (108, %d, 8, "Wingdings", 0, 0)`
	MIFPenLine = "    Pen (2, 2, %d)"
	MIFPenArea = "    Pen (1, 2, %d)"
	MIFBrush   = "    Brush (2, %d)"

	// KMZ archive entries
	KMLEntry    = "doc.kml"
	LegendEntry = "legend.png"

	KMLPointScale = 0.7
	KMLLabelScale = 0.9
	KMLLineWidth  = 2
	KMLAreaWidth  = 1
	KMLFillAlpha  = 0xbf
	KMLPointIcon  = "http://maps.google.com/mapfiles/kml/shapes/shaded_dot.png"
	KMLEmptyValue = "-"
	KMLTableOpen  = "<table border='1' width='300'>"
	KMLTableClose = "</table>"
	KMLTableRow   = "<tr><td>%s</td><td>%s</td></tr>"
	LegendName    = "Legend"
)

// LabelColumns is the priority list of identifier columns used for polygon
// labels. Matching is case-insensitive; the first entry found wins.
var LabelColumns = []string{"SiteID", "Site_ID", "SITEID", "SITE_ID", "EnodeB", "eNB", "Site", "SiteName"}

// labelColor is the KML label color ff00ffff.
var labelColor = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
