package export

import (
	"context"
	"encoding/xml"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/host/hosttest"
)

type kmlFile struct {
	Document struct {
		Name       string         `xml:"name"`
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Overlays   []struct {
			Href string `xml:"Icon>href"`
		} `xml:"ScreenOverlay"`
	} `xml:"Document"`
}

type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Style       struct {
		IconColor  string  `xml:"IconStyle>color"`
		IconScale  float64 `xml:"IconStyle>scale"`
		LineColor  string  `xml:"LineStyle>color"`
		LineWidth  float64 `xml:"LineStyle>width"`
		FillColor  string  `xml:"PolyStyle>color"`
		LabelColor string  `xml:"LabelStyle>color"`
	} `xml:"Style"`
	Point    *struct{} `xml:"Point"`
	Polygons []struct {
		Inner []struct{} `xml:"innerBoundaryIs"`
	} `xml:"MultiGeometry>Polygon"`
	Lines []struct{} `xml:"MultiGeometry>LineString"`
}

// readKMZ opens the archive and returns its entry names and parsed doc.kml.
func readKMZ(t *testing.T, path string) ([]string, kmlFile) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	var doc kmlFile
	for _, f := range zr.File {
		names = append(names, f.Name)
		assert.Equal(t, zip.Deflate, f.Method)
		if f.Name != KMLEntry {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		require.NoError(t, xml.Unmarshal(data, &doc), "doc.kml parses")
	}
	return names, doc
}

// labels returns the names of label placemarks.
func labels(doc kmlFile) []string {
	var out []string
	for _, pm := range doc.Document.Placemarks {
		if pm.Name != "" {
			out = append(out, pm.Name)
		}
	}
	return out
}

func square(x, y float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
}

type stubLegend struct {
	visible bool
	err     error
	calls   int
}

func (s *stubLegend) Visible() bool { return s.visible }

func (s *stubLegend) CapturePNG(w io.Writer) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	_, err := w.Write([]byte("\x89PNG fake"))
	return err
}

func sectors() *hosttest.Layer {
	return &hosttest.Layer{
		LayerName: "Sectors",
		CRSID:     "EPSG:4326",
		FieldList: []host.Field{{Name: "site_id"}, {Name: "Sector", Type: host.FieldInt}},
		Feats: []*hosttest.Feature{
			{FID: 1, Values: []any{"JKT001", 1}, Geom: square(0, 0)},
			{FID: 2, Values: []any{"JKT001", 2}, Geom: square(0, 1)},
			{FID: 3, Values: []any{"JKT002", 1}, Geom: orb.MultiPolygon{square(5, 5), square(7, 7)}},
		},
		Rend: &hosttest.Renderer{Default: &red},
	}
}

func TestExportKMZLabels(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "sectors.kmz")
	summary, err := ExportKMZ(context.Background(), sectors(), dest, quiet())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Written)
	assert.Equal(t, 2, summary.Labels)
	assert.False(t, summary.Overlay)

	names, doc := readKMZ(t, dest)
	assert.Equal(t, []string{KMLEntry}, names)
	assert.Equal(t, "Sectors", doc.Document.Name)
	assert.Equal(t, []string{"JKT001", "JKT002"}, labels(doc), "one label per site")
	assert.Empty(t, doc.Document.Overlays)

	require.Len(t, doc.Document.Placemarks, 5)
	area := doc.Document.Placemarks[0]
	assert.Equal(t, "ff0000ff", area.Style.LineColor)
	assert.Equal(t, "bf0000ff", area.Style.FillColor)
	assert.Equal(t, float64(KMLAreaWidth), area.Style.LineWidth)
	assert.Len(t, area.Polygons, 1)
	assert.Contains(t, area.Description, "<td>site_id</td><td>JKT001</td>")

	label := doc.Document.Placemarks[1]
	assert.Equal(t, "JKT001", label.Name)
	assert.Equal(t, "ff00ffff", label.Style.LabelColor)
	assert.Equal(t, 0.0, label.Style.IconScale)
	assert.NotNil(t, label.Point)

	multi := doc.Document.Placemarks[3]
	assert.Len(t, multi.Polygons, 2)
}

func TestExportKMZNoLabelColumn(t *testing.T) {
	layer := sectors()
	layer.FieldList = []host.Field{{Name: "Cell"}, {Name: "Sector", Type: host.FieldInt}}

	dest := filepath.Join(t.TempDir(), "cells.kmz")
	summary, err := ExportKMZ(context.Background(), layer, dest, quiet())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Labels)

	names, doc := readKMZ(t, dest)
	assert.Equal(t, []string{KMLEntry}, names)
	assert.Empty(t, labels(doc))
	assert.Len(t, doc.Document.Placemarks, 3)
}

func TestExportKMZNullIdentifier(t *testing.T) {
	layer := sectors()
	layer.Feats[2].Values[0] = nil

	dest := filepath.Join(t.TempDir(), "sectors.kmz")
	summary, err := ExportKMZ(context.Background(), layer, dest, quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Written)
	assert.Equal(t, 1, summary.Labels)

	_, doc := readKMZ(t, dest)
	assert.Equal(t, []string{"JKT001"}, labels(doc))
	assert.Len(t, doc.Document.Placemarks, 4)
}

func TestExportKMZPointsAndLines(t *testing.T) {
	layer := &hosttest.Layer{
		LayerName: "Mixed",
		CRSID:     "EPSG:4326",
		FieldList: []host.Field{{Name: "SiteID"}, {Name: "Note"}},
		Feats: []*hosttest.Feature{
			{FID: 1, Values: []any{"P1", nil}, Geom: orb.MultiPoint{{0, 0}, {2, 2}}},
			{FID: 2, Values: []any{"L1", "a<b"}, Geom: orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}}},
			{FID: 3, Values: []any{"N1", nil}},
			{FID: 4, Values: []any{"H1", nil}, Geom: orb.Point{9, 9}},
		},
		Rend: &hosttest.Renderer{Symbols: map[int64]host.Symbol{
			1: {Color: color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}},
			2: green,
			3: red,
		}},
	}

	dest := filepath.Join(t.TempDir(), "mixed.kmz")
	summary, err := ExportKMZ(context.Background(), layer, dest, quiet())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Written)
	assert.Equal(t, 2, summary.Skipped, "no geometry and no symbol")
	assert.Equal(t, 0, summary.Labels, "labels are for polygons only")

	_, doc := readKMZ(t, dest)
	require.Len(t, doc.Document.Placemarks, 2)

	point := doc.Document.Placemarks[0]
	assert.Equal(t, "", point.Name)
	assert.Equal(t, "ff332211", point.Style.IconColor)
	assert.Equal(t, KMLPointScale, point.Style.IconScale)
	assert.NotNil(t, point.Point)
	assert.Contains(t, point.Description, "<td>Note</td><td>-</td>")

	line := doc.Document.Placemarks[1]
	assert.Equal(t, "ff00ff00", line.Style.LineColor)
	assert.Equal(t, float64(KMLLineWidth), line.Style.LineWidth)
	assert.Len(t, line.Lines, 2)
	assert.Contains(t, line.Description, "a&lt;b")
}

func TestExportKMZLegendOverlay(t *testing.T) {
	t.Run("Visible", func(t *testing.T) {
		legend := &stubLegend{visible: true}
		opts := quiet()
		opts.Legend = legend

		dest := filepath.Join(t.TempDir(), "with.kmz")
		summary, err := ExportKMZ(context.Background(), sectors(), dest, opts)
		require.NoError(t, err)
		assert.True(t, summary.Overlay)
		assert.Equal(t, 1, legend.calls)

		names, doc := readKMZ(t, dest)
		assert.Equal(t, []string{KMLEntry, LegendEntry}, names)
		require.Len(t, doc.Document.Overlays, 1)
		assert.Equal(t, LegendEntry, doc.Document.Overlays[0].Href)
	})

	for name, legend := range map[string]*stubLegend{
		"Hidden":         {visible: false},
		"Capture failed": {visible: true, err: assert.AnError},
	} {
		t.Run(name, func(t *testing.T) {
			opts := quiet()
			opts.Legend = legend

			dest := filepath.Join(t.TempDir(), "without.kmz")
			summary, err := ExportKMZ(context.Background(), sectors(), dest, opts)
			require.NoError(t, err)
			assert.False(t, summary.Overlay)

			names, doc := readKMZ(t, dest)
			assert.Equal(t, []string{KMLEntry}, names)
			assert.Empty(t, doc.Document.Overlays)
		})
	}
}

func TestExportKMZCancel(t *testing.T) {
	layer := sectors()
	rend := layer.Rend.(*hosttest.Renderer)
	opts := quiet()
	opts.Progress = &hosttest.Progress{CancelAt: 1}

	dest := filepath.Join(t.TempDir(), "partial.kmz")
	summary, err := ExportKMZ(context.Background(), layer, dest, opts)
	require.NoError(t, err)
	assert.True(t, summary.Canceled)
	assert.Equal(t, 1, summary.Processed())
	assert.Equal(t, 1, rend.Stopped)

	_, doc := readKMZ(t, dest)
	assert.Equal(t, []string{"JKT001"}, labels(doc))
	assert.Len(t, doc.Document.Placemarks, 2, "first feature and its label")
}

func TestExportKMZFeatureFailures(t *testing.T) {
	layer := &hosttest.Layer{
		LayerName: "Broken",
		CRSID:     "EPSG:3857",
		FieldList: []host.Field{{Name: "SiteID"}},
		Feats: []*hosttest.Feature{
			{FID: 1, Values: []any{"A"}, PanicOnGeometry: true},
			{FID: 2, Values: []any{"B"}, GeomErr: assert.AnError},
			{FID: 3, Values: []any{"C"}, Geom: orb.Point{1e12, 0}},
			{FID: 4, Values: []any{"D"}, Geom: orb.Point{0, 0}},
		},
		Rend: &hosttest.Renderer{Default: &red},
	}

	dest := filepath.Join(t.TempDir(), "broken.kmz")
	summary, err := ExportKMZ(context.Background(), layer, dest, quiet())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, 1, summary.Degraded, "untransformed geometry kept")
	assert.Equal(t, 1, summary.Written)

	_, doc := readKMZ(t, dest)
	assert.Len(t, doc.Document.Placemarks, 2)

	t.Run("DropGeometry", func(t *testing.T) {
		opts := quiet()
		opts.TransformPolicy = DropGeometry
		summary, err := ExportKMZ(context.Background(), layer, dest, opts)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Failed)
		_, doc := readKMZ(t, dest)
		assert.Len(t, doc.Document.Placemarks, 1)
	})
}

func TestLabelColumn(t *testing.T) {
	tests := []struct {
		name     string
		fields   []string
		expected string
	}{
		{"Exact", []string{"Name", "SiteID"}, "SiteID"},
		{"Case insensitive", []string{"siteid"}, "siteid"},
		{"Priority beats order", []string{"SiteName", "ENODEB", "Site_ID"}, "Site_ID"},
		{"Fallback variant", []string{"Cell", "eNB"}, "eNB"},
		{"None", []string{"Cell", "Sector"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields []host.Field
			for _, f := range tt.fields {
				fields = append(fields, host.Field{Name: f})
			}
			assert.Equal(t, tt.expected, LabelColumn(fields))
		})
	}
}

func TestDescribe(t *testing.T) {
	got := describe([]host.Field{{Name: "A&B"}, {Name: "N"}}, []any{"<x>", nil, 3})
	assert.True(t, strings.HasPrefix(got, KMLTableOpen))
	assert.Contains(t, got, "<tr><td>A&amp;B</td><td>&lt;x&gt;</td></tr>")
	assert.Contains(t, got, "<tr><td>N</td><td>-</td></tr>")
	assert.Contains(t, got, "<tr><td>Col_2</td><td>3</td></tr>")
}
