// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	kml "github.com/twpayne/go-kml"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/utils"
)

// ExportKMZ writes layer as a Google Earth archive holding doc.kml and, when
// opts.Legend is visible, legend.png shown as a screen overlay.
//
// Features without geometry or without a symbol are skipped. Polygon features
// get one label placemark per distinct value of the identifier column picked
// by LabelColumn; features whose identifier is null get no label. A canceled
// run still writes a valid archive of the features visited so far.
//
// Parameters:
//   - ctx: Cancels the run between features
//   - layer: The layer to export, must be a valid vector layer
//   - dest: The .kmz path; the extension is added when missing
//   - opts: Optional logger, progress, transform, policy and legend
//
// Returns:
//   - *Summary: Per-feature results of the run
//   - error: Precondition failures and unrecoverable I/O or archive errors
func ExportKMZ(ctx context.Context, layer host.MapLayer, dest string, opts Options) (*Summary, error) {
	r, err := prepare(ctx, layer, dest, opts, KeepSource)
	if err != nil {
		return nil, err
	}

	path := withExt(dest, ExtKMZ)
	r.summary = newSummary(path, r.layer.FeatureCount())
	r.summary.Files = []string{path}

	work, err := os.MkdirTemp("", "embedlegend-kmz-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to create working directory")
	}
	defer os.RemoveAll(work)

	legendPath := ""
	if opts.Legend != nil && opts.Legend.Visible() {
		legendPath = filepath.Join(work, LegendEntry)
		if err := captureLegend(opts.Legend, legendPath); err != nil {
			r.logger.Warn("legend capture failed, archive has no overlay", "err", err)
			legendPath = ""
		}
	}

	doc := kml.Document(kml.Name(r.layer.Name()))
	if err := r.start(); err != nil {
		return nil, err
	}
	r.streamKMZ(doc)

	if legendPath != "" {
		doc.Add(legendOverlay())
		r.summary.Overlay = true
	}

	kmlPath := filepath.Join(work, KMLEntry)
	if err := writeKML(kmlPath, kml.KML(doc)); err != nil {
		return nil, err
	}

	entries := []string{kmlPath}
	if legendPath != "" {
		entries = append(entries, legendPath)
	}
	if err := writeArchive(path, entries); err != nil {
		return nil, err
	}

	r.finish("kmz")
	return r.summary, nil
}

// streamKMZ adds the placemarks of every feature to doc and closes the
// renderer session.
func (r *run) streamKMZ(doc *kml.CompoundElement) {
	defer r.stop()

	labelCol := LabelColumn(r.layer.Fields())
	labeled := make(map[string]struct{})

	i := 0
	for f := range r.layer.Features() {
		if r.canceled() {
			r.summary.Canceled = true
			break
		}
		r.progress.SetValue(i)
		i++

		pm, g, outcome, reason := r.placemark(f)
		if pm == nil {
			r.note(f.ID(), outcome, reason)
			continue
		}
		doc.Add(pm)
		r.note(f.ID(), outcome, reason)

		if labelCol == "" || utils.KindOf(g) != utils.KindPolygon {
			continue
		}
		id, ok := labelText(f, labelCol)
		if !ok {
			continue
		}
		if _, seen := labeled[id]; seen {
			continue
		}
		if center, ok := utils.Centroid(g); ok {
			doc.Add(labelPlacemark(id, center))
			labeled[id] = struct{}{}
			r.summary.Labels++
		}
	}
}

// placemark builds the placemark of one feature. A nil placemark means the
// feature is left out, with outcome and reason saying why. The returned
// geometry is the exported one.
func (r *run) placemark(f host.Feature) (pm *kml.CompoundElement, g orb.Geometry, outcome Outcome, reason string) {
	defer func() {
		if p := recover(); p != nil {
			pm, g, outcome, reason = nil, nil, Failed, fmt.Sprintf("panic: %v", p)
		}
	}()

	src, err := f.Geometry()
	if err != nil {
		return nil, nil, Failed, fmt.Sprintf("geometry: %v", err)
	}
	if utils.IsEmpty(src) {
		return nil, nil, Skipped, "no geometry"
	}
	sym, ok, err := r.symbol(f)
	if err != nil {
		return nil, nil, Failed, err.Error()
	}
	if !ok {
		return nil, nil, Skipped, "no symbol"
	}

	outcome = Written
	g, err = r.tr.Transform(src)
	if err != nil {
		if r.policy == DropGeometry {
			return nil, nil, Failed, err.Error()
		}
		g, outcome, reason = src, Degraded, err.Error()
	}

	line := lineColor(sym.Color)
	desc := kml.Description(describe(r.layer.Fields(), f.Attributes()))

	switch utils.KindOf(g) {
	case utils.KindPoint:
		center, ok := utils.Centroid(g)
		if !ok {
			return nil, nil, Failed, "point has no centroid"
		}
		pm = kml.Placemark(
			kml.Name(""),
			desc,
			kml.Style(
				kml.IconStyle(
					kml.Color(line),
					kml.Scale(KMLPointScale),
					kml.Icon(kml.Href(KMLPointIcon)),
				),
			),
			kml.Point(kml.Coordinates(coordinate(center))),
		)
	case utils.KindLine:
		geoms := kml.MultiGeometry()
		for _, ls := range utils.Lines(g) {
			geoms.Add(kml.LineString(kml.Coordinates(coordinates(ls)...)))
		}
		pm = kml.Placemark(
			kml.Name(""),
			desc,
			kml.Style(kml.LineStyle(kml.Color(line), kml.Width(KMLLineWidth))),
			geoms,
		)
	case utils.KindPolygon:
		geoms := kml.MultiGeometry()
		for _, poly := range utils.Polygons(g) {
			geoms.Add(polygon(poly))
		}
		pm = kml.Placemark(
			kml.Name(""),
			desc,
			kml.Style(
				kml.LineStyle(kml.Color(line), kml.Width(KMLAreaWidth)),
				kml.PolyStyle(kml.Color(fillColor(sym.Color)), kml.Fill(true), kml.Outline(true)),
			),
			geoms,
		)
	default:
		return nil, nil, Skipped, fmt.Sprintf("unsupported geometry %T", g)
	}
	return pm, g, outcome, reason
}

// LabelColumn returns the identifier column used for polygon labels, matched
// case-insensitively against LabelColumns in priority order. It returns ""
// when no column matches. Null identifiers are not labeled.
func LabelColumn(fields []host.Field) string {
	for _, want := range LabelColumns {
		for _, f := range fields {
			if strings.EqualFold(f.Name, want) {
				return f.Name
			}
		}
	}
	return ""
}

func labelText(f host.Feature, col string) (string, bool) {
	v, ok := f.Attribute(col)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprintf("%v", v), true
}

func labelPlacemark(id string, at orb.Point) *kml.CompoundElement {
	return kml.Placemark(
		kml.Name(id),
		kml.Style(
			kml.IconStyle(kml.Scale(0)),
			kml.LabelStyle(kml.Scale(KMLLabelScale), kml.Color(labelColor)),
		),
		kml.Point(kml.Coordinates(coordinate(at))),
	)
}

func legendOverlay() *kml.CompoundElement {
	return kml.ScreenOverlay(
		kml.Name(LegendName),
		kml.Icon(kml.Href(LegendEntry)),
		kml.OverlayXY(kml.Vec2{X: 0, Y: 1, XUnits: kml.UnitsFraction, YUnits: kml.UnitsFraction}),
		kml.ScreenXY(kml.Vec2{X: 0.01, Y: 0.99, XUnits: kml.UnitsFraction, YUnits: kml.UnitsFraction}),
	)
}

func polygon(poly orb.Polygon) *kml.CompoundElement {
	el := kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(kml.Coordinates(coordinates(poly[0])...))))
	for _, inner := range poly[1:] {
		el.Add(kml.InnerBoundaryIs(kml.LinearRing(kml.Coordinates(coordinates(inner)...))))
	}
	return el
}

func coordinate(pt orb.Point) kml.Coordinate {
	return kml.Coordinate{Lon: pt.X(), Lat: pt.Y()}
}

func coordinates[P ~[]orb.Point](pts P) []kml.Coordinate {
	out := make([]kml.Coordinate, 0, len(pts))
	for _, pt := range pts {
		out = append(out, coordinate(pt))
	}
	return out
}

// lineColor is the opaque color of points and lines.
func lineColor(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// fillColor is the translucent color of polygon fills.
func fillColor(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: KMLFillAlpha}
}

// describe formats the attributes of a feature as an HTML table.
func describe(fields []host.Field, values []any) string {
	var sb strings.Builder
	sb.WriteString(KMLTableOpen)
	for i, v := range values {
		name := fmt.Sprintf("Col_%d", i)
		if i < len(fields) {
			name = fields[i].Name
		}
		val := KMLEmptyValue
		if v != nil {
			val = fmt.Sprintf("%v", v)
		}
		fmt.Fprintf(&sb, KMLTableRow, escapeXML(name), escapeXML(val))
	}
	sb.WriteString(KMLTableClose)
	return sb.String()
}

// escapeXML escapes XML special characters in a string.
func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	).Replace(s)
}

func captureLegend(c Capture, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.CapturePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeKML(path string, k *kml.CompoundElement) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to create %s", KMLEntry)
	}
	if err := k.WriteIndent(f, "", "  "); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "failed to write %s", KMLEntry)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to close %s", KMLEntry)
	}
	return nil
}

// writeArchive deflates the given files into a zip at dest, each stored under
// its base name. A failed archive is removed.
func writeArchive(dest string, files []string) (err error) {
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "failed to create %s", dest)
	}
	defer func() {
		if err != nil {
			os.Remove(dest)
		}
	}()

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addToArchive(zw, file); err != nil {
			zw.Close()
			out.Close()
			return errors.Wrap(errors.ErrCodeArchive, err, "failed to add %s", filepath.Base(file))
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return errors.Wrap(errors.ErrCodeArchive, err, "failed to finish %s", dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeArchive, err, "failed to close %s", dest)
	}
	return nil
}

func addToArchive(zw *zip.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(path),
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
