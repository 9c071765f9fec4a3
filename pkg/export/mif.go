// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/paulmach/orb"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/utils"
)

// ExportMIF writes layer as a MapInfo interchange pair: dest (.mif) holds the
// header and geometries, and a .mid file next to it holds the attribute
// records, one per feature in the same order. Both files are Windows-1252.
//
// Per-feature failures degrade that feature to a "None" geometry; they are
// reported in the summary and never abort the run. Cancellation through ctx or
// opts.Progress stops at the next feature and still closes both files.
//
// Parameters:
//   - ctx: Cancels the run between features
//   - layer: The layer to export, must be a valid vector layer
//   - dest: The .mif path; the extension is added when missing
//   - opts: Optional logger, progress, transform and policy
//
// Returns:
//   - *Summary: Per-feature results of the run
//   - error: Precondition failures and unrecoverable I/O errors
func ExportMIF(ctx context.Context, layer host.MapLayer, dest string, opts Options) (*Summary, error) {
	r, err := prepare(ctx, layer, dest, opts, DropGeometry)
	if err != nil {
		return nil, err
	}

	mifPath := withExt(dest, ExtMIF)
	midPath := strings.TrimSuffix(mifPath, filepath.Ext(mifPath)) + ExtMID
	r.summary = newSummary(mifPath, r.layer.FeatureCount())
	r.summary.Files = []string{mifPath, midPath}

	mifFile, err := newLatin1File(mifPath)
	if err != nil {
		return nil, err
	}
	defer mifFile.abort()
	midFile, err := newLatin1File(midPath)
	if err != nil {
		return nil, err
	}
	defer midFile.abort()

	mif := bufio.NewWriter(mifFile)
	mid := csv.NewWriter(midFile)
	mid.UseCRLF = true

	if err := writeMIFHeader(mif, r.layer.Fields()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to write %s", mifPath)
	}

	if err := r.start(); err != nil {
		return nil, err
	}
	defer r.stop()
	if err := r.streamMIF(mif, mid); err != nil {
		return nil, err
	}

	mid.Flush()
	if err := mid.Error(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to write %s", midPath)
	}
	if err := mif.Flush(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to write %s", mifPath)
	}
	if err := mifFile.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to close %s", mifPath)
	}
	if err := midFile.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to close %s", midPath)
	}

	r.finish("mif")
	return r.summary, nil
}

func (r *run) streamMIF(mif *bufio.Writer, mid *csv.Writer) error {
	i := 0
	for f := range r.layer.Features() {
		if r.canceled() {
			r.summary.Canceled = true
			break
		}
		r.progress.SetValue(i)
		i++

		if err := mid.Write(midRecord(f.Attributes())); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "failed to write attribute record")
		}

		block, outcome, reason := r.mifBlock(f)
		if _, err := mif.Write(block); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "failed to write geometry")
		}
		r.note(f.ID(), outcome, reason)
	}
	return nil
}

// mifBlock renders the geometry block of one feature. A failing feature
// yields the None sentinel and never a partial block.
func (r *run) mifBlock(f host.Feature) (block []byte, outcome Outcome, reason string) {
	none := []byte(MIFNone + "\n")
	defer func() {
		if p := recover(); p != nil {
			block, outcome, reason = none, Degraded, fmt.Sprintf("panic: %v", p)
		}
	}()

	g, err := f.Geometry()
	if err != nil {
		return none, Degraded, fmt.Sprintf("geometry: %v", err)
	}
	if utils.IsEmpty(g) {
		return none, Degraded, "no geometry"
	}

	outcome = Written
	pg, err := r.tr.Transform(g)
	if err != nil {
		if r.policy == DropGeometry {
			return none, Degraded, err.Error()
		}
		pg, outcome, reason = g, Degraded, err.Error()
	}

	sym, ok, err := r.symbol(f)
	if err != nil {
		return none, Degraded, err.Error()
	}
	c := 0
	if ok {
		c = packRGB(sym)
	}

	var buf bytes.Buffer
	if !writeMIFGeometry(&buf, pg, c) {
		return none, Degraded, fmt.Sprintf("unsupported geometry %T", pg)
	}
	return buf.Bytes(), outcome, reason
}

func writeMIFHeader(w *bufio.Writer, fields []host.Field) error {
	for _, line := range []string{MIFVersion, MIFCharset, MIFDelimiter, MIFCoordSys} {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "Columns %d\n", len(fields))
	for i, field := range fields {
		fmt.Fprintf(w, "  %s %s\n", ColumnName(field.Name, i), ColumnType(field.Type))
	}
	fmt.Fprintf(w, "%s\n\n", MIFData)
	return w.Flush()
}

// ColumnName returns the MIF column name of a field: letters, digits and
// underscores only, at most 10 of them, or Col_<index> when nothing is left.
// Letters outside Windows-1252 are replaced when the header is encoded.
func ColumnName(name string, index int) string {
	var sb strings.Builder
	n := 0
	for _, r := range name {
		if n == MIFColumnChars {
			break
		}
		if isColumnRune(r) {
			sb.WriteRune(r)
			n++
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("Col_%d", index)
	}
	return sb.String()
}

func isColumnRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ColumnType returns the MIF column type of a field type.
func ColumnType(t host.FieldType) string {
	switch {
	case t.IsInteger():
		return MIFTypeInteger
	case t == host.FieldDouble:
		return MIFTypeFloat
	default:
		return MIFTypeChar
	}
}

func midRecord(values []any) []string {
	record := make([]string, len(values))
	for i, v := range values {
		if v != nil {
			record[i] = fmt.Sprintf("%v", v)
		}
	}
	return record
}

// writeMIFGeometry writes g as a MIF object. It reports false for geometry
// kinds MIF objects cannot express.
func writeMIFGeometry(buf *bytes.Buffer, g orb.Geometry, c int) bool {
	switch utils.KindOf(g) {
	case utils.KindPoint:
		pt, ok := utils.FirstPoint(g)
		if !ok {
			return false
		}
		fmt.Fprintf(buf, "Point %s %s\n", coord(pt.X()), coord(pt.Y()))
		fmt.Fprintf(buf, MIFSymbol+"\n", c)
	case utils.KindLine:
		lines := utils.Lines(g)
		if len(lines) == 0 {
			return false
		}
		for _, ls := range lines {
			fmt.Fprintf(buf, "Pline %d\n", len(ls))
			for _, pt := range ls {
				fmt.Fprintf(buf, "%s %s\n", coord(pt.X()), coord(pt.Y()))
			}
			fmt.Fprintf(buf, MIFPenLine+"\n", c)
		}
	case utils.KindPolygon:
		polys := utils.Polygons(g)
		rings := utils.RingCount(polys)
		if rings == 0 {
			return false
		}
		fmt.Fprintf(buf, "Region %d\n", rings)
		for _, poly := range polys {
			for _, ring := range poly {
				fmt.Fprintf(buf, "  %d\n", len(ring))
				for _, pt := range ring {
					fmt.Fprintf(buf, "    %s %s\n", coord(pt.X()), coord(pt.Y()))
				}
			}
		}
		fmt.Fprintf(buf, MIFPenArea+"\n", c)
		fmt.Fprintf(buf, MIFBrush+"\n", c)
	default:
		return false
	}
	return true
}

// packRGB packs a symbol color as R*65536 + G*256 + B.
func packRGB(s host.Symbol) int {
	return int(s.Color.R)*65536 + int(s.Color.G)*256 + int(s.Color.B)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

// latin1File is an output file encoded as Windows-1252. Runes the code page
// lacks are replaced.
type latin1File struct {
	f      *os.File
	w      *transform.Writer
	closed bool
}

func newLatin1File(path string) (*latin1File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to create %s", path)
	}
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return &latin1File{f: f, w: transform.NewWriter(f, enc)}, nil
}

func (l *latin1File) Write(p []byte) (int, error) {
	return l.w.Write(p)
}

func (l *latin1File) Close() error {
	l.closed = true
	if err := l.w.Close(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// abort closes the file if Close was never reached.
func (l *latin1File) abort() {
	if !l.closed {
		l.w.Close()
		l.f.Close()
	}
}
