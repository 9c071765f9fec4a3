package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

// Painter draws legend snapshots. It implements legend.Painter.
type Painter struct {
	fonts *Fonts
}

// NewPainter returns a Painter drawing with fonts.
func NewPainter(fonts *Fonts) *Painter {
	return &Painter{fonts: fonts}
}

// PNG draws snap the way the panel shows it and encodes the result as PNG.
//
// Parameters:
//   - w: Destination of the encoded image.
//   - snap: The snapshot to draw; its Width and Height size the canvas.
//   - state: Colors, font and style of the panel.
//
// Returns:
//   - error: An error if the image cannot be encoded.
func (p *Painter) PNG(w io.Writer, snap legend.Snapshot, state *legend.DisplayState) error {
	dc := p.Draw(snap, state)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode legend image: %w", err)
	}
	return nil
}

// Draw renders snap onto a new canvas.
func (p *Painter) Draw(snap legend.Snapshot, state *legend.DisplayState) *gg.Context {
	width := max(snap.Width, legend.MinPanelWidth)
	height := max(snap.Height, legend.PanelBaseHeight)
	dc := gg.NewContext(width, height)

	headerHeight := float64(headerHeightMinimalist)
	headerText, headerRule := color.Color(headerMinimalistText), color.Color(headerMinimalistRule)
	if state.Style == legend.StyleStandard {
		dc.SetColor(state.Background)
		dc.Clear()
		dc.SetColor(state.Border)
		dc.SetLineWidth(1)
		dc.DrawRectangle(0.5, 0.5, float64(width)-1, float64(height)-1)
		dc.Stroke()

		headerHeight = headerHeightStandard
		dc.SetColor(headerStandardBackground)
		dc.DrawRectangle(1, 1, float64(width)-2, headerHeight)
		dc.Fill()
		headerText, headerRule = headerStandardText, headerStandardRule
	} else {
		dc.SetColor(minimalistBackground)
		dc.DrawRoundedRectangle(0.5, 0.5, float64(width)-1, float64(height)-1, cornerRadius)
		dc.Fill()
		dc.SetColor(minimalistBorder)
		dc.SetLineWidth(1)
		dc.DrawRoundedRectangle(0.5, 0.5, float64(width)-1, float64(height)-1, cornerRadius)
		dc.Stroke()
	}

	dc.SetFontFace(p.fonts.Face(legend.Font{Family: legend.DefaultFontFamily, Size: legend.DefaultFontSize, Bold: true}))
	dc.SetColor(headerText)
	dc.DrawStringAnchored(snap.Title, paddingLeft, headerHeight/2, 0, 0.35)
	dc.SetColor(headerRule)
	dc.DrawLine(0, headerHeight, float64(width), headerHeight)
	dc.Stroke()

	y := headerHeight
	for _, row := range snap.Rows {
		if y+legend.RowHeight > float64(height) {
			break
		}
		p.drawRow(dc, row, y, float64(width))
		y += legend.RowHeight
	}
	return dc
}

func (p *Painter) drawRow(dc *gg.Context, row legend.Row, y, width float64) {
	mid := y + legend.RowHeight/2
	if row.HasBackground {
		dc.SetColor(row.Background)
		dc.DrawRectangle(1, y, width-2, legend.RowHeight)
		dc.Fill()
	}

	x := float64(paddingLeft)
	if row.Kind == legend.RowCategory {
		dc.SetColor(row.Icon)
		dc.DrawRectangle(x, mid-swatchSize/2, swatchSize, swatchSize)
		dc.Fill()
		x += swatchSize + swatchGap
	}

	dc.SetFontFace(p.fonts.Face(row.Font))
	dc.SetColor(row.Foreground)
	dc.DrawStringAnchored(row.Text, x, mid, 0, 0.35)

	if row.Font.StrikeOut {
		tw, _ := dc.MeasureString(row.Text)
		dc.SetLineWidth(1)
		dc.DrawLine(x, mid, x+tw, mid)
		dc.Stroke()
	}
}
