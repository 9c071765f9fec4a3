// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package legend builds the legend panel contents for the selected layers and
// toggles category visibility.
//
// A Snapshot is rebuilt from scratch on every refresh: rows are never patched
// in place. Category rows are paired with renderer entries by position because
// the legend node keys and the renderer rule keys live in different key
// spaces.
package legend

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

var (
	countPattern      = regexp.MustCompile(`\[([\d\.,]+)\]`)
	countSuffixStrip  = regexp.MustCompile(`\s*\[[\d\.,]+\]`)
	groupingSeparator = strings.NewReplacer(".", "", ",", "")
)

// Measurer returns the pixel width of text drawn with font.
type Measurer interface {
	Width(text string, font Font) int
}

// RowKind distinguishes layer separators from category rows.
type RowKind int

const (
	RowCategory RowKind = iota
	RowSeparator
)

// Row is one line of the legend panel.
type Row struct {
	Kind    RowKind
	Layer   host.VectorLayer
	RuleKey host.RuleKey
	Text    string
	Checked bool
	Font    Font
	Icon    color.RGBA

	// Foreground is the text color. Background is only set for separators in
	// standard mode.
	Foreground    color.RGBA
	Background    color.RGBA
	HasBackground bool

	// Count is the parsed bracketed count; Percent is its share of the layer
	// total when one was computed.
	Count      int
	Percent    float64
	HasPercent bool
}

// Interactive reports whether clicking the row may toggle a category.
func (r Row) Interactive() bool {
	return r.Kind == RowCategory
}

// Snapshot is the built legend with the recommended panel geometry.
type Snapshot struct {
	Title  string
	Rows   []Row
	Width  int
	Height int
	// Layers is the number of vector layers in the selection.
	Layers int
}

// Empty reports whether the selection held no vector layer. An empty
// snapshot carries no geometry and the panel keeps its previous size.
func (s Snapshot) Empty() bool {
	return s.Layers == 0
}

// ParseCount extracts the first bracketed count from a legend label. "." and
// "," are treated as grouping separators. Labels without a count, or with a
// count that does not parse, yield 0.
func ParseCount(text string) int {
	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(groupingSeparator.Replace(m[1]))
	if err != nil {
		return 0
	}
	return n
}

// StripCount removes bracketed counts (and the whitespace before them).
func StripCount(text string) string {
	return countSuffixStrip.ReplaceAllString(text, "")
}

// Build produces the legend rows for the selected layers.
//
// Parameters:
//   - layers: The selected layers; non-vector layers are ignored.
//   - provider: Source of the per-layer legend nodes.
//   - state: The panel configuration.
//   - m: Text metrics used for the width recommendation.
//
// Returns:
//   - Snapshot: The rows, title and recommended geometry. A selection
//     without vector layers yields an empty snapshot.
func Build(layers []host.MapLayer, provider host.NodeProvider, state *DisplayState, m Measurer) Snapshot {
	var vectors []host.VectorLayer
	for _, l := range layers {
		if vl, ok := l.(host.VectorLayer); ok && vl != nil {
			vectors = append(vectors, vl)
		}
	}
	if len(vectors) == 0 {
		return Snapshot{}
	}

	snap := Snapshot{Layers: len(vectors)}
	if len(vectors) > 1 {
		snap.Title = Trf(state.Lang, "header_multi", strconv.Itoa(len(vectors)))
	} else {
		snap.Title = vectors[0].Name()
	}

	maxWidth := 0
	for _, layer := range vectors {
		renderer, ok := layer.Renderer()
		if !ok || renderer == nil {
			continue
		}
		nodes, ok := provider.LegendNodes(layer)
		if !ok {
			continue
		}
		items := renderer.LegendSymbolItems()

		if len(vectors) > 1 {
			snap.Rows = append(snap.Rows, separatorRow(layer, state))
			maxWidth = max(maxWidth, m.Width(layer.Name(), state.Font)+SeparatorWidthPadding)
		}

		total := 0
		for _, n := range nodes {
			total += ParseCount(n.Text())
		}

		for i := range min(len(nodes), len(items)) {
			row := categoryRow(layer, nodes[i], items[i], total, state)
			maxWidth = max(maxWidth, m.Width(row.Text, state.Font))
			snap.Rows = append(snap.Rows, row)
		}
	}

	snap.Width = max(MinPanelWidth, maxWidth+PanelWidthPadding)
	snap.Height = min(PanelBaseHeight+RowHeight*len(snap.Rows), MaxPanelHeight)
	return snap
}

func separatorRow(layer host.VectorLayer, state *DisplayState) Row {
	font := state.Font
	font.Bold = true
	row := Row{
		Kind:  RowSeparator,
		Layer: layer,
		Text:  SeparatorPrefix + layer.Name(),
		Font:  font,
	}
	if state.Style == StyleStandard {
		row.Background = separatorBackground
		row.HasBackground = true
		row.Foreground = separatorForeground
	} else {
		row.Foreground = separatorMinimalistForeground
	}
	return row
}

func categoryRow(layer host.VectorLayer, node host.LegendNode, item host.SymbolItem, total int, state *DisplayState) Row {
	raw := node.Text()
	count := ParseCount(raw)

	text := raw
	if !state.ShowCount {
		text = StripCount(raw)
	}
	row := Row{
		Kind:    RowCategory,
		Layer:   layer,
		RuleKey: item.RuleKey,
		Checked: node.Checked(),
		Font:    state.Font,
		Icon:    node.Icon(),
		Count:   count,
	}
	if state.ShowPercent && total > 0 {
		row.Percent = float64(count) / float64(total) * 100
		row.HasPercent = true
		text += fmt.Sprintf(" (%.1f%%)", row.Percent)
	}
	row.Text = text

	if row.Checked {
		row.Foreground = state.TextColor
	} else {
		row.Font.StrikeOut = true
		row.Foreground = MutedColor
	}
	return row
}
