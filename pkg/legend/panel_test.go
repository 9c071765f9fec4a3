package legend

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	elerrors "github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/host/hosttest"
)

type memSettings struct {
	values map[string]string
	err    error
}

func (s *memSettings) Value(key, fallback string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return fallback
}

func (s *memSettings) SetValue(key, value string) error {
	if s.err != nil {
		return s.err
	}
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	return nil
}

type stubPainter struct {
	last Snapshot
}

func (p *stubPainter) PNG(w io.Writer, snap Snapshot, _ *DisplayState) error {
	p.last = snap
	_, err := w.Write([]byte("png"))
	return err
}

func newTestPanel(t *testing.T, settings *memSettings) (*Panel, *hosttest.Layer, *hosttest.Provider) {
	t.Helper()
	p := &hosttest.Provider{}
	layer := categorized(p, "l", "Landuse", "Urban [3]", "Rural [1]")
	panel := NewPanel(PanelConfig{
		Selection: hosttest.Selection{layer},
		Provider:  p,
		Measurer:  runeMeasurer{7},
		Settings:  settings,
	})
	return panel, layer, p
}

func TestNewPanelReadsLanguage(t *testing.T) {
	tests := []struct {
		name     string
		stored   map[string]string
		expected string
	}{
		{"Nothing Stored", nil, "en"},
		{"Indonesian", map[string]string{SettingsKeyLang: "id"}, "id"},
		{"Unknown Language", map[string]string{SettingsKeyLang: "xx"}, "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel, _, _ := newTestPanel(t, &memSettings{values: tt.stored})
			assert.Equal(t, tt.expected, panel.State().Lang)
			assert.Equal(t, StyleMinimalist, panel.State().Style)
			assert.True(t, panel.State().ShowCount)
			assert.True(t, panel.State().ShowPercent)
			assert.Equal(t, "#2f3542", Hex(panel.State().TextColor))
		})
	}
}

func TestPanelHiddenDoesNotRefresh(t *testing.T) {
	panel, _, p := newTestPanel(t, &memSettings{})
	panel.Refresh()
	assert.Zero(t, p.Fetches)
	assert.Equal(t, "Layer Info", panel.Title())

	panel.Show()
	assert.True(t, panel.Visible())
	assert.Len(t, panel.Snapshot().Rows, 2)
	assert.Equal(t, "Landuse", panel.Title())

	assert.False(t, panel.ToggleVisible())
	assert.True(t, panel.ToggleVisible())
}

func TestPanelClick(t *testing.T) {
	panel, layer, p := newTestPanel(t, &memSettings{})
	panel.Show()

	require.True(t, panel.Click(1))
	assert.Equal(t, 1, layer.Repaints)
	assert.False(t, p.Nodes["l"][1].On)
	assert.False(t, panel.Snapshot().Rows[1].Checked)
	assert.True(t, panel.Snapshot().Rows[0].Checked)

	assert.False(t, panel.Click(5))
	assert.False(t, panel.Click(-1))
}

func TestPanelClickIgnoresSeparators(t *testing.T) {
	p := &hosttest.Provider{}
	a := categorized(p, "a", "A", "x [1]")
	b := categorized(p, "b", "B", "y [1]")
	panel := NewPanel(PanelConfig{
		Selection: hosttest.Selection{a, b},
		Provider:  p,
		Measurer:  runeMeasurer{7},
	})
	panel.Show()

	require.Equal(t, RowSeparator, panel.Snapshot().Rows[0].Kind)
	fetches := p.Fetches
	assert.False(t, panel.Click(0))
	assert.Equal(t, fetches, p.Fetches, "separators never reach the toggle engine")
	assert.Zero(t, a.Repaints)
}

func TestPanelEmptySelectionKeepsSize(t *testing.T) {
	p := &hosttest.Provider{}
	layer := categorized(p, "l", "Landuse", "A very long category label [10]")
	current := hosttest.Selection{layer}
	panel := NewPanel(PanelConfig{Selection: &current, Provider: p, Measurer: runeMeasurer{7}})
	panel.Show()
	w, h := panel.Size()
	require.Greater(t, w, MinPanelWidth)

	current = hosttest.Selection{&hosttest.Raster{LayerID: "r"}}
	panel.Refresh()
	assert.Empty(t, panel.Snapshot().Rows)
	w2, h2 := panel.Size()
	assert.Equal(t, w, w2)
	assert.Equal(t, h, h2)
	assert.Equal(t, "Landuse", panel.Title())
}

func TestPanelLanguage(t *testing.T) {
	settings := &memSettings{}
	panel, _, _ := newTestPanel(t, settings)

	require.NoError(t, panel.SetLanguage("id"))
	assert.Equal(t, "id", settings.values[SettingsKeyLang])
	assert.Equal(t, "Info Layer", panel.Title())

	err := panel.SetLanguage("fr")
	assert.True(t, elerrors.Is(err, elerrors.ErrCodeInvalidLanguage))
	assert.Equal(t, "id", panel.State().Lang)

	settings.err = errors.New("read-only")
	assert.Error(t, panel.SetLanguage("en"))
}

func TestPanelOnlyLanguagePersists(t *testing.T) {
	settings := &memSettings{}
	panel, _, _ := newTestPanel(t, settings)
	panel.ToggleCount()
	panel.TogglePercent()
	panel.SetStyle(StyleStandard)
	require.NoError(t, panel.SetLanguage("id"))

	assert.Equal(t, map[string]string{SettingsKeyLang: "id"}, settings.values)

	next, _, _ := newTestPanel(t, settings)
	assert.Equal(t, "id", next.State().Lang)
	assert.True(t, next.State().ShowCount)
	assert.Equal(t, StyleMinimalist, next.State().Style)
}

func TestPanelDisplayOptions(t *testing.T) {
	panel, _, _ := newTestPanel(t, &memSettings{})
	panel.Show()

	panel.ToggleCount()
	assert.Equal(t, "Urban (75.0%)", panel.Snapshot().Rows[0].Text)
	panel.TogglePercent()
	assert.Equal(t, "Urban", panel.Snapshot().Rows[0].Text)

	panel.SetFont(Font{Family: "Go", Size: 12, Bold: true})
	assert.Equal(t, Font{Family: "Go", Size: 12}, panel.Snapshot().Rows[0].Font)

	red := MustHex("#ff0000")
	panel.SetTextColor(red)
	assert.Equal(t, red, panel.Snapshot().Rows[0].Foreground)

	assert.False(t, panel.SetBackground(red), "minimalist has no background")
	assert.False(t, panel.SetBorder(red))
	panel.SetStyle(StyleStandard)
	assert.True(t, panel.SetBackground(red))
	assert.True(t, panel.SetBorder(red))
	assert.Equal(t, red, panel.State().Background)
}

func TestPanelClosed(t *testing.T) {
	panel, layer, p := newTestPanel(t, &memSettings{})
	panel.Show()
	panel.Close()
	fetches := p.Fetches

	assert.True(t, panel.Closed())
	assert.False(t, panel.Visible())
	assert.False(t, panel.Click(0))
	panel.Show()
	panel.Refresh()
	panel.ToggleCount()
	assert.NoError(t, panel.SetLanguage("id"))
	assert.Equal(t, "en", panel.State().Lang)
	assert.Equal(t, fetches, p.Fetches)
	assert.Zero(t, layer.Repaints)
	assert.Error(t, panel.CapturePNG(&bytes.Buffer{}))
}

func TestPanelCapturePNG(t *testing.T) {
	p := &hosttest.Provider{}
	layer := categorized(p, "l", "Landuse", "Urban [3]")
	painter := &stubPainter{}
	panel := NewPanel(PanelConfig{
		Selection: hosttest.Selection{layer},
		Provider:  p,
		Measurer:  runeMeasurer{7},
		Painter:   painter,
	})

	var buf bytes.Buffer
	assert.Error(t, panel.CapturePNG(&buf), "hidden panel")

	panel.Show()
	require.NoError(t, panel.CapturePNG(&buf))
	assert.Equal(t, "png", buf.String())
	assert.Equal(t, "Landuse", painter.last.Title)
	assert.Equal(t, len("Urban [3] (100.0%)")*7+PanelWidthPadding, painter.last.Width)

	noPainter, _, _ := newTestPanel(t, &memSettings{})
	noPainter.Show()
	assert.True(t, elerrors.Is(noPainter.CapturePNG(&buf), elerrors.ErrCodeRender))
}

var _ host.NodeProvider = (*hosttest.Provider)(nil)
