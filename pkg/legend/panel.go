package legend

import (
	"fmt"
	"image/color"
	"io"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// Selection returns the layers currently selected in the host layer tree.
type Selection interface {
	SelectedLayers() []host.MapLayer
}

// Settings is the flat key-value store holding the persisted language.
type Settings interface {
	Value(key, fallback string) string
	SetValue(key, value string) error
}

// Painter renders a snapshot as a PNG image.
type Painter interface {
	PNG(w io.Writer, snap Snapshot, state *DisplayState) error
}

// PanelConfig wires a Panel to its collaborators.
type PanelConfig struct {
	Selection Selection
	Provider  host.NodeProvider
	Measurer  Measurer
	Settings  Settings
	// Painter is optional; without it CapturePNG fails.
	Painter Painter
	// OnRefresh is called after every rebuild.
	OnRefresh func(Snapshot)
}

// Panel is the legend panel controller. It owns the display state and the
// last built snapshot. Once closed every method is a no-op.
type Panel struct {
	cfg      PanelConfig
	state    *DisplayState
	snapshot Snapshot
	width    int
	height   int
	visible  bool
	closed   bool
}

// NewPanel creates a hidden panel. The language is read from the settings
// store; everything else starts from the session defaults.
func NewPanel(cfg PanelConfig) *Panel {
	lang := DefaultLang
	if cfg.Settings != nil {
		lang = cfg.Settings.Value(SettingsKeyLang, DefaultLang)
	}
	if !IsLanguage(lang) {
		lang = DefaultLang
	}
	return &Panel{
		cfg:    cfg,
		state:  DefaultState(lang),
		width:  MinPanelWidth,
		height: PanelBaseHeight,
	}
}

// State returns the live display state.
func (p *Panel) State() *DisplayState {
	return p.state
}

// Snapshot returns the last built snapshot.
func (p *Panel) Snapshot() Snapshot {
	return p.snapshot
}

// Size returns the current panel width and height in pixels.
func (p *Panel) Size() (int, int) {
	return p.width, p.height
}

// Title returns the header text.
func (p *Panel) Title() string {
	if p.snapshot.Title == "" {
		return Tr(p.state.Lang, "header")
	}
	return p.snapshot.Title
}

// Closed reports whether the panel has been torn down.
func (p *Panel) Closed() bool {
	return p.closed
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool {
	return !p.closed && p.visible
}

// Show makes the panel visible and rebuilds it.
func (p *Panel) Show() {
	if p.closed {
		return
	}
	p.visible = true
	p.Refresh()
}

// Hide hides the panel.
func (p *Panel) Hide() {
	if p.closed {
		return
	}
	p.visible = false
}

// ToggleVisible flips visibility and returns the new state.
func (p *Panel) ToggleVisible() bool {
	if p.Visible() {
		p.Hide()
	} else {
		p.Show()
	}
	return p.Visible()
}

// Close tears the panel down. Later calls on the panel do nothing.
func (p *Panel) Close() {
	p.closed = true
	p.visible = false
}

// Refresh rebuilds the snapshot from the current selection. Hidden panels are
// not rebuilt. An empty selection clears the rows but keeps the size.
func (p *Panel) Refresh() {
	if !p.Visible() {
		return
	}
	var layers []host.MapLayer
	if p.cfg.Selection != nil {
		layers = p.cfg.Selection.SelectedLayers()
	}
	title := p.snapshot.Title
	p.snapshot = Build(layers, p.cfg.Provider, p.state, p.cfg.Measurer)
	if p.snapshot.Empty() {
		p.snapshot.Title = title
	} else {
		p.width, p.height = p.snapshot.Width, p.snapshot.Height
	}
	if p.cfg.OnRefresh != nil {
		p.cfg.OnRefresh(p.snapshot)
	}
}

// Click toggles the category at row index i. Separators and out of range
// indexes are ignored. On success the layer is repainted and the panel
// rebuilt.
func (p *Panel) Click(i int) bool {
	if p.closed || i < 0 || i >= len(p.snapshot.Rows) {
		return false
	}
	row := p.snapshot.Rows[i]
	if !row.Interactive() {
		return false
	}
	if !Toggle(p.cfg.Provider, row.Layer, row.RuleKey) {
		return false
	}
	row.Layer.TriggerRepaint()
	p.Refresh()
	return true
}

// SetLanguage switches the language and persists it.
func (p *Panel) SetLanguage(lang string) error {
	if p.closed {
		return nil
	}
	if !IsLanguage(lang) {
		return errors.New(errors.ErrCodeInvalidLanguage, "unsupported language %q", lang)
	}
	p.state.Lang = lang
	if p.cfg.Settings != nil {
		if err := p.cfg.Settings.SetValue(SettingsKeyLang, lang); err != nil {
			return fmt.Errorf("failed to persist language: %w", err)
		}
	}
	p.Refresh()
	return nil
}

// ToggleCount flips the count display.
func (p *Panel) ToggleCount() {
	if p.closed {
		return
	}
	p.state.ShowCount = !p.state.ShowCount
	p.Refresh()
}

// TogglePercent flips the percentage display.
func (p *Panel) TogglePercent() {
	if p.closed {
		return
	}
	p.state.ShowPercent = !p.state.ShowPercent
	p.Refresh()
}

// SetStyle switches the presentation mode.
func (p *Panel) SetStyle(s Style) {
	if p.closed {
		return
	}
	p.state.Style = s
	p.Refresh()
}

// SetFont changes the row font.
func (p *Panel) SetFont(f Font) {
	if p.closed {
		return
	}
	f.Bold, f.StrikeOut = false, false
	p.state.Font = f
	p.Refresh()
}

// SetTextColor changes the color of checked rows.
func (p *Panel) SetTextColor(c color.RGBA) {
	if p.closed {
		return
	}
	p.state.TextColor = c
	p.Refresh()
}

// SetBackground changes the panel background. Only the standard style has a
// configurable background; it reports false otherwise.
func (p *Panel) SetBackground(c color.RGBA) bool {
	if p.closed || p.state.Style != StyleStandard {
		return false
	}
	p.state.Background = c
	return true
}

// SetBorder changes the panel border color in standard style.
func (p *Panel) SetBorder(c color.RGBA) bool {
	if p.closed || p.state.Style != StyleStandard {
		return false
	}
	p.state.Border = c
	return true
}

// CapturePNG writes the current panel appearance as a PNG image.
func (p *Panel) CapturePNG(w io.Writer) error {
	if !p.Visible() {
		return errors.New(errors.ErrCodeRender, "legend panel is not visible")
	}
	if p.cfg.Painter == nil {
		return errors.New(errors.ErrCodeRender, "no legend painter configured")
	}
	snap := p.snapshot
	snap.Title = p.Title()
	snap.Width, snap.Height = p.width, p.height
	return p.cfg.Painter.PNG(w, snap, p.state)
}
