package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/export"
	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
	"github.com/Sudo-Ivan/embedlegend/pkg/project"
)

func newPanelCmd(a *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive legend panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.loadProject(ctx)
			if err != nil {
				return err
			}
			panel, err := a.newPanel(ctx)
			if err != nil {
				return err
			}
			defer panel.Close()
			panel.Show()

			m := newPanelModel(ctx, p, panel, outDir)
			_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for exports started from the panel")
	return cmd
}

// pngCapture is a legend captured before an export starts, so the export can
// run while the panel keeps handling input.
type pngCapture []byte

func (c pngCapture) Visible() bool { return len(c) > 0 }

func (c pngCapture) CapturePNG(w io.Writer) error {
	_, err := w.Write(c)
	return err
}

type exportDoneMsg struct {
	summary *export.Summary
	err     error
}

// panelModel is the bubbletea model driving a legend panel.
type panelModel struct {
	ctx     context.Context
	project *project.Project
	panel   *legend.Panel
	outDir  string
	logger  *log.Logger

	cursor int
	busy   bool
	status string
}

func newPanelModel(ctx context.Context, p *project.Project, panel *legend.Panel, outDir string) *panelModel {
	return &panelModel{
		ctx:     ctx,
		project: p,
		panel:   panel,
		outDir:  outDir,
		logger:  log.New(io.Discard),
	}
}

func (m *panelModel) Init() tea.Cmd {
	return nil
}

func (m *panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.busy = false
		m.status = m.exportStatus(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *panelModel) handleKey(key string) tea.Cmd {
	if key == "q" || key == "ctrl+c" || key == "esc" {
		m.panel.Close()
		return tea.Quit
	}
	if m.busy {
		return nil
	}

	rows := len(m.panel.Snapshot().Rows)
	lang := m.panel.State().Lang
	switch key {
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < rows-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.panel.Click(m.cursor) {
			if err := m.project.Save(); err != nil {
				m.status = errors.UserMessage(err)
			} else {
				m.status = ""
			}
		}
	case "c":
		m.panel.ToggleCount()
	case "p":
		m.panel.TogglePercent()
	case "s":
		if m.panel.State().Style == legend.StyleStandard {
			m.panel.SetStyle(legend.StyleMinimalist)
		} else {
			m.panel.SetStyle(legend.StyleStandard)
		}
	case "l":
		if err := m.panel.SetLanguage(nextLanguage(lang)); err != nil {
			m.status = errors.UserMessage(err)
		}
	case "m":
		return m.startExport(FormatMIF)
	case "k":
		return m.startExport(FormatKMZ)
	}
	m.cursor = min(m.cursor, max(0, len(m.panel.Snapshot().Rows)-1))
	return nil
}

// startExport exports the active layer next to the other panel exports. The
// legend is captured up front; toggles are ignored until the export ends.
func (m *panelModel) startExport(format string) tea.Cmd {
	lang := m.panel.State().Lang
	layer, ok := m.project.ActiveLayer()
	if !ok {
		m.status = legend.Tr(lang, "select_layer")
		return nil
	}
	dest := filepath.Join(m.outDir, exportName(layer.Name()))

	opts := export.Options{Logger: m.logger}
	if format == FormatKMZ && m.panel.Visible() {
		var buf bytes.Buffer
		if err := m.panel.CapturePNG(&buf); err == nil {
			opts.Legend = pngCapture(buf.Bytes())
		}
	}

	m.busy = true
	m.status = legend.Tr(lang, "exporting_"+format)
	ctx := m.ctx
	return func() tea.Msg {
		summary, err := runExport(ctx, format, layer, dest, opts)
		return exportDoneMsg{summary: summary, err: err}
	}
}

func (m *panelModel) exportStatus(msg exportDoneMsg) string {
	lang := m.panel.State().Lang
	switch {
	case msg.err != nil && errors.IsPrecondition(msg.err):
		return legend.Tr(lang, "warning") + ": " + legend.Tr(lang, "select_layer")
	case msg.err != nil:
		return errors.UserMessage(msg.err)
	case msg.summary.Canceled:
		return legend.Tr(lang, "canceled")
	}
	return fmt.Sprintf("%s %s (%s)",
		legend.Tr(lang, "export_success"),
		strings.Join(msg.summary.Files, ", "),
		msg.summary.String())
}

func (m *panelModel) View() string {
	var b strings.Builder
	state := m.panel.State()

	b.WriteString(paint(styleTitle, m.panel.Title()))
	b.WriteString("\n")
	b.WriteString(paint(styleDim, "↑/↓ move  ⏎ toggle  c count  p percent  s style  l lang  m MIF  k KMZ  q quit"))
	b.WriteString("\n\n")

	snap := m.panel.Snapshot()
	if snap.Empty() {
		b.WriteString(paint(styleDim, legend.Tr(state.Lang, "select_layer")))
		b.WriteString("\n")
	}
	for i, row := range snap.Rows {
		cursor := CursorBlank
		if i == m.cursor {
			cursor = paint(styleCursor, CursorMark)
		}
		b.WriteString(cursor + renderRow(row) + "\n")
	}

	w, h := m.panel.Size()
	b.WriteString("\n")
	b.WriteString(paint(styleDim, fmt.Sprintf("%s · %s · %dx%d", state.Style, state.Lang, w, h)))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(paint(styleWarning, m.status))
	}
	return b.String()
}

// nextLanguage cycles through the supported languages.
func nextLanguage(current string) string {
	langs := legend.Languages()
	for i, l := range langs {
		if l == current {
			return langs[(i+1)%len(langs)]
		}
	}
	return langs[0]
}

// exportName derives a file name from a layer name.
func exportName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "layer"
	}
	return name
}
