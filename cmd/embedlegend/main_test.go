package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sudo-Ivan/embedlegend/pkg/config"
	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/export"
	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

func TestMain(m *testing.M) {
	useColor = false
	os.Exit(m.Run())
}

const sitesGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 10, "properties": {"SiteID": "S1", "Class": "urban"},
     "geometry": {"type": "Point", "coordinates": [106.8, -6.2]}},
    {"type": "Feature", "id": 11, "properties": {"SiteID": "S2", "Class": "urban"},
     "geometry": {"type": "Point", "coordinates": [106.9, -6.3]}},
    {"type": "Feature", "id": 12, "properties": {"SiteID": "S3", "Class": "rural"},
     "geometry": {"type": "Point", "coordinates": [107.0, -6.4]}},
    {"type": "Feature", "id": 13, "properties": {"SiteID": "S4", "Class": "forest"},
     "geometry": null}
  ]
}`

const sitesProject = `active: sites
selected: [sites, imagery]
layers:
  - id: sites
    name: Sites
    source: sites.geojson
    renderer:
      type: categorized
      field: Class
      categories:
        - {value: urban, label: Urban, color: "#ff0000"}
        - {value: rural, label: Rural, color: "#00ff00"}
      default: {label: Other, color: "#0000ff"}
  - id: imagery
    name: Imagery
    type: raster
`

// setup writes a project into a temp dir and points the environment at it.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sites.geojson"), []byte(sitesGeoJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.yaml"), []byte(sitesProject), 0o644))
	t.Setenv("EMBEDLEGEND_PROJECT", filepath.Join(dir, "project.yaml"))
	t.Setenv("EMBEDLEGEND_SETTINGS", filepath.Join(dir, "settings.toml"))
	t.Setenv("EMBEDLEGEND_NO_COLOR", "true")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(newApp(&out, &errOut))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLegendCommand(t *testing.T) {
	dir := setup(t)

	t.Run("Counts and percentages", func(t *testing.T) {
		out, err := execute(t, "legend")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Equal(t, []string{
			"Sites",
			"[x] ■ Urban [2] (50.0%)",
			"[x] ■ Rural [1] (25.0%)",
			"[x] ■ Other [1] (25.0%)",
		}, lines)
	})

	t.Run("Plain labels", func(t *testing.T) {
		out, err := execute(t, "legend", "--count=false", "--percent=false")
		require.NoError(t, err)
		assert.Contains(t, out, "[x] ■ Urban\n")
	})

	t.Run("PNG", func(t *testing.T) {
		path := filepath.Join(dir, "legend.png")
		_, err := execute(t, "legend", "--png", path, "--style", "standard")
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
	})

	t.Run("Bad style", func(t *testing.T) {
		_, err := execute(t, "legend", "--style", "fancy")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	})
}

func TestToggleCommand(t *testing.T) {
	dir := setup(t)

	_, err := execute(t, "toggle", "sites", "0")
	require.NoError(t, err)

	saved, err := os.ReadFile(filepath.Join(dir, "project.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "checked: false")

	out, err := execute(t, "legend")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] ■ Urban [2]")
	assert.Contains(t, out, "[x] ■ Rural [1]")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"Unknown layer", []string{"toggle", "roads", "0"}, errors.ErrCodeLayerNotFound},
		{"Raster layer", []string{"toggle", "imagery", "0"}, errors.ErrCodeNotVector},
		{"Unknown key", []string{"toggle", "sites", "9"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestExportCommand(t *testing.T) {
	dir := setup(t)

	t.Run("MIF", func(t *testing.T) {
		dest := filepath.Join(dir, "sites.mif")
		_, err := execute(t, "export", "mif", dest)
		require.NoError(t, err)

		mif, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(mif), export.MIFVersion))
		_, err = os.Stat(filepath.Join(dir, "sites.mid"))
		assert.NoError(t, err)
	})

	kmzEntries := func(t *testing.T, path string) []string {
		zr, err := zip.OpenReader(path)
		require.NoError(t, err)
		defer zr.Close()
		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		return names
	}

	t.Run("KMZ with legend", func(t *testing.T) {
		dest := filepath.Join(dir, "with")
		_, err := execute(t, "export", "kmz", dest)
		require.NoError(t, err)
		assert.Equal(t, []string{export.KMLEntry, export.LegendEntry}, kmzEntries(t, dest+".kmz"))
	})

	t.Run("KMZ without legend", func(t *testing.T) {
		dest := filepath.Join(dir, "without.kmz")
		_, err := execute(t, "export", "kmz", dest, "--legend=false")
		require.NoError(t, err)
		assert.Equal(t, []string{export.KMLEntry}, kmzEntries(t, dest))
	})

	t.Run("Preconditions", func(t *testing.T) {
		_, err := execute(t, "export", "mif")
		assert.True(t, errors.Is(err, errors.ErrCodeNoDestination))
		assert.Equal(t, ExitFailure, exitCode(err))

		_, err = execute(t, "export", "kmz", filepath.Join(dir, "img.kmz"), "--layer", "imagery")
		assert.True(t, errors.Is(err, errors.ErrCodeNotVector))

		_, err = execute(t, "export", "kmz", filepath.Join(dir, "x.kmz"), "--layer", "roads")
		assert.True(t, errors.Is(err, errors.ErrCodeLayerNotFound))
	})
}

func TestLangCommand(t *testing.T) {
	dir := setup(t)

	_, err := execute(t, "lang", "id")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "settings.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Lang = "id"`)

	out, err := execute(t, "lang")
	require.NoError(t, err)
	assert.Equal(t, "id (en, id)\n", out)

	_, err = execute(t, "lang", "fr")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLanguage))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"Success", nil, 0},
		{"Canceled", fmt.Errorf("export: %w", context.Canceled), ExitCanceled},
		{"Precondition", errors.New(errors.ErrCodeNoActiveLayer, "no active layer"), ExitFailure},
		{"Failure", errors.New(errors.ErrCodeIO, "disk full"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(tt.err))
		})
	}
}

func TestProgressLine(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressLine(&buf, "Exporting", 4)
	for _, v := range []int{0, 1, 1, 2} {
		p.SetValue(v)
	}
	p.done()
	assert.False(t, p.WasCanceled())
	assert.Equal(t, "\rExporting   0%\rExporting  25%\rExporting  50%\n", buf.String())

	buf.Reset()
	empty := newProgressLine(&buf, "Exporting", 0)
	empty.SetValue(3)
	empty.done()
	assert.Empty(t, buf.String())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPanelModel(t *testing.T) {
	dir := setup(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	a.cfg = cfg
	ctx := context.Background()
	p, err := a.loadProject(ctx)
	require.NoError(t, err)
	panel, err := a.newPanel(ctx)
	require.NoError(t, err)
	panel.Show()

	m := newPanelModel(ctx, p, panel, dir)
	assert.Contains(t, m.View(), "Urban [2] (50.0%)")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "[ ] ■ Rural [1]")
	saved, err := os.ReadFile(filepath.Join(dir, "project.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "checked: false")

	m.Update(runes("c"))
	assert.NotContains(t, m.View(), "[2]")

	m.Update(runes("s"))
	assert.Equal(t, legend.StyleStandard, panel.State().Style)

	m.Update(runes("l"))
	assert.Equal(t, "id", panel.State().Lang)

	_, cmd := m.Update(runes("m"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	m.Update(cmd())
	assert.False(t, m.busy)
	assert.Contains(t, m.status, legend.Tr("id", "export_success"))
	_, err = os.Stat(filepath.Join(dir, "Sites.mif"))
	assert.NoError(t, err)

	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, panel.Closed())
}

func TestNextLanguage(t *testing.T) {
	assert.Equal(t, "id", nextLanguage("en"))
	assert.Equal(t, "en", nextLanguage("id"))
	assert.Equal(t, "en", nextLanguage("fr"))
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "Sites_2024", exportName(" Sites/2024 "))
	assert.Equal(t, "layer", exportName("  "))
}
