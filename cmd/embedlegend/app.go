package main

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Sudo-Ivan/embedlegend/pkg/arcgis"
	"github.com/Sudo-Ivan/embedlegend/pkg/config"
	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
	"github.com/Sudo-Ivan/embedlegend/pkg/project"
	"github.com/Sudo-Ivan/embedlegend/pkg/render"
	"github.com/Sudo-Ivan/embedlegend/pkg/settings"
)

// app holds the collaborators shared by the commands. Everything past the
// configuration is loaded on first use.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfg      *config.Config
	logger   *log.Logger
	settings *settings.Store
	project  *project.Project
	fonts    *render.Fonts
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, logger: log.Default()}
}

// newLogger creates a logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      LogTimeFormat,
		Level:           level,
	})
}

func (a *app) loadSettings() (*settings.Store, error) {
	if a.settings != nil {
		return a.settings, nil
	}
	s, err := settings.Open(a.cfg.SettingsPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "failed to open settings")
	}
	a.settings = s
	return s, nil
}

func (a *app) loadProject(ctx context.Context) (*project.Project, error) {
	if a.project != nil {
		return a.project, nil
	}
	client := arcgis.NewClient(a.cfg.Timeout())
	client.Logger = a.logger
	p, err := project.Load(ctx, a.cfg.Project, project.WithClient(client), project.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("project loaded", "path", p.Path(), "layers", len(p.Layers()))
	a.project = p
	return p, nil
}

func (a *app) loadFonts() (*render.Fonts, error) {
	if a.fonts != nil {
		return a.fonts, nil
	}
	fs, err := render.NewFonts()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "failed to load fonts")
	}
	a.fonts = fs
	return fs, nil
}

// newPanel wires a hidden legend panel to the project selection.
func (a *app) newPanel(ctx context.Context) (*legend.Panel, error) {
	p, err := a.loadProject(ctx)
	if err != nil {
		return nil, err
	}
	store, err := a.loadSettings()
	if err != nil {
		return nil, err
	}
	fonts, err := a.loadFonts()
	if err != nil {
		return nil, err
	}
	return legend.NewPanel(legend.PanelConfig{
		Selection: p,
		Provider:  p,
		Measurer:  fonts,
		Settings:  store,
		Painter:   render.NewPainter(fonts),
	}), nil
}

// exportLayer resolves the layer to export: id when given, else the active
// layer. A missing active layer is returned as nil so the exporter reports
// it as a precondition failure.
func (a *app) exportLayer(p *project.Project, id string) (host.MapLayer, error) {
	if id != "" {
		l, ok := p.Layer(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", id)
		}
		return l, nil
	}
	l, ok := p.ActiveLayer()
	if !ok {
		return nil, nil
	}
	return l, nil
}
