// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package project is a file-backed map project. It loads a YAML document that
// declares layers, their sources and renderers, and serves them to the legend
// and export engines through the host interfaces.
package project

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/Sudo-Ivan/embedlegend/pkg/arcgis"
	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
)

// Project holds the loaded layers of a project file.
type Project struct {
	path    string
	file    File
	layers  []host.MapLayer
	byID    map[string]host.MapLayer
	printer *message.Printer
	client  *arcgis.Client
	logger  *log.Logger
}

// Option configures Load.
type Option func(*Project)

// WithClient sets the client used for ArcGIS layers.
func WithClient(c *arcgis.Client) Option {
	return func(p *Project) { p.client = c }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Project) { p.logger = l }
}

// Load reads the project file at path and loads every layer. Relative source
// paths are resolved against the project file's directory. A vector layer
// whose source cannot be loaded is kept as an invalid layer.
//
// Parameters:
//   - ctx: Context for remote layer fetches
//   - path: Path to the YAML project file
//   - opts: Optional client and logger
//
// Returns:
//   - *Project: The loaded project
//   - error: An ErrCodeInvalidProject error if the file cannot be read or parsed
func Load(ctx context.Context, path string, opts ...Option) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "failed to read project %s", path)
	}

	p := &Project{path: path, byID: make(map[string]host.MapLayer)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.Default()
	}

	if err := yaml.Unmarshal(data, &p.file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "failed to parse project %s", path)
	}
	if p.file.Locale == "" {
		p.file.Locale = DefaultLocale
	}
	tag, err := language.Parse(p.file.Locale)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "invalid locale %q", p.file.Locale)
	}
	p.printer = message.NewPrinter(tag)

	dir := filepath.Dir(path)
	for i := range p.file.Layers {
		cfg := &p.file.Layers[i]
		if cfg.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidProject, "layer %d has no id", i)
		}
		if _, dup := p.byID[cfg.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidProject, "duplicate layer id %q", cfg.ID)
		}

		var layer host.MapLayer
		switch cfg.layerType() {
		case LayerTypeRaster:
			layer = &Raster{id: cfg.ID, name: nameOr(cfg.Name, cfg.ID)}
		case LayerTypeVector:
			layer = p.loadVector(ctx, dir, cfg)
		default:
			return nil, errors.New(errors.ErrCodeInvalidProject, "layer %q has unknown type %q", cfg.ID, cfg.Type)
		}
		p.layers = append(p.layers, layer)
		p.byID[cfg.ID] = layer
	}

	p.logger.Debug("project loaded", "path", path, "layers", len(p.layers))
	return p, nil
}

func (p *Project) loadVector(ctx context.Context, dir string, cfg *LayerConfig) *Layer {
	layer, err := p.loadSource(ctx, dir, cfg)
	if err != nil {
		p.logger.Warn("layer source unavailable", "layer", cfg.ID, "err", err)
		return &Layer{id: cfg.ID, name: nameOr(cfg.Name, cfg.ID), crs: crsOr(cfg.CRS), showCount: cfg.showCount()}
	}
	layer.valid = true
	layer.showCount = cfg.showCount()
	return layer
}

// Path returns the project file path.
func (p *Project) Path() string {
	return p.path
}

// Layers returns every layer in declaration order.
func (p *Project) Layers() []host.MapLayer {
	return p.layers
}

// Layer returns the layer with the given ID.
func (p *Project) Layer(id string) (host.MapLayer, bool) {
	l, ok := p.byID[id]
	return l, ok
}

// ActiveLayer returns the active layer, or false when none is set.
func (p *Project) ActiveLayer() (host.MapLayer, bool) {
	if p.file.Active == "" {
		return nil, false
	}
	return p.Layer(p.file.Active)
}

// SetActive makes the layer with the given ID active.
func (p *Project) SetActive(id string) error {
	if _, ok := p.byID[id]; !ok {
		return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", id)
	}
	p.file.Active = id
	return nil
}

// SelectedLayers returns the selected layers in selection order. Unknown IDs
// are ignored.
func (p *Project) SelectedLayers() []host.MapLayer {
	var out []host.MapLayer
	for _, id := range p.file.Selected {
		if l, ok := p.byID[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Select replaces the selection.
func (p *Project) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := p.byID[id]; !ok {
			return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", id)
		}
	}
	p.file.Selected = ids
	return nil
}

// LegendNodes returns a fresh node list for layer, positionally aligned with
// its renderer's legend items. Node text carries the feature count of each
// class in brackets when the layer shows counts.
func (p *Project) LegendNodes(layer host.VectorLayer) ([]host.LegendNode, bool) {
	l, ok := layer.(*Layer)
	if !ok || l.renderer == nil {
		return nil, false
	}
	r := l.renderer

	var counts []int
	if l.showCount {
		counts = make([]int, len(r.classes))
		idx := -1
		if r.kind == RendererCategorized {
			idx = host.FieldIndex(l.fields, r.field)
		}
		for _, f := range l.features {
			c := r.classify(f.values, idx)
			for i := range r.classes {
				if r.classes[i] == c {
					counts[i]++
					break
				}
			}
		}
	}

	nodes := make([]host.LegendNode, 0, len(r.classes))
	for i, c := range r.classes {
		text := c.label
		if counts != nil {
			text = fmt.Sprintf("%s [%s]", c.label, p.printer.Sprintf(countFormat, counts[i]))
		}
		nodes = append(nodes, &node{class: c, index: i, text: text})
	}
	return nodes, true
}

// Save writes the project back to its file, including the current checked
// state of every category.
func (p *Project) Save() error {
	for _, layer := range p.layers {
		l, ok := layer.(*Layer)
		if !ok || l.renderer == nil {
			continue
		}
		for _, c := range l.renderer.classes {
			if c.cfg != nil {
				checked := c.checked
				c.cfg.Checked = &checked
			}
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&p.file); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to encode project")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to encode project")
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to write project")
	}
	if err := os.Rename(tmp, p.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeIO, err, "failed to replace project")
	}
	return nil
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

func crsOr(crs string) string {
	if crs != "" {
		return crs
	}
	return DefaultCRS
}
