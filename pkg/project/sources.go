package project

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/Sudo-Ivan/embedlegend/pkg/arcgis"
	"github.com/Sudo-Ivan/embedlegend/pkg/convert"
	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

const defaultClientTimeout = 30 * time.Second

func (p *Project) loadSource(ctx context.Context, dir string, cfg *LayerConfig) (*Layer, error) {
	var (
		layer *Layer
		err   error
	)
	switch {
	case cfg.Source != "":
		layer, err = p.loadGeoJSON(dir, cfg)
	case cfg.URL != "":
		layer, err = p.loadArcGIS(ctx, cfg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidProject, "layer %q has neither source nor url", cfg.ID)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Renderer != nil {
		r, err := buildRenderer(cfg.Renderer)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "layer %q renderer", cfg.ID)
		}
		layer.renderer = r
	}
	return layer, nil
}

func (p *Project) loadGeoJSON(dir string, cfg *LayerConfig) (*Layer, error) {
	path := cfg.Source
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read %s", path)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse %s", path)
	}

	layer := &Layer{id: cfg.ID, name: nameOr(cfg.Name, cfg.ID), crs: crsOr(cfg.CRS)}
	if len(cfg.Fields) > 0 {
		layer.fields = declaredFields(cfg.Fields)
	} else {
		props := make([]map[string]any, 0, len(fc.Features))
		for _, f := range fc.Features {
			props = append(props, f.Properties)
		}
		layer.fields = convert.InferFields(props)
	}

	for i, f := range fc.Features {
		layer.features = append(layer.features, &Feature{
			id:     featureID(f.ID, i),
			values: convert.Attributes(layer.fields, f.Properties),
			geom:   f.Geometry,
			layer:  layer,
		})
	}
	p.logger.Debug("geojson layer loaded", "layer", cfg.ID, "features", len(layer.features), "fields", len(layer.fields))
	return layer, nil
}

func (p *Project) loadArcGIS(ctx context.Context, cfg *LayerConfig) (*Layer, error) {
	if !arcgis.IsValidHTTPURL(arcgis.NormalizeArcGISURL(cfg.URL)) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid layer url %q", cfg.URL)
	}
	base, layerID, err := arcgis.SplitLayerURL(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layer url")
	}

	client := p.client
	if client == nil {
		client = arcgis.NewClient(defaultClientTimeout)
		client.Logger = p.logger
	}
	meta, err := client.FetchLayer(ctx, base, layerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "layer %q", cfg.ID)
	}
	raw, err := client.FetchFeatures(ctx, base, layerID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "layer %q", cfg.ID)
	}

	// Features are requested in OutSR regardless of the service CRS.
	layer := &Layer{id: cfg.ID, name: nameOr(cfg.Name, nameOr(meta.Name, cfg.ID)), crs: "EPSG:" + arcgis.OutSR}
	if len(cfg.Fields) > 0 {
		layer.fields = declaredFields(cfg.Fields)
	} else {
		layer.fields = convert.Fields(meta.Fields)
	}

	for i, f := range raw {
		g, err := convert.Geometry(f.Geometry)
		if err != nil {
			p.logger.Debug("dropping feature geometry", "layer", cfg.ID, "index", i, "err", err)
			g = nil
		}
		layer.features = append(layer.features, &Feature{
			id:     featureID(f.Attributes[objectIDField(meta.Fields)], i),
			values: convert.Attributes(layer.fields, f.Attributes),
			geom:   g,
			layer:  layer,
		})
	}

	if cfg.Renderer == nil && meta.DrawingInfo != nil {
		cfg.Renderer = rendererConfig(convert.FromRenderer(meta.DrawingInfo.Renderer))
	}
	p.logger.Debug("arcgis layer loaded", "layer", cfg.ID, "features", len(layer.features))
	return layer, nil
}

func declaredFields(cfgs []FieldConfig) []host.Field {
	fields := make([]host.Field, 0, len(cfgs))
	for _, f := range cfgs {
		fields = append(fields, host.Field{Name: f.Name, Type: host.ParseFieldType(f.Type)})
	}
	return fields
}

func objectIDField(fields []arcgis.Field) string {
	for _, f := range fields {
		if f.Type == "esriFieldTypeOID" {
			return f.Name
		}
	}
	return "OBJECTID"
}

// featureID returns a numeric feature ID, or the load index when the source
// ID is missing or not numeric.
func featureID(id any, index int) int64 {
	switch n := id.(type) {
	case float64:
		return int64(n)
	case int:
		return int64(n)
	case int64:
		return n
	}
	return int64(index)
}

func buildRenderer(rc *RendererConfig) (*Renderer, error) {
	r := &Renderer{kind: rc.Type, field: rc.Field, fieldIdx: -1}
	switch rc.Type {
	case RendererSingle:
		c, err := parseColor(rc.Color)
		if err != nil {
			return nil, err
		}
		r.classes = []*class{{label: rc.Label, color: c, checked: true}}
	case RendererCategorized:
		if rc.Field == "" {
			return nil, fmt.Errorf("categorized renderer needs a field")
		}
		for i := range rc.Categories {
			cat := &rc.Categories[i]
			c, err := parseColor(cat.Color)
			if err != nil {
				return nil, err
			}
			r.classes = append(r.classes, &class{
				value:   cat.Value,
				label:   nameOr(cat.Label, cat.Value),
				color:   c,
				checked: cat.checked(),
				cfg:     cat,
			})
		}
		if rc.Default != nil {
			c, err := parseColor(rc.Default.Color)
			if err != nil {
				return nil, err
			}
			r.classes = append(r.classes, &class{
				label:   rc.Default.Label,
				color:   c,
				checked: rc.Default.checked(),
				other:   true,
				cfg:     rc.Default,
			})
		}
	default:
		return nil, fmt.Errorf("unknown renderer type %q", rc.Type)
	}
	return r, nil
}

func rendererConfig(r convert.Renderer) *RendererConfig {
	if r.Kind == convert.KindSingle {
		rc := &RendererConfig{Type: RendererSingle}
		if len(r.Categories) > 0 {
			rc.Label = r.Categories[0].Label
			rc.Color = legend.Hex(r.Categories[0].Color)
		}
		return rc
	}
	rc := &RendererConfig{Type: RendererCategorized, Field: r.Field}
	for _, c := range r.Categories {
		rc.Categories = append(rc.Categories, CategoryConfig{Value: c.Value, Label: c.Label, Color: legend.Hex(c.Color)})
	}
	if r.Default != nil {
		rc.Default = &CategoryConfig{Label: r.Default.Label, Color: legend.Hex(r.Default.Color)}
	}
	return rc
}

func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return convert.DefaultColor, nil
	}
	return legend.ParseHex(s)
}
