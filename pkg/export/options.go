package export

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/reproject"
)

// TransformPolicy decides what happens to a feature whose transform fails.
type TransformPolicy int

const (
	// PolicyDefault uses the exporter's own policy: DropGeometry for MIF and
	// KeepSource for KMZ.
	PolicyDefault TransformPolicy = iota
	// DropGeometry exports the feature without geometry.
	DropGeometry
	// KeepSource exports the untransformed geometry.
	KeepSource
)

// Capture is a legend that can be snapshotted into the archive.
type Capture interface {
	Visible() bool
	CapturePNG(w io.Writer) error
}

// Options configures an export run. The zero value is usable.
type Options struct {
	Logger   *log.Logger
	Progress host.Progress
	// Transformer overrides the transform built from the layer CRS to DestCRS.
	Transformer host.Transformer
	// DestCRS defaults to DefaultDestCRS.
	DestCRS         string
	TransformPolicy TransformPolicy
	// Legend is captured into the KMZ archive when it is visible.
	Legend Capture
}

// run is the state shared by both exporters for one export.
type run struct {
	ctx      context.Context
	layer    host.VectorLayer
	renderer host.Renderer
	tr       host.Transformer
	policy   TransformPolicy
	progress host.Progress
	logger   *log.Logger
	summary  *Summary
}

// prepare checks the preconditions of an export and resolves its
// collaborators. It does no work on the layer.
func prepare(ctx context.Context, layer host.MapLayer, dest string, opts Options, fallback TransformPolicy) (*run, error) {
	if layer == nil {
		return nil, errors.New(errors.ErrCodeNoActiveLayer, "no active layer")
	}
	vl, ok := layer.(host.VectorLayer)
	if !ok || !vl.IsValid() {
		return nil, errors.New(errors.ErrCodeNotVector, "layer %q is not a valid vector layer", layer.Name())
	}
	if dest == "" {
		return nil, errors.New(errors.ErrCodeNoDestination, "no destination file")
	}

	r := &run{
		ctx:      ctx,
		layer:    vl,
		policy:   opts.TransformPolicy,
		progress: opts.Progress,
		logger:   opts.Logger,
		tr:       opts.Transformer,
	}
	if r.ctx == nil {
		r.ctx = context.Background()
	}
	if r.policy == PolicyDefault {
		r.policy = fallback
	}
	if r.progress == nil {
		r.progress = noProgress{}
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if rend, ok := vl.Renderer(); ok {
		r.renderer = rend
	} else {
		r.renderer = noRenderer{}
	}
	if r.tr == nil {
		destCRS := opts.DestCRS
		if destCRS == "" {
			destCRS = DefaultDestCRS
		}
		p, err := reproject.ForCRS(vl.CRS(), destCRS)
		if err != nil {
			return nil, err
		}
		r.tr = p
	}
	return r, nil
}

func (r *run) canceled() bool {
	return r.ctx.Err() != nil || r.progress.WasCanceled()
}

// start opens the renderer session. The caller must defer stop.
func (r *run) start() error {
	if err := r.renderer.StartRender(r.layer.Fields()); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "failed to start renderer")
	}
	return nil
}

func (r *run) stop() {
	r.renderer.StopRender()
}

// symbol guards against panicking host renderers.
func (r *run) symbol(f host.Feature) (sym host.Symbol, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("symbol lookup: %v", p)
		}
	}()
	sym, ok = r.renderer.SymbolForFeature(f)
	return sym, ok, nil
}

func (r *run) note(id int64, o Outcome, reason string) {
	r.summary.record(id, o, reason)
	if o != Written {
		r.logger.Debug("feature not exported in full", "run", r.summary.RunID, "feature", id, "outcome", o, "reason", reason)
	}
}

func (r *run) finish(kind string) {
	r.progress.SetValue(r.summary.Total)
	r.logger.Info("export finished",
		"run", r.summary.RunID,
		"format", kind,
		"path", r.summary.Path,
		"result", r.summary.String(),
		"canceled", r.summary.Canceled)
}

type noProgress struct{}

func (noProgress) SetValue(int) {}
func (noProgress) WasCanceled() bool { return false }

// noRenderer stands in for a layer without a renderer: no feature has a
// symbol.
type noRenderer struct{}

func (noRenderer) LegendSymbolItems() []host.SymbolItem { return nil }
func (noRenderer) StartRender([]host.Field) error { return nil }
func (noRenderer) SymbolForFeature(host.Feature) (host.Symbol, bool) { return host.Symbol{}, false }
func (noRenderer) StopRender() {}
