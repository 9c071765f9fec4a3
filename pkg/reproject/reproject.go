// Package reproject moves feature geometries between coordinate reference
// systems for the exporters.
//
// A Projector is built once per export run from a source and destination CRS
// identifier and then applied per feature. A failed transform never panics and
// never aborts a run: Project returns the untransformed geometry alongside a
// *TransformError so the caller can choose to keep it or drop it.
package reproject

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/utils"
)

// Projection converts between one CRS and WGS84 longitude/latitude.
type Projection struct {
	EPSG      int
	ToWGS84   orb.Projection
	FromWGS84 orb.Projection
	// Domain validates a source coordinate before conversion.
	Domain func(orb.Point) bool
}

var wgs84 = &Projection{
	EPSG:      4326,
	ToWGS84:   func(p orb.Point) orb.Point { return p },
	FromWGS84: func(p orb.Point) orb.Point { return p },
	Domain: func(p orb.Point) bool {
		return p[0] >= -180 && p[0] <= 180 && p[1] >= -90 && p[1] <= 90
	},
}

var webMercator = &Projection{
	EPSG:      3857,
	ToWGS84:   project.Mercator.ToWGS84,
	FromWGS84: project.WGS84.ToMercator,
	Domain: func(p orb.Point) bool {
		return math.Abs(p[0]) <= mercatorExtent*1.0001 && math.Abs(p[1]) <= mercatorExtent*1.0001
	},
}

// Half the width of the web mercator plane in metres.
const mercatorExtent = 20037508.342789244

// MaxMercatorLatitude is the highest latitude web mercator can represent.
const MaxMercatorLatitude = 85.05112878

// ForEPSG returns the projection for the given EPSG code, or nil when the code
// is not supported.
func ForEPSG(epsg int) *Projection {
	switch epsg {
	case 4326, 4979:
		return wgs84
	case 3857, 900913, 102100, 102113, 3785:
		return webMercator
	default:
		return nil
	}
}

// ParseCRS extracts the EPSG code from identifiers such as "EPSG:3857",
// "epsg:4326", "urn:ogc:def:crs:EPSG::3857", "CRS84" or a bare number.
func ParseCRS(crs string) (int, error) {
	s := strings.TrimSpace(crs)
	if s == "" {
		return 0, fmt.Errorf("empty CRS identifier")
	}
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "CRS84") {
		return 4326, nil
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid CRS identifier %q", crs)
	}
	return code, nil
}

// TransformError reports a geometry that could not be transformed.
type TransformError struct {
	Src, Dst string
	Reason   string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s -> %s failed: %s", e.Src, e.Dst, e.Reason)
}

// Projector applies a fixed source to destination transform.
type Projector struct {
	src, dst string
	from, to *Projection
	identity bool
}

// ForCRS builds a Projector from src to dst.
//
// Parameters:
//   - src: The layer CRS identifier (e.g. "EPSG:3857").
//   - dst: The export CRS identifier (e.g. "EPSG:4326").
//
// Returns:
//   - *Projector: The reusable transform.
//   - error: ErrCodeUnsupportedCRS when either CRS is unknown.
func ForCRS(src, dst string) (*Projector, error) {
	srcCode, err := ParseCRS(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedCRS, err, "source CRS")
	}
	dstCode, err := ParseCRS(dst)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupportedCRS, err, "destination CRS")
	}
	from, to := ForEPSG(srcCode), ForEPSG(dstCode)
	if from == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedCRS, "unsupported source CRS %s", src)
	}
	if to == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedCRS, "unsupported destination CRS %s", dst)
	}
	return &Projector{
		src:      src,
		dst:      dst,
		from:     from,
		to:       to,
		identity: from == to,
	}, nil
}

// Identity reports whether source and destination are the same CRS.
func (p *Projector) Identity() bool {
	return p.identity
}

// Project returns g in the destination CRS. The input is never modified. On
// failure the original geometry is returned with a *TransformError.
func (p *Projector) Project(g orb.Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	if p.identity {
		// same CRS: coordinates pass through untouched, whatever their range
		if err := utils.EachPoint(g, p.check(nil)); err != nil {
			return g, err
		}
		return g, nil
	}
	if err := utils.EachPoint(g, p.check(p.from.Domain)); err != nil {
		return g, err
	}

	out := orb.Clone(g)
	out = project.Geometry(out, func(pt orb.Point) orb.Point {
		return p.to.FromWGS84(p.from.ToWGS84(pt))
	})

	if p.to == webMercator {
		// forward mercator diverges towards the poles
		if err := utils.EachPoint(g, func(pt orb.Point) error {
			ll := p.from.ToWGS84(pt)
			if math.Abs(ll[1]) > MaxMercatorLatitude {
				return p.fail("latitude %.6f outside mercator domain", ll[1])
			}
			return nil
		}); err != nil {
			return g, err
		}
	}
	if err := utils.EachPoint(out, p.check(nil)); err != nil {
		return g, err
	}
	return out, nil
}

// Transform implements host.Transformer.
func (p *Projector) Transform(g orb.Geometry) (orb.Geometry, error) {
	return p.Project(g)
}

func (p *Projector) check(domain func(orb.Point) bool) func(orb.Point) error {
	return func(pt orb.Point) error {
		if math.IsNaN(pt[0]) || math.IsNaN(pt[1]) || math.IsInf(pt[0], 0) || math.IsInf(pt[1], 0) {
			return p.fail("non-finite coordinate")
		}
		if domain != nil && !domain(pt) {
			return p.fail("coordinate %v outside source domain", pt)
		}
		return nil
	}
}

func (p *Projector) fail(format string, args ...any) *TransformError {
	return &TransformError{Src: p.src, Dst: p.dst, Reason: fmt.Sprintf(format, args...)}
}
