package utils

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Kind is the coarse geometry class used for export dispatch.
type Kind int

const (
	KindUnknown Kind = iota
	KindPoint
	KindLine
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// KindOf classifies a geometry as point, line or polygon. Single and multi-part
// variants share a kind. Collections take the kind of their first member.
func KindOf(g orb.Geometry) Kind {
	switch v := g.(type) {
	case orb.Point, orb.MultiPoint:
		return KindPoint
	case orb.LineString, orb.MultiLineString:
		return KindLine
	case orb.Polygon, orb.MultiPolygon, orb.Ring, orb.Bound:
		return KindPolygon
	case orb.Collection:
		if len(v) > 0 {
			return KindOf(v[0])
		}
	}
	return KindUnknown
}

// IsEmpty reports whether g is nil or carries no vertices.
func IsEmpty(g orb.Geometry) bool {
	if g == nil {
		return true
	}
	switch v := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(v) == 0
	case orb.LineString:
		return len(v) == 0
	case orb.MultiLineString:
		for _, ls := range v {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(v) == 0
	case orb.Polygon:
		return len(v) == 0 || len(v[0]) == 0
	case orb.MultiPolygon:
		for _, p := range v {
			if len(p) > 0 && len(p[0]) > 0 {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, c := range v {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	case orb.Bound:
		return false
	}
	return true
}

// FirstPoint returns the first point of a point or multi-point geometry.
// The boolean is false when g is not a point kind or has no points.
func FirstPoint(g orb.Geometry) (orb.Point, bool) {
	switch v := g.(type) {
	case orb.Point:
		return v, true
	case orb.MultiPoint:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return orb.Point{}, false
}

// Lines flattens a line geometry into its parts, dropping empty ones.
func Lines(g orb.Geometry) []orb.LineString {
	var out []orb.LineString
	switch v := g.(type) {
	case orb.LineString:
		if len(v) > 0 {
			out = append(out, v)
		}
	case orb.MultiLineString:
		for _, ls := range v {
			if len(ls) > 0 {
				out = append(out, ls)
			}
		}
	case orb.Collection:
		for _, c := range v {
			out = append(out, Lines(c)...)
		}
	}
	return out
}

// Polygons flattens a polygon geometry into its parts, dropping empty ones.
func Polygons(g orb.Geometry) []orb.Polygon {
	var out []orb.Polygon
	switch v := g.(type) {
	case orb.Polygon:
		if len(v) > 0 && len(v[0]) > 0 {
			out = append(out, v)
		}
	case orb.Ring:
		if len(v) > 0 {
			out = append(out, orb.Polygon{v})
		}
	case orb.Bound:
		out = append(out, v.ToPolygon())
	case orb.MultiPolygon:
		for _, p := range v {
			if len(p) > 0 && len(p[0]) > 0 {
				out = append(out, p)
			}
		}
	case orb.Collection:
		for _, c := range v {
			out = append(out, Polygons(c)...)
		}
	}
	return out
}

// RingCount returns the total number of rings across all polygon parts.
func RingCount(polys []orb.Polygon) int {
	n := 0
	for _, p := range polys {
		n += len(p)
	}
	return n
}

// Centroid returns the area-weighted centroid of g, falling back to the
// vertex centroid for points and lines.
func Centroid(g orb.Geometry) (orb.Point, bool) {
	if IsEmpty(g) {
		return orb.Point{}, false
	}
	if p, ok := g.(orb.Point); ok {
		return p, true
	}
	c, _ := planar.CentroidArea(g)
	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return orb.Point{}, false
	}
	return c, true
}

// EachPoint calls fn for every vertex of g, stopping at the first error.
func EachPoint(g orb.Geometry, fn func(orb.Point) error) error {
	switch v := g.(type) {
	case nil:
		return nil
	case orb.Point:
		return fn(v)
	case orb.MultiPoint:
		for _, p := range v {
			if err := fn(p); err != nil {
				return err
			}
		}
	case orb.LineString:
		return EachPoint(orb.MultiPoint(v), fn)
	case orb.Ring:
		return EachPoint(orb.MultiPoint(v), fn)
	case orb.MultiLineString:
		for _, ls := range v {
			if err := EachPoint(ls, fn); err != nil {
				return err
			}
		}
	case orb.Polygon:
		for _, r := range v {
			if err := EachPoint(r, fn); err != nil {
				return err
			}
		}
	case orb.MultiPolygon:
		for _, p := range v {
			if err := EachPoint(p, fn); err != nil {
				return err
			}
		}
	case orb.Collection:
		for _, c := range v {
			if err := EachPoint(c, fn); err != nil {
				return err
			}
		}
	case orb.Bound:
		return EachPoint(v.ToRing(), fn)
	}
	return nil
}
