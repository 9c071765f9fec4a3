// Copyright (c) 2025 Sudo-Ivan
// Licensed under the MIT License

// Package convert translates ArcGIS REST payloads into the host model: esri
// JSON geometries into orb geometries, esri field types into host field types
// and esri renderers into category lists.
package convert

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Geometry converts an esri JSON geometry to an orb geometry.
// It handles:
//   - Point geometries (x,y coordinates)
//   - MultiPoint geometries (points)
//   - Polyline geometries (paths), one LineString per path
//   - Polygon geometries (rings), grouped into polygons by ring orientation
//
// Parameters:
//   - geometry: The decoded esri geometry object
//
// Returns:
//   - orb.Geometry: The converted geometry, nil for a nil input
//   - error: Any error that occurred during conversion
func Geometry(geometry map[string]any) (orb.Geometry, error) {
	if geometry == nil {
		return nil, nil
	}

	if xVal, ok := geometry[KeyX]; ok {
		x, xOk := toFloat(xVal)
		y, yOk := toFloat(geometry[KeyY])
		if !xOk || !yOk {
			return nil, fmt.Errorf("invalid point coordinates")
		}
		return orb.Point{x, y}, nil
	}

	if points, ok := geometry[KeyPoints]; ok {
		coords, err := toPoints(points)
		if err != nil {
			return nil, fmt.Errorf("invalid multipoint: %v", err)
		}
		return orb.MultiPoint(coords), nil
	}

	if paths, ok := geometry[KeyPaths]; ok {
		parts, err := toParts(paths)
		if err != nil {
			return nil, fmt.Errorf("invalid polyline: %v", err)
		}
		if len(parts) == 1 {
			return orb.LineString(parts[0]), nil
		}
		mls := make(orb.MultiLineString, 0, len(parts))
		for _, p := range parts {
			mls = append(mls, orb.LineString(p))
		}
		return mls, nil
	}

	if rings, ok := geometry[KeyRings]; ok {
		parts, err := toParts(rings)
		if err != nil {
			return nil, fmt.Errorf("invalid polygon: %v", err)
		}
		return ringsToPolygons(parts), nil
	}

	return nil, fmt.Errorf("unsupported geometry: no x, points, paths or rings")
}

// ringsToPolygons groups esri rings into polygons. Clockwise rings start a new
// polygon; counter-clockwise rings are holes of the polygon before them.
func ringsToPolygons(parts [][]orb.Point) orb.Geometry {
	var mp orb.MultiPolygon
	for _, p := range parts {
		ring := orb.Ring(p)
		// Ensure ring is closed
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}
		if len(ring) == 0 {
			continue
		}
		if ring.Orientation() == orb.CCW && len(mp) > 0 {
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}
	if len(mp) == 1 {
		return mp[0]
	}
	return mp
}

func toParts(v any) ([][]orb.Point, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of parts")
	}
	parts := make([][]orb.Point, 0, len(arr))
	for i, part := range arr {
		pts, err := toPoints(part)
		if err != nil {
			return nil, fmt.Errorf("part %d: %v", i, err)
		}
		if len(pts) > 0 {
			parts = append(parts, pts)
		}
	}
	return parts, nil
}

func toPoints(v any) ([]orb.Point, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of points")
	}
	pts := make([]orb.Point, 0, len(arr))
	for _, p := range arr {
		coord, ok := p.([]any)
		if !ok || len(coord) < MinCoords {
			return nil, fmt.Errorf("invalid coordinate %v", p)
		}
		x, xOk := toFloat(coord[IndexFirst])
		y, yOk := toFloat(coord[IndexSecond])
		if !xOk || !yOk {
			return nil, fmt.Errorf("invalid coordinate %v", p)
		}
		pts = append(pts, orb.Point{x, y})
	}
	return pts, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
