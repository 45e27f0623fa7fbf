// Package geometry implements the planar primitives behind the nesting
// engine: signed areas, point-in-polygon tests, containment and the
// clipper-backed boolean operations.
package geometry

import (
	"github.com/piwi3910/polynest/internal/model"
)

// SignedArea computes the signed area of the polygon using the shoelace
// formula over the cyclic point sequence. A negative value indicates
// counter-clockwise winding; this sign convention is the single source of
// truth for orientation tests throughout the engine. Polygons with fewer
// than 3 points have zero area.
func SignedArea(points []model.Point2D) float64 {
	if len(points) < 3 {
		return 0
	}
	area := 0.0
	j := len(points) - 1
	for i := range points {
		area += (points[j].X + points[i].X) * (points[j].Y - points[i].Y)
		j = i
	}
	return 0.5 * area
}

// PointInPolygon reports whether (x, y) lies inside the polygon under the
// even-odd rule. The small epsilon in the denominator avoids division by
// zero on horizontal edges.
func PointInPolygon(points []model.Point2D, x, y float64) bool {
	if len(points) < 3 {
		return false
	}
	inside := false
	j := len(points) - 1
	for i := range points {
		xi, yi := points[i].X, points[i].Y
		xj, yj := points[j].X, points[j].Y
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi+1e-32)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PolygonContainsPolygon reports whether every vertex of b translated by
// (bx, by) lies inside a translated by (ax, ay) under the even-odd test.
// This is the cheap containment check used for nesting parts inside holes;
// it is exact for convex containers and acceptable for concave ones given
// the polygons already pass intersection tests upstream.
func PolygonContainsPolygon(a, b []model.Point2D, ax, ay, bx, by float64) bool {
	if len(a) < 3 || len(b) == 0 {
		return false
	}
	for _, p := range b {
		if !PointInPolygon(a, p.X+bx-ax, p.Y+by-ay) {
			return false
		}
	}
	return true
}
