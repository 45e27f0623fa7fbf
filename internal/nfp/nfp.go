// Package nfp computes no-fit polygons and inner-fit polygons, the geometric
// core of collision-free part placement. The no-fit polygon of a static shape
// A and an orbiting shape B is the locus of B's reference point at which B
// touches but does not overlap A, equal to the Minkowski difference of A and
// B (the set of differences a - b, i.e. the Minkowski sum of A and the
// reflected B).
package nfp

import (
	"math"

	"github.com/piwi3910/polynest/internal/geometry"
	"github.com/piwi3910/polynest/internal/model"
)

// MinkowskiDifference computes the outer no-fit polygon of closed polygons a
// and b using the edge-quad construction: the lb x la matrix of vertex
// differences spans one quadrilateral per edge pair, all quads are oriented
// consistently and unioned, and the ring with the most negative signed area
// is the outer boundary. The result is translated by b[0] so it lives in the
// conventional reference frame. Works for concave inputs; on convex inputs it
// reduces to the convex Minkowski sum.
func MinkowskiDifference(a, b []model.Point2D) []model.Point2D {
	la, lb := len(a), len(b)
	if la < 3 || lb < 3 {
		return nil
	}

	quads := make([][]model.Point2D, 0, la*lb)
	for i := 0; i < lb; i++ {
		in := (i + 1) % lb
		for j := 0; j < la; j++ {
			jn := (j + 1) % la
			quad := []model.Point2D{
				{X: a[j].X - b[i].X, Y: a[j].Y - b[i].Y},
				{X: a[j].X - b[in].X, Y: a[j].Y - b[in].Y},
				{X: a[jn].X - b[in].X, Y: a[jn].Y - b[in].Y},
				{X: a[jn].X - b[i].X, Y: a[jn].Y - b[i].Y},
			}
			if geometry.SignedArea(quad) < 0 {
				quad[1], quad[3] = quad[3], quad[1]
			}
			quads = append(quads, quad)
		}
	}

	merged := geometry.Union(quads)
	if len(merged) == 0 {
		return nil
	}

	// The outer NFP boundary is the ring with the smallest signed area;
	// remaining rings are interior gaps.
	best := merged[0]
	bestArea := geometry.SignedArea(best)
	for _, ring := range merged[1:] {
		if area := geometry.SignedArea(ring); area < bestArea {
			best, bestArea = ring, area
		}
	}
	return model.TranslatePoints(best, b[0].X, b[0].Y)
}

// InnerFitPolygon returns the placement positions of part's reference point
// at which the part lies entirely inside the container: the container,
// deflated by |spacing| when spacing is non-zero, eroded by every vertex of
// the part. The interior may be disconnected for concave containers, so a
// list of polygons is returned.
func InnerFitPolygon(container, part []model.Point2D, spacing float64) [][]model.Point2D {
	if len(container) < 3 || len(part) == 0 {
		return nil
	}
	containers := [][]model.Point2D{container}
	if spacing != 0 {
		containers = geometry.Offset(container, -math.Abs(spacing))
	}
	var out [][]model.Point2D
	for _, c := range containers {
		out = append(out, erode(c, part)...)
	}
	return out
}

// erode intersects copies of the container shifted by the negation of every
// part vertex, leaving the region the reference point may occupy.
func erode(container, part []model.Point2D) [][]model.Point2D {
	acc := [][]model.Point2D{model.TranslatePoints(container, -part[0].X, -part[0].Y)}
	for _, v := range part[1:] {
		shifted := model.TranslatePoints(container, -v.X, -v.Y)
		acc = geometry.Intersection(acc, [][]model.Point2D{shifted})
		if len(acc) == 0 {
			return nil
		}
	}
	return acc
}

// InnerFitRectangle is the closed-form inner-fit polygon for an axis-aligned
// rectangular container: a (W-w) x (H-h) rectangle anchored at the part's
// reference point. Returns nil when the part exceeds the container in either
// dimension.
func InnerFitRectangle(container, part []model.Point2D) []model.Point2D {
	cb := model.PolygonBounds(container)
	pb := model.PolygonBounds(part)
	if cb == nil || pb == nil {
		return nil
	}
	if pb.Width > cb.Width || pb.Height > cb.Height {
		return nil
	}

	x1 := cb.X - pb.X + part[0].X
	y1 := cb.Y - pb.Y + part[0].Y
	x2 := cb.X + cb.Width - (pb.X + pb.Width) + part[0].X
	y2 := cb.Y + cb.Height - (pb.Y + pb.Height) + part[0].Y

	return []model.Point2D{
		{X: x1, Y: y1},
		{X: x2, Y: y1},
		{X: x2, Y: y2},
		{X: x1, Y: y2},
	}
}
