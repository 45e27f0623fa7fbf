package geometry

import (
	"math"

	clipper "github.com/ctessum/go.clipper"

	"github.com/piwi3910/polynest/internal/model"
)

// ClipperScale is the fixed float-to-integer conversion factor used for every
// boolean operation. It fixes the robustness tolerance of the integer clipper
// backend.
const ClipperScale = 1e7

// CurveTolerance is the default maximum deviation when flattening curves.
const CurveTolerance = 0.3

// finite reports whether every coordinate is a normal IEEE-754 value.
// NaN and infinity must not reach the integer clipping backend.
func finite(points []model.Point2D) bool {
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return false
		}
	}
	return true
}

func toClipperPath(points []model.Point2D) clipper.Path {
	path := make(clipper.Path, 0, len(points))
	for _, p := range points {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(p.X * ClipperScale)),
			Y: clipper.CInt(math.Round(p.Y * ClipperScale)),
		})
	}
	return path
}

func fromClipperPath(path clipper.Path) []model.Point2D {
	points := make([]model.Point2D, 0, len(path))
	for _, p := range path {
		points = append(points, model.Point2D{
			X: float64(p.X) / ClipperScale,
			Y: float64(p.Y) / ClipperScale,
		})
	}
	return points
}

func toClipperPaths(polys [][]model.Point2D) clipper.Paths {
	paths := make(clipper.Paths, 0, len(polys))
	for _, poly := range polys {
		if len(poly) < 3 || !finite(poly) {
			continue
		}
		paths = append(paths, toClipperPath(poly))
	}
	return paths
}

func fromClipperPaths(paths clipper.Paths) [][]model.Point2D {
	polys := make([][]model.Point2D, 0, len(paths))
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		polys = append(polys, fromClipperPath(path))
	}
	return polys
}

// execute runs one boolean operation over multi-polygons. A failed or empty
// clip returns nil; callers treat that as "no result available".
func execute(op clipper.ClipType, subject, clip [][]model.Point2D) [][]model.Point2D {
	subj := toClipperPaths(subject)
	if len(subj) == 0 {
		return nil
	}
	c := clipper.NewClipper(0)
	c.AddPaths(subj, clipper.PtSubject, true)
	if cl := toClipperPaths(clip); len(cl) > 0 {
		c.AddPaths(cl, clipper.PtClip, true)
	}
	solution, ok := c.Execute1(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return fromClipperPaths(solution)
}

// Union merges the polygons into a multi-polygon.
func Union(polys [][]model.Point2D) [][]model.Point2D {
	return execute(clipper.CtUnion, polys, nil)
}

// Intersection clips subject against clip and returns the common area.
func Intersection(subject, clip [][]model.Point2D) [][]model.Point2D {
	return execute(clipper.CtIntersection, subject, clip)
}

// Difference subtracts clip from subject.
func Difference(subject, clip [][]model.Point2D) [][]model.Point2D {
	return execute(clipper.CtDifference, subject, clip)
}

// PolygonsIntersect reports whether polygons a and b, translated by (ax, ay)
// and (bx, by), overlap with non-zero area. Pure edge contact does not count
// as an intersection.
func PolygonsIntersect(a, b []model.Point2D, ax, ay, bx, by float64) bool {
	ta := model.TranslatePoints(a, ax, ay)
	tb := model.TranslatePoints(b, bx, by)
	for _, ring := range Intersection([][]model.Point2D{ta}, [][]model.Point2D{tb}) {
		if math.Abs(SignedArea(ring)) > 1e-9 {
			return true
		}
	}
	return false
}

// Offset inflates (delta > 0) or deflates (delta < 0) the polygon using a
// miter join with limit 2 and closed-polygon ends. The result may be several
// polygons; a degenerate input yields none.
func Offset(points []model.Point2D, delta float64) [][]model.Point2D {
	if len(points) < 3 || !finite(points) {
		return nil
	}
	co := clipper.NewClipperOffset()
	co.MiterLimit = 2
	co.AddPath(toClipperPath(points), clipper.JtMiter, clipper.EtClosedPolygon)
	return fromClipperPaths(co.Execute(delta * ClipperScale))
}
