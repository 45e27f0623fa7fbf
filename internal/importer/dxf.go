package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/polynest/internal/model"
)

// ImportDXF reads polygons from a DXF file. LWPOLYLINEs with at least 3
// vertices (whatever their closed flag) and CIRCLEs map directly to closed
// polygons; loose LINEs and ARCs are chained into
// closed outlines when their endpoints coincide within the merge tolerance.
func ImportDXF(path string, tol float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var polys []model.Polygon
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			points := lwPolylinePoints(e, tol)
			if len(points) >= 3 {
				polys = append(polys, model.Polygon{Points: points, Closed: true})
			} else {
				result.Warnings = append(result.Warnings,
					"skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			polys = append(polys, model.Polygon{
				Points: circlePoints(e.Center[0], e.Center[1], e.Radius, tol),
				Closed: true,
			})

		case *entity.Arc:
			pts := arcPoints(e, tol)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: model.Point2D{X: e.Start[0], Y: e.Start[1]},
				end:   model.Point2D{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, outline := range chainSegments(segments, mergeTolerance) {
		polys = append(polys, model.Polygon{Points: outline, Closed: true})
	}

	if len(polys) == 0 {
		result.Errors = append(result.Errors, "no closed shapes found in DXF file")
		return result
	}

	for i := range polys {
		polys[i].ID = i
	}
	result.Polygons = polys
	return result
}

// lwPolylinePoints converts an LWPOLYLINE to a point sequence, interpolating
// bulge arcs between consecutive vertices.
func lwPolylinePoints(lw *entity.LwPolyline, tol float64) []model.Point2D {
	var points []model.Point2D
	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := model.Point2D{X: v[0], Y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			next := lw.Vertices[(i+1)%len(lw.Vertices)]
			arc := bulgeArcPoints(current, model.Point2D{X: next[0], Y: next[1]}, bulge, tol)
			points = append(points, arc[:len(arc)-1]...)
		} else {
			points = append(points, current)
		}
	}
	return points
}

// bulgeArcPoints interpolates the arc described by two endpoints and a DXF
// bulge factor, the tangent of a quarter of the included angle.
func bulgeArcPoints(p1, p2 model.Point2D, bulge float64, tol float64) []model.Point2D {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord < 1e-9 {
		return []model.Point2D{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX := -dy / chord
	perpY := dx / chord
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	steps := arcSteps(radius, math.Abs(endAngle-startAngle), tol)
	pts := make([]model.Point2D, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, model.Point2D{
			X: cx + radius*math.Cos(angle),
			Y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circlePoints approximates a circle as a regular polygon fine enough that
// the sagitta stays below the tolerance.
func circlePoints(cx, cy, r, tol float64) []model.Point2D {
	n := arcSteps(r, 2*math.Pi, tol)
	pts := make([]model.Point2D, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = model.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// arcPoints converts an ARC entity to a polyline.
func arcPoints(a *entity.Arc, tol float64) []model.Point2D {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}

	steps := arcSteps(r, end-start, tol)
	pts := make([]model.Point2D, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		angle := start + t*(end-start)
		pts[i] = model.Point2D{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

// arcSteps picks the segment count that keeps the flattening error (sagitta)
// of an arc of the given radius and sweep below the tolerance.
func arcSteps(radius, sweep, tol float64) int {
	if radius <= 0 || sweep <= 0 {
		return 1
	}
	if tol <= 0 || tol >= radius {
		return 8
	}
	maxStep := 2 * math.Acos(1-tol/radius)
	steps := int(math.Ceil(sweep / maxStep))
	if steps < 8 {
		steps = 8
	}
	if steps > 512 {
		steps = 512
	}
	return steps
}
