// Package model defines the geometric and configuration types shared by the
// nesting engine: points, polygons, parts, bins and placements.
package model

import (
	"math"

	"github.com/google/uuid"
)

// Point2D represents a 2D coordinate in drawing units.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered sequence of points in authoring order. Closed marks
// whether the last point connects back to the first.
type Polygon struct {
	ID     int       `json:"id"`
	Points []Point2D `json:"points"`
	Closed bool      `json:"closed"`
}

// Bounds is an axis-aligned bounding rectangle.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PolygonBounds returns the bounding rectangle of the point set, or nil when
// the polygon has fewer than 3 points and no meaningful bounds exist.
func PolygonBounds(points []Point2D) *Bounds {
	if len(points) < 3 {
		return nil
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return &Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// PolygonsBounds returns the bounding rectangle enclosing every polygon in the
// set, or nil when none of the polygons has bounds.
func PolygonsBounds(polys []Polygon) *Bounds {
	var acc *Bounds
	for _, poly := range polys {
		b := PolygonBounds(poly.Points)
		if b == nil {
			continue
		}
		if acc == nil {
			cp := *b
			acc = &cp
			continue
		}
		minX := math.Min(acc.X, b.X)
		minY := math.Min(acc.Y, b.Y)
		maxX := math.Max(acc.X+acc.Width, b.X+b.Width)
		maxY := math.Max(acc.Y+acc.Height, b.Y+b.Height)
		acc = &Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return acc
}

// RotatePoints rotates the point sequence about the origin by the given angle
// in degrees. An empty input yields an empty output.
func RotatePoints(points []Point2D, angleDeg float64) []Point2D {
	if len(points) == 0 {
		return nil
	}
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = Point2D{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	return out
}

// TranslatePoints shifts every point by dx, dy.
func TranslatePoints(points []Point2D, dx, dy float64) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = Point2D{X: p.X + dx, Y: p.Y + dy}
	}
	return out
}

// NormalizePolygons translates the polygon set in place so its collective
// minimum x and y become the origin.
func NormalizePolygons(polys []Polygon) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, poly := range polys {
		for _, p := range poly.Points {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
		}
	}
	if math.IsInf(minX, 1) || (minX == 0 && minY == 0) {
		return
	}
	for i := range polys {
		for j := range polys[i].Points {
			polys[i].Points[j].X -= minX
			polys[i].Points[j].Y -= minY
		}
	}
}

// Part is a rigid shape to nest: polygon index 0 is the outer boundary,
// indices >= 1 are holes. Parts are normalized on construction so their
// bounding rectangle sits at the origin, and are immutable afterwards.
type Part struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Polygons []Polygon `json:"polygons"`
}

// NewPart builds a normalized part from the given polygons.
func NewPart(label string, polys []Polygon) Part {
	NormalizePolygons(polys)
	return Part{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Polygons: polys,
	}
}

// Rotated returns a fresh polygon set rotated about the origin by the given
// angle in degrees and re-normalized as a whole, so placements referencing the
// part origin stay consistent across rotations.
func (p Part) Rotated(angleDeg float64) []Polygon {
	out := make([]Polygon, len(p.Polygons))
	for i, poly := range p.Polygons {
		out[i] = Polygon{
			ID:     poly.ID,
			Points: RotatePoints(poly.Points, angleDeg),
			Closed: poly.Closed,
		}
	}
	NormalizePolygons(out)
	return out
}

// Bounds returns the bounding rectangle of the part's polygon set.
func (p Part) Bounds() *Bounds {
	return PolygonsBounds(p.Polygons)
}

// BoundsRotated returns the bounding rectangle of the part after rotation.
func (p Part) BoundsRotated(angleDeg float64) *Bounds {
	return PolygonsBounds(p.Rotated(angleDeg))
}

// Bin is the container polygon parts are packed into, with its bounding
// rectangle cached at construction.
type Bin struct {
	Polygon Polygon `json:"polygon"`
	Bounds  Bounds  `json:"bounds"`
}

// Placement positions one part: rotate by Angle degrees, then translate the
// normalized origin to (X, Y). Bin membership is encoded in Y, which grows by
// one bin height per opened bin.
type Placement struct {
	PartIndex int     `json:"part_index"`
	Angle     float64 `json:"angle"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}
