package model

import (
	"math"
	"testing"
)

func square(w, h float64) []Point2D {
	return []Point2D{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

func TestPolygonBoundsDegenerate(t *testing.T) {
	if b := PolygonBounds([]Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}}); b != nil {
		t.Errorf("expected nil bounds for 2 points, got %+v", b)
	}
	if b := PolygonBounds(nil); b != nil {
		t.Errorf("expected nil bounds for empty input, got %+v", b)
	}
}

func TestPolygonBounds(t *testing.T) {
	b := PolygonBounds([]Point2D{{X: 1, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 7}})
	if b == nil {
		t.Fatal("expected bounds")
	}
	if b.X != 1 || b.Y != 2 || b.Width != 3 || b.Height != 5 {
		t.Errorf("unexpected bounds %+v", b)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	pts := []Point2D{{X: 0.5, Y: 0.25}, {X: 3, Y: 0}, {X: 2, Y: 4}, {X: -1, Y: 1.5}}
	for _, angle := range []float64{30, 45, 90, 123.456, 270} {
		back := RotatePoints(RotatePoints(pts, angle), -angle)
		for i := range pts {
			if math.Abs(back[i].X-pts[i].X) > 1e-9 || math.Abs(back[i].Y-pts[i].Y) > 1e-9 {
				t.Errorf("angle %g: point %d drifted: %+v vs %+v", angle, i, back[i], pts[i])
			}
		}
	}
}

func TestRotateEmpty(t *testing.T) {
	if out := RotatePoints(nil, 45); len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestRotatePreservesBounds(t *testing.T) {
	rotated := RotatePoints(square(1, 1), 90)
	b := PolygonBounds(rotated)
	if b == nil {
		t.Fatal("expected bounds")
	}
	if math.Abs(b.Width-1) > 1e-9 || math.Abs(b.Height-1) > 1e-9 {
		t.Errorf("unexpected rotated bounds %+v", b)
	}
}

func TestNewPartNormalizes(t *testing.T) {
	polys := []Polygon{{
		Points: TranslatePoints(square(4, 2), 10, -5),
		Closed: true,
	}}
	part := NewPart("A", polys)
	b := part.Bounds()
	if b == nil {
		t.Fatal("expected bounds")
	}
	if b.X != 0 || b.Y != 0 {
		t.Errorf("expected normalized origin, got (%g,%g)", b.X, b.Y)
	}
	if b.Width != 4 || b.Height != 2 {
		t.Errorf("unexpected part size %gx%g", b.Width, b.Height)
	}
	if part.ID == "" {
		t.Error("expected a part id")
	}
}

func TestRotatedRenormalizes(t *testing.T) {
	part := NewPart("A", []Polygon{{Points: square(6, 2), Closed: true}})
	rotated := part.Rotated(90)
	b := PolygonsBounds(rotated)
	if b == nil {
		t.Fatal("expected bounds")
	}
	if math.Abs(b.X) > 1e-9 || math.Abs(b.Y) > 1e-9 {
		t.Errorf("rotated set is not re-normalized: origin (%g,%g)", b.X, b.Y)
	}
	if math.Abs(b.Width-2) > 1e-9 || math.Abs(b.Height-6) > 1e-9 {
		t.Errorf("unexpected rotated size %gx%g", b.Width, b.Height)
	}
}

func TestBoundsRotatedMatchesRotated(t *testing.T) {
	part := NewPart("A", []Polygon{{Points: square(3, 5), Closed: true}})
	direct := part.BoundsRotated(90)
	viaRotated := PolygonsBounds(part.Rotated(90))
	if math.Abs(direct.Width-viaRotated.Width) > 1e-9 ||
		math.Abs(direct.Height-viaRotated.Height) > 1e-9 {
		t.Errorf("BoundsRotated disagrees with Rotated: %+v vs %+v", direct, viaRotated)
	}
}

func TestPolygonsBoundsSpansAllRings(t *testing.T) {
	polys := []Polygon{
		{Points: square(2, 2)},
		{Points: TranslatePoints(square(2, 2), 5, 5)},
	}
	b := PolygonsBounds(polys)
	if b == nil {
		t.Fatal("expected bounds")
	}
	if b.Width != 7 || b.Height != 7 {
		t.Errorf("unexpected collective bounds %+v", b)
	}
}
