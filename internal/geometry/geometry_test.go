package geometry

import (
	"math"
	"testing"

	"github.com/piwi3910/polynest/internal/model"
)

func square(w, h float64) []model.Point2D {
	return []model.Point2D{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

func TestSignedAreaSquare(t *testing.T) {
	// Counter-clockwise winding carries a negative sign.
	if got := SignedArea(square(1, 1)); got != -1 {
		t.Errorf("expected -1, got %g", got)
	}
}

func TestSignedAreaTriangle(t *testing.T) {
	pts := []model.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	if got := SignedArea(pts); math.Abs(got+0.5) > 1e-9 {
		t.Errorf("expected -0.5, got %g", got)
	}
}

func TestSignedAreaDegenerate(t *testing.T) {
	if got := SignedArea([]model.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}}); got != 0 {
		t.Errorf("expected 0 for 2 points, got %g", got)
	}
	if got := SignedArea(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %g", got)
	}
}

func TestSignedAreaReversed(t *testing.T) {
	cw := []model.Point2D{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	if got := SignedArea(cw); got != 1 {
		t.Errorf("expected +1 for clockwise square, got %g", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	sq := square(4, 4)
	cases := []struct {
		x, y float64
		want bool
	}{
		{2, 2, true},
		{5, 2, false},
		{-1, -1, false},
		{3.999, 3.999, true},
	}
	for _, c := range cases {
		if got := PointInPolygon(sq, c.x, c.y); got != c.want {
			t.Errorf("PointInPolygon(%g,%g) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestPointInConcavePolygon(t *testing.T) {
	// L shape: the notch at the top right is outside.
	l := []model.Point2D{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2},
	}
	if !PointInPolygon(l, 0.5, 1.5) {
		t.Error("expected (0.5,1.5) inside the L")
	}
	if PointInPolygon(l, 1.5, 1.5) {
		t.Error("expected (1.5,1.5) in the notch to be outside")
	}
}

func TestPolygonContainsPolygon(t *testing.T) {
	outer := square(10, 10)
	inner := square(2, 2)
	if !PolygonContainsPolygon(outer, inner, 0, 0, 4, 4) {
		t.Error("expected inner square contained")
	}
	if PolygonContainsPolygon(outer, inner, 0, 0, 9, 9) {
		t.Error("expected overhanging square not contained")
	}
}

func TestPolygonsIntersect(t *testing.T) {
	a := square(4, 4)
	b := square(4, 4)
	if !PolygonsIntersect(a, b, 0, 0, 2, 2) {
		t.Error("expected overlapping squares to intersect")
	}
	if PolygonsIntersect(a, b, 0, 0, 10, 10) {
		t.Error("expected distant squares not to intersect")
	}
	// Edge contact is not an intersection.
	if PolygonsIntersect(a, b, 0, 0, 4, 0) {
		t.Error("expected edge-touching squares not to intersect")
	}
}

func TestUnionMergesOverlap(t *testing.T) {
	merged := Union([][]model.Point2D{
		square(4, 4),
		model.TranslatePoints(square(4, 4), 2, 0),
	})
	if len(merged) != 1 {
		t.Fatalf("expected a single merged ring, got %d", len(merged))
	}
	if area := math.Abs(SignedArea(merged[0])); math.Abs(area-24) > 1e-6 {
		t.Errorf("expected merged area 24, got %g", area)
	}
}

func TestDifferenceCutsHole(t *testing.T) {
	out := Difference(
		[][]model.Point2D{square(10, 10)},
		[][]model.Point2D{model.TranslatePoints(square(2, 2), 4, 4)},
	)
	var total float64
	for _, ring := range out {
		total += SignedArea(ring)
	}
	if math.Abs(math.Abs(total)-96) > 1e-6 {
		t.Errorf("expected net area 96, got %g", total)
	}
}

func TestIntersectionArea(t *testing.T) {
	out := Intersection(
		[][]model.Point2D{square(4, 4)},
		[][]model.Point2D{model.TranslatePoints(square(4, 4), 2, 2)},
	)
	if len(out) == 0 {
		t.Fatal("expected a non-empty intersection")
	}
	if area := math.Abs(SignedArea(out[0])); math.Abs(area-4) > 1e-6 {
		t.Errorf("expected intersection area 4, got %g", area)
	}
}

func TestOffsetGrowsAndShrinks(t *testing.T) {
	grown := Offset(square(4, 4), 1)
	if len(grown) != 1 {
		t.Fatalf("expected one inflated ring, got %d", len(grown))
	}
	if area := math.Abs(SignedArea(grown[0])); math.Abs(area-36) > 1e-6 {
		t.Errorf("expected inflated area 36 (miter corners), got %g", area)
	}

	shrunk := Offset(square(4, 4), -1)
	if len(shrunk) != 1 {
		t.Fatalf("expected one deflated ring, got %d", len(shrunk))
	}
	if area := math.Abs(SignedArea(shrunk[0])); math.Abs(area-4) > 1e-6 {
		t.Errorf("expected deflated area 4, got %g", area)
	}
}

func TestOffsetDegenerate(t *testing.T) {
	if out := Offset(nil, 1); out != nil {
		t.Errorf("expected nil for empty input, got %v", out)
	}
}

func TestNonFiniteCoordinatesRejected(t *testing.T) {
	bad := []model.Point2D{{X: 0, Y: 0}, {X: math.NaN(), Y: 0}, {X: 1, Y: 1}}
	if out := Union([][]model.Point2D{bad}); len(out) != 0 {
		t.Errorf("expected NaN input rejected, got %v", out)
	}
}
