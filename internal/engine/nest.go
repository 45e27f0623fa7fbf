package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/polynest/internal/geometry"
	"github.com/piwi3910/polynest/internal/model"
	"github.com/piwi3910/polynest/internal/nfp"
)

// NestResult is the rendered best layout: placements in placement order
// against a sheet of BinWidth x LayoutHeight, where LayoutHeight is the bin
// height times the number of bins used.
type NestResult struct {
	BinWidth     float64           `json:"bin_width"`
	BinHeight    float64           `json:"bin_height"`
	LayoutHeight float64           `json:"layout_height"`
	BinsUsed     int               `json:"bins_used"`
	Fitness      float64           `json:"fitness"`
	Placements   []model.Placement `json:"placements"`
}

// BuildPartSet turns parsed polygon groups into a bin and a part list: the
// first group becomes the bin, each subsequent group one part. Within a part
// group the largest ring becomes the outer boundary and the remaining rings
// its holes, rewound to the opposite orientation when needed so the winding
// invariant holds.
func BuildPartSet(groups [][]model.Polygon) (model.Bin, []model.Part, error) {
	if len(groups) == 0 {
		return model.Bin{}, nil, errors.New("no input polygons")
	}

	binPoly, ok := largestRing(groups[0])
	if !ok {
		return model.Bin{}, nil, errors.New("bin polygon is degenerate")
	}
	binBounds := model.PolygonBounds(binPoly.Points)
	if binBounds == nil {
		return model.Bin{}, nil, errors.New("bin polygon is degenerate")
	}
	bin := model.Bin{Polygon: binPoly, Bounds: *binBounds}

	var parts []model.Part
	for gi, group := range groups[1:] {
		rings := usableRings(group)
		if len(rings) == 0 {
			continue
		}
		sort.SliceStable(rings, func(i, j int) bool {
			return math.Abs(geometry.SignedArea(rings[i].Points)) >
				math.Abs(geometry.SignedArea(rings[j].Points))
		})
		outerSign := geometry.SignedArea(rings[0].Points)
		for i := range rings[1:] {
			hole := &rings[i+1]
			if geometry.SignedArea(hole.Points)*outerSign > 0 {
				reverse(hole.Points)
			}
		}
		parts = append(parts, model.NewPart(fmt.Sprintf("Part %d", gi+1), rings))
	}
	if len(parts) == 0 {
		return model.Bin{}, nil, errors.New("no parts to nest")
	}
	return bin, parts, nil
}

func usableRings(group []model.Polygon) []model.Polygon {
	var rings []model.Polygon
	for _, poly := range group {
		if len(poly.Points) >= 3 {
			rings = append(rings, poly)
		}
	}
	return rings
}

func largestRing(group []model.Polygon) (model.Polygon, bool) {
	rings := usableRings(group)
	if len(rings) == 0 {
		return model.Polygon{}, false
	}
	best := rings[0]
	bestArea := math.Abs(geometry.SignedArea(best.Points))
	for _, ring := range rings[1:] {
		if area := math.Abs(geometry.SignedArea(ring.Points)); area > bestArea {
			best, bestArea = ring, area
		}
	}
	return best, true
}

func reverse(points []model.Point2D) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

// RenderBest re-lays-out the fittest individual of an evolved population and
// returns the concrete placements. Fails when the population is empty or the
// best individual never produced a feasible layout.
func RenderBest(population []*Individual, parts []model.Part, bin model.Bin, cfg model.NestConfig) (NestResult, error) {
	if len(population) == 0 {
		return NestResult{}, errors.New("empty population")
	}
	best := population[0]
	for _, ind := range population[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}

	cache := nfp.NewCache(cfg.AnglePrecision)
	res := layout(best, parts, bin.Bounds, cfg, cache)
	if math.IsInf(res.height, 1) {
		return NestResult{}, errors.New("best individual has no feasible layout")
	}
	return NestResult{
		BinWidth:     bin.Bounds.Width,
		BinHeight:    bin.Bounds.Height,
		LayoutHeight: res.height,
		BinsUsed:     res.bins,
		Fitness:      fitness(res, bin.Bounds),
		Placements:   res.placements,
	}, nil
}
