// Package engine contains the layout evaluator and the genetic algorithm
// that together search for dense nestings of irregular parts.
package engine

import (
	"math"

	"github.com/piwi3910/polynest/internal/geometry"
	"github.com/piwi3910/polynest/internal/model"
	"github.com/piwi3910/polynest/internal/nfp"
)

// selectedPart is one (part, angle) gene that survived the pre-filter,
// carrying its rotated geometry and bounds.
type selectedPart struct {
	idx    int
	angle  float64
	polys  []model.Polygon
	bounds model.Bounds
}

// placedPart is a selected part with its final position.
type placedPart struct {
	selectedPart
	x, y float64
}

// layoutResult is the outcome of packing one individual: the total layout
// height (bin height times bins used, or +Inf when infeasible), the concrete
// placements and the per-bin used widths that feed the fitness formula.
type layoutResult struct {
	height      float64
	placements  []model.Placement
	binWidths   []float64
	bins        int
	unplaceable int
}

func infeasible(unplaceable int) layoutResult {
	return layoutResult{height: math.Inf(1), unplaceable: unplaceable}
}

// outerRings returns the sub-polygons sharing the winding sign of the
// boundary at index 0; holes carry the opposite sign.
func outerRings(polys []model.Polygon) []model.Polygon {
	if len(polys) == 0 {
		return nil
	}
	sign := geometry.SignedArea(polys[0].Points)
	var out []model.Polygon
	for _, poly := range polys {
		if geometry.SignedArea(poly.Points)*sign > 0 {
			out = append(out, poly)
		}
	}
	return out
}

// holeRings returns the sub-polygons wound opposite to the boundary.
func holeRings(polys []model.Polygon) []model.Polygon {
	if len(polys) == 0 {
		return nil
	}
	sign := geometry.SignedArea(polys[0].Points)
	var out []model.Polygon
	for _, poly := range polys {
		if geometry.SignedArea(poly.Points)*sign < 0 {
			out = append(out, poly)
		}
	}
	return out
}

// containedInHole reports whether every outer ring of the candidate at (x, y)
// lies inside one hole of the placed part.
func containedInHole(p placedPart, cand selectedPart, x, y float64) bool {
	candOuter := outerRings(cand.polys)
	if len(candOuter) == 0 {
		return false
	}
	for _, hole := range holeRings(p.polys) {
		all := true
		for _, outer := range candOuter {
			if !geometry.PolygonContainsPolygon(hole.Points, outer.Points, p.x, p.y, x, y) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// collides checks the candidate at (x, y) against every placed part. A part
// nested fully inside a hole of another does not collide with it; otherwise
// the memoized no-fit polygon vetoes anchors inside it, and the pairwise
// clip-based intersection test is authoritative whenever the NFP is missing
// or degenerate.
func collides(cache *nfp.Cache, placed []placedPart, cand selectedPart, x, y float64) bool {
	for _, p := range placed {
		if containedInHole(p, cand, x, y) {
			continue
		}

		ring := cache.GetOrGenerate(p.idx, cand.idx, p.angle, cand.angle,
			p.polys[0].Points, cand.polys[0].Points)
		if len(ring) >= 3 && geometry.PointInPolygon(ring, x-p.x, y-p.y) {
			return true
		}

		for _, po := range outerRings(p.polys) {
			for _, co := range outerRings(cand.polys) {
				if geometry.PolygonsIntersect(po.Points, co.Points, p.x, p.y, x, y) {
					return true
				}
			}
		}
	}
	return false
}

// layout packs the individual's parts in gene order and returns the layout
// result. Genes whose rotated bounds exceed the bin in either dimension are
// dropped up front and counted as unplaceable.
func layout(ind *Individual, parts []model.Part, binBounds model.Bounds, cfg model.NestConfig, cache *nfp.Cache) layoutResult {
	var sel []selectedPart
	unplaceable := 0
	for k, idx := range ind.Placement {
		angle := ind.Rotation[k]
		polys := parts[idx].Rotated(angle)
		b := model.PolygonsBounds(polys)
		if b == nil {
			continue
		}
		if b.Width > binBounds.Width || b.Height > binBounds.Height {
			unplaceable++
			continue
		}
		sel = append(sel, selectedPart{idx: idx, angle: angle, polys: polys, bounds: *b})
	}

	var placed []placedPart
	var bins int
	var ok bool
	if cfg.ExploreConcave {
		placed, bins, ok = layoutMaxRect(sel, binBounds, cfg, cache)
	} else {
		placed, bins, ok = layoutShelf(sel, binBounds, cfg, cache)
	}
	if !ok {
		return infeasible(unplaceable)
	}

	res := layoutResult{
		height:      binBounds.Height * float64(bins),
		bins:        bins,
		unplaceable: unplaceable,
		binWidths:   make([]float64, bins),
	}
	for _, p := range placed {
		res.placements = append(res.placements, model.Placement{
			PartIndex: p.idx,
			Angle:     p.angle,
			X:         p.x,
			Y:         p.y,
		})
		bin := int(math.Floor(p.y/binBounds.Height + 1e-9))
		if bin >= 0 && bin < bins {
			res.binWidths[bin] = math.Max(res.binWidths[bin], p.x+p.bounds.Width)
		}
	}
	return res
}

// layoutShelf sweeps parts left to right along a cursor, opening a fresh bin
// whenever the part would reach or run past the bin width (a part that fits
// flush against the right edge also opens a new bin). Any collision makes the
// whole individual infeasible.
func layoutShelf(sel []selectedPart, binBounds model.Bounds, cfg model.NestConfig, cache *nfp.Cache) ([]placedPart, int, bool) {
	var placed []placedPart
	x, y := 0.0, 0.0
	bins := 1
	for _, s := range sel {
		if x+s.bounds.Width >= binBounds.Width {
			bins++
			x = 0
			y += binBounds.Height
		}
		if collides(cache, placed, s, x, y) {
			return nil, 0, false
		}
		placed = append(placed, placedPart{selectedPart: s, x: x, y: y})
		x += s.bounds.Width + cfg.Spacing
	}
	return placed, bins, true
}

// layoutMaxRect keeps an ordered list of free rectangles, placing each part
// into the first rectangle it fits without collision and splitting the
// remainder into right and bottom strips. With hole re-use enabled, the
// bounding boxes of a placed part's holes are pushed at the head of the list
// so later parts fill them first. A part that fits nowhere opens a new bin.
func layoutMaxRect(sel []selectedPart, binBounds model.Bounds, cfg model.NestConfig, cache *nfp.Cache) ([]placedPart, int, bool) {
	var placed []placedPart
	free := []model.Bounds{{X: 0, Y: 0, Width: binBounds.Width, Height: binBounds.Height}}
	bins := 1

	for _, s := range sel {
		done := false
		for attempt := 0; attempt < 2 && !done; attempt++ {
			for i, r := range free {
				if s.bounds.Width > r.Width || s.bounds.Height > r.Height {
					continue
				}
				if collides(cache, placed, s, r.X, r.Y) {
					continue
				}
				placed = append(placed, placedPart{selectedPart: s, x: r.X, y: r.Y})
				free = append(free[:i], free[i+1:]...)

				right := model.Bounds{
					X:      r.X + s.bounds.Width + cfg.Spacing,
					Y:      r.Y,
					Width:  r.Width - s.bounds.Width - cfg.Spacing,
					Height: s.bounds.Height,
				}
				if right.Width > 0 {
					free = append(free, right)
				}
				bottom := model.Bounds{
					X:      r.X,
					Y:      r.Y + s.bounds.Height + cfg.Spacing,
					Width:  r.Width,
					Height: r.Height - s.bounds.Height - cfg.Spacing,
				}
				if bottom.Height > 0 {
					free = append(free, bottom)
				}

				if cfg.UseHoles {
					for _, hole := range holeRings(s.polys) {
						hb := model.PolygonBounds(hole.Points)
						if hb == nil {
							continue
						}
						head := model.Bounds{
							X:      r.X + hb.X,
							Y:      r.Y + hb.Y,
							Width:  hb.Width,
							Height: hb.Height,
						}
						free = append([]model.Bounds{head}, free...)
					}
				}
				done = true
				break
			}
			if !done && attempt == 0 {
				free = append(free, model.Bounds{
					X:      0,
					Y:      binBounds.Height * float64(bins),
					Width:  binBounds.Width,
					Height: binBounds.Height,
				})
				bins++
			}
		}
		if !done {
			return nil, 0, false
		}
	}
	return placed, bins, true
}

// fitness scores a layout: the bin count dominates, then the normalized used
// widths, then the unplaceable penalty. Lower is better; infeasible layouts
// stay at +Inf.
func fitness(res layoutResult, binBounds model.Bounds) float64 {
	if math.IsInf(res.height, 1) {
		return math.Inf(1)
	}
	sum := float64(res.bins)
	for _, w := range res.binWidths {
		sum += w / (binBounds.Width * binBounds.Height)
	}
	return sum + 2*float64(res.unplaceable)
}
