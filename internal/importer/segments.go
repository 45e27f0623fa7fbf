package importer

import (
	"math"
	"sort"

	"github.com/piwi3910/polynest/internal/model"
)

// mergeTolerance is the maximum distance between endpoints considered
// coincident when chaining segments or deduplicating edges.
const mergeTolerance = 1e-6

// segment is a line between two points, used for chaining disconnected
// entities into closed outlines.
type segment struct {
	start model.Point2D
	end   model.Point2D
}

func pointsClose(a, b model.Point2D, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// chainSegments connects loose segments into outlines by walking from each
// unused segment and extending the chain while an endpoint matches within the
// tolerance. Chains that return to their start are closed with the duplicate
// endpoint dropped; open chains and chains shorter than 3 points are
// discarded. Outlines come back sorted largest-area first.
func chainSegments(segs []segment, tolerance float64) [][]model.Point2D {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]model.Point2D

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []model.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		closed := false
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
			closed = true
		}
		if closed && len(chain) >= 3 {
			outlines = append(outlines, chain)
		}
	}

	sort.SliceStable(outlines, func(i, j int) bool {
		return absArea(outlines[i]) > absArea(outlines[j])
	})
	return outlines
}

// absArea computes the absolute polygon area with the shoelace formula.
func absArea(points []model.Point2D) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}
	return math.Abs(area) / 2
}

type edgeKey struct {
	a, b [2]int64
}

func quantize(p model.Point2D) [2]int64 {
	return [2]int64{
		int64(math.Round(p.X / mergeTolerance)),
		int64(math.Round(p.Y / mergeTolerance)),
	}
}

// MergeLines deduplicates line segments across all polygons: each edge is
// keyed by its unordered endpoint pair, so two entities tracing the same cut
// in opposite directions collapse into one. The surviving segments come back
// as open two-point polygons ordered by x, with fresh ids.
func MergeLines(polys []model.Polygon) []model.Polygon {
	edges := make(map[edgeKey]segment)

	for _, poly := range polys {
		if len(poly.Points) < 2 {
			continue
		}
		var segs []segment
		for i := 0; i < len(poly.Points)-1; i++ {
			segs = append(segs, segment{start: poly.Points[i], end: poly.Points[i+1]})
		}
		if poly.Closed && len(poly.Points) > 2 {
			segs = append(segs, segment{
				start: poly.Points[len(poly.Points)-1],
				end:   poly.Points[0],
			})
		}
		for _, s := range segs {
			ka, kb := quantize(s.start), quantize(s.end)
			key := edgeKey{a: ka, b: kb}
			if kb[0] < ka[0] || (kb[0] == ka[0] && kb[1] < ka[1]) {
				key = edgeKey{a: kb, b: ka}
			}
			if _, ok := edges[key]; !ok {
				edges[key] = s
			}
		}
	}

	result := make([]model.Polygon, 0, len(edges))
	for _, s := range edges {
		result = append(result, model.Polygon{
			Points: []model.Point2D{s.start, s.end},
			Closed: false,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Points, result[j].Points
		if a[0].X != b[0].X {
			return a[0].X < b[0].X
		}
		if a[0].Y != b[0].Y {
			return a[0].Y < b[0].Y
		}
		if a[1].X != b[1].X {
			return a[1].X < b[1].X
		}
		return a[1].Y < b[1].Y
	})
	for i := range result {
		result[i].ID = i
	}
	return result
}
