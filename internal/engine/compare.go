package engine

import (
	"math"

	"github.com/piwi3910/polynest/internal/model"
	"github.com/piwi3910/polynest/internal/nfp"
)

// StrategyComparison holds the layout heights the identity ordering achieves
// under both placement strategies. Infinite heights mark infeasible runs.
type StrategyComparison struct {
	ShelfHeight   float64
	MaxRectHeight float64
}

// CompareStrategies packs the parts in identity order at angle 0 under the
// linear shelf and the free-rectangle strategies and reports both layout
// heights. Useful to decide whether concave exploration pays off for a given
// part mix before spending generations on it.
func CompareStrategies(parts []model.Part, bin model.Bin, cfg model.NestConfig) StrategyComparison {
	ind := &Individual{
		Placement: make([]int, len(parts)),
		Rotation:  make([]float64, len(parts)),
		Fitness:   math.Inf(1),
	}
	for i := range parts {
		ind.Placement[i] = i
	}

	shelf := cfg
	shelf.ExploreConcave = false
	maxrect := cfg
	maxrect.ExploreConcave = true

	return StrategyComparison{
		ShelfHeight:   layout(ind, parts, bin.Bounds, shelf, nfp.NewCache(cfg.AnglePrecision)).height,
		MaxRectHeight: layout(ind, parts, bin.Bounds, maxrect, nfp.NewCache(cfg.AnglePrecision)).height,
	}
}
