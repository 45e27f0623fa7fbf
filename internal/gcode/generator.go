// Package gcode turns a nested layout into contour-cutting toolpaths. Each
// placed polygon becomes one profile cut: rapid to the first vertex, plunge
// in passes, trace the outline, retract. Holes are cut before their outer
// boundary so parts stay attached as long as possible.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// Params holds the machine settings for toolpath generation.
type Params struct {
	FeedRate     float64 // Cutting feed rate, units/min
	PlungeRate   float64 // Plunge feed rate, units/min
	SpindleSpeed int     // RPM
	SafeZ        float64 // Retract height
	CutDepth     float64 // Total material thickness
	PassDepth    float64 // Depth per pass
}

// DefaultParams returns sensible defaults for soft sheet material.
func DefaultParams() Params {
	return Params{
		FeedRate:     1500,
		PlungeRate:   500,
		SpindleSpeed: 18000,
		SafeZ:        5,
		CutDepth:     18,
		PassDepth:    6,
	}
}

// Generator produces GCode from a nested layout.
type Generator struct {
	Params Params
}

func New(params Params) *Generator {
	return &Generator{Params: params}
}

// GenerateBin produces the GCode program for one bin of the layout. Part
// coordinates are emitted relative to the bin origin.
func (g *Generator) GenerateBin(res engine.NestResult, parts []model.Part, bin int) string {
	var b strings.Builder

	b.WriteString("; PolyNest contour cut\n")
	b.WriteString(fmt.Sprintf("; bin %d of %d\n", bin+1, res.BinsUsed))
	b.WriteString("G90\nG21\nG17\n")
	b.WriteString(fmt.Sprintf("M3 S%d\n", g.Params.SpindleSpeed))
	b.WriteString(fmt.Sprintf("G0 Z%.3f\n", g.Params.SafeZ))

	binTop := float64(bin) * res.BinHeight
	for _, pl := range res.Placements {
		if int(math.Floor(pl.Y/res.BinHeight+1e-9)) != bin {
			continue
		}
		part := parts[pl.PartIndex]
		polys := part.Rotated(pl.Angle)
		b.WriteString(fmt.Sprintf("; part %s\n", part.Label))
		// Holes first, outer boundary last
		for i := len(polys) - 1; i >= 0; i-- {
			g.writeContour(&b, polys[i].Points, pl.X, pl.Y-binTop)
		}
	}

	b.WriteString(fmt.Sprintf("G0 Z%.3f\n", g.Params.SafeZ))
	b.WriteString("G0 X0 Y0\nM5\nM2\n")
	return b.String()
}

// GenerateAll produces one GCode program per bin.
func (g *Generator) GenerateAll(res engine.NestResult, parts []model.Part) []string {
	codes := make([]string, 0, res.BinsUsed)
	for bin := 0; bin < res.BinsUsed; bin++ {
		codes = append(codes, g.GenerateBin(res, parts, bin))
	}
	return codes
}

// writeContour cuts one closed ring in depth passes.
func (g *Generator) writeContour(b *strings.Builder, points []model.Point2D, dx, dy float64) {
	if len(points) < 3 {
		return
	}
	passes := int(math.Ceil(g.Params.CutDepth / g.Params.PassDepth))
	if passes < 1 {
		passes = 1
	}

	first := points[0]
	b.WriteString(fmt.Sprintf("G0 X%.3f Y%.3f\n", first.X+dx, first.Y+dy))

	for pass := 1; pass <= passes; pass++ {
		depth := math.Min(float64(pass)*g.Params.PassDepth, g.Params.CutDepth)
		b.WriteString(fmt.Sprintf("G1 Z%.3f F%.0f\n", -depth, g.Params.PlungeRate))
		for _, p := range points[1:] {
			b.WriteString(fmt.Sprintf("G1 X%.3f Y%.3f F%.0f\n", p.X+dx, p.Y+dy, g.Params.FeedRate))
		}
		b.WriteString(fmt.Sprintf("G1 X%.3f Y%.3f F%.0f\n", first.X+dx, first.Y+dy, g.Params.FeedRate))
	}
	b.WriteString(fmt.Sprintf("G0 Z%.3f\n", g.Params.SafeZ))
}
