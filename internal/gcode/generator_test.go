package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

func testLayout() (engine.NestResult, []model.Part) {
	parts := []model.Part{
		model.NewPart("A", []model.Polygon{{
			Points: []model.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			Closed: true,
		}}),
	}
	res := engine.NestResult{
		BinWidth:     10,
		BinHeight:    10,
		LayoutHeight: 20,
		BinsUsed:     2,
		Placements: []model.Placement{
			{PartIndex: 0, Angle: 0, X: 1, Y: 1},
			{PartIndex: 0, Angle: 0, X: 1, Y: 11},
		},
	}
	return res, parts
}

func TestGenerateBinHeaderAndFooter(t *testing.T) {
	res, parts := testLayout()
	code := New(DefaultParams()).GenerateBin(res, parts, 0)

	for _, want := range []string{"G90", "G21", "M3 S18000", "M5", "M2"} {
		if !strings.Contains(code, want) {
			t.Errorf("expected %q in program:\n%s", want, code)
		}
	}
}

func TestGenerateBinCutsInPasses(t *testing.T) {
	params := DefaultParams()
	params.CutDepth = 10
	params.PassDepth = 4
	res, parts := testLayout()
	code := New(params).GenerateBin(res, parts, 0)

	// 10mm in 4mm passes: plunges to -4, -8 and -10.
	for _, want := range []string{"G1 Z-4.000", "G1 Z-8.000", "G1 Z-10.000"} {
		if !strings.Contains(code, want) {
			t.Errorf("expected pass %q in program", want)
		}
	}
}

func TestGenerateBinFiltersByBin(t *testing.T) {
	res, parts := testLayout()
	gen := New(DefaultParams())

	first := gen.GenerateBin(res, parts, 0)
	second := gen.GenerateBin(res, parts, 1)

	if !strings.Contains(first, "G0 X1.000 Y1.000") {
		t.Error("expected bin 0 to cut the first placement")
	}
	// The second bin's placement is emitted relative to its own origin.
	if !strings.Contains(second, "G0 X1.000 Y1.000") {
		t.Error("expected bin 1 placement re-based to the bin origin")
	}
	if strings.Count(first, "; part A") != 1 {
		t.Errorf("expected exactly one part in bin 0:\n%s", first)
	}
}

func TestGenerateAllOneProgramPerBin(t *testing.T) {
	res, parts := testLayout()
	codes := New(DefaultParams()).GenerateAll(res, parts)
	if len(codes) != res.BinsUsed {
		t.Fatalf("expected %d programs, got %d", res.BinsUsed, len(codes))
	}
}
