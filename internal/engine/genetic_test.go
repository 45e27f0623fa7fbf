package engine

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/piwi3910/polynest/internal/model"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func testParts() []model.Part {
	return []model.Part{
		rectPart("A", 4, 3),
		rectPart("B", 2, 2),
		rectPart("C", 3, 5),
	}
}

func testBin(w, h float64) model.Bin {
	return model.Bin{
		Polygon: model.Polygon{
			Points: []model.Point2D{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}},
			Closed: true,
		},
		Bounds: model.Bounds{Width: w, Height: h},
	}
}

func assertPermutation(t *testing.T, ind *Individual, n int) {
	t.Helper()
	if len(ind.Placement) != n || len(ind.Rotation) != n {
		t.Fatalf("expected %d genes, got %d placements and %d rotations",
			n, len(ind.Placement), len(ind.Rotation))
	}
	seen := append([]int(nil), ind.Placement...)
	sort.Ints(seen)
	for i, v := range seen {
		if v != i {
			t.Fatalf("placement is not a permutation: %v", ind.Placement)
		}
	}
}

func TestNewGeneticAlgorithmSeedsPopulation(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 5
	ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}

	if len(ga.Population) != 5 {
		t.Fatalf("expected population 5, got %d", len(ga.Population))
	}
	for _, ind := range ga.Population {
		assertPermutation(t, ind, 3)
	}

	// The base individual keeps the identity ordering.
	base := ga.Population[0]
	for i, v := range base.Placement {
		if v != i {
			t.Errorf("base individual should be the identity permutation, got %v", base.Placement)
			break
		}
	}
}

func TestRotationAnglesAreMultiples(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 8
	cfg.Rotations = 4
	ga, err := NewGeneticAlgorithm(testParts(), testBin(20, 20), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	for _, ind := range ga.Population {
		for _, angle := range ind.Rotation {
			if math.Mod(angle, 90) != 0 {
				t.Errorf("angle %g is not a multiple of 90", angle)
			}
		}
	}
}

func TestZeroRotationsFixesAngles(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 6
	cfg.Rotations = 0
	ga, err := NewGeneticAlgorithm(testParts(), testBin(20, 20), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	for _, ind := range ga.Population {
		for _, angle := range ind.Rotation {
			if angle != 0 {
				t.Errorf("expected all angles fixed at 0, got %g", angle)
			}
		}
	}
}

func TestMateProducesPermutations(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 4
	ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		c1, c2 := ga.mate(ga.Population[0], ga.Population[1])
		assertPermutation(t, c1, 3)
		assertPermutation(t, c2, 3)
	}
}

func TestMutateKeepsPermutation(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 1
	cfg.MutationRate = 50
	ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	ind := ga.Population[0]
	for i := 0; i < 20; i++ {
		ind = ga.mutate(ind)
		assertPermutation(t, ind, 3)
	}
}

func TestEvolveKeepsBestFirst(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 6
	cfg.Generations = 3
	ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	if err := ga.Evolve(context.Background(), cfg.Generations); err != nil {
		t.Fatal(err)
	}

	best := ga.Population[0].Fitness
	if math.IsInf(best, 1) {
		t.Fatal("expected a feasible best individual")
	}
	for k, ind := range ga.Population {
		if best > ind.Fitness {
			t.Errorf("population[0] (%g) is worse than population[%d] (%g)", best, k, ind.Fitness)
		}
	}
	if len(ga.Stats) != cfg.Generations {
		t.Errorf("expected %d generation stats, got %d", cfg.Generations, len(ga.Stats))
	}
}

func TestEvolveDeterministicUnderFixedSeed(t *testing.T) {
	run := func() *GeneticAlgorithm {
		cfg := model.DefaultConfig()
		cfg.PopulationSize = 5
		ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatal(err)
		}
		if err := ga.Evolve(context.Background(), 4); err != nil {
			t.Fatal(err)
		}
		return ga
	}

	a, b := run(), run()
	if len(a.Population) != len(b.Population) {
		t.Fatalf("population sizes differ: %d vs %d", len(a.Population), len(b.Population))
	}
	for i := range a.Population {
		if !reflect.DeepEqual(a.Population[i].Placement, b.Population[i].Placement) ||
			!reflect.DeepEqual(a.Population[i].Rotation, b.Population[i].Rotation) ||
			a.Population[i].Fitness != b.Population[i].Fitness {
			t.Fatalf("individual %d differs between identically seeded runs", i)
		}
	}
}

func TestEvolveCancellation(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 4
	ga, err := NewGeneticAlgorithm(testParts(), testBin(10, 10), cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ga.Evolve(ctx, 5); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}

func TestEmptyInputRejected(t *testing.T) {
	cfg := model.DefaultConfig()
	if _, err := NewGeneticAlgorithm(nil, testBin(10, 10), cfg, newTestRNG()); err == nil {
		t.Error("expected an error for an empty part list")
	}
	if _, err := NewGeneticAlgorithm(testParts(), model.Bin{}, cfg, newTestRNG()); err == nil {
		t.Error("expected an error for a missing bin")
	}
}

func TestRenderBestSinglePart(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.PopulationSize = 1
	cfg.MutationRate = 0
	cfg.Rotations = 0
	parts := []model.Part{rectPart("A", 2, 2)}
	bin := testBin(10, 10)

	ga, err := NewGeneticAlgorithm(parts, bin, cfg, newTestRNG())
	if err != nil {
		t.Fatal(err)
	}
	if err := ga.Evolve(context.Background(), 2); err != nil {
		t.Fatal(err)
	}

	res, err := RenderBest(ga.Population, parts, bin, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.LayoutHeight != 10 {
		t.Errorf("expected layout height 10, got %g", res.LayoutHeight)
	}
	if len(res.Placements) != 1 || res.Placements[0].X != 0 || res.Placements[0].Y != 0 {
		t.Errorf("expected a single placement at the origin, got %+v", res.Placements)
	}
	if math.IsInf(res.Fitness, 1) {
		t.Error("expected finite fitness")
	}
}

func TestBuildPartSet(t *testing.T) {
	binRing := model.Polygon{
		Points: []model.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
		Closed: true,
	}
	partOuter := model.Polygon{
		Points: []model.Point2D{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 6}, {X: 0, Y: 6}},
		Closed: true,
	}
	// Same winding as the outer ring; BuildPartSet should rewind it.
	partHole := model.Polygon{
		Points: []model.Point2D{{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}},
		Closed: true,
	}

	bin, parts, err := BuildPartSet([][]model.Polygon{
		{binRing},
		{partHole, partOuter},
	})
	if err != nil {
		t.Fatal(err)
	}
	if bin.Bounds.Width != 10 || bin.Bounds.Height != 10 {
		t.Errorf("unexpected bin bounds %+v", bin.Bounds)
	}
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if len(parts[0].Polygons) != 2 {
		t.Fatalf("expected outer plus hole, got %d rings", len(parts[0].Polygons))
	}
	if got := len(holeRings(parts[0].Polygons)); got != 1 {
		t.Errorf("expected exactly one hole ring after rewinding, got %d", got)
	}

	if _, _, err := BuildPartSet(nil); err == nil {
		t.Error("expected an error for empty input")
	}
	if _, _, err := BuildPartSet([][]model.Polygon{{binRing}}); err == nil {
		t.Error("expected an error when no parts are present")
	}
}
