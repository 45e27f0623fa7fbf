package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/piwi3910/polynest/internal/model"
	"github.com/piwi3910/polynest/internal/nfp"
)

// Individual is one candidate solution: a permutation of part indices with a
// parallel list of rotation angles. Fitness is +Inf until evaluated, and
// stays +Inf for infeasible layouts.
type Individual struct {
	Placement []int
	Rotation  []float64
	Fitness   float64
}

func (ind *Individual) clone() *Individual {
	return &Individual{
		Placement: append([]int(nil), ind.Placement...),
		Rotation:  append([]float64(nil), ind.Rotation...),
		Fitness:   ind.Fitness,
	}
}

// GeneticAlgorithm evolves part orderings and rotations against a fixed bin.
// Parts and bin bounds are shared read-only across the parallel evaluators;
// the NFP cache is shared behind its own lock.
type GeneticAlgorithm struct {
	parts  []model.Part
	bin    model.Bounds
	config model.NestConfig
	rng    *rand.Rand
	cache  *nfp.Cache

	Population []*Individual
	Stats      []GenerationStats
}

// NewGeneticAlgorithm seeds the initial population: the base individual is
// the identity permutation with randomly drawn valid angles, the rest are
// mutations of it. The RNG is passed in so runs are reproducible per seed.
func NewGeneticAlgorithm(parts []model.Part, bin model.Bin, config model.NestConfig, rng *rand.Rand) (*GeneticAlgorithm, error) {
	if len(parts) == 0 {
		return nil, errors.New("no parts to nest")
	}
	if bin.Bounds.Width <= 0 || bin.Bounds.Height <= 0 {
		return nil, errors.New("bin has no usable area")
	}
	if config.PopulationSize < 1 {
		config.PopulationSize = 1
	}

	ga := &GeneticAlgorithm{
		parts:  parts,
		bin:    bin.Bounds,
		config: config,
		rng:    rng,
		cache:  nfp.NewCache(config.AnglePrecision),
	}

	base := &Individual{
		Placement: make([]int, len(parts)),
		Rotation:  make([]float64, len(parts)),
		Fitness:   math.Inf(1),
	}
	for i := range parts {
		base.Placement[i] = i
		base.Rotation[i] = ga.randomAngle(parts[i])
	}
	ga.Population = append(ga.Population, base)
	for len(ga.Population) < config.PopulationSize {
		ga.Population = append(ga.Population, ga.mutate(base))
	}
	return ga, nil
}

// randomAngle draws a valid rotation for the part: the discrete angles are
// shuffled and the first one whose rotated bounds fit the bin wins. Falls
// back to 0 when the part fits at no angle, or when rotations are disabled.
func (g *GeneticAlgorithm) randomAngle(part model.Part) float64 {
	if g.config.Rotations == 0 {
		return 0
	}
	angles := make([]float64, g.config.Rotations)
	for i := range angles {
		angles[i] = float64(i) * 360 / float64(g.config.Rotations)
	}
	g.rng.Shuffle(len(angles), func(i, j int) {
		angles[i], angles[j] = angles[j], angles[i]
	})
	for _, angle := range angles {
		if b := part.BoundsRotated(angle); b != nil {
			if b.Width <= g.bin.Width && b.Height <= g.bin.Height {
				return angle
			}
		}
	}
	return 0
}

// mutate applies the two per-gene mutations independently: a swap with the
// right neighbor, and a fresh valid angle.
func (g *GeneticAlgorithm) mutate(ind *Individual) *Individual {
	placement := append([]int(nil), ind.Placement...)
	rotation := append([]float64(nil), ind.Rotation...)
	rate := float64(g.config.MutationRate) * 0.01
	for i := range placement {
		if g.rng.Float64() < rate {
			if i+1 < len(placement) {
				placement[i], placement[i+1] = placement[i+1], placement[i]
			}
		}
		if g.rng.Float64() < rate {
			rotation[i] = g.randomAngle(g.parts[placement[i]])
		}
	}
	return &Individual{Placement: placement, Rotation: rotation, Fitness: math.Inf(1)}
}

// mate performs cut-and-fill crossover: each child takes a prefix from one
// parent and fills the remainder with the other parent's genes in order,
// skipping parts already present.
func (g *GeneticAlgorithm) mate(male, female *Individual) (*Individual, *Individual) {
	n := len(male.Placement)
	cut := int(math.Round(float64(n) * (0.1 + 0.8*g.rng.Float64())))

	fill := func(prefix *Individual, other *Individual) *Individual {
		gene := append([]int(nil), prefix.Placement[:cut]...)
		rot := append([]float64(nil), prefix.Rotation[:cut]...)
		for i, p := range other.Placement {
			present := false
			for _, q := range gene {
				if q == p {
					present = true
					break
				}
			}
			if !present {
				gene = append(gene, p)
				rot = append(rot, other.Rotation[i])
			}
		}
		return &Individual{Placement: gene, Rotation: rot, Fitness: math.Inf(1)}
	}
	return fill(male, female), fill(female, male)
}

// randomWeightedIndex draws a population index with a rising-step weight
// distribution over the fitness-sorted list; pass exclude = -1 to allow
// every index. The second parent of a pairing excludes the first.
func (g *GeneticAlgorithm) randomWeightedIndex(exclude int) int {
	idxs := make([]int, 0, len(g.Population))
	for i := range g.Population {
		if i != exclude {
			idxs = append(idxs, i)
		}
	}
	r := g.rng.Float64()
	lower := 0.0
	weight := 1 / float64(len(idxs))
	upper := weight
	for pos, i := range idxs {
		if r > lower && r < upper {
			return i
		}
		lower = upper
		upper += 2 * weight * float64(len(idxs)-pos) / float64(len(idxs))
	}
	return idxs[0]
}

// evaluate computes the fitness of one individual. Pure given its inputs.
func (g *GeneticAlgorithm) evaluate(ind *Individual) float64 {
	return fitness(layout(ind, g.parts, g.bin, g.config, g.cache), g.bin)
}

// EvaluatePopulation scores every individual on a worker pool spanning the
// available cores. Each worker writes only the fitness of the individuals it
// owns, so no further synchronization is needed.
func (g *GeneticAlgorithm) EvaluatePopulation() {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(g.Population) {
		workers = len(g.Population)
	}
	jobs := make(chan *Individual)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range jobs {
				ind.Fitness = g.evaluate(ind)
			}
		}()
	}
	for _, ind := range g.Population {
		jobs <- ind
	}
	close(jobs)
	wg.Wait()
}

// Generation sorts the population by fitness, keeps the fittest individual
// unchanged, and refills the rest with mutated offspring of weighted-selected
// parent pairs.
func (g *GeneticAlgorithm) Generation() {
	g.sortPopulation()
	newPop := []*Individual{g.Population[0].clone()}
	for len(newPop) < len(g.Population) {
		m := g.randomWeightedIndex(-1)
		f := g.randomWeightedIndex(m)
		c1, c2 := g.mate(g.Population[m], g.Population[f])
		newPop = append(newPop, g.mutate(c1))
		if len(newPop) < len(g.Population) {
			newPop = append(newPop, g.mutate(c2))
		}
	}
	g.Population = newPop
}

func (g *GeneticAlgorithm) sortPopulation() {
	sort.SliceStable(g.Population, func(i, j int) bool {
		return g.Population[i].Fitness < g.Population[j].Fitness
	})
}

// Evolve runs the fixed-generation loop: evaluate in parallel, record the
// generation statistics, reproduce. The context is checked between
// generations, which are the natural cancellation checkpoints; aborting
// mid-run leaves no observable side effects. A final evaluation refreshes the
// fitness values and the population is left sorted best-first.
func (g *GeneticAlgorithm) Evolve(ctx context.Context, generations int) error {
	for gen := 0; gen < generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.EvaluatePopulation()
		g.recordStats(gen)
		g.Generation()
	}
	g.EvaluatePopulation()
	g.sortPopulation()
	return nil
}
