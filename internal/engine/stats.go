package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes the fitness distribution of one generation.
// Infeasible individuals are excluded from the mean and spread.
type GenerationStats struct {
	Generation int     `json:"generation"`
	Best       float64 `json:"best"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Feasible   int     `json:"feasible"`
}

func (g *GeneticAlgorithm) recordStats(gen int) {
	best := math.Inf(1)
	finite := make([]float64, 0, len(g.Population))
	for _, ind := range g.Population {
		if ind.Fitness < best {
			best = ind.Fitness
		}
		if !math.IsInf(ind.Fitness, 1) {
			finite = append(finite, ind.Fitness)
		}
	}

	s := GenerationStats{Generation: gen, Best: best, Feasible: len(finite)}
	if len(finite) > 0 {
		s.Mean = stat.Mean(finite, nil)
		if len(finite) > 1 {
			s.StdDev = stat.StdDev(finite, nil)
		}
	} else {
		s.Mean = math.Inf(1)
	}
	g.Stats = append(g.Stats, s)
}
