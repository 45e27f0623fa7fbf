package model

// NestConfig holds nesting and genetic algorithm configuration.
type NestConfig struct {
	// Genetic algorithm settings
	PopulationSize int `json:"population_size"` // Individuals per generation (>= 1)
	Generations    int `json:"generations"`     // Evolution loop length
	MutationRate   int `json:"mutation_rate"`   // Integer percent, applied per gene

	// Placement settings
	Rotations      int     `json:"rotations"`       // Discrete rotation count; 0 = fixed 0 degrees
	Spacing        float64 `json:"spacing"`         // Minimum gap between parts
	UseHoles       bool    `json:"use_holes"`       // Nest small parts inside holes of placed parts
	ExploreConcave bool    `json:"explore_concave"` // Use the free-rectangle strategy instead of the linear shelf

	// Geometry settings
	CurveTolerance float64 `json:"curve_tolerance"` // Max deviation when flattening curves
	AnglePrecision float64 `json:"angle_precision"` // NFP cache angle quantization step in degrees
}

// DefaultConfig returns sensible default parameters.
func DefaultConfig() NestConfig {
	return NestConfig{
		PopulationSize: 10,
		Generations:    10,
		MutationRate:   10,
		Rotations:      4,
		Spacing:        0,
		UseHoles:       false,
		ExploreConcave: false,
		CurveTolerance: 0.3,
		AnglePrecision: 1e-3,
	}
}
