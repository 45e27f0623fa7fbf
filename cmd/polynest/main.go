// PolyNest — irregular 2D nesting for CNC cutting.
//
// Reads a bin polygon and part outlines from SVG/DXF files, searches part
// orderings and rotations with a genetic algorithm, and writes the nested
// layout as SVG (plus optional PDF, label, Excel, chart and GCode outputs).
//
// Build:
//
//	go build -o polynest ./cmd/polynest
//
// Usage:
//
//	polynest -input bin.svg -input parts.svg -generations 20 -out nested.svg
//
// The first input file provides the bin; every later file contributes one
// part, whose largest ring is the outer boundary and whose other rings are
// holes.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/export"
	"github.com/piwi3910/polynest/internal/gcode"
	"github.com/piwi3910/polynest/internal/importer"
	"github.com/piwi3910/polynest/internal/model"
	"github.com/piwi3910/polynest/internal/project"
)

// stringList collects repeated flag values.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("polynest: ")

	var inputs stringList
	flag.Var(&inputs, "input", "input SVG/DXF file; first file is the bin (repeatable)")
	configPath := flag.String("config", "", "JSON configuration file")
	population := flag.Int("population", 10, "population size")
	mutationRate := flag.Int("mutation-rate", 10, "per-gene mutation probability in percent")
	rotations := flag.Int("rotations", 4, "discrete rotation count (0 = no rotation)")
	spacing := flag.Float64("spacing", 0, "minimum gap between parts")
	generations := flag.Int("generations", 10, "number of generations to evolve")
	useHoles := flag.Bool("use-holes", false, "nest parts inside holes of placed parts")
	exploreConcave := flag.Bool("explore-concave", false, "use the free-rectangle placement strategy")
	tolerance := flag.Float64("tolerance", model.DefaultConfig().CurveTolerance, "curve flattening tolerance")
	mergeLines := flag.Bool("merge-lines", false, "merge duplicate edges shared by adjacent parts")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "nested.svg", "output SVG file")
	pdfOut := flag.String("pdf", "", "optional PDF layout output")
	labelsOut := flag.String("labels", "", "optional QR label sheet output (PDF)")
	xlsxOut := flag.String("xlsx", "", "optional Excel placement report output")
	chartOut := flag.String("chart", "", "optional HTML convergence chart output")
	gcodeOut := flag.String("gcode", "", "optional GCode output prefix (one file per bin)")
	projectOut := flag.String("project", "", "optional project JSON output")
	flag.Parse()

	if len(inputs) < 2 {
		log.Fatal("need at least two -input files: a bin and one part")
	}

	cfg := loadConfig(*configPath)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "population":
			cfg.PopulationSize = *population
		case "mutation-rate":
			cfg.MutationRate = *mutationRate
		case "rotations":
			cfg.Rotations = *rotations
		case "spacing":
			cfg.Spacing = *spacing
		case "generations":
			cfg.Generations = *generations
		case "use-holes":
			cfg.UseHoles = *useHoles
		case "explore-concave":
			cfg.ExploreConcave = *exploreConcave
		case "tolerance":
			cfg.CurveTolerance = *tolerance
		}
	})

	groups := make([][]model.Polygon, 0, len(inputs))
	for _, path := range inputs {
		res := importer.ImportFile(path, cfg.CurveTolerance, *mergeLines)
		for _, w := range res.Warnings {
			log.Printf("%s: %s", path, w)
		}
		if len(res.Errors) > 0 {
			for _, e := range res.Errors {
				log.Printf("%s: %s", path, e)
			}
			os.Exit(1)
		}
		groups = append(groups, res.Polygons)
	}

	bin, parts, err := engine.BuildPartSet(groups)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("bin %.1f x %.1f, %d parts", bin.Bounds.Width, bin.Bounds.Height, len(parts))

	rng := rand.New(rand.NewSource(*seed))
	ga, err := engine.NewGeneticAlgorithm(parts, bin, cfg, rng)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := ga.Evolve(ctx, cfg.Generations); err != nil {
		log.Fatalf("evolution interrupted: %v", err)
	}
	for _, s := range ga.Stats {
		log.Printf("generation %d: best %.4f mean %.4f (%d/%d feasible)",
			s.Generation, s.Best, s.Mean, s.Feasible, len(ga.Population))
	}

	result, err := engine.RenderBest(ga.Population, parts, bin, cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("placed %d/%d parts in %d bin(s), fitness %.4f",
		len(result.Placements), len(parts), result.BinsUsed, result.Fitness)

	if err := export.ExportSVG(*out, result, parts); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Nested result written to %s\n", *out)

	if *pdfOut != "" {
		fatalIf(export.ExportPDF(*pdfOut, result, parts))
	}
	if *labelsOut != "" {
		fatalIf(export.ExportLabels(*labelsOut, result, parts))
	}
	if *xlsxOut != "" {
		fatalIf(export.ExportXLSX(*xlsxOut, result, parts))
	}
	if *chartOut != "" {
		fatalIf(export.ExportChart(*chartOut, ga.Stats))
	}
	if *gcodeOut != "" {
		gen := gcode.New(gcode.DefaultParams())
		for i, code := range gen.GenerateAll(result, parts) {
			path := fmt.Sprintf("%s-bin%d.nc", *gcodeOut, i+1)
			fatalIf(os.WriteFile(path, []byte(code), 0644))
		}
	}
	if *projectOut != "" {
		p := project.New()
		p.Inputs = inputs
		p.Config = cfg
		p.Bin = bin
		p.Parts = parts
		p.Result = &result
		fatalIf(project.Save(*projectOut, p))
	}
}

// loadConfig reads a JSON configuration file, falling back to defaults when
// no path is given.
func loadConfig(path string) model.NestConfig {
	cfg := model.DefaultConfig()
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config: %v", err)
	}
	return cfg
}

func fatalIf(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
