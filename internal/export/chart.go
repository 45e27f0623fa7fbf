package export

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/piwi3910/polynest/internal/engine"
)

// ExportChart renders the GA convergence as an HTML line chart: best and
// mean fitness per generation. Generations where no individual was feasible
// leave gaps in the series.
func ExportChart(path string, stats []engine.GenerationStats) error {
	if len(stats) == 0 {
		return fmt.Errorf("no generation statistics to chart")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Nesting convergence",
			Subtitle: "Fitness per generation (lower is better)",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "fitness"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	xs := make([]string, len(stats))
	best := make([]opts.LineData, len(stats))
	mean := make([]opts.LineData, len(stats))
	for i, s := range stats {
		xs[i] = fmt.Sprintf("%d", s.Generation)
		best[i] = finiteLinePoint(s.Best)
		mean[i] = finiteLinePoint(s.Mean)
	}

	line.SetXAxis(xs).
		AddSeries("best", best).
		AddSeries("mean", mean)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := line.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func finiteLinePoint(v float64) opts.LineData {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return opts.LineData{Value: nil}
	}
	return opts.LineData{Value: v}
}
