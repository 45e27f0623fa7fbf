// Package export writes nesting results to output formats: the nested SVG,
// PDF layout sheets, QR part labels, an Excel placement report and an HTML
// convergence chart.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// WriteSVG emits the nested layout: one <polygon> element per placed ring,
// translated by its placement, plus a bounding <rect> of the full layout.
func WriteSVG(w io.Writer, res engine.NestResult, parts []model.Part) error {
	var body strings.Builder
	for _, pl := range res.Placements {
		if pl.PartIndex < 0 || pl.PartIndex >= len(parts) {
			return fmt.Errorf("placement references unknown part %d", pl.PartIndex)
		}
		for _, poly := range parts[pl.PartIndex].Rotated(pl.Angle) {
			if len(poly.Points) == 0 {
				continue
			}
			coords := make([]string, len(poly.Points))
			for i, p := range poly.Points {
				coords[i] = fmt.Sprintf("%g,%g", p.X+pl.X, p.Y+pl.Y)
			}
			body.WriteString(fmt.Sprintf(
				"<polygon points=%q fill=\"none\" stroke=\"black\"/>\n",
				strings.Join(coords, " ")))
		}
	}

	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%g\" height=\"%g\">%s<rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"blue\"/></svg>",
		res.BinWidth, res.LayoutHeight, body.String(), res.BinWidth, res.LayoutHeight)
	return err
}

// ExportSVG writes the nested layout to a file.
func ExportSVG(path string, res engine.NestResult, parts []model.Part) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, res, parts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
