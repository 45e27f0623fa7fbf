package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// partColor represents an RGB fill for a placed part.
type partColor struct {
	R, G, B int
}

var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders the nesting result as a PDF: one page per bin with the
// placed part outlines drawn to scale, followed by a summary page.
func ExportPDF(path string, res engine.NestResult, parts []model.Part) error {
	if len(res.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for bin := 0; bin < res.BinsUsed; bin++ {
		pdf.AddPage()
		renderBinPage(pdf, res, parts, bin)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, res, parts)

	return pdf.OutputFileAndClose(path)
}

// binIndex returns which bin a placement landed in from its y offset.
func binIndex(pl model.Placement, binHeight float64) int {
	return int(math.Floor(pl.Y/binHeight + 1e-9))
}

func renderBinPage(pdf *fpdf.Fpdf, res engine.NestResult, parts []model.Part, bin int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bin %d of %d (%.0f x %.0f)", bin+1, res.BinsUsed, res.BinWidth, res.BinHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/res.BinWidth, drawHeight/res.BinHeight)

	canvasW := res.BinWidth * scale
	canvasH := res.BinHeight * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Bin background
	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	binTop := float64(bin) * res.BinHeight
	for i, pl := range res.Placements {
		if binIndex(pl, res.BinHeight) != bin {
			continue
		}
		col := partColors[i%len(partColors)]
		polys := parts[pl.PartIndex].Rotated(pl.Angle)
		for ringIdx, poly := range polys {
			if len(poly.Points) < 3 {
				continue
			}
			pts := make([]fpdf.PointType, len(poly.Points))
			for j, p := range poly.Points {
				pts[j] = fpdf.PointType{
					X: offsetX + (p.X+pl.X)*scale,
					Y: offsetY + (p.Y+pl.Y-binTop)*scale,
				}
			}
			if ringIdx == 0 {
				pdf.SetFillColor(col.R, col.G, col.B)
			} else {
				// Holes are painted back in the bin background color.
				pdf.SetFillColor(245, 245, 245)
			}
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Polygon(pts, "FD")
		}
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, res engine.NestResult, parts []model.Part) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Nesting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	items := []struct {
		label string
		value string
	}{
		{"Bins Used", fmt.Sprintf("%d", res.BinsUsed)},
		{"Layout Size", fmt.Sprintf("%.1f x %.1f", res.BinWidth, res.LayoutHeight)},
		{"Parts Placed", fmt.Sprintf("%d of %d", len(res.Placements), len(parts))},
		{"Fitness", fmt.Sprintf("%.4f", res.Fitness)},
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placements", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 50, 40, 40, 30, 30}
	headers := []string{"#", "Part", "X", "Y", "Angle", "Bin"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 6, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, pl := range res.Placements {
		if y > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			parts[pl.PartIndex].Label,
			fmt.Sprintf("%.2f", pl.X),
			fmt.Sprintf("%.2f", pl.Y),
			fmt.Sprintf("%.0f", pl.Angle),
			fmt.Sprintf("%d", binIndex(pl, res.BinHeight)+1),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x = marginLeft
		for j, cell := range row {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 6
	}
}
