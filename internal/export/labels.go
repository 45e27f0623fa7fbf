package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// LabelInfo holds the data encoded into each part label's QR code.
type LabelInfo struct {
	PartID    string  `json:"id"`
	PartLabel string  `json:"label"`
	Bin       int     `json:"bin"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10
// rows per page on US Letter).
const (
	labelPageHeight = 279.4
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0
	labelPadding    = 2.0
)

// ExportLabels generates a PDF of QR-coded labels, one per placed part. Each
// label carries the part name, its position and rotation, and a QR code
// encoding the placement as JSON so shop-floor scanners can match cut parts
// back to the layout.
func ExportLabels(path string, res engine.NestResult, parts []model.Part) error {
	if len(res.Placements) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	labels := make([]LabelInfo, 0, len(res.Placements))
	for _, pl := range res.Placements {
		part := parts[pl.PartIndex]
		labels = append(labels, LabelInfo{
			PartID:    part.ID,
			PartLabel: part.Label,
			Bin:       binIndex(pl, res.BinHeight) + 1,
			X:         pl.X,
			Y:         pl.Y,
			Angle:     pl.Angle,
		})
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}
		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight
		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.PartLabel, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, seq int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.PartID, seq)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding+1)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4, info.PartLabel, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4,
		fmt.Sprintf("Bin %d", info.Bin), "", 0, "L", false, 0, "")
	pdf.SetXY(textX, y+labelPadding+10)
	pdf.CellFormat(labelWidth-qrSize-3*labelPadding, 4,
		fmt.Sprintf("(%.1f, %.1f) @ %.0f deg", info.X, info.Y, info.Angle), "", 0, "L", false, 0, "")
	return nil
}
