package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/polynest/internal/engine"
	"github.com/piwi3910/polynest/internal/model"
)

// ExportXLSX writes the placement report as an Excel workbook: a Placements
// sheet with one row per placed part and a Summary sheet with the layout
// totals.
func ExportXLSX(path string, res engine.NestResult, parts []model.Part) error {
	if len(res.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Placements"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"#", "Part ID", "Part", "Bin", "X", "Y", "Angle"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, pl := range res.Placements {
		part := parts[pl.PartIndex]
		values := []interface{}{
			i + 1,
			part.ID,
			part.Label,
			binIndex(pl, res.BinHeight) + 1,
			pl.X,
			pl.Y,
			pl.Angle,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return err
	}
	rows := []struct {
		label string
		value interface{}
	}{
		{"Bins used", res.BinsUsed},
		{"Bin width", res.BinWidth},
		{"Bin height", res.BinHeight},
		{"Layout height", res.LayoutHeight},
		{"Parts placed", len(res.Placements)},
		{"Parts total", len(parts)},
		{"Fitness", res.Fitness},
	}
	for i, row := range rows {
		if err := f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), row.label); err != nil {
			return err
		}
		if err := f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), row.value); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
