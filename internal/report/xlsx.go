package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

var sheetTitles = map[string]string{
	"summary":  "Summary",
	"profiles": "Profiles",
	"radar":    "Radar",
	"map":      "Map",
	"long":     "Scores",
}

// WriteXLSX writes one sheet per frame. NaN cells are left empty.
func WriteXLSX(path string, frames []NamedFrame) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, nf := range frames {
		if nf.Frame.Err != nil {
			return fmt.Errorf("%s table: %w", nf.Name, nf.Frame.Err)
		}
		sheet := sheetTitle(nf.Name)
		if first {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		names := nf.Frame.Names()
		for i, name := range names {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return err
			}
		}
		for rowIdx := 0; rowIdx < nf.Frame.Nrow(); rowIdx++ {
			for colIdx, name := range names {
				val := nf.Frame.Col(name).Val(rowIdx)
				if val == nil {
					continue
				}
				if v, ok := val.(float64); ok && math.IsNaN(v) {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err := f.SetCellValue(sheet, cell, val); err != nil {
					return err
				}
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetTitle(name string) string {
	if t, ok := sheetTitles[name]; ok {
		return t
	}
	if name == "" {
		return "Sheet"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
