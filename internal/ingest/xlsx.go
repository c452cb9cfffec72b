package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct{}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read returns the selected sheet. The first non-empty row is the header.
func (xlsxReader) Read(path string, opt Options) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt.SheetName, opt.SheetIndex, path)
	if err != nil {
		return nil, nil, err
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	for len(all) > 0 && blankRow(all[0]) {
		all = all[1:]
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	header := all[0]
	rows := make([][]string, 0, len(all)-1)
	for _, r := range all[1:] {
		if blankRow(r) {
			continue
		}
		// excelize trims trailing empty cells
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		}
		rows = append(rows, r)
	}
	return header, rows, nil
}

func pickSheet(sheets []string, name string, index int, path string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", path)
	}
	if name != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, name) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook.\nAvailable sheets: %s", name, strings.Join(sheets, ", "))
	}
	if index <= 0 {
		index = 1
	}
	if index > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", index, len(sheets))
	}
	return sheets[index-1], nil
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
