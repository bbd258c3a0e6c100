package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads a raw extract from an Excel workbook. The data sheet is
// found by scanning for a header row containing household and member
// identifier columns; field agencies rename sheets between rounds, so sheet
// names cannot be trusted.
func LoadExcel(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return NewRawTable(name, rows[headerRow], rows[headerRow+1:]), nil
	}

	return nil, fmt.Errorf("no sheet with identifier columns in workbook: %s", path)
}

// findHeaderRow scans the first few rows for one that names both identifier
// columns. Cover sheets and merged-cell titles precede the header in many
// extracts.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		if (strings.Contains(rowText, "hhid") || strings.Contains(rowText, "household")) &&
			(strings.Contains(rowText, "memberid") || strings.Contains(rowText, "member") ||
				strings.Contains(rowText, "pid") || strings.Contains(rowText, "item")) {
			return i
		}
	}
	return -1
}
