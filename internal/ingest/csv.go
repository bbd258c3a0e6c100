package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSV reads a raw extract from a CSV file. The first row is the header;
// ragged data rows are tolerated (FieldsPerRecord is unchecked) since raw
// survey exports routinely truncate trailing empty cells.
func LoadCSV(path string) (*RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file: %s", path)
	}

	header := records[0]
	// Strip a UTF-8 BOM left by spreadsheet round-trips.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewRawTable(name, header, records[1:]), nil
}
