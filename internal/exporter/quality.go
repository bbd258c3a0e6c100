package exporter

import (
	"fmt"

	"panelcli/internal/quality"
)

// WriteQualityLedger writes the full data-quality warning ledger, one row
// per warning, stamped with the run ID.
func (w *CSVWriter) WriteQualityLedger(name string, runID string, warnings []quality.Warning) error {
	records := make([][]string, len(warnings))
	for i, warn := range warnings {
		records[i] = []string{
			runID,
			warn.Table,
			warn.Key,
			warn.Field,
			string(warn.Reason),
			warn.Detail,
		}
	}
	if err := w.WriteCSV(name, WriteOptions{
		Headers: []string{"run_id", "table", "key", "field", "reason", "detail"},
		Records: records,
	}); err != nil {
		return fmt.Errorf("write quality ledger: %w", err)
	}
	return nil
}
