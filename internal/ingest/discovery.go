package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"panelcli/pkg/contracts/domain"
)

// Survey module names used in extract file naming, e.g. wave2_depression.csv.
const (
	TableDemographics  = "demographics"
	TableDepression    = "depression"
	TableCognitive     = "cognitive"
	TableAnthropometry = "anthropometry"
	TableTimeUse       = "timeuse"
	TableExpenditure   = "expenditure"
	TableHealth        = "health"
)

// AllTables lists every survey module the pipeline knows how to build.
var AllTables = []string{
	TableDemographics,
	TableDepression,
	TableCognitive,
	TableAnthropometry,
	TableTimeUse,
	TableExpenditure,
	TableHealth,
}

// Discovery locates per-wave extract files under a base directory by the
// wave<N>_<module>.<ext> naming convention, case-insensitively.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery instance rooted at basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// Find returns the path of a wave's module extract. The second return is
// false when no file exists; an optional module not fielded in a wave is a
// routine condition, not an error.
func (d *Discovery) Find(wave domain.Wave, table string) (string, bool) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return "", false
	}

	want := fmt.Sprintf("wave%d_%s", int(wave), table)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		ext := filepath.Ext(name)
		if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
			continue
		}
		if strings.TrimSuffix(name, ext) == want {
			return filepath.Join(d.basePath, entry.Name()), true
		}
	}
	return "", false
}

// Load finds and reads a wave's module extract. A missing file returns
// (nil, nil); the caller records the absence and moves on.
func (d *Discovery) Load(wave domain.Wave, table string) (*RawTable, error) {
	path, ok := d.Find(wave, table)
	if !ok {
		return nil, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx", ".xls":
		return LoadExcel(path)
	default:
		return nil, fmt.Errorf("unsupported extract format: %s", path)
	}
}
