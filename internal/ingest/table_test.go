package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/normalize"
	"panelcli/pkg/contracts/domain"
)

func TestRawTableColumnAliases(t *testing.T) {
	table := NewRawTable("demographics",
		[]string{"Household ID", "member_id", "AGE YEARS", "sex"},
		[][]string{{"H001", "M01", "34", "Female"}},
	)

	tests := []struct {
		name     string
		aliases  []string
		expected int
		found    bool
	}{
		{"exact header", []string{"sex"}, 3, true},
		{"spacing and case ignored", []string{"householdid"}, 0, true},
		{"underscore alias matches spaced header", []string{"age_years"}, 2, true},
		{"first present alias wins", []string{"hhid", "household id"}, 0, true},
		{"no alias present", []string{"eacode", "cluster"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := table.Column(tt.aliases...)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.expected, idx)
			}
		})
	}
}

func TestRawTableField(t *testing.T) {
	table := NewRawTable("depression",
		[]string{"hhid", "pid", "k10_1"},
		[][]string{
			{"H001", "M01", "Some of the time"},
			{"H001", "M02", "3"},
			{"H001", "M03"},
		},
	)

	assert.Equal(t, normalize.Label("Some of the time"), table.Field(0, "k10_1"))
	assert.Equal(t, normalize.Code(3), table.Field(1, "k10_1"))
	// Ragged row: the trailing cell is simply missing.
	assert.Equal(t, normalize.Missing(), table.Field(2, "k10_1"))
	// Absent column resolves missing too.
	assert.Equal(t, normalize.Missing(), table.Field(0, "k10_11"))
}

func TestRawTableCellBounds(t *testing.T) {
	table := NewRawTable("t", []string{"a"}, [][]string{{" x "}})

	assert.Equal(t, "x", table.Cell(0, 0))
	assert.Equal(t, "", table.Cell(-1, 0))
	assert.Equal(t, "", table.Cell(0, 5))
	assert.Equal(t, "", table.Cell(9, 0))
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wave1_demographics.csv")
	content := "\uFEFFhousehold_id,member_id,age\nH001,M01,34\nH001,M02\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "wave1_demographics", table.Name)
	assert.Equal(t, 2, table.Len())

	// BOM must not leak into the first header.
	assert.True(t, table.HasColumn("household_id"))
	assert.Equal(t, "34", table.Text(0, "age"))
	assert.Equal(t, "", table.Text(1, "age"))
}

func TestDiscovery(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "Wave2_Depression.CSV"),
		[]byte("hhid,pid\nH001,M01\n"), 0o644))

	d := NewDiscovery(dir)

	path, ok := d.Find(domain.Wave2, TableDepression)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Wave2_Depression.CSV"), path)

	_, ok = d.Find(domain.Wave1, TableDepression)
	assert.False(t, ok)

	table, err := d.Load(domain.Wave2, TableDepression)
	require.NoError(t, err)
	require.NotNil(t, table)
	assert.Equal(t, 1, table.Len())

	// An absent module is a routine condition, not an error.
	table, err = d.Load(domain.Wave2, TableCognitive)
	require.NoError(t, err)
	assert.Nil(t, table)
}
