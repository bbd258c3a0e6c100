package pipeline

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/config"
	"panelcli/internal/exporter"
)

// writeFixtures lays out a two-wave input directory.
//
// Household H001: head, spouse (the mother), and a child born three months
// after the wave-1 interview, in utero while the mother scored 35 (severe).
// In wave 2 the mother scores 25 (moderate) and the child sat the matrices
// test, so the child row qualifies for the analysis sample.
//
// Household H002 appears in wave 2 only; its mother answered just five K10
// items, so her score is missing and her child is excluded from the sample.
func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	files := map[string]string{
		"wave1_demographics.csv": "" +
			"hhid,member_id,age,sex,relationship,interview_date\n" +
			"H001,M01,30,male,head,2012-06-01\n" +
			"H001,M02,28,female,spouse,2012-06-01\n",
		"wave1_depression.csv": "" +
			"hhid,member_id,k10_1,k10_2,k10_3,k10_4,k10_5,k10_6,k10_7,k10_8,k10_9,k10_10\n" +
			"H001,M02,4,4,4,4,4,3,3,3,3,3\n",
		"wave2_demographics.csv": "" +
			"hhid,member_id,age,sex,relationship,birth_date,interview_date\n" +
			"H001,M01,32,male,head,,2014-06-01\n" +
			"H001,M02,30,female,spouse,,2014-06-01\n" +
			"H001,C01,1,female,daughter,2012-09-01,2014-06-01\n" +
			"H002,M01,29,male,head,,2014-06-15\n" +
			"H002,M02,26,female,spouse,,2014-06-15\n" +
			"H002,C01,9,male,son,,2014-06-15\n",
		"wave2_depression.csv": "" +
			"hhid,member_id,k10_1,k10_2,k10_3,k10_4,k10_5,k10_6,k10_7,k10_8,k10_9,k10_10\n" +
			"H001,M02,3,3,3,3,3,2,2,2,2,2\n" +
			"H002,M02,3,3,3,3,3,,,,,\n",
		"wave2_cognitive.csv": "" +
			"hhid,member_id,ravens_1,ravens_2,ravens_3,ravens_4,ravens_5,ravens_6,ravens_7,ravens_8,ravens_9,ravens_10,ravens_11,ravens_12\n" +
			"H001,C01,B,D,A,C,E,,,,,,,\n" +
			"H002,C01,B,D,A,C,E,B,D,A,B,A,A,A\n",
		"wave2_expenditure.csv": "" +
			"hhid,category,amount\n" +
			"H001,food,600\n" +
			"H001,other,200\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func readPanel(t *testing.T, path string) (headers []string, rows []map[string]string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(raw), "\xef\xbb\xbf")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	headers = records[0]
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func find(rows []map[string]string, hh, member, wave string) map[string]string {
	for _, row := range rows {
		if row["household_id"] == hh && row["member_id"] == member && row["wave"] == wave {
			return row
		}
	}
	return nil
}

func TestRunEndToEnd(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeFixtures(t, inDir)

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Paths.InputDir = inDir
	cfg.Paths.OutputDir = outDir
	cfg.Waves = []int{1, 2}
	cfg.Prenatal.FieldworkEnd = "2016-12-31"

	runner := NewRunner(cfg, nil)
	require.NoError(t, runner.Run(context.Background()))

	headers, rows := readPanel(t, filepath.Join(outDir, PanelFile))
	assert.Equal(t, exporter.PanelHeaders(), headers)
	require.Len(t, rows, 8, "2 wave-1 rows + 6 wave-2 rows")

	// The mother keeps her surrogate across waves.
	motherW1 := find(rows, "H001", "M02", "1")
	motherW2 := find(rows, "H001", "M02", "2")
	require.NotNil(t, motherW1)
	require.NotNil(t, motherW2)
	assert.Equal(t, motherW1["person_id"], motherW2["person_id"])
	assert.Equal(t, "35", motherW1["c_k10_score"])
	assert.Equal(t, "severe", motherW1["c_k10_level"])

	// H001's child: linked mother, analysis sample, prenatal via wave 1.
	child := find(rows, "H001", "C01", "2")
	require.NotNil(t, child)
	assert.Equal(t, "child_candidate", child["class"])
	assert.Equal(t, "1", child["has_mother"])
	assert.Equal(t, "25", child["m_k10_score"])
	assert.Equal(t, "moderate", child["m_k10_level"])
	assert.Equal(t, "5", child["c_ravens_correct"])
	assert.Equal(t, "1", child["analysis_sample"])

	assert.Equal(t, "1", child["has_prenatal"])
	assert.Equal(t, "35", child["prenatal_score"])
	assert.Equal(t, "35", child["prenatal_timing_score"])
	assert.Equal(t, "1", child["prenatal_timing_wave"])
	assert.Equal(t, "1", child["prenatal_severe"])
	assert.Equal(t, "", child["prenatal_concurrent_score"])

	// Household spending broadcast and per-capita division by size 3.
	assert.Equal(t, "3", child["household_size"])
	assert.Equal(t, "800", child["c_expenditure_total"])
	assert.NotEmpty(t, child["pc_consumption"])
	assert.NotEmpty(t, child["log_pc_consumption"])

	// H002's child: mother linked but her K10 is incomplete, so the row is
	// out of the analysis sample and carries an empty maternal score.
	excluded := find(rows, "H002", "C01", "2")
	require.NotNil(t, excluded)
	assert.Equal(t, "1", excluded["has_mother"])
	assert.Equal(t, "", excluded["m_k10_score"])
	assert.Equal(t, "7", excluded["c_ravens_correct"])
	assert.Equal(t, "0", excluded["analysis_sample"])
	assert.Equal(t, "0", excluded["has_prenatal"])

	// The quality ledger records the run: missing module tables alone
	// guarantee entries.
	ledger, err := os.ReadFile(filepath.Join(outDir, QualityLedgerFile))
	require.NoError(t, err)
	assert.Contains(t, string(ledger), "join_miss")
}

func TestRunMissingInputDirectory(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Paths.InputDir = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Waves = []int{1}

	runner := NewRunner(cfg, nil)

	// Discovery treats an unreadable directory as "no extracts": the run
	// completes with an empty panel and a ledger full of missing-module
	// warnings rather than failing.
	require.NoError(t, runner.Run(context.Background()))

	_, rows := readPanel(t, filepath.Join(cfg.Paths.OutputDir, PanelFile))
	assert.Empty(t, rows)
}
