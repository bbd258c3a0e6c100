package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

func record(hh, member string, wave domain.Wave, sourceRow int) domain.MemberRecord {
	return domain.MemberRecord{
		Key:       domain.MemberKey{HouseholdID: hh, MemberID: member},
		Wave:      wave,
		SourceRow: sourceRow,
	}
}

func TestStitchAssignsStablePersonIDs(t *testing.T) {
	wave1 := map[domain.MemberKey]domain.MemberRecord{}
	wave2 := map[domain.MemberKey]domain.MemberRecord{}
	for _, r := range []domain.MemberRecord{
		record("H001", "M01", domain.Wave1, 0),
		record("H001", "M02", domain.Wave1, 1),
		record("H002", "M01", domain.Wave1, 0),
	} {
		wave1[r.Key] = r
	}
	for _, r := range []domain.MemberRecord{
		record("H001", "M01", domain.Wave2, 0),
		record("H001", "M03", domain.Wave2, 1), // new member
	} {
		wave2[r.Key] = r
	}

	s := NewStitcher(quality.NewCollector(nil), nil)
	rows := s.Stitch(map[domain.Wave]map[domain.MemberKey]domain.MemberRecord{
		domain.Wave1: wave1,
		domain.Wave2: wave2,
	}, nil)

	require.Len(t, rows, 5)

	byKeyWave := make(map[string]domain.PanelRow)
	for _, row := range rows {
		byKeyWave[row.HouseholdID+"/"+row.MemberID+"/"+row.Wave.String()] = row
	}

	// The same (household, member) keeps its surrogate across waves.
	assert.Equal(t,
		byKeyWave["H001/M01/wave1"].PersonID,
		byKeyWave["H001/M01/wave2"].PersonID)

	// A member first seen in wave 2 gets a fresh surrogate.
	seen := map[int64]bool{}
	for _, row := range rows {
		seen[row.PersonID] = true
	}
	assert.Len(t, seen, 4, "four distinct persons across both waves")

	// Deterministic ordering: wave, then household, then source row.
	assert.Equal(t, int64(1), byKeyWave["H001/M01/wave1"].PersonID)
	assert.Equal(t, int64(2), byKeyWave["H001/M02/wave1"].PersonID)
	assert.Equal(t, int64(3), byKeyWave["H002/M01/wave1"].PersonID)
	assert.Equal(t, int64(4), byKeyWave["H001/M03/wave2"].PersonID)
}

func TestStitchPerCapitaConsumption(t *testing.T) {
	spending := record("H001", "M01", domain.Wave1, 0)
	spending.Expenditure.Total = domain.NewFloat(900)
	other := record("H001", "M02", domain.Wave1, 1)
	other.Expenditure.Total = domain.NewFloat(900)
	third := record("H001", "M03", domain.Wave1, 2)
	third.Expenditure.Total = domain.NewFloat(900)

	zero := record("H002", "M01", domain.Wave1, 0)
	zero.Expenditure.Total = domain.NewFloat(0)

	noSpend := record("H003", "M01", domain.Wave1, 0)

	waves := map[domain.Wave]map[domain.MemberKey]domain.MemberRecord{
		domain.Wave1: {
			spending.Key: spending, other.Key: other, third.Key: third,
			zero.Key: zero, noSpend.Key: noSpend,
		},
	}

	s := NewStitcher(quality.NewCollector(nil), nil)
	rows := s.Stitch(waves, nil)

	byHH := make(map[string]domain.PanelRow)
	for _, row := range rows {
		byHH[row.HouseholdID+"/"+row.MemberID] = row
	}

	h1 := byHH["H001/M01"]
	assert.Equal(t, 3, h1.HouseholdSize)
	require.True(t, h1.PerCapitaConsumption.Valid)
	assert.InDelta(t, 300.0, h1.PerCapitaConsumption.Value, 1e-9)
	require.True(t, h1.LogPCConsumption.Valid)

	// Zero consumption: per-capita is 0 but the log stays missing, never
	// clamped to an epsilon.
	h2 := byHH["H002/M01"]
	require.True(t, h2.PerCapitaConsumption.Valid)
	assert.InDelta(t, 0.0, h2.PerCapitaConsumption.Value, 1e-9)
	assert.False(t, h2.LogPCConsumption.Valid)

	// No expenditure record at all: both stay missing.
	h3 := byHH["H003/M01"]
	assert.False(t, h3.PerCapitaConsumption.Valid)
	assert.False(t, h3.LogPCConsumption.Valid)
}

func TestStitchAgeProgressionCheck(t *testing.T) {
	mk := func(wave domain.Wave, age int64, interview time.Time) domain.MemberRecord {
		r := record("H001", "M01", wave, 0)
		r.Age = domain.NewInt(age)
		r.InterviewDate = domain.NewDate(interview)
		return r
	}

	tests := []struct {
		name         string
		laterAge     int64
		wantWarnings int
	}{
		{"consistent progression", 12, 0},
		{"one year drift tolerated", 13, 0},
		{"implausible jump flagged", 19, 1},
		{"age going backwards flagged", 6, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := mk(domain.Wave1, 10, time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC))
			second := mk(domain.Wave2, tt.laterAge, time.Date(2014, 3, 1, 0, 0, 0, 0, time.UTC))

			qc := quality.NewCollector(nil)
			s := NewStitcher(qc, nil)
			s.Stitch(map[domain.Wave]map[domain.MemberKey]domain.MemberRecord{
				domain.Wave1: {first.Key: first},
				domain.Wave2: {second.Key: second},
			}, nil)

			mismatches := 0
			for _, w := range qc.Warnings() {
				if w.Reason == quality.ReasonLinkageMismatch {
					mismatches++
				}
			}
			assert.Equal(t, tt.wantWarnings, mismatches)
		})
	}
}
