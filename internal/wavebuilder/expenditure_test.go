package wavebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/ingest"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

func TestExpenditureAggregation(t *testing.T) {
	table := ingest.NewRawTable("wave1_expenditure",
		[]string{"hhid", "category", "amount"},
		[][]string{
			{"H001", "food", "600"},
			{"H001", "Clothing", "200"},
			{"H001", "firewood", "100"},
			{"H001", "misc", "100"},
			{"H002", "3", "50"},
		})

	b := New(domain.Wave1, quality.NewCollector(nil), nil)
	out := b.Expenditure(table)

	require.Len(t, out, 2)

	e := out["H001"]
	require.True(t, e.Total.Valid)
	assert.InDelta(t, 1000.0, e.Total.Value, 1e-9)
	assert.InDelta(t, 0.6, e.FoodShare.Value, 1e-9)
	assert.InDelta(t, 0.2, e.ClothesShare.Value, 1e-9)
	assert.InDelta(t, 0.1, e.FuelShare.Value, 1e-9)
	assert.InDelta(t, 0.1, e.OtherShare.Value, 1e-9)

	// Coded category (3 = fuel) aggregates the same as its label form.
	e2 := out["H002"]
	assert.InDelta(t, 50.0, e2.Total.Value, 1e-9)
	assert.InDelta(t, 1.0, e2.FuelShare.Value, 1e-9)
}

// TestExpenditureUnrecognizedCategory: an unknown category is counted under
// other with a warning; dropping the amount would understate the total.
func TestExpenditureUnrecognizedCategory(t *testing.T) {
	table := ingest.NewRawTable("wave1_expenditure",
		[]string{"hhid", "category", "amount"},
		[][]string{
			{"H001", "food", "80"},
			{"H001", "school fees", "20"},
		})

	qc := quality.NewCollector(nil)
	b := New(domain.Wave1, qc, nil)
	out := b.Expenditure(table)

	e := out["H001"]
	assert.InDelta(t, 100.0, e.Total.Value, 1e-9)
	assert.InDelta(t, 0.2, e.OtherShare.Value, 1e-9)

	require.Len(t, qc.Warnings(), 1)
	assert.Equal(t, quality.ReasonNormalizationMiss, qc.Warnings()[0].Reason)
}

func TestExpenditureBadAmounts(t *testing.T) {
	table := ingest.NewRawTable("wave1_expenditure",
		[]string{"hhid", "category", "amount"},
		[][]string{
			{"H001", "food", "plenty"},
			{"H001", "food", "-40"},
			{"H001", "food", "60"},
		})

	qc := quality.NewCollector(nil)
	b := New(domain.Wave1, qc, nil)
	out := b.Expenditure(table)

	e := out["H001"]
	assert.InDelta(t, 60.0, e.Total.Value, 1e-9, "bad rows must not enter the total")
	assert.Len(t, qc.Warnings(), 2)
}

func TestAnthropometryPlausibility(t *testing.T) {
	table := ingest.NewRawTable("wave2_anthropometry",
		[]string{"hhid", "member_id", "height_cm", "weight_kg", "muac"},
		[][]string{
			{"H001", "M01", "142.5", "38.2", "18.5"},
			{"H001", "M02", "1425", "38.2", "18.5"},
			{"H001", "M03", "", "0.4", "tiny"},
		})

	qc := quality.NewCollector(nil)
	b := New(domain.Wave2, qc, nil)
	out := b.Anthropometry(table)

	ok := out[domain.MemberKey{HouseholdID: "H001", MemberID: "M01"}]
	require.True(t, ok.HeightCM.Valid)
	assert.InDelta(t, 142.5, ok.HeightCM.Value, 1e-9)
	assert.InDelta(t, 18.5, ok.ArmCM.Value, 1e-9)

	// Transposed-digit height is discarded to missing, not carried.
	bad := out[domain.MemberKey{HouseholdID: "H001", MemberID: "M02"}]
	assert.False(t, bad.HeightCM.Valid)
	assert.True(t, bad.WeightKG.Valid)

	worse := out[domain.MemberKey{HouseholdID: "H001", MemberID: "M03"}]
	assert.False(t, worse.HeightCM.Valid)
	assert.False(t, worse.WeightKG.Valid)
	assert.False(t, worse.ArmCM.Valid)

	implausible := 0
	for _, w := range qc.Warnings() {
		if w.Reason == quality.ReasonImplausibleValue {
			implausible++
		}
	}
	assert.Equal(t, 2, implausible)
}
