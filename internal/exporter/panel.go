package exporter

import (
	"fmt"
	"strconv"

	"panelcli/pkg/contracts/domain"
)

// memberFields enumerates the exported member-side columns in fixed order.
// Child-side values carry the c_ prefix, attached mother-side values the m_
// prefix; both sides share this schema.
var memberFields = []struct {
	name  string
	value func(domain.MemberRecord) string
}{
	{"age", func(r domain.MemberRecord) string { return r.Age.String() }},
	{"sex", func(r domain.MemberRecord) string { return r.Sex.String() }},
	{"role", func(r domain.MemberRecord) string { return r.Role.String() }},
	{"birth_date", func(r domain.MemberRecord) string { return r.BirthDate.String() }},
	{"in_school", func(r domain.MemberRecord) string { return r.InSchool.String() }},
	{"k10_score", func(r domain.MemberRecord) string { return r.Depression.Score.String() }},
	{"k10_level", func(r domain.MemberRecord) string { return r.Depression.Level.String() }},
	{"k10_above_cut", func(r domain.MemberRecord) string { return r.Depression.AboveCut.String() }},
	{"pregnant_now", func(r domain.MemberRecord) string { return r.Depression.PregnantNow.String() }},
	{"ravens_correct", func(r domain.MemberRecord) string { return r.Cognitive.RavensCorrect.String() }},
	{"digits_forward", func(r domain.MemberRecord) string { return r.Cognitive.DigitsForward.String() }},
	{"digits_backward", func(r domain.MemberRecord) string { return r.Cognitive.DigitsBackward.String() }},
	{"math_correct", func(r domain.MemberRecord) string { return r.Cognitive.MathCorrect.String() }},
	{"english_correct", func(r domain.MemberRecord) string { return r.Cognitive.EnglishCorrect.String() }},
	{"ravens_z", func(r domain.MemberRecord) string { return r.Cognitive.RavensZ.String() }},
	{"digits_forward_z", func(r domain.MemberRecord) string { return r.Cognitive.ForwardZ.String() }},
	{"digits_backward_z", func(r domain.MemberRecord) string { return r.Cognitive.BackwardZ.String() }},
	{"math_z", func(r domain.MemberRecord) string { return r.Cognitive.MathZ.String() }},
	{"english_z", func(r domain.MemberRecord) string { return r.Cognitive.EnglishZ.String() }},
	{"cognitive_composite", func(r domain.MemberRecord) string { return r.Cognitive.Composite.String() }},
	{"height_cm", func(r domain.MemberRecord) string { return r.Anthropometry.HeightCM.String() }},
	{"weight_kg", func(r domain.MemberRecord) string { return r.Anthropometry.WeightKG.String() }},
	{"arm_cm", func(r domain.MemberRecord) string { return r.Anthropometry.ArmCM.String() }},
	// Approximate within-wave-by-sex z-scores, not WHO growth-reference
	// z-scores; levels are not comparable across waves.
	{"height_z", func(r domain.MemberRecord) string { return r.Anthropometry.HeightZ.String() }},
	{"weight_z", func(r domain.MemberRecord) string { return r.Anthropometry.WeightZ.String() }},
	{"arm_z", func(r domain.MemberRecord) string { return r.Anthropometry.ArmZ.String() }},
	{"reading_hours", func(r domain.MemberRecord) string { return r.TimeUse.ReadingHours.String() }},
	{"homework_hours", func(r domain.MemberRecord) string { return r.TimeUse.HomeworkHours.String() }},
	{"total_child_hours", func(r domain.MemberRecord) string { return r.TimeUse.TotalHours.String() }},
	{"childcare", func(r domain.MemberRecord) string { return r.TimeUse.Childcare.String() }},
	{"expenditure_total", func(r domain.MemberRecord) string { return r.Expenditure.Total.String() }},
	{"food_share", func(r domain.MemberRecord) string { return r.Expenditure.FoodShare.String() }},
	{"clothes_share", func(r domain.MemberRecord) string { return r.Expenditure.ClothesShare.String() }},
	{"fuel_share", func(r domain.MemberRecord) string { return r.Expenditure.FuelShare.String() }},
	{"other_share", func(r domain.MemberRecord) string { return r.Expenditure.OtherShare.String() }},
	{"ill", func(r domain.MemberRecord) string { return r.Health.Ill.String() }},
	{"days_sick", func(r domain.MemberRecord) string { return r.Health.DaysSick.String() }},
	{"sought_care", func(r domain.MemberRecord) string { return r.Health.SoughtCare.String() }},
	{"immunization_rate", func(r domain.MemberRecord) string { return r.Health.ImmunizationRate.String() }},
}

// PanelHeaders returns the fixed column order of the analysis panel.
func PanelHeaders() []string {
	headers := []string{"person_id", "household_id", "member_id", "wave", "ea", "class"}
	for _, f := range memberFields {
		headers = append(headers, "c_"+f.name)
	}
	headers = append(headers, "has_mother")
	for _, f := range memberFields {
		headers = append(headers, "m_"+f.name)
	}
	headers = append(headers,
		"household_size", "pc_consumption", "log_pc_consumption",
		"prenatal_score", "prenatal_concurrent_score", "prenatal_timing_score",
		"prenatal_timing_wave", "prenatal_severe", "has_prenatal",
		"analysis_sample",
	)
	return headers
}

// PanelRecord renders one panel row in the PanelHeaders column order.
// Missing values serialize as empty cells; booleans as 1/0.
func PanelRecord(row domain.PanelRow) []string {
	rec := []string{
		strconv.FormatInt(row.PersonID, 10),
		row.HouseholdID,
		row.MemberID,
		strconv.Itoa(int(row.Wave)),
		row.EA,
		row.Class.String(),
	}
	for _, f := range memberFields {
		rec = append(rec, f.value(row.Child))
	}
	rec = append(rec, boolCell(row.HasMother))
	for _, f := range memberFields {
		if row.HasMother {
			rec = append(rec, f.value(row.Mother))
		} else {
			rec = append(rec, "")
		}
	}

	timingWave := ""
	if row.Prenatal.TimingScore.Valid {
		timingWave = strconv.Itoa(int(row.Prenatal.TimingWave))
	}
	rec = append(rec,
		strconv.Itoa(row.HouseholdSize),
		row.PerCapitaConsumption.String(),
		row.LogPCConsumption.String(),
		row.Prenatal.Score.String(),
		row.Prenatal.ConcurrentScore.String(),
		row.Prenatal.TimingScore.String(),
		timingWave,
		row.Prenatal.Severe.String(),
		boolCell(row.Prenatal.HasPrenatal),
		boolCell(row.AnalysisSample),
	)
	return rec
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// WritePanel writes the full analysis panel.
func (w *CSVWriter) WritePanel(name string, rows []domain.PanelRow) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = PanelRecord(row)
	}
	if err := w.WriteCSV(name, WriteOptions{
		Headers:   PanelHeaders(),
		Records:   records,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("write panel: %w", err)
	}
	return nil
}
