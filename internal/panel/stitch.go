// Package panel assembles the longitudinal analysis dataset: it stitches
// wave-level member records into panel rows, attaches mother-side covariates
// to child rows, and resolves prenatal exposure across wave boundaries.
package panel

import (
	"log/slog"
	"math"
	"sort"

	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// ageProgressionToleranceYears bounds how far a member's reported age may
// drift from the elapsed time between interviews before the cross-wave
// identity is flagged. Reported ages are routinely off by a year.
const ageProgressionToleranceYears = 2

// daysPerMonth is the mean Gregorian month length used for elapsed-month
// arithmetic.
const daysPerMonth = 30.44

// Stitcher concatenates wave assemblies into the longitudinal panel.
type Stitcher struct {
	quality *quality.Collector
	logger  *slog.Logger
}

// NewStitcher creates a stitcher.
func NewStitcher(qc *quality.Collector, logger *slog.Logger) *Stitcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stitcher{quality: qc, logger: logger.With(slog.String("component", "panel"))}
}

// Stitch concatenates the wave assemblies into panel rows ordered by
// (wave, household, source row) and assigns person surrogate keys.
//
// The surrogate is assigned per (household, member) pair on first
// appearance, in deterministic order. The survey design does not guarantee
// member indices are stable across waves (re-rostering after attrition can
// renumber), so the same surrogate across waves means "same index", not
// provably "same person". Stitch cross-checks age progression between waves
// and surfaces mismatches as linkage warnings rather than silently trusting
// the join key.
func (s *Stitcher) Stitch(waves map[domain.Wave]map[domain.MemberKey]domain.MemberRecord, rolesByWave map[domain.Wave]map[domain.MemberKey]domain.RoleAssignment) []domain.PanelRow {
	waveOrder := make([]domain.Wave, 0, len(waves))
	for w := range waves {
		waveOrder = append(waveOrder, w)
	}
	sort.Slice(waveOrder, func(i, j int) bool { return waveOrder[i] < waveOrder[j] })

	personIDs := make(map[domain.MemberKey]int64)
	nextPerson := int64(1)
	var rows []domain.PanelRow

	for _, w := range waveOrder {
		records := waves[w]

		ordered := make([]domain.MemberRecord, 0, len(records))
		for _, rec := range records {
			ordered = append(ordered, rec)
		}
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].Key.HouseholdID != ordered[j].Key.HouseholdID {
				return ordered[i].Key.HouseholdID < ordered[j].Key.HouseholdID
			}
			return ordered[i].SourceRow < ordered[j].SourceRow
		})

		householdSize := make(map[string]int)
		for _, rec := range ordered {
			householdSize[rec.Key.HouseholdID]++
		}

		for _, rec := range ordered {
			pid, ok := personIDs[rec.Key]
			if !ok {
				pid = nextPerson
				nextPerson++
				personIDs[rec.Key] = pid
			}

			row := domain.PanelRow{
				PersonID:    pid,
				HouseholdID: rec.Key.HouseholdID,
				MemberID:    rec.Key.MemberID,
				Wave:        w,
				EA:          rec.EA,
				Child:       rec,
			}
			if ra, ok := rolesByWave[w][rec.Key]; ok {
				row.Class = ra.Class
			}

			size := householdSize[rec.Key.HouseholdID]
			row.HouseholdSize = size
			if rec.Expenditure.Total.Valid && size > 0 {
				pc := rec.Expenditure.Total.Value / float64(size)
				row.PerCapitaConsumption = domain.NewFloat(pc)
				// Log only where strictly positive; zero-consumption
				// households stay missing, never clamped to an epsilon.
				if pc > 0 {
					row.LogPCConsumption = domain.NewFloat(math.Log(pc))
				}
			}

			rows = append(rows, row)
		}
	}

	s.checkAgeProgression(rows)

	s.logger.Info("stitched panel",
		"rows", len(rows),
		"persons", nextPerson-1,
		"waves", len(waveOrder),
	)
	return rows
}

// checkAgeProgression validates the cross-wave identity assumption: age at a
// later wave should be about the earlier age plus the elapsed interview
// time. Mismatches are warnings, not corrections; the rows stay in the
// panel.
func (s *Stitcher) checkAgeProgression(rows []domain.PanelRow) {
	byPerson := make(map[int64][]domain.PanelRow)
	for _, row := range rows {
		byPerson[row.PersonID] = append(byPerson[row.PersonID], row)
	}

	for _, personRows := range byPerson {
		sort.Slice(personRows, func(i, j int) bool { return personRows[i].Wave < personRows[j].Wave })
		for i := 1; i < len(personRows); i++ {
			prev, cur := personRows[i-1], personRows[i]
			if !prev.Child.Age.Valid || !cur.Child.Age.Valid ||
				!prev.Child.InterviewDate.Valid || !cur.Child.InterviewDate.Valid {
				continue
			}
			gapYears := cur.Child.InterviewDate.Value.Sub(prev.Child.InterviewDate.Value).Hours() / 24 / 365.25
			drift := math.Abs(float64(cur.Child.Age.Value-prev.Child.Age.Value) - gapYears)
			if drift > ageProgressionToleranceYears {
				s.quality.Addf("panel", cur.HouseholdID+"/"+cur.MemberID, "age",
					quality.ReasonLinkageMismatch,
					"age moved %d -> %d over %.1f years between %s and %s",
					prev.Child.Age.Value, cur.Child.Age.Value, gapYears, prev.Wave, cur.Wave)
			}
		}
	}
}
