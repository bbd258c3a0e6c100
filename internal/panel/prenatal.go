package panel

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// elapsedTolerance absorbs float error in elapsed-month arithmetic at the
// window bounds.
const elapsedTolerance = 1e-9

// PrenatalOptions configures the in-utero exposure resolution.
type PrenatalOptions struct {
	// WindowMonths is the gestational attribution window W: a child born
	// within [0, W] months after a prior wave's interview is classified in
	// utero during that wave. 9 for the main analysis; 6 and 12 are the
	// sensitivity variants.
	WindowMonths float64

	// SevereThreshold flags the combined prenatal score. The study design
	// uses the severe (30) cutoff here, not the 20-point binary used for
	// concurrent analysis.
	SevereThreshold int

	// MinBirthYear and FieldworkEnd bound plausible birth dates. Dates
	// outside the range are discarded to missing with a warning.
	MinBirthYear int
	FieldworkEnd time.Time
}

// Validate rejects option sets that would silently invalidate every row.
func (o PrenatalOptions) Validate() error {
	if o.WindowMonths <= 0 {
		return fmt.Errorf("gestation window must be positive, got %g", o.WindowMonths)
	}
	if o.SevereThreshold < domain.K10Min || o.SevereThreshold > domain.K10Max {
		return fmt.Errorf("severe threshold %d outside K10 range [%d, %d]",
			o.SevereThreshold, domain.K10Min, domain.K10Max)
	}
	if o.MinBirthYear < 1800 {
		return fmt.Errorf("minimum birth year %d implausible", o.MinBirthYear)
	}
	return nil
}

// ResolvePrenatal determines prenatal maternal-distress exposure for every
// child row, under two strategies:
//
//   - Strategy A (concurrent): the linked mother reported being pregnant in
//     the row's wave and has a K10 score that wave.
//   - Strategy B (birth timing): the child's estimated birth date falls
//     within the gestation window after a prior wave's interview, and that
//     household-wave has a maternal K10. When several prior waves qualify
//     the most recent wins (the measurement closest to the pregnancy).
//
// A child eligible under both keeps A: concurrent measurement beats inferred
// timing. The maternal K10 of a prior wave comes from the selected mother's
// own row of that wave; a child in utero then has no row of its own yet, so
// the attribution cannot rely on child-side linkage. Rows must already be
// mother-linked; the function mutates and returns them.
func ResolvePrenatal(rows []domain.PanelRow, rolesByWave map[domain.Wave]map[domain.MemberKey]domain.RoleAssignment, opts PrenatalOptions, qc *quality.Collector, logger *slog.Logger) ([]domain.PanelRow, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("prenatal options: %w", err)
	}
	if rolesByWave == nil {
		return nil, fmt.Errorf("prenatal resolution requires resolved roles; run role resolution first")
	}
	if logger == nil {
		logger = slog.Default()
	}

	type hhWave struct {
		household string
		wave      domain.Wave
	}
	type waveObs struct {
		wave      domain.Wave
		interview domain.Date
		k10       domain.Int
	}

	// Index maternal K10 and interview date per household-wave.
	observed := make(map[hhWave]waveObs)
	for _, row := range rows {
		k := hhWave{row.HouseholdID, row.Wave}
		obs, ok := observed[k]
		if !ok {
			obs = waveObs{wave: row.Wave}
		}
		if !obs.interview.Valid && row.Child.InterviewDate.Valid {
			obs.interview = row.Child.InterviewDate
		}
		if ra, ok := rolesByWave[row.Wave][row.Child.Key]; ok && ra.SelectedMother {
			obs.k10 = row.Child.Depression.Score
		}
		observed[k] = obs
	}

	birthDates := estimateBirthDates(rows, opts, qc)

	viaA, viaB := 0, 0
	for i := range rows {
		row := &rows[i]
		if row.Class != domain.ClassChildCandidate {
			continue
		}

		var exp domain.PregnancyExposure

		// Strategy A: concurrent measurement during self-reported pregnancy.
		if row.HasMother && row.Mother.Depression.PregnantNow.True() && row.Mother.Depression.Score.Valid {
			exp.ConcurrentScore = row.Mother.Depression.Score
		}

		// Strategy B: birth-timing attribution against prior waves, most
		// recent qualifying wave first.
		if birth, ok := birthDates[row.PersonID]; ok {
			var priors []waveObs
			for k, obs := range observed {
				if k.household == row.HouseholdID && k.wave < row.Wave {
					priors = append(priors, obs)
				}
			}
			sort.Slice(priors, func(a, b int) bool { return priors[a].wave > priors[b].wave })

			for _, obs := range priors {
				if !obs.interview.Valid || !obs.k10.Valid {
					continue
				}
				elapsed := birth.Value.Sub(obs.interview.Value).Hours() / 24 / daysPerMonth
				// Inclusive window bounds, with float tolerance so a birth
				// exactly W months after an interview stays in utero.
				if elapsed >= -elapsedTolerance && elapsed <= opts.WindowMonths+elapsedTolerance {
					exp.TimingScore = obs.k10
					exp.TimingWave = obs.wave
					break
				}
			}
		}

		// Combined measure: A beats B.
		switch {
		case exp.ConcurrentScore.Valid:
			exp.Score = exp.ConcurrentScore
			viaA++
		case exp.TimingScore.Valid:
			exp.Score = exp.TimingScore
			viaB++
		}
		if exp.Score.Valid {
			exp.Severe = domain.NewBool(exp.Score.Value >= int64(opts.SevereThreshold))
			exp.HasPrenatal = true
		}

		row.Prenatal = exp
	}

	logger.Info("resolved prenatal exposure",
		"via_concurrent", viaA,
		"via_birth_timing", viaB,
		"window_months", opts.WindowMonths,
	)
	return rows, nil
}

// estimateBirthDates picks one birth date per person: the most recent wave's
// reported date, falling back to earlier waves. Year-only and month-only
// reports already carry mid-year/mid-month defaults from normalization.
// Implausible dates are rejected to missing.
func estimateBirthDates(rows []domain.PanelRow, opts PrenatalOptions, qc *quality.Collector) map[int64]domain.Date {
	out := make(map[int64]domain.Date)
	latestWave := make(map[int64]domain.Wave)

	for _, row := range rows {
		bd := row.Child.BirthDate
		if !bd.Valid {
			continue
		}
		if bd.Value.Year() < opts.MinBirthYear ||
			(!opts.FieldworkEnd.IsZero() && bd.Value.After(opts.FieldworkEnd)) {
			qc.Addf("panel", row.HouseholdID+"/"+row.MemberID, "birth_date",
				quality.ReasonImplausibleValue, "birth date %s outside plausible range", bd)
			continue
		}
		if w, ok := latestWave[row.PersonID]; !ok || row.Wave > w {
			latestWave[row.PersonID] = row.Wave
			out[row.PersonID] = bd
		}
	}
	return out
}
