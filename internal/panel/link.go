package panel

import (
	"fmt"
	"log/slog"

	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// LinkMothers attaches each household-wave's selected mother record to the
// child rows of that household-wave, and sets analysis-sample membership.
//
// The join is (household, wave); its cardinality is one mother to many
// children, an intentional fan-out: every child of the household carries an
// identical copy of the mother's fields. Children in a household-wave with
// no resolved mother keep all mother fields missing and are excluded from
// the analysis sample. Rows are updated in place and returned.
//
// Calling the linker without role assignments is a contract violation and
// the only way it fails.
func LinkMothers(rows []domain.PanelRow, rolesByWave map[domain.Wave]map[domain.MemberKey]domain.RoleAssignment, qc *quality.Collector, logger *slog.Logger) ([]domain.PanelRow, error) {
	if rolesByWave == nil {
		return nil, fmt.Errorf("mother linkage requires resolved roles; run role resolution first")
	}
	if logger == nil {
		logger = slog.Default()
	}

	type hhWave struct {
		household string
		wave      domain.Wave
	}

	// Index each household-wave's selected mother record.
	mothers := make(map[hhWave]domain.MemberRecord)
	for _, row := range rows {
		ra, ok := rolesByWave[row.Wave][row.Child.Key]
		if ok && ra.SelectedMother {
			mothers[hhWave{row.HouseholdID, row.Wave}] = row.Child
		}
	}

	linked, unlinked := 0, 0
	for i := range rows {
		row := &rows[i]
		if row.Class != domain.ClassChildCandidate {
			continue
		}

		mother, ok := mothers[hhWave{row.HouseholdID, row.Wave}]
		if !ok {
			unlinked++
			qc.Addf("panel", row.HouseholdID+"/"+row.MemberID, "mother",
				quality.ReasonJoinMiss, "no qualifying mother in household-wave %s", row.Wave)
			row.AnalysisSample = false
			continue
		}

		row.HasMother = true
		row.Mother = mother
		row.AnalysisSample = mother.Depression.Score.Valid && row.Child.Cognitive.AnySubscore()
		linked++
	}

	logger.Info("linked mothers to children",
		"children_linked", linked,
		"children_without_mother", unlinked,
		"household_waves_with_mother", len(mothers),
	)
	return rows, nil
}
