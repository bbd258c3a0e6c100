// Package roles classifies household members within a wave for mother-child
// linkage.
//
// The survey does not record "is the mother of member X" directly; the
// linkage is inferred from declared relationship to the household head
// combined with age and sex. The rules deliberately over-select plausible
// mothers (head, spouse, or the head's parent-in-law) and resolve ties by
// first qualifying record in source-row order. Households with co-resident
// grandmothers or aunts can therefore misattribute. That is an accepted
// simplification of the study design, surfaced in the output rather than
// guessed around.
package roles

import (
	"log/slog"
	"sort"

	"panelcli/internal/wavebuilder"
	"panelcli/pkg/contracts/domain"
)

// Qualification bounds.
const (
	// MotherMinAge is the youngest age at which a member qualifies as a
	// mother candidate.
	MotherMinAge = 15
	// ChildMaxAge is the oldest age at which a member qualifies as a child
	// candidate.
	ChildMaxAge = 17
)

// motherRoles are the relationship roles that qualify a female adult as the
// household's resident mother candidate.
var motherRoles = map[domain.Role]bool{
	domain.RoleHead:        true,
	domain.RoleSpouse:      true,
	domain.RoleParentInLaw: true,
}

// childRoles are the child-type relationship roles.
var childRoles = map[domain.Role]bool{
	domain.RoleChild:      true,
	domain.RoleStepChild:  true,
	domain.RoleGrandchild: true,
}

// Resolve classifies every member of a wave's demographic roster and selects
// at most one mother per household: the first qualifying record in
// source-row order. A household with no qualifying mother simply yields
// none; its children flow into the panel with missing maternal fields.
func Resolve(wave domain.Wave, demographics map[domain.MemberKey]wavebuilder.Demographic, logger *slog.Logger) map[domain.MemberKey]domain.RoleAssignment {
	if logger == nil {
		logger = slog.Default()
	}

	// Stable iteration: source-row order within household.
	ordered := make([]wavebuilder.Demographic, 0, len(demographics))
	for _, d := range demographics {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Key.HouseholdID != ordered[j].Key.HouseholdID {
			return ordered[i].Key.HouseholdID < ordered[j].Key.HouseholdID
		}
		return ordered[i].SourceRow < ordered[j].SourceRow
	})

	out := make(map[domain.MemberKey]domain.RoleAssignment, len(ordered))
	motherChosen := make(map[string]bool)
	mothers, children := 0, 0

	for _, d := range ordered {
		a := domain.RoleAssignment{Key: d.Key, Wave: wave, Class: classify(d)}
		switch a.Class {
		case domain.ClassMotherCandidate:
			if !motherChosen[d.Key.HouseholdID] {
				motherChosen[d.Key.HouseholdID] = true
				a.SelectedMother = true
				mothers++
			}
		case domain.ClassChildCandidate:
			children++
			if d.Sex != domain.SexUnknown {
				a.FemaleChild = domain.NewBool(d.Sex == domain.SexFemale)
			}
		}
		out[d.Key] = a
	}

	logger.Info("resolved household roles",
		"wave", wave.String(),
		"members", len(out),
		"mothers_selected", mothers,
		"child_candidates", children,
	)
	return out
}

// classify applies the qualification rules to one roster entry. Missing age,
// sex, or role disqualifies: classification never guesses.
func classify(d wavebuilder.Demographic) domain.RoleClass {
	if d.Age.Valid && d.Age.Value <= ChildMaxAge && childRoles[d.Role] {
		return domain.ClassChildCandidate
	}
	if d.Sex == domain.SexFemale && d.Age.Valid && d.Age.Value >= MotherMinAge && motherRoles[d.Role] {
		return domain.ClassMotherCandidate
	}
	return domain.ClassOther
}
