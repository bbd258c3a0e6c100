package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelcli/internal/wavebuilder"
	"panelcli/pkg/contracts/domain"
)

func demo(hh, member string, row int, age int64, sex domain.Sex, role domain.Role) wavebuilder.Demographic {
	return wavebuilder.Demographic{
		Key:       domain.MemberKey{HouseholdID: hh, MemberID: member},
		SourceRow: row,
		Age:       domain.NewInt(age),
		Sex:       sex,
		Role:      role,
	}
}

func roster(ds ...wavebuilder.Demographic) map[domain.MemberKey]wavebuilder.Demographic {
	out := make(map[domain.MemberKey]wavebuilder.Demographic, len(ds))
	for _, d := range ds {
		out[d.Key] = d
	}
	return out
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name     string
		d        wavebuilder.Demographic
		expected domain.RoleClass
	}{
		{"adult female spouse", demo("H", "1", 0, 28, domain.SexFemale, domain.RoleSpouse), domain.ClassMotherCandidate},
		{"female head", demo("H", "1", 0, 40, domain.SexFemale, domain.RoleHead), domain.ClassMotherCandidate},
		{"parent in law", demo("H", "1", 0, 55, domain.SexFemale, domain.RoleParentInLaw), domain.ClassMotherCandidate},
		{"female at minimum age", demo("H", "1", 0, MotherMinAge, domain.SexFemale, domain.RoleSpouse), domain.ClassMotherCandidate},
		{"female below minimum age", demo("H", "1", 0, MotherMinAge-1, domain.SexFemale, domain.RoleSpouse), domain.ClassOther},
		{"male head", demo("H", "1", 0, 40, domain.SexMale, domain.RoleHead), domain.ClassOther},
		{"adult female sibling", demo("H", "1", 0, 30, domain.SexFemale, domain.RoleSibling), domain.ClassOther},
		{"young child", demo("H", "1", 0, 7, domain.SexMale, domain.RoleChild), domain.ClassChildCandidate},
		{"child at maximum age", demo("H", "1", 0, ChildMaxAge, domain.SexFemale, domain.RoleChild), domain.ClassChildCandidate},
		{"child above maximum age", demo("H", "1", 0, ChildMaxAge+1, domain.SexFemale, domain.RoleChild), domain.ClassOther},
		{"grandchild", demo("H", "1", 0, 4, domain.SexFemale, domain.RoleGrandchild), domain.ClassChildCandidate},
		{"step child", demo("H", "1", 0, 12, domain.SexMale, domain.RoleStepChild), domain.ClassChildCandidate},
		{"young nonrelative", demo("H", "1", 0, 9, domain.SexMale, domain.RoleNonRelative), domain.ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Resolve(domain.Wave1, roster(tt.d), nil)
			assert.Equal(t, tt.expected, out[tt.d.Key].Class)
		})
	}
}

// TestClassificationNeverGuesses: a missing age, sex, or relationship
// disqualifies the member from both candidate classes.
func TestClassificationNeverGuesses(t *testing.T) {
	noAge := wavebuilder.Demographic{
		Key: domain.MemberKey{HouseholdID: "H", MemberID: "1"},
		Sex: domain.SexFemale, Role: domain.RoleSpouse,
	}
	noSex := demo("H", "2", 1, 30, domain.SexUnknown, domain.RoleSpouse)
	noRole := demo("H", "3", 2, 30, domain.SexFemale, domain.RoleUnknown)

	out := Resolve(domain.Wave1, roster(noAge, noSex, noRole), nil)
	for key, a := range out {
		assert.Equal(t, domain.ClassOther, a.Class, key.String())
	}
}

// TestFirstQualifyingMotherWins: ties resolve by source-row order, and only
// one mother is selected per household.
func TestFirstQualifyingMotherWins(t *testing.T) {
	spouse := demo("H001", "M02", 1, 29, domain.SexFemale, domain.RoleSpouse)
	inLaw := demo("H001", "M05", 4, 52, domain.SexFemale, domain.RoleParentInLaw)
	otherHH := demo("H002", "M01", 0, 33, domain.SexFemale, domain.RoleHead)

	out := Resolve(domain.Wave2, roster(inLaw, spouse, otherHH), nil)

	assert.True(t, out[spouse.Key].SelectedMother, "earlier source row qualifies first")
	assert.False(t, out[inLaw.Key].SelectedMother)
	assert.Equal(t, domain.ClassMotherCandidate, out[inLaw.Key].Class)
	assert.True(t, out[otherHH.Key].SelectedMother, "selection is per household")
}

// TestNoQualifyingMother: a household of men and older children yields no
// selected mother; the assignment map still covers every member.
func TestNoQualifyingMother(t *testing.T) {
	head := demo("H001", "M01", 0, 45, domain.SexMale, domain.RoleHead)
	son := demo("H001", "M02", 1, 21, domain.SexMale, domain.RoleChild)

	out := Resolve(domain.Wave3, roster(head, son), nil)

	require.Len(t, out, 2)
	for key, a := range out {
		assert.False(t, a.SelectedMother, key.String())
	}
}

func TestFemaleChildFlag(t *testing.T) {
	girl := demo("H001", "M03", 2, 9, domain.SexFemale, domain.RoleChild)
	boy := demo("H001", "M04", 3, 11, domain.SexMale, domain.RoleChild)
	unknown := demo("H001", "M05", 4, 6, domain.SexUnknown, domain.RoleChild)

	out := Resolve(domain.Wave1, roster(girl, boy, unknown), nil)

	assert.True(t, out[girl.Key].FemaleChild.True())
	f := out[boy.Key].FemaleChild
	require.True(t, f.Valid)
	assert.False(t, f.Value)
	assert.False(t, out[unknown.Key].FemaleChild.Valid, "unknown sex stays missing")
}
