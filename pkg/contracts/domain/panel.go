package domain

// Role is the member's declared relationship to the household head.
type Role int

const (
	RoleUnknown Role = iota
	RoleHead
	RoleSpouse
	RoleChild // son or daughter of the head
	RoleStepChild
	RoleGrandchild
	RoleParent
	RoleParentInLaw
	RoleSibling
	RoleOtherRelative
	RoleNonRelative
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleHead:
		return "head"
	case RoleSpouse:
		return "spouse"
	case RoleChild:
		return "child"
	case RoleStepChild:
		return "step_child"
	case RoleGrandchild:
		return "grandchild"
	case RoleParent:
		return "parent"
	case RoleParentInLaw:
		return "parent_in_law"
	case RoleSibling:
		return "sibling"
	case RoleOtherRelative:
		return "other_relative"
	case RoleNonRelative:
		return "non_relative"
	default:
		return "unknown"
	}
}

// RoleClass is the derived household classification used for mother-child
// linkage.
type RoleClass int

const (
	ClassOther RoleClass = iota
	ClassMotherCandidate
	ClassChildCandidate
)

// String returns the string representation of the role class.
func (c RoleClass) String() string {
	switch c {
	case ClassMotherCandidate:
		return "mother_candidate"
	case ClassChildCandidate:
		return "child_candidate"
	default:
		return "other"
	}
}

// RoleAssignment tags one member-wave with its household classification and
// whether it was selected as the household's resident mother.
type RoleAssignment struct {
	Key            MemberKey `json:"-"`
	Wave           Wave      `json:"wave"`
	Class          RoleClass `json:"class"`
	SelectedMother bool      `json:"selected_mother"`
	FemaleChild    Bool      `json:"female_child"`
}

// PanelRow is one (person, wave) observation of the final analysis dataset.
// Child-side fields carry a c_ prefix in the exported table, attached
// mother-side fields an m_ prefix. Rows are written once during panel
// assembly and never mutated afterwards.
type PanelRow struct {
	PersonID    int64  `json:"person_id"`
	HouseholdID string `json:"household_id"`
	MemberID    string `json:"member_id"`
	Wave        Wave   `json:"wave"`
	EA          string `json:"ea"`

	Child MemberRecord `json:"child"`
	Class RoleClass    `json:"class"`

	// Mother-attributed covariates. HasMother is false when the household
	// wave resolved no qualifying mother; then every Mother field is missing.
	HasMother bool         `json:"has_mother"`
	Mother    MemberRecord `json:"mother,omitempty"`

	HouseholdSize        int   `json:"household_size"`
	PerCapitaConsumption Float `json:"pc_consumption"`
	LogPCConsumption     Float `json:"log_pc_consumption"`

	// AnalysisSample is true iff the attached mother's K10 total is present
	// and at least one raw child cognitive subscore is present.
	AnalysisSample bool `json:"analysis_sample"`

	Prenatal PregnancyExposure `json:"prenatal"`
}

// PregnancyExposure augments a child's panel row with prenatal maternal
// distress under two identification strategies. Concurrent measurement
// (strategy A) always wins over birth-timing attribution (strategy B).
type PregnancyExposure struct {
	// Strategy A: mother's K10 measured while she self-reported pregnant.
	ConcurrentScore Int `json:"prenatal_concurrent_score"`

	// Strategy B: prior-wave K10 attributed via the in-utero window between
	// that wave's interview date and the child's estimated birth date.
	TimingScore Int  `json:"prenatal_timing_score"`
	TimingWave  Wave `json:"prenatal_timing_wave,omitempty"`

	// Score is A when present, else B.
	Score Int `json:"prenatal_score"`

	// Severe flags the combined score at the severe (30-point) cutoff, not
	// the binary threshold used for concurrent analysis. The asymmetry is a
	// study-design decision.
	Severe Bool `json:"prenatal_severe"`

	HasPrenatal bool `json:"has_prenatal"`
}
