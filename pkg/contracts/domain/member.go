package domain

import "fmt"

// Wave identifies a survey round. The study fields three rounds; the type is
// open-ended so sensitivity runs over subsets stay cheap.
type Wave int

const (
	Wave1 Wave = 1
	Wave2 Wave = 2
	Wave3 Wave = 3
)

// String returns the string representation of the wave.
func (w Wave) String() string {
	return fmt.Sprintf("wave%d", int(w))
}

// MemberKey identifies one household member's observation within a wave's
// raw tables. Member indices are only guaranteed unique within a household.
type MemberKey struct {
	HouseholdID string
	MemberID    string
}

// String renders the key for logging and warning records.
func (k MemberKey) String() string {
	return k.HouseholdID + "/" + k.MemberID
}

// Sex is the member's recorded sex.
type Sex int

const (
	SexUnknown Sex = 0
	SexMale    Sex = 1
	SexFemale  Sex = 2
)

// String returns the string representation of the sex code.
func (s Sex) String() string {
	switch s {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return "unknown"
	}
}

// DistressLevel is the K10 severity band.
type DistressLevel int

const (
	DistressMissing  DistressLevel = 0
	DistressLow      DistressLevel = 1
	DistressMild     DistressLevel = 2
	DistressModerate DistressLevel = 3
	DistressSevere   DistressLevel = 4
)

// String returns the string representation of the distress level.
func (d DistressLevel) String() string {
	switch d {
	case DistressLow:
		return "low"
	case DistressMild:
		return "mild"
	case DistressModerate:
		return "moderate"
	case DistressSevere:
		return "severe"
	default:
		return ""
	}
}

// K10 score bounds and severity cutpoints. The bands are [10,19] low,
// [20,24] mild, [25,29] moderate, [30,50] severe.
const (
	K10Min = 10
	K10Max = 50

	K10MildCut     = 20
	K10ModerateCut = 25
	K10SevereCut   = 30
)

// ClassifyDistress maps a K10 total to its severity band. It is a total
// function of the score: out-of-range or missing scores map to
// DistressMissing.
func ClassifyDistress(score Int) DistressLevel {
	if !score.Valid || score.Value < K10Min || score.Value > K10Max {
		return DistressMissing
	}
	switch {
	case score.Value < K10MildCut:
		return DistressLow
	case score.Value < K10ModerateCut:
		return DistressMild
	case score.Value < K10SevereCut:
		return DistressModerate
	default:
		return DistressSevere
	}
}

// Depression holds the K10 inventory outcome for one member-wave.
type Depression struct {
	Score        Int           `json:"k10_score"`     // sum of the ten mapped items, 10-50
	ItemsPresent int           `json:"items_present"` // how many of the ten items were answered
	Level        DistressLevel `json:"k10_level"`
	AboveCut     Bool          `json:"k10_above_cut"` // binary flag at the configured threshold
	PregnantNow  Bool          `json:"pregnant_now"`  // self-reported current pregnancy
}

// Cognitive holds raw test subscores and their within-wave standardized
// versions. Standardized values are filled by the wave assembler; the raw
// counts come straight from the per-wave builder.
type Cognitive struct {
	RavensCorrect  Int `json:"ravens_correct"`
	DigitsForward  Int `json:"digits_forward"`
	DigitsBackward Int `json:"digits_backward"`
	MathCorrect    Int `json:"math_correct"`
	EnglishCorrect Int `json:"english_correct"`

	RavensZ   Float `json:"ravens_z"`
	ForwardZ  Float `json:"digits_forward_z"`
	BackwardZ Float `json:"digits_backward_z"`
	MathZ     Float `json:"math_z"`
	EnglishZ  Float `json:"english_z"`

	// Composite is the row-mean of the non-missing standardized subscores.
	// It is missing when every subscore is missing, never imputed to zero.
	Composite Float `json:"cognitive_composite"`
}

// AnySubscore reports whether at least one raw subscore is present. This is
// half of the analysis-sample membership rule.
func (c Cognitive) AnySubscore() bool {
	return c.RavensCorrect.Valid || c.DigitsForward.Valid || c.DigitsBackward.Valid ||
		c.MathCorrect.Valid || c.EnglishCorrect.Valid
}

// Anthropometry holds raw measurements and the approximate within-wave
// z-scores. The z-scores standardize against the wave-by-sex sample, not a
// WHO growth reference, and are only computed for members aged 17 or under.
type Anthropometry struct {
	HeightCM Float `json:"height_cm"`
	WeightKG Float `json:"weight_kg"`
	ArmCM    Float `json:"arm_circumference_cm"`

	HeightZ Float `json:"height_z"`
	WeightZ Float `json:"weight_z"`
	ArmZ    Float `json:"arm_z"`
}

// TimeUse holds decimal-hour activity measures for a member-wave.
type TimeUse struct {
	ReadingHours  Float `json:"reading_hours"`
	HomeworkHours Float `json:"homework_hours"`
	TotalHours    Float `json:"total_child_hours"`
	Childcare     Bool  `json:"childcare"`
}

// Expenditure holds household-level spending, broadcast to every member of
// the household-wave. Shares are fractions of the total.
type Expenditure struct {
	Total        Float `json:"expenditure_total"`
	FoodShare    Float `json:"food_share"`
	ClothesShare Float `json:"clothes_share"`
	FuelShare    Float `json:"fuel_share"`
	OtherShare   Float `json:"other_share"`
}

// Health holds illness and care-seeking measures for a member-wave.
type Health struct {
	Ill              Bool  `json:"ill"`
	DaysSick         Int   `json:"days_sick"`
	SoughtCare       Bool  `json:"sought_care"`
	ImmunizationRate Float `json:"immunization_rate"`
}

// MemberRecord is one survey wave's observation of one household member
// after normalization and assembly. It is the unit the panel stitcher
// concatenates across waves.
type MemberRecord struct {
	Key  MemberKey `json:"-"`
	Wave Wave      `json:"wave"`

	// Demographics: the authoritative membership roster for the wave.
	Age           Int    `json:"age"`
	Sex           Sex    `json:"sex"`
	Role          Role   `json:"role"`
	BirthDate     Date   `json:"birth_date"`
	InterviewDate Date   `json:"interview_date"`
	InSchool      Bool   `json:"in_school"`
	EA            string `json:"ea"` // enumeration area, clustering unit for inference

	Depression    Depression    `json:"depression"`
	Cognitive     Cognitive     `json:"cognitive"`
	Anthropometry Anthropometry `json:"anthropometry"`
	TimeUse       TimeUse       `json:"time_use"`
	Expenditure   Expenditure   `json:"expenditure"`
	Health        Health        `json:"health"`

	// SourceRow is the record's position in the raw demographics extract.
	// Tie-break policies (duplicate keys, mother selection) are defined over
	// this order, not over incidental map iteration order.
	SourceRow int `json:"-"`
}
