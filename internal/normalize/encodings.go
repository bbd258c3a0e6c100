package normalize

// Encoding declares how one categorical scale maps raw labels and codes to
// canonical values. Label comparison ignores case and surrounding
// whitespace; code lookup is exact.
type Encoding struct {
	Name   string
	Labels map[string]float64
	Codes  map[float64]float64
}

// Built-in scales. The label sets cover the variants observed across the
// three survey rounds; codes follow the questionnaire codebooks.
var (
	// YesNo maps binary yes/no questions to 1/0. Questionnaires code
	// 1=yes, 2=no.
	YesNo = Encoding{
		Name: "yes_no",
		Labels: map[string]float64{
			"yes": 1, "no": 0, "y": 1, "n": 0,
		},
		Codes: map[float64]float64{1: 1, 2: 0, 0: 0},
	}

	// Frequency5 is the K10 five-point frequency scale. Numeric codes 1-5
	// pass through unchanged.
	Frequency5 = Encoding{
		Name: "frequency5",
		Labels: map[string]float64{
			"none of the time":     1,
			"a little of the time": 2,
			"some of the time":     3,
			"most of the time":     4,
			"all of the time":      5,
		},
		Codes: map[float64]float64{1: 1, 2: 2, 3: 3, 4: 4, 5: 5},
	}

	// PassFail scores single test items: 1 correct, 0 incorrect.
	PassFail = Encoding{
		Name: "pass_fail",
		Labels: map[string]float64{
			"pass": 1, "correct": 1, "right": 1,
			"fail": 0, "incorrect": 0, "wrong": 0,
		},
		Codes: map[float64]float64{1: 1, 0: 0, 2: 0},
	}

	// SexScale maps recorded sex to the domain codes (1 male, 2 female).
	SexScale = Encoding{
		Name: "sex",
		Labels: map[string]float64{
			"male": 1, "m": 1, "female": 2, "f": 2,
		},
		Codes: map[float64]float64{1: 1, 2: 2},
	}

	// Relationship maps relationship-to-head declarations to role codes
	// matching domain.Role ordinals.
	Relationship = Encoding{
		Name: "relationship",
		Labels: map[string]float64{
			"head":                1,
			"household head":      1,
			"spouse":              2,
			"wife":                2,
			"husband":             2,
			"son":                 3,
			"daughter":            3,
			"son/daughter":        3,
			"child":               3,
			"step child":          4,
			"stepchild":           4,
			"step son/daughter":   4,
			"grandchild":          5,
			"grand child":         5,
			"grandson":            5,
			"granddaughter":       5,
			"parent":              6,
			"father":              6,
			"mother":              6,
			"parent in law":       7,
			"parent-in-law":       7,
			"mother in law":       7,
			"mother-in-law":       7,
			"father in law":       7,
			"father-in-law":       7,
			"sibling":             8,
			"brother":             8,
			"sister":              8,
			"brother/sister":      8,
			"other relative":      9,
			"other family member": 9,
			"non relative":        10,
			"non-relative":        10,
			"servant":             10,
			"other":               9,
		},
		Codes: map[float64]float64{
			1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8, 9: 9, 10: 10,
		},
	}
)
