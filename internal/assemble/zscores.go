package assemble

import (
	"math"

	"panelcli/internal/roles"
	"panelcli/pkg/contracts/domain"
)

// meanSD returns the sample mean and standard deviation of the values.
func meanSD(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	sumSquared := 0.0
	for _, v := range values {
		sumSquared += (v - mean) * (v - mean)
	}
	sd = math.Sqrt(sumSquared / float64(len(values)))
	return mean, sd
}

// standardize converts a raw score to a z against the given moments. A zero
// or degenerate SD yields missing: a constant subscore carries no
// information and forcing it to 0 would smuggle it into the composite.
func standardize(raw domain.Int, mean, sd float64) domain.Float {
	if !raw.Valid || sd <= 0 {
		return domain.Float{}
	}
	return domain.NewFloat((float64(raw.Value) - mean) / sd)
}

// cognitiveSubscores enumerates the five raw subscores with accessors for
// reading and writing their standardized versions.
var cognitiveSubscores = []struct {
	raw func(*domain.Cognitive) domain.Int
	z   func(*domain.Cognitive) *domain.Float
}{
	{func(c *domain.Cognitive) domain.Int { return c.RavensCorrect }, func(c *domain.Cognitive) *domain.Float { return &c.RavensZ }},
	{func(c *domain.Cognitive) domain.Int { return c.DigitsForward }, func(c *domain.Cognitive) *domain.Float { return &c.ForwardZ }},
	{func(c *domain.Cognitive) domain.Int { return c.DigitsBackward }, func(c *domain.Cognitive) *domain.Float { return &c.BackwardZ }},
	{func(c *domain.Cognitive) domain.Int { return c.MathCorrect }, func(c *domain.Cognitive) *domain.Float { return &c.MathZ }},
	{func(c *domain.Cognitive) domain.Int { return c.EnglishCorrect }, func(c *domain.Cognitive) *domain.Float { return &c.EnglishZ }},
}

// standardizeCognitive fills each member's standardized subscores and
// composite. Moments come from all members of the wave with a non-missing
// raw score for that subtest. The composite is the mean of whichever
// standardized subscores are present; with none present it stays missing,
// never defaulted to zero.
func (a *Assembler) standardizeCognitive(records map[domain.MemberKey]domain.MemberRecord) {
	for s := range cognitiveSubscores {
		var values []float64
		for _, rec := range records {
			if raw := cognitiveSubscores[s].raw(&rec.Cognitive); raw.Valid {
				values = append(values, float64(raw.Value))
			}
		}
		mean, sd := meanSD(values)

		for key, rec := range records {
			raw := cognitiveSubscores[s].raw(&rec.Cognitive)
			*cognitiveSubscores[s].z(&rec.Cognitive) = standardize(raw, mean, sd)
			records[key] = rec
		}
	}

	for key, rec := range records {
		zs := []domain.Float{
			rec.Cognitive.RavensZ, rec.Cognitive.ForwardZ, rec.Cognitive.BackwardZ,
			rec.Cognitive.MathZ, rec.Cognitive.EnglishZ,
		}
		sum, n := 0.0, 0
		for _, z := range zs {
			if z.Valid {
				sum += z.Value
				n++
			}
		}
		if n > 0 {
			rec.Cognitive.Composite = domain.NewFloat(sum / float64(n))
		}
		records[key] = rec
	}
}

// anthroMeasures enumerates the raw measurements with their z-score slots.
var anthroMeasures = []struct {
	raw func(*domain.Anthropometry) domain.Float
	z   func(*domain.Anthropometry) *domain.Float
}{
	{func(an *domain.Anthropometry) domain.Float { return an.HeightCM }, func(an *domain.Anthropometry) *domain.Float { return &an.HeightZ }},
	{func(an *domain.Anthropometry) domain.Float { return an.WeightKG }, func(an *domain.Anthropometry) *domain.Float { return &an.WeightZ }},
	{func(an *domain.Anthropometry) domain.Float { return an.ArmCM }, func(an *domain.Anthropometry) *domain.Float { return &an.ArmZ }},
}

// standardizeAnthropometry computes the approximate growth z-scores:
// standardization against the wave-by-sex sample of members aged 17 and
// under. This approximates a true age-and-sex growth-reference z-score; it
// is NOT a clinical WHO z-score and the output schema documents it as such.
func (a *Assembler) standardizeAnthropometry(records map[domain.MemberKey]domain.MemberRecord) {
	eligible := func(rec domain.MemberRecord) bool {
		return rec.Age.Valid && rec.Age.Value <= roles.ChildMaxAge && rec.Sex != domain.SexUnknown
	}

	for m := range anthroMeasures {
		bySex := make(map[domain.Sex][]float64)
		for _, rec := range records {
			if !eligible(rec) {
				continue
			}
			if raw := anthroMeasures[m].raw(&rec.Anthropometry); raw.Valid {
				bySex[rec.Sex] = append(bySex[rec.Sex], raw.Value)
			}
		}

		moments := make(map[domain.Sex][2]float64, len(bySex))
		for sex, values := range bySex {
			mean, sd := meanSD(values)
			moments[sex] = [2]float64{mean, sd}
		}

		for key, rec := range records {
			if !eligible(rec) {
				continue
			}
			raw := anthroMeasures[m].raw(&rec.Anthropometry)
			mo, ok := moments[rec.Sex]
			if !ok || !raw.Valid || mo[1] <= 0 {
				continue
			}
			*anthroMeasures[m].z(&rec.Anthropometry) = domain.NewFloat((raw.Value - mo[0]) / mo[1])
			records[key] = rec
		}
	}
}
