package wavebuilder

import (
	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// Plausibility bounds for raw measurements. Out-of-bound values are
// discarded to missing with a warning; field-entered anthropometry is noisy
// and a single transposed digit otherwise lands in the z-score sample.
const (
	minHeightCM = 30
	maxHeightCM = 250
	minWeightKG = 1
	maxWeightKG = 200
	minArmCM    = 5
	maxArmCM    = 60
)

// Anthropometry builds the wave's raw measurement table. Z-scores need the
// full wave's cross-member statistics and are computed at assembly.
func (b *Builder) Anthropometry(t *ingest.RawTable) map[domain.MemberKey]domain.Anthropometry {
	out := make(map[domain.MemberKey]domain.Anthropometry)
	if t == nil {
		b.missingTable(ingest.TableAnthropometry)
		return out
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		a := domain.Anthropometry{
			HeightCM: b.measurement(t, row, key, "height_cm", minHeightCM, maxHeightCM,
				"height_cm", "height", "stature_cm"),
			WeightKG: b.measurement(t, row, key, "weight_kg", minWeightKG, maxWeightKG,
				"weight_kg", "weight"),
			ArmCM: b.measurement(t, row, key, "arm_circumference_cm", minArmCM, maxArmCM,
				"arm_circumference_cm", "arm_circ", "muac", "arm_circumference"),
		}
		out[key] = a
	})

	b.logger.Info("built anthropometry table", "table", t.Name, "members", len(out))
	return out
}

// measurement resolves one raw measurement with a plausibility guard.
func (b *Builder) measurement(t *ingest.RawTable, row int, key domain.MemberKey, field string, lo, hi float64, aliases ...string) domain.Float {
	raw := t.Field(row, aliases...)
	v, bad := normalize.ResolveNumber(raw)
	if bad {
		b.quality.Addf(t.Name, key.String(), field, quality.ReasonNormalizationMiss,
			"non-numeric measurement %q", raw)
		return domain.Float{}
	}
	if !v.Valid {
		return v
	}
	if v.Value < lo || v.Value > hi {
		b.quality.Addf(t.Name, key.String(), field, quality.ReasonImplausibleValue,
			"%g outside [%g, %g]", v.Value, lo, hi)
		return domain.Float{}
	}
	return v
}
