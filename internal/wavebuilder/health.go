package wavebuilder

import (
	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// Health builds the wave's illness and care-seeking table. The immunization
// rate comes from received/due counts when both are present, else from a
// directly reported rate column.
func (b *Builder) Health(t *ingest.RawTable) map[domain.MemberKey]domain.Health {
	out := make(map[domain.MemberKey]domain.Health)
	if t == nil {
		b.missingTable(ingest.TableHealth)
		return out
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		h := domain.Health{}

		ill, bad := normalize.ResolveBool(t.Field(row, "ill", "was_ill", "sick_recently"), normalize.YesNo)
		if bad {
			b.quality.Addf(t.Name, key.String(), "ill", quality.ReasonNormalizationMiss,
				"unrecognized illness value")
		}
		h.Ill = ill

		days, bad := normalize.ResolveCount(t.Field(row, "days_sick", "sick_days"))
		if bad {
			b.quality.Addf(t.Name, key.String(), "days_sick", quality.ReasonNormalizationMiss,
				"unrecognized days-sick value")
		}
		if days.Valid && days.Value > 31 {
			b.quality.Addf(t.Name, key.String(), "days_sick", quality.ReasonImplausibleValue,
				"%d sick days in a one-month recall", days.Value)
			days = domain.Int{}
		}
		h.DaysSick = days

		care, bad := normalize.ResolveBool(t.Field(row, "sought_care", "care_sought", "visited_clinic"), normalize.YesNo)
		if bad {
			b.quality.Addf(t.Name, key.String(), "sought_care", quality.ReasonNormalizationMiss,
				"unrecognized care-seeking value")
		}
		h.SoughtCare = care

		h.ImmunizationRate = b.immunizationRate(t, row, key)
		out[key] = h
	})

	b.logger.Info("built health table", "table", t.Name, "members", len(out))
	return out
}

func (b *Builder) immunizationRate(t *ingest.RawTable, row int, key domain.MemberKey) domain.Float {
	received, _ := normalize.ResolveCount(t.Field(row, "vacc_received", "imm_received", "vaccines_received"))
	due, _ := normalize.ResolveCount(t.Field(row, "vacc_due", "imm_due", "vaccines_due"))
	if received.Valid && due.Valid && due.Value > 0 {
		if received.Value > due.Value {
			b.quality.Addf(t.Name, key.String(), "immunization_rate",
				quality.ReasonImplausibleValue, "received %d of %d due", received.Value, due.Value)
			return domain.Float{}
		}
		return domain.NewFloat(float64(received.Value) / float64(due.Value))
	}

	rate, bad := normalize.ResolveNumber(t.Field(row, "immunization_rate", "imm_rate"))
	if bad {
		b.quality.Addf(t.Name, key.String(), "immunization_rate",
			quality.ReasonNormalizationMiss, "non-numeric rate")
		return domain.Float{}
	}
	if rate.Valid && (rate.Value < 0 || rate.Value > 1) {
		b.quality.Addf(t.Name, key.String(), "immunization_rate",
			quality.ReasonImplausibleValue, "rate %g outside [0,1]", rate.Value)
		return domain.Float{}
	}
	return rate
}
