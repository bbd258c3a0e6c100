package wavebuilder

import (
	"fmt"

	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// k10ItemAliases lists, per inventory item, the column names observed across
// the rounds.
var k10ItemAliases = func() [][]string {
	aliases := make([][]string, normalize.K10Items)
	for i := range aliases {
		n := i + 1
		aliases[i] = []string{
			fmt.Sprintf("k10_%d", n),
			fmt.Sprintf("k10q%d", n),
			fmt.Sprintf("kessler_%d", n),
			fmt.Sprintf("distress_q%d", n),
		}
	}
	return aliases
}()

// Depression builds the wave's K10 inventory table. threshold is the binary
// cutoff for the above-cut flag (20 for the main analysis; the prenatal
// strategy flags at 30 independently, downstream). minItems is the
// completeness floor below which the total is missing.
func (b *Builder) Depression(t *ingest.RawTable, threshold, minItems int) map[domain.MemberKey]domain.Depression {
	out := make(map[domain.MemberKey]domain.Depression)
	if t == nil {
		b.missingTable(ingest.TableDepression)
		return out
	}

	itemColumns := 0
	for _, aliases := range k10ItemAliases {
		if t.HasColumn(aliases...) {
			itemColumns++
		}
	}
	if itemColumns == 0 {
		b.driftWarn(t, "k10 items")
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		items := make([]domain.Float, normalize.K10Items)
		present := 0
		for i, aliases := range k10ItemAliases {
			raw := t.Field(row, aliases...)
			res := normalize.Resolve(raw, normalize.Frequency5)
			if res.Unrecognized {
				b.quality.Addf(t.Name, key.String(), fmt.Sprintf("k10_%d", i+1),
					quality.ReasonNormalizationMiss, "unrecognized frequency value %q", raw)
			}
			items[i] = res.Value
			if res.Value.Valid {
				present++
			}
		}

		dep := domain.Depression{
			Score:        normalize.K10Total(items, minItems),
			ItemsPresent: present,
		}
		// A partial inventory can total below the scale floor of 10; such a
		// score has no interpretation on the scale and is discarded.
		if dep.Score.Valid && (dep.Score.Value < domain.K10Min || dep.Score.Value > domain.K10Max) {
			b.quality.Addf(t.Name, key.String(), "k10_score",
				quality.ReasonImplausibleValue, "total %d outside scale range", dep.Score.Value)
			dep.Score = domain.Int{}
		}
		dep.Level = domain.ClassifyDistress(dep.Score)
		if dep.Score.Valid {
			dep.AboveCut = domain.NewBool(dep.Score.Value >= int64(threshold))
		}

		pregnant, bad := normalize.ResolveBool(
			t.Field(row, "pregnant_now", "pregnant", "currently_pregnant"), normalize.YesNo)
		if bad {
			b.quality.Addf(t.Name, key.String(), "pregnant_now",
				quality.ReasonNormalizationMiss, "unrecognized pregnancy value")
		}
		dep.PregnantNow = pregnant

		out[key] = dep
	})

	b.logger.Info("built depression table",
		"table", t.Name,
		"members", len(out),
		"item_columns", itemColumns,
	)
	return out
}
