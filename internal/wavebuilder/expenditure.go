package wavebuilder

import (
	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// expenditureCategory maps item-level category declarations to the four
// reporting groups. Anything the scale does not recognize lands in "other"
// with a warning; the amount is household spending either way and dropping
// it would understate the total.
var expenditureCategory = normalize.Encoding{
	Name: "expenditure_category",
	Labels: map[string]float64{
		"food": 1, "foodstuff": 1, "groceries": 1,
		"clothing": 2, "clothes": 2, "garments": 2,
		"fuel": 3, "firewood": 3, "charcoal": 3, "kerosene": 3, "energy": 3,
		"other": 4, "misc": 4, "miscellaneous": 4,
	},
	Codes: map[float64]float64{1: 1, 2: 2, 3: 3, 4: 4},
}

// Expenditure aggregates the wave's item-level spending rows to household
// level; the assembler later broadcasts each household's record to its
// members. Shares are fractions of the household total.
func (b *Builder) Expenditure(t *ingest.RawTable) map[string]domain.Expenditure {
	out := make(map[string]domain.Expenditure)
	if t == nil {
		b.missingTable(ingest.TableExpenditure)
		return out
	}

	type sums struct {
		total, food, clothes, fuel, other float64
		items                             int
	}
	byHousehold := make(map[string]*sums)

	for i := 0; i < t.Len(); i++ {
		hh := t.Text(i, householdAliases...)
		if hh == "" {
			b.quality.Addf(t.Name, "", "identifiers", quality.ReasonJoinMiss,
				"expenditure row %d has no household id", i+1)
			continue
		}

		amountRaw := t.Field(i, "amount", "value", "spent", "expenditure")
		amount, bad := normalize.ResolveNumber(amountRaw)
		if bad {
			b.quality.Addf(t.Name, hh, "amount", quality.ReasonNormalizationMiss,
				"non-numeric amount %q", amountRaw)
			continue
		}
		if !amount.Valid {
			continue
		}
		if amount.Value < 0 {
			b.quality.Addf(t.Name, hh, "amount", quality.ReasonImplausibleValue,
				"negative amount %g", amount.Value)
			continue
		}

		catRaw := t.Field(i, "category", "item", "item_category")
		cat := normalize.Resolve(catRaw, expenditureCategory)
		code := 4.0
		if cat.Value.Valid {
			code = cat.Value.Value
		} else if cat.Unrecognized {
			b.quality.Addf(t.Name, hh, "category", quality.ReasonNormalizationMiss,
				"unrecognized category %q counted as other", catRaw)
		}

		s := byHousehold[hh]
		if s == nil {
			s = &sums{}
			byHousehold[hh] = s
		}
		s.items++
		s.total += amount.Value
		switch code {
		case 1:
			s.food += amount.Value
		case 2:
			s.clothes += amount.Value
		case 3:
			s.fuel += amount.Value
		default:
			s.other += amount.Value
		}
	}

	for hh, s := range byHousehold {
		e := domain.Expenditure{Total: domain.NewFloat(s.total)}
		if s.total > 0 {
			e.FoodShare = domain.NewFloat(s.food / s.total)
			e.ClothesShare = domain.NewFloat(s.clothes / s.total)
			e.FuelShare = domain.NewFloat(s.fuel / s.total)
			e.OtherShare = domain.NewFloat(s.other / s.total)
		}
		out[hh] = e
	}

	b.logger.Info("built expenditure table", "table", t.Name, "households", len(out))
	return out
}
