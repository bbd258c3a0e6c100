package wavebuilder

import (
	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// timeUseActivities lists the diary activities summed into total child time.
// Reading and homework are also kept as their own measures.
var timeUseActivities = []struct {
	name      string
	hourAlias []string
	minAlias  []string
}{
	{"reading", []string{"reading_hr", "read_hours", "reading_hours"}, []string{"reading_min", "read_minutes", "reading_minutes"}},
	{"homework", []string{"homework_hr", "hw_hours", "homework_hours"}, []string{"homework_min", "hw_minutes", "homework_minutes"}},
	{"play", []string{"play_hr", "play_hours"}, []string{"play_min", "play_minutes"}},
	{"chores", []string{"chores_hr", "chores_hours"}, []string{"chores_min", "chores_minutes"}},
	{"care", []string{"care_hr", "care_hours"}, []string{"care_min", "care_minutes"}},
}

// TimeUse builds the wave's time diary table. Each activity's hour and
// minute fields collapse to decimal hours; the total sums whichever
// activities the member reported. A member reporting nothing at all has a
// missing total, not zero.
func (b *Builder) TimeUse(t *ingest.RawTable) map[domain.MemberKey]domain.TimeUse {
	out := make(map[domain.MemberKey]domain.TimeUse)
	if t == nil {
		b.missingTable(ingest.TableTimeUse)
		return out
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		tu := domain.TimeUse{}
		total := 0.0
		anyActivity := false

		for _, act := range timeUseActivities {
			hours := b.decimalHours(t, row, key, act.name, act.hourAlias, act.minAlias)
			if hours.Valid {
				anyActivity = true
				total += hours.Value
			}
			switch act.name {
			case "reading":
				tu.ReadingHours = hours
			case "homework":
				tu.HomeworkHours = hours
			}
		}
		if anyActivity {
			tu.TotalHours = domain.NewFloat(total)
		}

		childcare, bad := normalize.ResolveBool(
			t.Field(row, "childcare", "in_childcare", "attends_childcare"), normalize.YesNo)
		if bad {
			b.quality.Addf(t.Name, key.String(), "childcare",
				quality.ReasonNormalizationMiss, "unrecognized childcare value")
		}
		tu.Childcare = childcare

		out[key] = tu
	})

	b.logger.Info("built time-use table", "table", t.Name, "members", len(out))
	return out
}

// decimalHours folds an activity's hour and minute fields into decimal
// hours. Hours alone are enough; minutes alone count as a fraction of an
// hour; both missing means the activity was not reported.
func (b *Builder) decimalHours(t *ingest.RawTable, row int, key domain.MemberKey, activity string, hourAliases, minAliases []string) domain.Float {
	hoursRaw := t.Field(row, hourAliases...)
	minsRaw := t.Field(row, minAliases...)

	hours, badH := normalize.ResolveNumber(hoursRaw)
	mins, badM := normalize.ResolveNumber(minsRaw)
	if badH || badM {
		b.quality.Addf(t.Name, key.String(), activity,
			quality.ReasonNormalizationMiss, "non-numeric time value")
	}
	if !hours.Valid && !mins.Valid {
		return domain.Float{}
	}

	total := 0.0
	if hours.Valid {
		total += hours.Value
	}
	if mins.Valid {
		total += mins.Value / 60
	}
	if total < 0 || total > 24 {
		b.quality.Addf(t.Name, key.String(), activity,
			quality.ReasonImplausibleValue, "%g hours in a day", total)
		return domain.Float{}
	}
	return domain.NewFloat(total)
}
