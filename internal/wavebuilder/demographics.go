package wavebuilder

import (
	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// Demographic is one wave's demographic observation of a member. The
// demographics table is the authoritative membership roster: members absent
// from it are dropped from the wave entirely.
type Demographic struct {
	Key           domain.MemberKey
	SourceRow     int
	Age           domain.Int
	Sex           domain.Sex
	Role          domain.Role
	BirthDate     domain.Date
	InterviewDate domain.Date
	InSchool      domain.Bool
	EA            string
}

// MaxPlausibleAge bounds reported ages; beyond it the value is discarded to
// missing as a data-quality guard.
const MaxPlausibleAge = 110

// Demographics builds the wave's demographic roster.
func (b *Builder) Demographics(t *ingest.RawTable) map[domain.MemberKey]Demographic {
	out := make(map[domain.MemberKey]Demographic)
	if t == nil {
		b.missingTable(ingest.TableDemographics)
		return out
	}

	for _, field := range []struct {
		name    string
		aliases []string
	}{
		{"age", []string{"age", "age_years", "member_age"}},
		{"sex", []string{"sex", "gender"}},
		{"relationship", []string{"relationship", "rel_to_head", "relation", "rel_head"}},
	} {
		if !t.HasColumn(field.aliases...) {
			b.driftWarn(t, field.name)
		}
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		d := Demographic{Key: key, SourceRow: row}

		age, bad := normalize.ResolveCount(t.Field(row, "age", "age_years", "member_age"))
		if bad {
			b.quality.Addf(t.Name, key.String(), "age", quality.ReasonNormalizationMiss,
				"unrecognized age %q", t.Field(row, "age", "age_years", "member_age"))
		}
		if age.Valid && age.Value > MaxPlausibleAge {
			b.quality.Addf(t.Name, key.String(), "age", quality.ReasonImplausibleValue,
				"age %d beyond plausible bound", age.Value)
			age = domain.Int{}
		}
		d.Age = age

		sex, bad := normalize.ResolveSex(t.Field(row, "sex", "gender"))
		if bad {
			b.quality.Addf(t.Name, key.String(), "sex", quality.ReasonNormalizationMiss,
				"unrecognized sex %q", t.Field(row, "sex", "gender"))
		}
		d.Sex = sex

		role, bad := normalize.ResolveRole(t.Field(row, "relationship", "rel_to_head", "relation", "rel_head"))
		if bad {
			b.quality.Addf(t.Name, key.String(), "relationship", quality.ReasonNormalizationMiss,
				"unrecognized relationship %q", t.Field(row, "relationship", "rel_to_head", "relation", "rel_head"))
		}
		d.Role = role

		d.BirthDate = b.birthDate(t, row, key)
		d.InterviewDate = b.interviewDate(t, row, key)

		inSchool, bad := normalize.ResolveBool(t.Field(row, "in_school", "enrolled", "attending_school"), normalize.YesNo)
		if bad {
			b.quality.Addf(t.Name, key.String(), "in_school", quality.ReasonNormalizationMiss,
				"unrecognized schooling status")
		}
		d.InSchool = inSchool
		d.EA = t.Text(row, "ea", "ea_id", "enumeration_area", "cluster")

		out[key] = d
	})

	b.logger.Info("built demographics roster",
		"table", t.Name,
		"members", len(out),
		"rows", t.Len(),
	)
	return out
}

// birthDate prefers a full reported date, then separately reported
// year/month/day fields with mid-year and mid-month defaults.
func (b *Builder) birthDate(t *ingest.RawTable, row int, key domain.MemberKey) domain.Date {
	if s := t.Text(row, "birth_date", "dob", "date_of_birth"); s != "" {
		d, bad := normalize.ParseDate(s)
		if bad {
			b.quality.Addf(t.Name, key.String(), "birth_date", quality.ReasonNormalizationMiss,
				"unparseable birth date %q", s)
		}
		if d.Valid {
			return d
		}
	}

	year, _ := normalize.ResolveCount(t.Field(row, "birth_year", "dob_year", "yob"))
	month, _ := normalize.ResolveCount(t.Field(row, "birth_month", "dob_month"))
	day, _ := normalize.ResolveCount(t.Field(row, "birth_day", "dob_day"))
	return normalize.ComposeDate(year, month, day)
}

// interviewDate reads the household's interview date from the roster row.
func (b *Builder) interviewDate(t *ingest.RawTable, row int, key domain.MemberKey) domain.Date {
	s := t.Text(row, "interview_date", "int_date", "survey_date", "date_of_interview")
	if s == "" {
		return domain.Date{}
	}
	d, bad := normalize.ParseDate(s)
	if bad {
		b.quality.Addf(t.Name, key.String(), "interview_date", quality.ReasonNormalizationMiss,
			"unparseable interview date %q", s)
	}
	return d
}
