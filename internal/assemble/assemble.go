// Package assemble joins one wave's per-domain tables into member records
// and computes the within-wave derived scores.
//
// The demographics roster anchors a left-outer join: a member present in a
// test or health table but absent from demographics is not a member of the
// wave. Standardized cognitive subscores and the approximate anthropometric
// z-scores are computed against the wave's own sample, not an external norm,
// so scores are comparable within a wave only. That is a documented design
// limitation of the study, not a defect.
package assemble

import (
	"log/slog"

	"panelcli/internal/quality"
	"panelcli/internal/wavebuilder"
	"panelcli/pkg/contracts/domain"
)

// Tables bundles one wave's built domain tables. Any table may be empty when
// the module was not fielded that wave; the corresponding record fields stay
// missing.
type Tables struct {
	Demographics  map[domain.MemberKey]wavebuilder.Demographic
	Depression    map[domain.MemberKey]domain.Depression
	Cognitive     map[domain.MemberKey]domain.Cognitive
	Anthropometry map[domain.MemberKey]domain.Anthropometry
	TimeUse       map[domain.MemberKey]domain.TimeUse
	Expenditure   map[string]domain.Expenditure
	Health        map[domain.MemberKey]domain.Health
}

// Assembler joins domain tables for a single wave.
type Assembler struct {
	wave    domain.Wave
	quality *quality.Collector
	logger  *slog.Logger
}

// New creates an assembler for the given wave.
func New(wave domain.Wave, qc *quality.Collector, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		wave:    wave,
		quality: qc,
		logger:  logger.With(slog.String("component", "assemble"), slog.String("wave", wave.String())),
	}
}

// Assemble performs the left-outer join over the demographics anchor and
// fills in the wave-level derived scores.
func (a *Assembler) Assemble(t Tables) map[domain.MemberKey]domain.MemberRecord {
	out := make(map[domain.MemberKey]domain.MemberRecord, len(t.Demographics))

	for key, d := range t.Demographics {
		rec := domain.MemberRecord{
			Key:           key,
			Wave:          a.wave,
			Age:           d.Age,
			Sex:           d.Sex,
			Role:          d.Role,
			BirthDate:     d.BirthDate,
			InterviewDate: d.InterviewDate,
			InSchool:      d.InSchool,
			EA:            d.EA,
			SourceRow:     d.SourceRow,
		}

		if dep, ok := t.Depression[key]; ok {
			rec.Depression = dep
		}
		if cog, ok := t.Cognitive[key]; ok {
			rec.Cognitive = cog
		}
		if anth, ok := t.Anthropometry[key]; ok {
			rec.Anthropometry = anth
		}
		if tu, ok := t.TimeUse[key]; ok {
			rec.TimeUse = tu
		}
		if h, ok := t.Health[key]; ok {
			rec.Health = h
		}
		// Household-level spending broadcasts to every member.
		if exp, ok := t.Expenditure[key.HouseholdID]; ok {
			rec.Expenditure = exp
		}

		out[key] = rec
	}

	a.standardizeCognitive(out)
	a.standardizeAnthropometry(out)

	a.logger.Info("assembled wave records",
		"members", len(out),
		"depression_rows", len(t.Depression),
		"cognitive_rows", len(t.Cognitive),
	)
	return out
}
