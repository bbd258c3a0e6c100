// Package wavebuilder turns one wave's raw survey module tables into
// canonical per-member records keyed by (household, member).
//
// Each survey module gets its own builder method. All of them share the same
// keying discipline: rows with unusable identifiers are skipped with a
// warning, and duplicate (household, member) keys keep the first occurrence
// in source-row order. First-wins is a named policy, not an accident of the
// underlying data structure. Raw exports duplicate keys often enough that
// treating it as an error would abort every run.
package wavebuilder

import (
	"log/slog"

	"panelcli/internal/ingest"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// Column alias lists for the identifier fields. Naming drifts across waves;
// the first alias present in a table's header wins.
var (
	householdAliases = []string{"hhid", "household_id", "hh_id", "household"}
	memberAliases    = []string{"member_id", "memberid", "pid", "person_id", "mid"}
)

// Builder constructs canonical per-domain tables for a single wave.
type Builder struct {
	wave    domain.Wave
	quality *quality.Collector
	logger  *slog.Logger
}

// New creates a builder for the given wave.
func New(wave domain.Wave, qc *quality.Collector, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		wave:    wave,
		quality: qc,
		logger:  logger.With(slog.String("component", "wavebuilder"), slog.String("wave", wave.String())),
	}
}

// eachKeyedRow iterates a table's rows in source order, resolving the member
// key and applying the first-wins duplicate policy. fn runs once per
// retained row.
func (b *Builder) eachKeyedRow(t *ingest.RawTable, fn func(row int, key domain.MemberKey)) {
	if t == nil {
		return
	}
	seen := make(map[domain.MemberKey]bool, t.Len())
	for i := 0; i < t.Len(); i++ {
		hh := t.Text(i, householdAliases...)
		member := t.Text(i, memberAliases...)
		if hh == "" || member == "" {
			b.quality.Addf(t.Name, hh+"/"+member, "identifiers", quality.ReasonJoinMiss,
				"row %d has unusable identifiers", i+1)
			continue
		}
		key := domain.MemberKey{HouseholdID: hh, MemberID: member}
		if seen[key] {
			b.quality.Addf(t.Name, key.String(), "identifiers", quality.ReasonDuplicateKey,
				"duplicate key at row %d discarded, first occurrence kept", i+1)
			continue
		}
		seen[key] = true
		fn(i, key)
	}
}

// missingTable records the absence of an entire module table for the wave.
// Dependent fields stay missing for every member; the wave itself proceeds.
func (b *Builder) missingTable(table string) {
	b.quality.Addf(table, b.wave.String(), "", quality.ReasonJoinMiss,
		"module not fielded or extract absent for %s", b.wave)
}

// driftWarn records an expected column absent from a wave's table. The whole
// derived field is missing for the wave.
func (b *Builder) driftWarn(t *ingest.RawTable, field string) {
	b.quality.Addf(t.Name, b.wave.String(), field, quality.ReasonSchemaDrift,
		"no column matching %q in header", field)
}
