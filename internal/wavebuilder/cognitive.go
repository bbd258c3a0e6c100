package wavebuilder

import (
	"fmt"
	"strings"

	"panelcli/internal/ingest"
	"panelcli/internal/normalize"
	"panelcli/internal/quality"
	"panelcli/pkg/contracts/domain"
)

// AnswerKeys holds the fixed per-item answer keys for the keyed tests.
// Responses are matched case-insensitively.
type AnswerKeys struct {
	Ravens  []string
	Math    []string
	English []string
}

// DefaultAnswerKeys returns the study's answer keys.
func DefaultAnswerKeys() AnswerKeys {
	return AnswerKeys{
		Ravens:  []string{"B", "D", "A", "C", "E", "B", "D", "C", "A", "E", "D", "B"},
		Math:    []string{"12", "7", "45", "9", "63", "8", "110", "36", "15", "81"},
		English: []string{"C", "A", "D", "B", "A", "C", "B", "D"},
	}
}

// Digit-span level scales. Forward and backward spans start at different
// sequence lengths, so achieved levels sit on independent scales offset by
// these bases.
const (
	ForwardBaseLevel  = 2
	BackwardBaseLevel = 1
	digitSpanLevels   = 8
	digitSpanTrials   = 3
)

// Cognitive builds the wave's cognitive test table: count-correct scores for
// the keyed tests and achieved levels for the digit spans. Standardization
// happens at wave assembly, not here.
func (b *Builder) Cognitive(t *ingest.RawTable, keys AnswerKeys) map[domain.MemberKey]domain.Cognitive {
	out := make(map[domain.MemberKey]domain.Cognitive)
	if t == nil {
		b.missingTable(ingest.TableCognitive)
		return out
	}

	b.eachKeyedRow(t, func(row int, key domain.MemberKey) {
		c := domain.Cognitive{
			RavensCorrect:  b.countCorrect(t, row, "ravens", keys.Ravens),
			MathCorrect:    b.countCorrect(t, row, "math", keys.Math),
			EnglishCorrect: b.countCorrect(t, row, "english", keys.English),
			DigitsForward:  b.digitSpanLevel(t, row, "dsf", ForwardBaseLevel),
			DigitsBackward: b.digitSpanLevel(t, row, "dsb", BackwardBaseLevel),
		}
		out[key] = c
	})

	b.logger.Info("built cognitive table", "table", t.Name, "members", len(out))
	return out
}

// countCorrect scores a keyed test: the count of response cells matching the
// answer key, case-insensitively. The score is missing when the wave's
// extract carries no response columns for the test, or when the member left
// every item blank. An answered-but-wrong item counts zero; a blank item is
// simply not correct.
func (b *Builder) countCorrect(t *ingest.RawTable, row int, prefix string, key []string) domain.Int {
	columns := 0
	answered := 0
	correct := int64(0)
	for i, want := range key {
		aliases := []string{
			fmt.Sprintf("%s_%d", prefix, i+1),
			fmt.Sprintf("%s_q%d", prefix, i+1),
			fmt.Sprintf("%s_item%d", prefix, i+1),
		}
		if !t.HasColumn(aliases...) {
			continue
		}
		columns++
		resp := t.Text(row, aliases...)
		if resp == "" {
			continue
		}
		answered++
		if strings.EqualFold(resp, want) {
			correct++
		}
	}
	if columns == 0 || answered == 0 {
		return domain.Int{}
	}
	return domain.NewInt(correct)
}

// digitSpanLevel scores one span direction: achieved level is the highest
// level with at least one correct trial, plus the direction's base level. A
// member who attempted trials but passed none scores the base itself. No
// trials present means the member did not sit the test.
func (b *Builder) digitSpanLevel(t *ingest.RawTable, row int, prefix string, base int64) domain.Int {
	attempted := false
	highest := int64(0)
	for level := 1; level <= digitSpanLevels; level++ {
		for trial := 1; trial <= digitSpanTrials; trial++ {
			aliases := []string{
				fmt.Sprintf("%s_l%d_t%d", prefix, level, trial),
				fmt.Sprintf("%s_%d_%d", prefix, level, trial),
			}
			raw := t.Field(row, aliases...)
			if raw.IsMissing() {
				continue
			}
			res := normalize.Resolve(raw, normalize.PassFail)
			if res.Unrecognized {
				b.quality.Addf(t.Name, t.Text(row, householdAliases...), fmt.Sprintf("%s_l%d_t%d", prefix, level, trial),
					quality.ReasonNormalizationMiss, "unrecognized trial outcome %q", raw)
				continue
			}
			if !res.Value.Valid {
				continue
			}
			attempted = true
			if res.Value.Value != 0 && int64(level) > highest {
				highest = int64(level)
			}
		}
	}
	if !attempted {
		return domain.Int{}
	}
	return domain.NewInt(base + highest)
}
