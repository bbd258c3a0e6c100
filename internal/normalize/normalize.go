package normalize

import (
	"math"
	"strings"
	"time"

	"panelcli/pkg/contracts/domain"
)

// K10Items is the number of items in the Kessler inventory.
const K10Items = 10

// Result is the outcome of resolving one raw value against an encoding.
// Unrecognized distinguishes "the source had a value we could not map" from
// an ordinary absent value; builders turn the former into data-quality
// warnings.
type Result struct {
	Value        domain.Float
	Unrecognized bool
}

// Resolve maps a raw value to its canonical numeric value under the given
// encoding. Label comparison is case- and whitespace-insensitive. Values
// matching no known label or code resolve to missing; Resolve never fails.
func Resolve(raw RawValue, enc Encoding) Result {
	switch raw.Kind {
	case KindLabel:
		key := strings.ToLower(strings.TrimSpace(raw.Label))
		if v, ok := enc.Labels[key]; ok {
			return Result{Value: domain.NewFloat(v)}
		}
		return Result{Unrecognized: true}
	case KindCode:
		if v, ok := enc.Codes[raw.Code]; ok {
			return Result{Value: domain.NewFloat(v)}
		}
		return Result{Unrecognized: true}
	default:
		return Result{}
	}
}

// ResolveBool resolves a raw value against a binary encoding.
func ResolveBool(raw RawValue, enc Encoding) (domain.Bool, bool) {
	res := Resolve(raw, enc)
	if !res.Value.Valid {
		return domain.Bool{}, res.Unrecognized
	}
	return domain.NewBool(res.Value.Value != 0), false
}

// ResolveSex resolves a raw sex field.
func ResolveSex(raw RawValue) (domain.Sex, bool) {
	res := Resolve(raw, SexScale)
	if !res.Value.Valid {
		return domain.SexUnknown, res.Unrecognized
	}
	return domain.Sex(int(res.Value.Value)), false
}

// ResolveRole resolves a relationship-to-head field to a Role.
func ResolveRole(raw RawValue) (domain.Role, bool) {
	res := Resolve(raw, Relationship)
	if !res.Value.Valid {
		return domain.RoleUnknown, res.Unrecognized
	}
	return domain.Role(int(res.Value.Value)), false
}

// ResolveCount resolves a raw value expected to be a non-negative integer
// count (scores, days, counts of correct answers). Labels are not meaningful
// here; negative and fractional values are unrecognized rather than
// truncated.
func ResolveCount(raw RawValue) (domain.Int, bool) {
	switch raw.Kind {
	case KindCode:
		if raw.Code < 0 || raw.Code != math.Trunc(raw.Code) {
			return domain.Int{}, true
		}
		return domain.NewInt(int64(raw.Code)), false
	case KindLabel:
		return domain.Int{}, true
	default:
		return domain.Int{}, false
	}
}

// ResolveNumber resolves a raw value expected to be a plain measurement
// (height, weight, hours, amounts).
func ResolveNumber(raw RawValue) (domain.Float, bool) {
	switch raw.Kind {
	case KindCode:
		return domain.NewFloat(raw.Code), false
	case KindLabel:
		return domain.Float{}, true
	default:
		return domain.Float{}, false
	}
}

// K10Total sums the ten mapped inventory items. The total is missing unless
// at least minItems of the ten are present; partial inventories otherwise
// bias the row-sum downward, so this rule is deliberately stricter than a
// naive sum over whatever answered.
func K10Total(items []domain.Float, minItems int) domain.Int {
	present := 0
	sum := 0.0
	for _, it := range items {
		if it.Valid {
			present++
			sum += it.Value
		}
	}
	if present < minItems {
		return domain.Int{}
	}
	return domain.NewInt(int64(sum))
}

// dateFormats covers the date renderings observed across the three rounds.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"2-Jan-2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
}

// ParseDate parses a date string trying each known survey format in order.
func ParseDate(s string) (domain.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Date{}, false
	}
	for _, format := range dateFormats {
		if d, err := time.Parse(format, s); err == nil {
			return domain.NewDate(d), false
		}
	}
	return domain.Date{}, true
}

// ComposeDate builds a date from separately reported year/month/day fields,
// defaulting to mid-year when only the year is known and to mid-month when
// the day is unknown. A missing year yields a missing date.
func ComposeDate(year, month, day domain.Int) domain.Date {
	if !year.Valid {
		return domain.Date{}
	}
	m := time.July
	d := 1
	if month.Valid && month.Value >= 1 && month.Value <= 12 {
		m = time.Month(month.Value)
		d = 15
		if day.Valid && day.Value >= 1 && day.Value <= 31 {
			d = int(day.Value)
		}
	}
	return domain.NewDate(time.Date(int(year.Value), m, d, 0, 0, 0, 0, time.UTC))
}
