package normalize

import (
	"strconv"
	"strings"
)

// RawKind discriminates the RawValue variants.
type RawKind int

const (
	// KindMissing marks an absent raw value.
	KindMissing RawKind = iota
	// KindLabel marks a free-text category label.
	KindLabel
	// KindCode marks a numeric code.
	KindCode
)

// RawValue is an untyped value as received from a source table: a label
// string, a numeric code, or missing. It carries no invariants and is purely
// transient.
type RawValue struct {
	Kind  RawKind
	Label string
	Code  float64
}

// Missing returns the missing RawValue.
func Missing() RawValue {
	return RawValue{Kind: KindMissing}
}

// Label returns a label-string RawValue. A blank label is missing.
func Label(s string) RawValue {
	if strings.TrimSpace(s) == "" {
		return Missing()
	}
	return RawValue{Kind: KindLabel, Label: s}
}

// Code returns a numeric-code RawValue.
func Code(v float64) RawValue {
	return RawValue{Kind: KindCode, Code: v}
}

// FromCell converts one raw spreadsheet cell into a RawValue. Numeric text
// becomes a code, anything else a label, blank cells missing. Thousands
// separators are tolerated since Excel exports insert them freely.
func FromCell(cell string) RawValue {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Missing()
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return Code(v)
	}
	return Label(s)
}

// IsMissing reports whether the value is absent.
func (r RawValue) IsMissing() bool {
	return r.Kind == KindMissing
}

// String renders the raw value for warning records.
func (r RawValue) String() string {
	switch r.Kind {
	case KindLabel:
		return r.Label
	case KindCode:
		return strconv.FormatFloat(r.Code, 'f', -1, 64)
	default:
		return "<missing>"
	}
}
