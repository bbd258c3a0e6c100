package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// Float is a float64 that distinguishes missing from zero. Survey-derived
// measures are missing far more often than they are zero, and conflating the
// two silently corrupts every downstream estimate, so the zero value of the
// type is "missing" rather than 0.
type Float struct {
	Value float64
	Valid bool
}

// NewFloat returns a present Float.
func NewFloat(v float64) Float {
	return Float{Value: v, Valid: true}
}

// MarshalJSON serializes missing values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// String formats the value for tabular export; missing renders as an empty cell.
func (f Float) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Int is an int64 with explicit missingness.
type Int struct {
	Value int64
	Valid bool
}

// NewInt returns a present Int.
func NewInt(v int64) Int {
	return Int{Value: v, Valid: true}
}

// Float converts to a Float, preserving missingness.
func (i Int) Float() Float {
	if !i.Valid {
		return Float{}
	}
	return NewFloat(float64(i.Value))
}

// MarshalJSON serializes missing values as null.
func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(i.Value)
}

// String formats the value for tabular export; missing renders as an empty cell.
func (i Int) String() string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Value, 10)
}

// Bool is a bool with explicit missingness.
type Bool struct {
	Value bool
	Valid bool
}

// NewBool returns a present Bool.
func NewBool(v bool) Bool {
	return Bool{Value: v, Valid: true}
}

// True reports whether the value is present and true.
func (b Bool) True() bool {
	return b.Valid && b.Value
}

// MarshalJSON serializes missing values as null.
func (b Bool) MarshalJSON() ([]byte, error) {
	if !b.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(b.Value)
}

// String formats the value for tabular export as 1/0; missing renders as an
// empty cell.
func (b Bool) String() string {
	if !b.Valid {
		return ""
	}
	if b.Value {
		return "1"
	}
	return "0"
}

// Date is a calendar date with explicit missingness.
type Date struct {
	Value time.Time
	Valid bool
}

// NewDate returns a present Date.
func NewDate(v time.Time) Date {
	return Date{Value: v, Valid: true}
}

// MarshalJSON serializes missing values as null and present values as
// ISO-8601 dates.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value.Format("2006-01-02"))
}

// String formats the value for tabular export; missing renders as an empty cell.
func (d Date) String() string {
	if !d.Valid {
		return ""
	}
	return d.Value.Format("2006-01-02")
}
