// Package normalize converts heterogeneous raw survey field encodings into
// canonical typed values.
//
// The three survey rounds were fielded with independently designed
// instruments: the same concept arrives as a free-text category label in one
// extract and as a numeric code in another, sometimes varying column by
// column within a single wave. Rather than branching on encoding at every
// field site, callers construct a RawValue (a tagged variant over label,
// code, and missing) and resolve it against a declarative Encoding table.
// Adding a field's encoding is a data entry, not a new code branch.
//
// Normalization never fails: a raw value that matches no known label or code
// for its declared encoding resolves to missing and is reported as a
// data-quality warning. Only the depression inventory carries extra
// aggregation logic here (the K10 completeness rule), because partial
// inventories bias a naive row-sum.
package normalize
