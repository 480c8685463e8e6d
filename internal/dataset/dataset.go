// Package dataset implements the in-memory trip dataset and the four
// transformations the analysis pipeline is built from: numeric predicate
// filtering, seeded sampling, group-and-rank counting, and daily time-bucket
// resampling. Every transformation returns a new Dataset; inputs are never
// mutated.
package dataset

import (
	"time"
)

// Type is the declared type of a column.
type Type int

const (
	Int Type = iota
	Float
	String
	Time
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Numeric reports whether values of this type can be used in a numeric predicate.
func (t Type) Numeric() bool {
	return t == Int || t == Float
}

// Field is one column of a schema.
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// Schema is the ordered set of columns shared by every row of a Dataset.
// It is fixed per dataset and preserved by Filter and Sample.
type Schema []Field

// Field returns the schema entry for name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Has reports whether the schema contains a column called name.
func (s Schema) Has(name string) bool {
	_, ok := s.Field(name)
	return ok
}

// Row is one record. Values are int64, float64, string or time.Time;
// column order comes from the Schema, not from the map.
type Row map[string]any

// Dataset is an immutable ordered collection of rows sharing one schema.
type Dataset struct {
	schema Schema
	rows   []Row
}

// New builds a Dataset over the given rows. The rows slice is owned by the
// Dataset afterwards; callers must not mutate it.
func New(schema Schema, rows []Row) *Dataset {
	return &Dataset{schema: schema, rows: rows}
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() Schema {
	return d.schema
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns the underlying rows in order. The slice must be treated as
// read-only.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Column extracts a single column as a flat sequence of values, in row
// order. This is the outbound shape handed to histogram renderers.
func (d *Dataset) Column(name string) ([]any, error) {
	if !d.schema.Has(name) {
		return nil, &SchemaError{Column: name, Reason: "column not in schema"}
	}
	vals := make([]any, 0, len(d.rows))
	for _, r := range d.rows {
		vals = append(vals, r[name])
	}
	return vals, nil
}

// numeric coerces a row value to float64 for predicate evaluation.
func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// day truncates a timestamp to midnight UTC of its calendar day.
func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
