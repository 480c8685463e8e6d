package dataset

import "fmt"

// SchemaError reports a reference to a column that is missing from the
// schema or has an incompatible type. It is always fatal to the call.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
}

// ValueError reports an out-of-range parameter, such as a sample fraction
// outside (0, 1]. It is always fatal to the call.
type ValueError struct {
	Param  string
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("value error: %s: %s", e.Param, e.Reason)
}

// ParseError reports a value that could not be parsed as a timestamp during
// resampling. It is fatal only to the entity being processed; other entities
// still produce results.
type ParseError struct {
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: column %q: cannot parse %q as timestamp: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
