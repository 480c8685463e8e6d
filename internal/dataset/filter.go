package dataset

// Op is a numeric comparison operator.
type Op string

const (
	OpLT Op = "<"
	OpLE Op = "<="
	OpGT Op = ">"
	OpGE Op = ">="
	OpEQ Op = "=="
)

// Valid reports whether op is one of the supported comparisons.
func (op Op) Valid() bool {
	switch op {
	case OpLT, OpLE, OpGT, OpGE, OpEQ:
		return true
	}
	return false
}

func (op Op) compare(a, b float64) bool {
	switch op {
	case OpLT:
		return a < b
	case OpLE:
		return a <= b
	case OpGT:
		return a > b
	case OpGE:
		return a >= b
	case OpEQ:
		return a == b
	}
	return false
}

// Filter returns a new Dataset holding exactly the rows whose column value
// satisfies `op value`, preserving the original relative order. The column
// must exist and be numeric; rows with no value for the column never match.
func Filter(d *Dataset, column string, op Op, value float64) (*Dataset, error) {
	f, ok := d.schema.Field(column)
	if !ok {
		return nil, &SchemaError{Column: column, Reason: "column not in schema"}
	}
	if !f.Type.Numeric() {
		return nil, &SchemaError{Column: column, Reason: "filter requires a numeric column, have " + f.Type.String()}
	}
	if !op.Valid() {
		return nil, &ValueError{Param: "op", Reason: "unsupported operator " + string(op)}
	}

	out := make([]Row, 0, len(d.rows))
	for _, r := range d.rows {
		n, ok := numeric(r[column])
		if ok && op.compare(n, value) {
			out = append(out, r)
		}
	}
	return New(d.schema, out), nil
}
