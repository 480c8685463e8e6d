package pipeline

import (
	"fmt"

	"go-trip-pipeline/internal/dataset"
	"go-trip-pipeline/pkg/utils"
)

// validateRecord checks a raw record against the declared schema and coerces
// every declared column to its scalar type. Columns the schema does not
// declare are dropped; a declared column that is missing or uncoercible
// rejects the record.
func validateRecord(rec rawRecord, schema dataset.Schema) (dataset.Row, error) {
	row := make(dataset.Row, len(schema))
	for _, f := range schema {
		raw, ok := rec[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing required field: %s", f.Name)
		}
		v, err := utils.Coerce(raw, f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		row[f.Name] = v
	}
	return row, nil
}
