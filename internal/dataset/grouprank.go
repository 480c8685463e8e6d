package dataset

import (
	"fmt"
	"sort"
)

// GroupCount is one ranked group: a key value and how many rows carried it.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GroupAndRank groups rows by exact value equality on keyColumn, counts the
// members of each group and returns the groups in descending count order.
// Ties keep the order in which the keys first appeared in the input. The
// counts always sum to d.Len().
func GroupAndRank(d *Dataset, keyColumn string) ([]GroupCount, error) {
	if !d.schema.Has(keyColumn) {
		return nil, &SchemaError{Column: keyColumn, Reason: "column not in schema"}
	}

	counts := make(map[string]int, 64)
	order := make([]string, 0, 64)
	for _, r := range d.rows {
		key := keyString(r[keyColumn])
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	out := make([]GroupCount, 0, len(order))
	for _, k := range order {
		out = append(out, GroupCount{Key: k, Count: counts[k]})
	}
	// Stable sort so equal counts keep first-seen order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out, nil
}

func keyString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
